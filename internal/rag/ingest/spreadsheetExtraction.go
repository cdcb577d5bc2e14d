package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/xuri/excelize/v2"
)

var errNoSheets = errors.New("workbook has no sheets")

// extractXLSX yields one page per worksheet in workbook order. Each row with content
// becomes one line of its non-empty cells joined by tabs. Cells are read as displayed,
// so dates and formatted numbers keep their number format. Sheets carry no page number.
func extractXLSX(filePath string) ([]corpusModel.Page, error) {
	wb, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer func() {
		if err := wb.Close(); err != nil {
			extractLogger().Warn("closing xlsx", "path", filePath, "error", err)
		}
	}()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	pages := make([]corpusModel.Page, 0, len(sheets))
	for _, name := range sheets {
		rows, err := wb.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		pages = append(pages, corpusModel.Page{Text: sheetText(rows)})
	}
	return pages, nil
}

func sheetText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.Join(lines, "\n")
}
