package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// pdfPageBudget bounds a single page; the pdf library can spin on malformed streams.
const pdfPageBudget = 10 * time.Second

var extractLogger = sync.OnceValue(func() *logger_i.Logger {
	return logger_i.NewLogger("Extraction")
})

// extractPDF returns one page per non-empty pdf page, numbered from 1. Pages that fail
// or run over budget are skipped and counted; the document fails only when ctx ends.
func extractPDF(ctx context.Context, path string) ([]corpusModel.Page, error) {
	log := extractLogger().With("path", path)
	doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	total := doc.NumPage()
	pages := make([]corpusModel.Page, 0, total)
	var skipped []int
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := doc.Page(n)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(ctx, p)
		if err != nil {
			log.Debug("Skipping pdf page", "page", n, "error", err)
			skipped = append(skipped, n)
			continue
		}
		if text = strings.ToValidUTF8(text, ""); strings.TrimSpace(text) == "" {
			continue
		}
		number := n
		pages = append(pages, corpusModel.Page{Text: text, PageNumber: &number})
	}

	if len(skipped) > 0 {
		log.Warn("Some pdf pages could not be read", "skipped", skipped, "pages", total)
	}
	return pages, nil
}

// pageText runs the extraction off the caller goroutine so a hung or panicking page
// costs at most pdfPageBudget.
func pageText(ctx context.Context, p pdf.Page) (string, error) {
	type outcome struct {
		text string
		err  error
	}
	ctx, cancel := context.WithTimeout(ctx, pdfPageBudget)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("pdf page panic: %v", r)}
			}
		}()
		text, err := p.GetPlainText(nil)
		ch <- outcome{text: text, err: err}
	}()

	select {
	case o := <-ch:
		return o.text, o.err
	case <-ctx.Done():
		return "", fmt.Errorf("reading page: %w", ctx.Err())
	}
}

// extractWordProcessor reads .docx, .odt and .rtf. These formats carry no stable page
// breaks, so the body becomes one unnumbered page.
func extractWordProcessor(path string) ([]corpusModel.Page, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return []corpusModel.Page{{Text: strings.ToValidUTF8(text, "")}}, nil
}
