package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
)

// Extractor turns a stored file into ordered page-level text blocks.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]corpusModel.Page, error)
}

type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

func getDocType(docPath string) corpusModel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return corpusModel.PDF
	case ".docx", ".odt", ".rtf":
		return corpusModel.DOCX
	case ".xlsx":
		return corpusModel.XLSX
	case ".pptx":
		return corpusModel.PPTX
	default:
		return corpusModel.TEXT
	}
}

func (e *FileExtractor) Extract(ctx context.Context, path string) ([]corpusModel.Page, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docType := getDocType(path)
	extractLogger().Debug("extracting document", "path", path, "type", docType)
	switch docType {
	case corpusModel.PDF:
		return extractPDF(ctx, path)
	case corpusModel.DOCX:
		return extractWordProcessor(path)
	case corpusModel.XLSX:
		return extractXLSX(path)
	case corpusModel.PPTX:
		return extractPPTX(path)
	default:
		return extractPlainText(path)
	}
}

// extractPlainText is the fallback for every unrecognised type: utf-8 with invalid bytes dropped.
func extractPlainText(path string) ([]corpusModel.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return []corpusModel.Page{{Text: strings.ToValidUTF8(string(data), "")}}, nil
}
