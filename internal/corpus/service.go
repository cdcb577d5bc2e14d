package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

// Service stores uploaded files under the storage path and registers them as UPLOADED
// documents. Ingestion itself runs elsewhere.
type Service struct {
	store       corpusModel.DocumentStore
	storagePath string
	now         func() time.Time
	logger      *logger_i.Logger
}

func NewService(store corpusModel.DocumentStore, storagePath string) *Service {
	return &Service{
		store:       store,
		storagePath: storagePath,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger_i.NewLogger("Corpus Service"),
	}
}

// Save copies r to {storage}/{id}_{filename} and creates the document row.
func (s *Service) Save(ctx context.Context, filename string, contentType string, r io.Reader) (corpusModel.Document, error) {
	doc, err := s.newDocument(filename, contentType)
	if err != nil {
		return doc, err
	}

	dst, err := os.Create(doc.StoragePath)
	if err != nil {
		return doc, fmt.Errorf("failed to create %s: %w", doc.StoragePath, err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(doc.StoragePath)
		return doc, fmt.Errorf("failed to write %s: %w", doc.StoragePath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(doc.StoragePath)
		return doc, fmt.Errorf("failed to write %s: %w", doc.StoragePath, err)
	}
	return s.register(ctx, doc)
}

// Adopt moves an existing file into storage. Rename is tried first; across file systems
// the file is copied and the source removed.
func (s *Service) Adopt(ctx context.Context, srcPath string) (corpusModel.Document, error) {
	doc, err := s.newDocument(filepath.Base(srcPath), "")
	if err != nil {
		return doc, err
	}
	if err := os.Rename(srcPath, doc.StoragePath); err != nil {
		src, openErr := os.Open(srcPath)
		if openErr != nil {
			return doc, fmt.Errorf("failed to open %s: %w", srcPath, openErr)
		}
		doc, err = s.Save(ctx, doc.Filename, doc.ContentType, src)
		src.Close()
		if err != nil {
			return doc, err
		}
		if err := os.Remove(srcPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not remove adopted file", "path", srcPath, "error", err)
		}
		return doc, nil
	}
	return s.register(ctx, doc)
}

func (s *Service) Get(ctx context.Context, id string) (corpusModel.Document, error) {
	return s.store.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]corpusModel.Document, error) {
	return s.store.ListDocuments(ctx)
}

func (s *Service) newDocument(filename string, contentType string) (corpusModel.Document, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return corpusModel.Document{}, appErrors.NewValidation("file", "a file name is required")
	}
	if err := os.MkdirAll(s.storagePath, 0750); err != nil {
		return corpusModel.Document{}, fmt.Errorf("storage path %s: %w", s.storagePath, err)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := utils.GetNewUUID()
	return corpusModel.Document{
		Id:          id,
		Filename:    name,
		ContentType: contentType,
		Status:      corpusModel.DocumentUploaded,
		StoragePath: filepath.Join(s.storagePath, id+"_"+name),
		CreatedAt:   s.now(),
	}, nil
}

func (s *Service) register(ctx context.Context, doc corpusModel.Document) (corpusModel.Document, error) {
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		os.Remove(doc.StoragePath)
		return doc, err
	}
	s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Info("Document stored", "documentId", doc.Id, "filename", doc.Filename)
	return doc, nil
}
