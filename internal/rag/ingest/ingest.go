package ingest

import (
	"context"
	"fmt"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

// Indexer embeds the chunks of one document and replaces its vectors.
type Indexer interface {
	IndexDocument(ctx context.Context, documentId string, chunks []corpusModel.Chunk) error
}

// StepFunc is told whenever the pipeline moves to a new stage.
type StepFunc func(step jobModel.InternalStatus)

type Pipeline struct {
	store     corpusModel.DocumentStore
	extractor Extractor
	chunker   *Chunker
	indexer   Indexer
	logger    *logger_i.Logger
}

func NewPipeline(store corpusModel.DocumentStore, extractor Extractor, chunker *Chunker, indexer Indexer) *Pipeline {
	return &Pipeline{
		store:     store,
		extractor: extractor,
		chunker:   chunker,
		indexer:   indexer,
		logger:    logger_i.NewLogger("Document Ingestion"),
	}
}

// ProcessDocument moves a stored document through UPLOADED -> PARSED -> INDEXED.
// Any failure marks the document FAILED with the error text and is returned.
func (p *Pipeline) ProcessDocument(ctx context.Context, documentId string, onStep StepFunc) (int, error) {
	if onStep == nil {
		onStep = func(jobModel.InternalStatus) {}
	}
	log := p.logger.With("documentId", documentId)

	doc, err := p.store.GetDocument(ctx, documentId)
	if err != nil {
		return 0, err
	}

	onStep(jobModel.Extraction)
	pages, err := p.extractor.Extract(ctx, doc.StoragePath)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return 0, p.fail(ctx, documentId, fmt.Errorf("extract %s: %w", doc.Filename, err))
	}
	log.Debug("Processing document", "pages", len(pages))

	onStep(jobModel.Chunking)
	chunks := p.chunker.ChunkPages(documentId, pages)
	if err := p.store.ReplaceChunks(ctx, documentId, chunks); err != nil {
		log.Error("Error saving chunks", "error", err)
		return 0, p.fail(ctx, documentId, err)
	}
	log.Debug("Processing document", "chunks", len(chunks))

	onStep(jobModel.Indexing)
	if err := p.indexer.IndexDocument(ctx, documentId, chunks); err != nil {
		log.Error("Error indexing document", "error", err)
		return 0, p.fail(ctx, documentId, err)
	}

	if err := p.store.SetDocumentStatus(ctx, documentId, corpusModel.DocumentIndexed, ""); err != nil {
		log.Error("Error marking document indexed", "error", err)
		return 0, p.fail(ctx, documentId, err)
	}
	log.Info("Document indexed", "chunks", len(chunks))
	return len(chunks), nil
}

func (p *Pipeline) fail(ctx context.Context, documentId string, cause error) error {
	if err := p.store.SetDocumentStatus(context.WithoutCancel(ctx), documentId, corpusModel.DocumentFailed, cause.Error()); err != nil {
		p.logger.Error("Could not mark document failed", "documentId", documentId, "error", err)
	}
	return cause
}
