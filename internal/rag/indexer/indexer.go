package indexer

import (
	"context"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

const indexService = "vector_index"

// Invalidator flags corpus-wide projects whose answers no longer reflect the corpus.
type Invalidator interface {
	MarkCorpusProjectsOutdated(ctx context.Context) ([]string, error)
}

type Indexer struct {
	embedder    embedding.Embedder
	index       vectorDB.Index
	invalidator Invalidator
	logger      *logger_i.Logger
}

func NewIndexer(embedder embedding.Embedder, index vectorDB.Index, invalidator Invalidator) *Indexer {
	return &Indexer{
		embedder:    embedder,
		index:       index,
		invalidator: invalidator,
		logger:      logger_i.NewLogger("Indexer"),
	}
}

// IndexDocument replaces the document's vectors with the given chunk set and then
// invalidates every ALL_DOCS project. An empty chunk set skips the embedding call
// but still clears old vectors and invalidates.
func (i *Indexer) IndexDocument(ctx context.Context, documentId string, chunks []corpusModel.Chunk) error {
	log := i.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("documentId", documentId)

	if err := i.timed("vector_delete", func() error { return i.index.DeleteDocument(ctx, documentId) }); err != nil {
		return appErrors.NewUpstreamError(indexService, err)
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for idx, c := range chunks {
			texts[idx] = c.Text
		}

		var vectors [][]float32
		err := i.timed("embedding", func() error {
			var err error
			vectors, err = i.embedder.BatchEmbedding(ctx, texts)
			return err
		})
		if err != nil {
			return appErrors.NewUpstreamError("embedding", err)
		}
		if err := embedding.CheckBatch(texts, vectors); err != nil {
			return appErrors.NewUpstreamError("embedding", err)
		}

		records := make([]corpusModel.IndexRecord, len(chunks))
		for idx, c := range chunks {
			records[idx] = corpusModel.NewIndexRecord(c, vectors[idx])
		}
		if err := i.timed("vector_upsert", func() error { return i.index.Upsert(ctx, records) }); err != nil {
			return appErrors.NewUpstreamError(indexService, err)
		}
	}

	outdated, err := i.invalidator.MarkCorpusProjectsOutdated(ctx)
	if err != nil {
		return appErrors.NewPersistenceError("mark corpus projects outdated", err)
	}
	log.Info("Document indexed", "chunks", len(chunks), "outdatedProjects", len(outdated))
	return nil
}

func (i *Indexer) timed(label string, fn func() error) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics(label, time.Since(start)) }()
	return fn()
}
