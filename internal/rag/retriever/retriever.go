package retriever

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

var errEmptyVector = errors.New("query embedding is empty")

type Retriever struct {
	embedder embedding.Embedder
	index    vectorDB.Index
	logger   *logger_i.Logger
}

func NewRetriever(embedder embedding.Embedder, index vectorDB.Index) *Retriever {
	return &Retriever{embedder: embedder, index: index, logger: logger_i.NewLogger("Retriever")}
}

// Retrieve returns up to k hits nearest first. A nil filter searches the whole corpus;
// an empty one searches nothing.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error) {
	if k <= 0 {
		return nil, appErrors.NewConfigurationError("k must be > 0, got %d", k)
	}

	start := time.Now()
	vector, err := r.embedder.GetEmbedding(ctx, query)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return nil, appErrors.NewUpstreamError("embedding", err)
	}
	if len(vector) == 0 {
		return nil, appErrors.NewUpstreamError("embedding", errEmptyVector)
	}

	start = time.Now()
	hits, err := r.index.Query(ctx, vector, k, filter)
	metrics.CaptureExecutionMetrics("vector_query", time.Since(start))
	if err != nil {
		return nil, appErrors.NewUpstreamError("vector_index", err)
	}

	r.logger.WithTrace(ctx, config.TRACE_ID_KEY).Debug("Retrieved", "hits", len(hits), "k", k, "filtered", filter != nil)
	return hits, nil
}
