package openaiEmbedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/customHttpClient"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/upstream"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// client speaks the OpenAI embeddings api. A base url points it at any compatible
// server such as Ollama.
type client struct {
	api       openai.Client
	model     string
	dimension int
	guard     *upstream.Guard
	logger    *logger_i.Logger
}

func GetOpenAIEmbeddingClient(apiKey string, baseURL string, modelName string, dimension int, guard *upstream.Guard) embedding.Embedder {
	opts := []option.RequestOption{
		option.WithHTTPClient(customHttpClient.GetPooledClient()),
		// retries are owned by the guard
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	log := logger_i.NewLogger("openai_embedding")
	log.Info("OpenAI Embedding client created", "model", modelName, "baseURL", baseURL)
	return &client{
		api:       openai.NewClient(opts...),
		model:     modelName,
		dimension: dimension,
		guard:     guard,
		logger:    log,
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.doCall(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	results := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, config.OpenAIEmbeddingBatchLimit) {
		vectors, err := c.doCall(ctx, batch)
		if err != nil {
			c.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Error getting Embeddings from OpenAI", "error", err, "batch", len(batch))
			return nil, err
		}
		results = append(results, vectors...)
	}
	return results, nil
}

func (c *client) params(texts []string) openai.EmbeddingNewParams {
	p := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	}
	// only the v3 models accept a reduced output size
	if c.dimension > 0 && strings.HasPrefix(c.model, "text-embedding-3") {
		p.Dimensions = openai.Int(int64(c.dimension))
	}
	return p
}

func (c *client) doCall(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := upstream.Do(ctx, c.guard, func(ctx context.Context) (*openai.CreateEmbeddingResponse, error) {
		return c.api.Embeddings.New(ctx, c.params(texts))
	})
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, appErrors.NewUpstreamError(c.guard.Service(), fmt.Errorf("embedding index %d out of range", d.Index))
		}
		vectors[d.Index] = toFloat32(d.Embedding)
	}
	if err := embedding.CheckBatch(texts, vectors); err != nil {
		return nil, appErrors.NewUpstreamError(c.guard.Service(), err)
	}
	return vectors, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
