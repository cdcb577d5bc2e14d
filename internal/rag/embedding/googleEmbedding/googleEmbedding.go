package googleEmbedding

import (
	"context"
	"fmt"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/customHttpClient"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/upstream"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"google.golang.org/genai"
)

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	guard     *upstream.Guard
	logger    *logger_i.Logger
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, dimension int32, guard *upstream.Guard) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetPooledClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}
	if dimension <= 0 {
		dimension = config.EmbeddingOutputDimensionality
	}
	log := logger_i.NewLogger("google_embedding")
	log.Info("Google Embedding client created", "model", modelName, "dimension", dimension)
	return &client{genAi: c, model: modelName, dimension: dimension, guard: guard, logger: log}, nil
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.doCall(ctx, []string{query}, taskQuery)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// BatchEmbedding sends at most GoogleEmbeddingBatchLimit texts per request.
func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, config.GoogleEmbeddingBatchLimit) {
		vectors, err := c.doCall(ctx, batch, taskDocument)
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err, "batch", len(batch))
			return nil, err
		}
		results = append(results, vectors...)
	}
	return results, nil
}

func (c *client) doCall(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	conf := &genai.EmbedContentConfig{OutputDimensionality: &c.dimension, TaskType: taskType}
	result, err := upstream.Do(ctx, c.guard, func(ctx context.Context) (*genai.EmbedContentResponse, error) {
		return c.genAi.Models.EmbedContent(ctx, c.model, getContent(texts), conf)
	})
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, e := range result.Embeddings {
		if e == nil {
			vectors = append(vectors, nil)
			continue
		}
		vectors = append(vectors, e.Values)
	}
	if err := embedding.CheckBatch(texts, vectors); err != nil {
		return nil, appErrors.NewUpstreamError(c.guard.Service(), err)
	}
	return vectors, nil
}
