package gemini

import (
	"context"
	"fmt"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/customHttpClient"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/llm"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/upstream"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
	guard       *upstream.Guard
	logger      *logger_i.Logger
}

func GetGeminiClient(ctx context.Context, modelName string, apikey string, temperature float32, guard *upstream.Guard) (llm.Provider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetPooledClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	log := logger_i.NewLogger("llm_gemini")
	log.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, temperature: temperature, guard: guard, logger: log}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := c.logger.WithTrace(ctx, config.TRACE_ID_KEY)

	contentConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}

	result, err := upstream.Do(ctx, c.guard, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), contentConfig)
	})
	if err != nil {
		log.Error("Error generating content", "error", err)
		return "", err
	}
	if result == nil {
		return "", appErrors.NewUpstreamError(c.guard.Service(), llm.ErrEmptyCompletion)
	}

	text, err := llm.Finalize(result.Text())
	if err != nil {
		return "", appErrors.NewUpstreamError(c.guard.Service(), err)
	}
	return text, nil
}
