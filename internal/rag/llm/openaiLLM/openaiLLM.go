package openaiLLM

import (
	"context"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/customHttpClient"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/llm"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/upstream"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api         openai.Client
	modelName   string
	temperature float32
	guard       *upstream.Guard
	logger      *logger_i.Logger
}

// GetOpenAIClient talks to the chat completions api. With a base url it serves any
// OpenAI compatible endpoint, Ollama included.
func GetOpenAIClient(apiKey string, baseURL string, modelName string, temperature float32, guard *upstream.Guard) llm.Provider {
	opts := []option.RequestOption{
		option.WithHTTPClient(customHttpClient.GetPooledClient()),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	log := logger_i.NewLogger("llm_openai")
	log.Info("OpenAI client created", "model", modelName, "baseURL", baseURL)
	return &llmClient{
		api:         openai.NewClient(opts...),
		modelName:   modelName,
		temperature: temperature,
		guard:       guard,
		logger:      log,
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.modelName),
		Temperature: openai.Float(float64(c.temperature)),
	}

	res, err := upstream.Do(ctx, c.guard, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return c.api.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		c.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Error generating completion", "error", err)
		return "", err
	}
	if res == nil || len(res.Choices) == 0 {
		return "", appErrors.NewUpstreamError(c.guard.Service(), llm.ErrEmptyCompletion)
	}

	text, err := llm.Finalize(res.Choices[0].Message.Content)
	if err != nil {
		return "", appErrors.NewUpstreamError(c.guard.Service(), err)
	}
	return text, nil
}
