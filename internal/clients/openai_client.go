package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spacesedan/newstagger/internal/tagging"
)

var (
	openAIClientInstance *openai.Client
	openAIOnce           sync.Once
)

func GetOpenAIClient() *openai.Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		panic("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
	}
	openAIOnce.Do(func() {
		openAIClientInstance = openai.NewClient(option.WithAPIKey(apiKey))
		slog.Info("[OpenAIClient] OpenAI client initialized")
	})
	return openAIClientInstance
}

// OpenAIModelClient runs the tagging prompts against an OpenAI chat model.
// It implements tagging.ModelClient.
type OpenAIModelClient struct {
	client  *openai.Client
	modelID string
}

func NewOpenAIModelClient(modelID string) *OpenAIModelClient {
	return &OpenAIModelClient{
		client:  GetOpenAIClient(),
		modelID: strings.TrimPrefix(modelID, "openai."),
	}
}

func (c *OpenAIModelClient) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(userPrompt),
			}),
			Model:       openai.F(c.modelID),
			Temperature: openai.Float(0.2),
			TopP:        openai.Float(0.9),
			MaxTokens:   openai.Int(500),
		})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			slog.Warn("[OpenAIClient] Rate limited", slog.String("model_id", c.modelID))
			return "", fmt.Errorf("%w: %s", tagging.ErrThrottled, c.modelID)
		}
		return "", fmt.Errorf("[OpenAIClient] completion for %s: %w", c.modelID, err)
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: openai", tagging.ErrInvalidResponseShape)
	}

	return completion.Choices[0].Message.Content, nil
}
