package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/spacesedan/newstagger/internal/tagging"
)

// bedrockInvoker is the InvokeModel surface of bedrockruntime.Client.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient invokes one Bedrock-hosted model family through its provider
// adapter. It implements tagging.ModelClient.
type BedrockClient struct {
	runtime bedrockInvoker
	adapter tagging.ProviderAdapter
	modelID string
}

// NewBedrockClient resolves the adapter for modelID; an unknown model family
// is a configuration error and surfaces as tagging.ErrUnsupportedProvider.
func NewBedrockClient(modelID string) (*BedrockClient, error) {
	adapter, err := tagging.AdapterFor(modelID)
	if err != nil {
		return nil, err
	}
	return &BedrockClient{
		runtime: GetBedrockRuntimeClient(),
		adapter: adapter,
		modelID: modelID,
	}, nil
}

func (c *BedrockClient) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := c.adapter.BuildRequestBody(systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("[BedrockClient] building request body: %w", err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var throttled *types.ThrottlingException
		if errors.As(err, &throttled) {
			slog.Warn("[BedrockClient] Model invocation throttled",
				slog.String("model_id", c.modelID))
			return "", fmt.Errorf("%w: %s", tagging.ErrThrottled, c.modelID)
		}
		return "", fmt.Errorf("[BedrockClient] invoking %s: %w", c.modelID, err)
	}

	return c.adapter.ParseResponseText(out.Body)
}
