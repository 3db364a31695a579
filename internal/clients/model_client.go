package clients

import (
	"fmt"
	"strings"

	"github.com/spacesedan/newstagger/internal/tagging"
)

// NewModelClient picks the model backend for a model id: Bedrock families go
// through their provider adapters, OpenAI ids through the chat API. No match
// is a configuration error, not a transient one.
func NewModelClient(modelID string) (tagging.ModelClient, error) {
	switch {
	case strings.HasPrefix(modelID, "anthropic"), strings.HasPrefix(modelID, "amazon.nova"):
		return NewBedrockClient(modelID)
	case strings.HasPrefix(modelID, "openai."), strings.HasPrefix(modelID, "gpt-"):
		return NewOpenAIModelClient(modelID), nil
	default:
		return nil, fmt.Errorf("%w: %s", tagging.ErrUnsupportedProvider, modelID)
	}
}
