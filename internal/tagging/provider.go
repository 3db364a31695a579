package tagging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderAdapter translates between the tagger's prompt pair and one model
// family's wire format. Adapters own only the request/response shapes; prompt
// construction and retry logic never change when a backend is swapped.
type ProviderAdapter interface {
	CanHandle(modelID string) bool
	BuildRequestBody(systemPrompt, userPrompt string) ([]byte, error)
	ParseResponseText(raw []byte) (string, error)
}

var adapters = []ProviderAdapter{
	AnthropicAdapter{},
	NovaAdapter{},
}

// AdapterFor selects the first adapter that handles modelID.
func AdapterFor(modelID string) (ProviderAdapter, error) {
	for _, a := range adapters {
		if a.CanHandle(modelID) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, modelID)
}

// AnthropicAdapter speaks the Anthropic-on-Bedrock messages schema.
type AnthropicAdapter struct{}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	System           string             `json:"system"`
	Messages         []anthropicMessage `json:"messages"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	TopP             float64            `json:"top_p"`
}

func (AnthropicAdapter) CanHandle(modelID string) bool {
	return strings.HasPrefix(modelID, "anthropic")
}

func (AnthropicAdapter) BuildRequestBody(systemPrompt, userPrompt string) ([]byte, error) {
	return json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		System:           systemPrompt,
		Messages:         []anthropicMessage{{Role: "user", Content: userPrompt}},
		MaxTokens:        500,
		Temperature:      0.2,
		TopP:             0.9,
	})
}

func (AnthropicAdapter) ParseResponseText(raw []byte) (string, error) {
	var body struct {
		Content []struct {
			Text *string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", ErrInvalidResponseShape, err)
	}
	if len(body.Content) == 0 || body.Content[0].Text == nil {
		return "", fmt.Errorf("%w: anthropic", ErrInvalidResponseShape)
	}
	return *body.Content[0].Text, nil
}

// NovaAdapter speaks the Amazon Nova messages schema. Nova has no dedicated
// system slot, so the system prompt rides along as a leading user message.
type NovaAdapter struct{}

type novaContent struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []novaContent `json:"content"`
}

type novaRequest struct {
	Messages        []novaMessage `json:"messages"`
	InferenceConfig struct {
		MaxTokens     int      `json:"maxTokens"`
		StopSequences []string `json:"stopSequences"`
		Temperature   float64  `json:"temperature"`
		TopP          float64  `json:"topP"`
	} `json:"inferenceConfig"`
}

func (NovaAdapter) CanHandle(modelID string) bool {
	return strings.HasPrefix(modelID, "amazon.nova")
}

func (NovaAdapter) BuildRequestBody(systemPrompt, userPrompt string) ([]byte, error) {
	req := novaRequest{
		Messages: []novaMessage{
			{Role: "user", Content: []novaContent{{Text: systemPrompt}}},
			{Role: "user", Content: []novaContent{{Text: userPrompt}}},
		},
	}
	req.InferenceConfig.MaxTokens = 256
	req.InferenceConfig.StopSequences = []string{}
	req.InferenceConfig.Temperature = 0.2
	req.InferenceConfig.TopP = 0.8
	return json.Marshal(req)
}

func (NovaAdapter) ParseResponseText(raw []byte) (string, error) {
	var body struct {
		Output struct {
			Message struct {
				Content []struct {
					Text *string `json:"text"`
				} `json:"content"`
			} `json:"message"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("%w: nova: %v", ErrInvalidResponseShape, err)
	}
	content := body.Output.Message.Content
	if len(content) == 0 || content[0].Text == nil {
		return "", fmt.Errorf("%w: nova", ErrInvalidResponseShape)
	}
	return *content[0].Text, nil
}
