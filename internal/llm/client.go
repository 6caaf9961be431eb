package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"llm-chat-demo/backend/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

// Message is one conversation turn forwarded to a provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProviderConfig holds the credentials and endpoint for one provider
type ProviderConfig struct {
	APIKey  string
	BaseURL string
}

// Client streams chat completions from hosted providers. All providers
// speak the OpenAI wire format; DeepSeek is reached through a base URL
// override.
type Client struct {
	providers map[Provider]ProviderConfig
	log       *logger.Logger
}

// NewClient creates a streaming completion client
func NewClient(providers map[Provider]ProviderConfig, log *logger.Logger) *Client {
	return &Client{
		providers: providers,
		log:       log,
	}
}

// StreamCompletion opens a streaming completion for the given binding
// and invokes onChunk for every delta as it arrives. It returns the
// accumulated text; on a mid-stream failure the text gathered so far is
// returned alongside the error.
func (c *Client) StreamCompletion(ctx context.Context, binding Binding, messages []Message, onChunk func(string) error) (string, error) {
	providerCfg, ok := c.providers[binding.Provider]
	if !ok {
		return "", fmt.Errorf("no configuration for provider %q", binding.Provider)
	}

	cfg := openai.DefaultConfig(providerCfg.APIKey)
	if providerCfg.BaseURL != "" {
		cfg.BaseURL = providerCfg.BaseURL
	}
	client := openai.NewClientWithConfig(cfg)

	llmMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch strings.ToLower(msg.Role) {
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		case "system":
			role = openai.ChatMessageRoleSystem
		default:
			role = openai.ChatMessageRoleUser
		}
		llmMessages = append(llmMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    binding.Model,
		Messages: llmMessages,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open completion stream for %s: %w", binding.Model, err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		response, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return full.String(), fmt.Errorf("stream receive failed for %s: %w", binding.Model, recvErr)
		}

		if len(response.Choices) == 0 {
			continue
		}
		content := response.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		full.WriteString(content)
		if err := onChunk(content); err != nil {
			return full.String(), err
		}
	}

	return full.String(), nil
}
