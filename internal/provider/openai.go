package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/oleksandrenko/receiptbench/internal/prompt"
	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// gpt-4o-mini list pricing per token, USD.
const (
	openaiPromptCost     = 0.15 / 1e6
	openaiCompletionCost = 0.60 / 1e6
)

// OpenAIExtractor runs extractions through the gpt-4o-mini chat endpoint.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

func NewOpenAIExtractor(apiKey string) (*OpenAIExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	return &OpenAIExtractor{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}, nil
}

func (e *OpenAIExtractor) Name() string {
	return types.ProviderGPT4oMini
}

func (e *OpenAIExtractor) Extract(ctx context.Context, ocrText string, version prompt.Version) (json.RawMessage, Usage, error) {
	p, err := prompt.Extraction(version, ocrText, nil)
	if err != nil {
		return nil, Usage{}, err
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: p},
		},
	})
	if err != nil {
		return nil, Usage{}, fmt.Errorf("openai completion: %w", err)
	}
	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		Seconds:          time.Since(start).Seconds(),
	}
	usage.Cost = float64(usage.PromptTokens)*openaiPromptCost +
		float64(usage.CompletionTokens)*openaiCompletionCost

	if len(resp.Choices) == 0 {
		return nil, usage, errors.New("openai completion: no choices")
	}
	raw, err := CarveJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, usage, err
	}
	return raw, usage, nil
}
