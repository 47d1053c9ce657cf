package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oleksandrenko/receiptbench/internal/prompt"
	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// OllamaExtractor runs a local model (deepseek-r1 by default) through the
// Ollama generate endpoint. Local inference carries zero marginal cost.
type OllamaExtractor struct {
	client  *http.Client
	baseURL string
	model   string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewOllamaExtractor(cfg OllamaConfig) *OllamaExtractor {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "deepseek-r1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OllamaExtractor{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		model:   model,
	}
}

func (e *OllamaExtractor) Name() string {
	return types.ProviderDeepSeekR1
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (e *OllamaExtractor) Extract(ctx context.Context, ocrText string, version prompt.Version) (json.RawMessage, Usage, error) {
	p, err := prompt.Extraction(version, ocrText, nil)
	if err != nil {
		return nil, Usage{}, err
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  e.model,
		Prompt: p,
		Stream: false,
		Options: map[string]any{
			"temperature": 0.1,
			"top_p":       0.9,
			"num_predict": 2048,
		},
	})
	if err != nil {
		return nil, Usage{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, Usage{}, fmt.Errorf("ollama: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, Usage{}, fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, Usage{}, fmt.Errorf("ollama: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, Usage{}, fmt.Errorf("ollama: decode response: %w", err)
	}
	usage := Usage{
		PromptTokens:     out.PromptEvalCount,
		CompletionTokens: out.EvalCount,
		Seconds:          time.Since(start).Seconds(),
	}
	raw, err := CarveJSON(out.Response)
	if err != nil {
		return nil, usage, err
	}
	return raw, usage, nil
}
