// Package provider holds the extraction model clients. An Extractor turns
// OCR text into a raw JSON extraction; evaluation never sees the transport.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/oleksandrenko/receiptbench/internal/prompt"
)

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	Cost             float64
	Seconds          float64
}

type Extractor interface {
	// Extract runs one receipt through the model. The returned payload is
	// the carved JSON object, not the full completion text.
	Extract(ctx context.Context, ocrText string, version prompt.Version) (json.RawMessage, Usage, error)
	Name() string
}

// ErrNoJSON reports a completion with no JSON object in it.
var ErrNoJSON = errors.New("no JSON object in model response")

// CarveJSON cuts the first-{-to-last-} span out of a completion. Models
// wrap output in prose or markdown fences; the receipt object is always the
// outermost braces.
func CarveJSON(text string) (json.RawMessage, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSON
	}
	return json.RawMessage(text[start : end+1]), nil
}
