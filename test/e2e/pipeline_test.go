//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/oleksandrenko/receiptbench/internal/bench"
	"github.com/oleksandrenko/receiptbench/internal/config"
	"github.com/oleksandrenko/receiptbench/internal/eval"
	"github.com/oleksandrenko/receiptbench/internal/gtstore"
	"github.com/oleksandrenko/receiptbench/internal/report"
	"github.com/oleksandrenko/receiptbench/pkg/types"
)

func TestFullPipeline_EvaluateAggregateReport(t *testing.T) {
	gtDir := t.TempDir()
	for i := 1; i <= 5; i++ {
		writeJSONFile(t, gtDir, fmt.Sprintf("receipt_%03d.json", i), groundTruthJSON(i))
	}

	store, err := gtstore.New(gtDir)
	if err != nil {
		t.Fatal(err)
	}
	ids, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 5 {
		t.Fatalf("ids = %v", ids)
	}

	evaluator, err := eval.New(config.Default())
	if err != nil {
		t.Fatal(err)
	}

	// Two providers per receipt: one byte-perfect, one noisy.
	var records []types.EvaluationRecord
	for i, id := range ids {
		groundTruth, err := store.Load(id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		records = append(records,
			evaluator.Evaluate(id, groundTruth, []byte(groundTruthJSON(i+1)), types.Metadata{
				Provider:      types.ProviderGPT4oMini,
				PromptVersion: "v1",
			}),
			evaluator.Evaluate(id, groundTruth, []byte(noisyExtractionJSON(i+1)), types.Metadata{
				Provider:      types.ProviderDeepSeekR1,
				PromptVersion: "v2",
			}),
		)
	}

	agg := bench.ParallelFold(records, 3)
	summaries := agg.Summaries()
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2 groups", len(summaries))
	}
	for _, s := range summaries {
		if s.Count != 5 || s.FailureCount != 0 {
			t.Errorf("group %s/%s count = %d failures = %d", s.Provider, s.PromptVersion, s.Count, s.FailureCount)
		}
	}

	rankings := bench.Rank(summaries)
	if rankings[0].Provider != types.ProviderGPT4oMini {
		t.Errorf("top ranking = %+v, want the byte-perfect provider", rankings[0])
	}
	if rankings[0].Reason != types.ReasonBestAccuracy {
		t.Errorf("top reason = %q", rankings[0].Reason)
	}

	outDir := t.TempDir()
	r := types.BenchmarkReport{
		RunID:        "e2e-run",
		GeneratedAt:  "2025-06-15T10:30:00Z",
		TotalRecords: len(records),
		Summaries:    summaries,
		Rankings:     rankings,
	}
	jsonPath := filepath.Join(outDir, "benchmark.json")
	if err := report.WriteJSON(jsonPath, r); err != nil {
		t.Fatal(err)
	}
	mdPath := filepath.Join(outDir, "benchmark.md")
	if err := report.WriteMarkdown(mdPath, r); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var loaded types.BenchmarkReport
	if err := json.Unmarshal(raw, &loaded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Summaries, summaries) {
		t.Error("summaries changed across JSON round trip")
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "gpt4o_mini") || !strings.Contains(string(md), "## Rankings") {
		t.Error("markdown report incomplete")
	}
}

func TestFullPipeline_Deterministic(t *testing.T) {
	gtDir := t.TempDir()
	writeJSONFile(t, gtDir, "receipt_001.json", groundTruthJSON(1))

	store, err := gtstore.New(gtDir)
	if err != nil {
		t.Fatal(err)
	}
	groundTruth, err := store.Load("receipt_001")
	if err != nil {
		t.Fatal(err)
	}
	evaluator, err := eval.New(config.Default())
	if err != nil {
		t.Fatal(err)
	}

	meta := types.Metadata{Provider: types.ProviderDeepSeekR1, PromptVersion: "v2"}
	first := evaluator.Evaluate("receipt_001", groundTruth, []byte(noisyExtractionJSON(1)), meta)
	second := evaluator.Evaluate("receipt_001", groundTruth, []byte(noisyExtractionJSON(1)), meta)

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(firstJSON) != string(secondJSON) {
		t.Error("repeated evaluation is not byte-identical")
	}
}
