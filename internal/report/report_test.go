package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

func sampleReport() types.BenchmarkReport {
	return types.BenchmarkReport{
		RunID:        "0b7a3f1e-1d2c-4b5a-9f8e-7c6d5e4f3a2b",
		GeneratedAt:  "2025-06-15T10:30:00Z",
		TotalRecords: 6,
		Summaries: []types.BenchmarkSummary{
			{
				Provider:         types.ProviderDeepSeekR1,
				PromptVersion:    "v2",
				Count:            3,
				FailureCount:     1,
				FailureRate:      1.0 / 3.0,
				FieldAccuracy:    types.Stat{Mean: 0.65, P50: 0.6, P95: 0.7},
				FuzzyAccuracy:    types.Stat{Mean: 0.75, P50: 0.7, P95: 0.8},
				ConsistencyScore: types.Stat{Mean: 0.8, P50: 0.8, P95: 0.8},
				ProcessingTime:   types.Stat{Mean: 4.2, P50: 4.0, P95: 4.9},
				TotalCost:        0,
			},
			{
				Provider:         types.ProviderGPT4oMini,
				PromptVersion:    "v1",
				Count:            3,
				FieldAccuracy:    types.Stat{Mean: 0.9, P50: 0.9, P95: 1.0},
				FuzzyAccuracy:    types.Stat{Mean: 0.95, P50: 1.0, P95: 1.0},
				ConsistencyScore: types.Stat{Mean: 1.0, P50: 1.0, P95: 1.0},
				ProcessingTime:   types.Stat{Mean: 1.3, P50: 1.2, P95: 1.5},
				TotalCost:        0.00123,
				SpuriousItems:    1,
			},
		},
		Rankings: []types.Ranking{
			{Provider: types.ProviderGPT4oMini, PromptVersion: "v1", Reason: types.ReasonBestAccuracy},
			{Provider: types.ProviderDeepSeekR1, PromptVersion: "v2", Reason: types.ReasonBestCost},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(sampleReport())

	if !strings.Contains(md, "# Receipt Extraction Benchmark Report") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "Run ID: `0b7a3f1e") {
		t.Error("missing run id")
	}
	if !strings.Contains(md, "Records Evaluated: `6`") {
		t.Error("missing record count")
	}
	if !strings.Contains(md, "## Summaries") {
		t.Error("missing summaries section")
	}
	if !strings.Contains(md, "gpt4o_mini") || !strings.Contains(md, "deepseek_r1") {
		t.Error("missing provider rows")
	}
	if !strings.Contains(md, "0.9000 / 0.9000 / 1.0000") {
		t.Error("missing field accuracy stats")
	}
	if !strings.Contains(md, "## Rankings") {
		t.Error("missing rankings section")
	}
	if !strings.Contains(md, "| 1 | gpt4o_mini | v1 | best_accuracy |") {
		t.Error("missing ranked row")
	}
}

func TestBuildMarkdown_EscapesPipes(t *testing.T) {
	r := sampleReport()
	r.Summaries[0].Provider = "weird|provider"
	md := BuildMarkdown(r)
	if !strings.Contains(md, `weird\|provider`) {
		t.Error("pipe in provider name should be escaped")
	}
}

func TestBuildMarkdown_NoRankings(t *testing.T) {
	r := sampleReport()
	r.Rankings = nil
	md := BuildMarkdown(r)
	if strings.Contains(md, "## Rankings") {
		t.Error("rankings section should be omitted when empty")
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	want := sampleReport()
	if err := WriteJSON(path, want); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got types.BenchmarkReport
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != want.RunID || got.TotalRecords != want.TotalRecords {
		t.Errorf("round trip lost metadata: %+v", got)
	}
	if len(got.Summaries) != 2 || got.Summaries[1].TotalCost != 0.00123 {
		t.Errorf("round trip lost summaries: %+v", got.Summaries)
	}
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := WriteMarkdown(path, sampleReport()); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "# Receipt Extraction Benchmark Report") {
		t.Error("file should start with report title")
	}
}
