package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

func BuildMarkdown(r types.BenchmarkReport) string {
	var b strings.Builder
	b.WriteString("# Receipt Extraction Benchmark Report\n\n")
	b.WriteString(fmt.Sprintf("- Run ID: `%s`\n", r.RunID))
	b.WriteString(fmt.Sprintf("- Generated At: `%s`\n", r.GeneratedAt))
	b.WriteString(fmt.Sprintf("- Records Evaluated: `%d`\n\n", r.TotalRecords))

	b.WriteString("## Summaries\n\n")
	b.WriteString("| Provider | Prompt | Count | Failures | Field Acc (mean/p50/p95) | Fuzzy Acc (mean) | Consistency (mean) | Time s (mean/p95) | Total Cost $ | Spurious |\n")
	b.WriteString("|---|---|---:|---:|---|---:|---:|---|---:|---:|\n")
	for _, s := range r.Summaries {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %.4f / %.4f / %.4f | %.4f | %.4f | %.2f / %.2f | %.6f | %d |\n",
			escapePipes(s.Provider), escapePipes(s.PromptVersion),
			s.Count, s.FailureCount,
			s.FieldAccuracy.Mean, s.FieldAccuracy.P50, s.FieldAccuracy.P95,
			s.FuzzyAccuracy.Mean,
			s.ConsistencyScore.Mean,
			s.ProcessingTime.Mean, s.ProcessingTime.P95,
			s.TotalCost, s.SpuriousItems))
	}

	if len(r.Rankings) > 0 {
		b.WriteString("\n## Rankings\n\n")
		b.WriteString("| Rank | Provider | Prompt | Reason |\n")
		b.WriteString("|---:|---|---|---|\n")
		for i, rk := range r.Rankings {
			reason := rk.Reason
			if reason == "" {
				reason = "-"
			}
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				i+1, escapePipes(rk.Provider), escapePipes(rk.PromptVersion), reason))
		}
	}

	return b.String()
}

func WriteMarkdown(path string, r types.BenchmarkReport) error {
	return os.WriteFile(path, []byte(BuildMarkdown(r)), 0o644)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
