package bench

import (
	"sort"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// Rank orders summaries by mean field accuracy descending, breaking ties by
// mean processing time ascending, then total cost ascending, then group key,
// so an order is never arbitrary. The best group by each dimension carries a
// reason tag; a group qualifying for several keeps the most significant one
// (accuracy over speed over cost).
func Rank(summaries []types.BenchmarkSummary) []types.Ranking {
	if len(summaries) == 0 {
		return nil
	}
	ordered := make([]types.BenchmarkSummary, len(summaries))
	copy(ordered, summaries)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.FieldAccuracy.Mean != b.FieldAccuracy.Mean {
			return a.FieldAccuracy.Mean > b.FieldAccuracy.Mean
		}
		if a.ProcessingTime.Mean != b.ProcessingTime.Mean {
			return a.ProcessingTime.Mean < b.ProcessingTime.Mean
		}
		if a.TotalCost != b.TotalCost {
			return a.TotalCost < b.TotalCost
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.PromptVersion < b.PromptVersion
	})

	fastest := 0
	cheapest := 0
	for i, s := range ordered[1:] {
		if s.ProcessingTime.Mean < ordered[fastest].ProcessingTime.Mean {
			fastest = i + 1
		}
		if s.TotalCost < ordered[cheapest].TotalCost {
			cheapest = i + 1
		}
	}

	rankings := make([]types.Ranking, 0, len(ordered))
	for i, s := range ordered {
		r := types.Ranking{Provider: s.Provider, PromptVersion: s.PromptVersion}
		switch {
		case i == 0:
			r.Reason = types.ReasonBestAccuracy
		case i == fastest:
			r.Reason = types.ReasonBestSpeed
		case i == cheapest:
			r.Reason = types.ReasonBestCost
		}
		rankings = append(rankings, r)
	}
	return rankings
}
