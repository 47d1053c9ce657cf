package bench

import (
	"testing"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

func summary(provider, version string, accuracy, seconds, cost float64) types.BenchmarkSummary {
	return types.BenchmarkSummary{
		Provider:       provider,
		PromptVersion:  version,
		FieldAccuracy:  types.Stat{Mean: accuracy},
		ProcessingTime: types.Stat{Mean: seconds},
		TotalCost:      cost,
	}
}

func TestRankOrdersByAccuracy(t *testing.T) {
	rankings := Rank([]types.BenchmarkSummary{
		summary(types.ProviderDeepSeekR1, "v2", 0.75, 4.0, 0.0001),
		summary(types.ProviderGPT4oMini, "v1", 0.92, 1.5, 0.0040),
		summary(types.ProviderGPT4oMini, "v2", 0.88, 1.4, 0.0040),
	})
	if len(rankings) != 3 {
		t.Fatalf("rankings = %d, want 3", len(rankings))
	}
	if rankings[0].Provider != types.ProviderGPT4oMini || rankings[0].PromptVersion != "v1" {
		t.Errorf("first = %+v, want gpt4o_mini v1", rankings[0])
	}
	if rankings[0].Reason != types.ReasonBestAccuracy {
		t.Errorf("first reason = %q, want %q", rankings[0].Reason, types.ReasonBestAccuracy)
	}
	// deepseek is both cheapest and, at rank 3, slowest; gpt v2 is fastest.
	if rankings[1].Reason != types.ReasonBestSpeed {
		t.Errorf("second reason = %q, want %q", rankings[1].Reason, types.ReasonBestSpeed)
	}
	if rankings[2].Reason != types.ReasonBestCost {
		t.Errorf("third reason = %q, want %q", rankings[2].Reason, types.ReasonBestCost)
	}
}

func TestRankTieBreaks(t *testing.T) {
	// Equal accuracy: faster wins; equal speed too: cheaper wins.
	rankings := Rank([]types.BenchmarkSummary{
		summary("b", "v1", 0.9, 2.0, 0.002),
		summary("a", "v1", 0.9, 2.0, 0.001),
		summary("c", "v1", 0.9, 1.0, 0.003),
	})
	want := []string{"c", "a", "b"}
	for i, r := range rankings {
		if r.Provider != want[i] {
			t.Errorf("rankings[%d] = %s, want %s", i, r.Provider, want[i])
		}
	}
}

func TestRankFullTieIsDeterministic(t *testing.T) {
	in := []types.BenchmarkSummary{
		summary("b", "v2", 0.9, 2.0, 0.002),
		summary("b", "v1", 0.9, 2.0, 0.002),
		summary("a", "v9", 0.9, 2.0, 0.002),
	}
	first := Rank(in)
	second := Rank([]types.BenchmarkSummary{in[2], in[0], in[1]})
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tie order is input-dependent: %+v vs %+v", first, second)
		}
	}
	if first[0].Provider != "a" || first[1].PromptVersion != "v1" {
		t.Errorf("ties should break on group key: %+v", first)
	}
}

func TestRankBestAccuracyOutranksOtherTags(t *testing.T) {
	// One group wins every dimension; it keeps best_accuracy and the other
	// tags fall to the runners-up in their dimensions.
	rankings := Rank([]types.BenchmarkSummary{
		summary("a", "v1", 0.95, 1.0, 0.001),
		summary("b", "v1", 0.80, 2.0, 0.002),
		summary("c", "v1", 0.70, 3.0, 0.003),
	})
	if rankings[0].Reason != types.ReasonBestAccuracy {
		t.Errorf("winner reason = %q, want best_accuracy", rankings[0].Reason)
	}
	for _, r := range rankings[1:] {
		if r.Reason == types.ReasonBestSpeed || r.Reason == types.ReasonBestCost {
			t.Errorf("runner-up %s should not carry %q when the winner leads that dimension", r.Provider, r.Reason)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); got != nil {
		t.Errorf("Rank(nil) = %+v, want nil", got)
	}
}
