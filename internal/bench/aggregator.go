package bench

import (
	"sort"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// Aggregator folds evaluation records into per-group accumulators. Add and
// Merge are commutative and associative over the (provider, prompt_version)
// key: any permutation or partition of the same record stream produces the
// same summaries. An Aggregator is single-writer; parallel folds each own
// one and merge at the end (see ParallelFold).
type Aggregator struct {
	groups map[types.GroupKey]*accumulator
}

// accumulator keeps per-record scalars, never the records themselves, so
// memory grows with samples per group rather than record payloads.
type accumulator struct {
	count       int
	failures    int
	fieldAcc    []float64
	fuzzyAcc    []float64
	consistency []float64
	procTime    []float64
	costs       []float64
	spuriousSum int
}

func NewAggregator() *Aggregator {
	return &Aggregator{groups: make(map[types.GroupKey]*accumulator)}
}

// Accuracy samples come only from records that evaluated successfully;
// count, failures, timing, and cost cover every record.
func (a *Aggregator) Add(rec types.EvaluationRecord) {
	key := types.GroupKey{Provider: rec.Provider, PromptVersion: rec.PromptVersion}
	acc := a.groups[key]
	if acc == nil {
		acc = &accumulator{}
		a.groups[key] = acc
	}
	acc.count++
	acc.costs = append(acc.costs, rec.Cost)
	acc.procTime = append(acc.procTime, rec.ProcessingTime)
	if rec.Failed {
		acc.failures++
		return
	}
	acc.fieldAcc = append(acc.fieldAcc, rec.FieldAccuracy)
	acc.fuzzyAcc = append(acc.fuzzyAcc, rec.FuzzyAccuracy)
	acc.consistency = append(acc.consistency, rec.ConsistencyScore)
	acc.spuriousSum += rec.SpuriousItems
}

// The other aggregator must not be used after Merge.
func (a *Aggregator) Merge(other *Aggregator) {
	for key, src := range other.groups {
		dst := a.groups[key]
		if dst == nil {
			a.groups[key] = src
			continue
		}
		dst.count += src.count
		dst.failures += src.failures
		dst.fieldAcc = append(dst.fieldAcc, src.fieldAcc...)
		dst.fuzzyAcc = append(dst.fuzzyAcc, src.fuzzyAcc...)
		dst.consistency = append(dst.consistency, src.consistency...)
		dst.procTime = append(dst.procTime, src.procTime...)
		dst.costs = append(dst.costs, src.costs...)
		dst.spuriousSum += src.spuriousSum
	}
}

// Summaries are ordered by (provider, prompt_version) so output is stable
// regardless of fold order.
func (a *Aggregator) Summaries() []types.BenchmarkSummary {
	keys := make([]types.GroupKey, 0, len(a.groups))
	for key := range a.groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Provider != keys[j].Provider {
			return keys[i].Provider < keys[j].Provider
		}
		return keys[i].PromptVersion < keys[j].PromptVersion
	})

	summaries := make([]types.BenchmarkSummary, 0, len(keys))
	for _, key := range keys {
		acc := a.groups[key]
		summaries = append(summaries, types.BenchmarkSummary{
			Provider:         key.Provider,
			PromptVersion:    key.PromptVersion,
			Count:            acc.count,
			FailureCount:     acc.failures,
			FailureRate:      float64(acc.failures) / float64(acc.count),
			FieldAccuracy:    stat(acc.fieldAcc),
			FuzzyAccuracy:    stat(acc.fuzzyAcc),
			ConsistencyScore: stat(acc.consistency),
			ProcessingTime:   stat(acc.procTime),
			TotalCost:        sortedSum(acc.costs),
			SpuriousItems:    acc.spuriousSum,
		})
	}
	return summaries
}

// sortedSum adds samples in sorted order. Floating-point addition is not
// associative, so summing in arrival order would make totals depend on how
// the fold was partitioned.
func sortedSum(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return sum
}

func stat(samples []float64) types.Stat {
	if len(samples) == 0 {
		return types.Stat{}
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return types.Stat{
		Mean: sum / float64(len(sorted)),
		P50:  percentile(sorted, 0.50),
		P95:  percentile(sorted, 0.95),
	}
}

// percentile is nearest-rank on an already sorted slice.
func percentile(sorted []float64, q float64) float64 {
	rank := int(float64(len(sorted)) * q)
	if float64(len(sorted))*q > float64(rank) {
		rank++
	}
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
