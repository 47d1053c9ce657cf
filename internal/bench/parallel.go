package bench

import (
	"sync"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// ParallelFold splits the record stream across workers, each folding into
// its own aggregator, and merges the partial folds. Because Add and Merge
// commute, the result is identical to a sequential fold of the same records.
func ParallelFold(records []types.EvaluationRecord, workers int) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}
	if workers <= 1 {
		agg := NewAggregator()
		for _, rec := range records {
			agg.Add(rec)
		}
		return agg
	}

	// Ceil division can produce fewer chunks than workers when the counts
	// do not divide evenly, so chunks are walked rather than indexed by
	// worker number.
	chunk := (len(records) + workers - 1) / workers
	var partials []*Aggregator
	var wg sync.WaitGroup
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		agg := NewAggregator()
		partials = append(partials, agg)
		wg.Add(1)
		go func(agg *Aggregator, batch []types.EvaluationRecord) {
			defer wg.Done()
			for _, rec := range batch {
				agg.Add(rec)
			}
		}(agg, records[start:end])
	}
	wg.Wait()

	merged := partials[0]
	for _, p := range partials[1:] {
		merged.Merge(p)
	}
	return merged
}
