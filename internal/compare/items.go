package compare

import (
	"fmt"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// ItemsComparison carries the list-of-items field comparison plus the count
// of actual items no ground-truth item claimed. Spurious items are reported,
// never subtracted from accuracy; the matching loss is already captured by
// the ground-truth items they displaced.
type ItemsComparison struct {
	types.FieldComparison
	Spurious int
}

// Items aligns extracted line items to ground truth by greedy best
// description similarity (no item reused), then scores each aligned pair
// with the numeric-tolerant rule on the line total. Unmatched ground-truth
// items score 0.
func (c *Comparator) Items(field string, expected, actual []types.LineItem) ItemsComparison {
	cmp := types.FieldComparison{
		FieldName: field,
		Expected:  fmt.Sprintf("%d items", len(expected)),
		Actual:    fmt.Sprintf("%d items", len(actual)),
		Kind:      types.KindListOfItems,
	}
	switch {
	case len(expected) == 0 && len(actual) == 0:
		cmp.Matched = true
		cmp.Similarity = 1
		return ItemsComparison{FieldComparison: cmp}
	case len(expected) == 0:
		// Nothing to miss; extras are reported as spurious only.
		cmp.Matched = true
		cmp.Similarity = 1
		return ItemsComparison{FieldComparison: cmp, Spurious: len(actual)}
	case len(actual) == 0:
		return ItemsComparison{FieldComparison: cmp}
	}

	pairs := c.alignItems(expected, actual)
	total := 0.0
	allMatched := len(pairs) == len(expected)
	for _, p := range pairs {
		pairCmp := c.Numeric(field, &expected[p.expected].Total, &actual[p.actual].Total)
		total += pairCmp.Similarity
		if !pairCmp.Matched {
			allMatched = false
		}
	}
	cmp.Similarity = total / float64(len(expected))
	cmp.Matched = allMatched
	return ItemsComparison{
		FieldComparison: cmp,
		Spurious:        len(actual) - len(pairs),
	}
}

type itemPair struct {
	expected int
	actual   int
}

// alignItems pairs ground-truth and actual items greedily by highest
// description similarity at or above the configured minimum. Ties resolve by
// lowest (expected, actual) index so alignment is deterministic.
func (c *Comparator) alignItems(expected, actual []types.LineItem) []itemPair {
	type scored struct {
		itemPair
		sim float64
	}
	candidates := make([]scored, 0, len(expected)*len(actual))
	for i := range expected {
		for j := range actual {
			sim := StringSimilarity(expected[i].Description, actual[j].Description)
			if sim >= c.cfg.ListItemMatchMinSimilarity {
				candidates = append(candidates, scored{itemPair{i, j}, sim})
			}
		}
	}

	usedExpected := make(map[int]bool, len(expected))
	usedActual := make(map[int]bool, len(actual))
	pairs := make([]itemPair, 0, len(expected))
	for len(pairs) < len(expected) && len(pairs) < len(actual) {
		best := -1
		for k, cand := range candidates {
			if usedExpected[cand.expected] || usedActual[cand.actual] {
				continue
			}
			// Candidates are generated in (expected, actual) ascending
			// order, so strict comparison keeps ties on the lowest index.
			if best == -1 || cand.sim > candidates[best].sim {
				best = k
			}
		}
		if best == -1 {
			break
		}
		usedExpected[candidates[best].expected] = true
		usedActual[candidates[best].actual] = true
		pairs = append(pairs, candidates[best].itemPair)
	}
	return pairs
}
