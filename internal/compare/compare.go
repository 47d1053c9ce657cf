package compare

import (
	"fmt"
	"math"
	"strconv"

	"github.com/oleksandrenko/receiptbench/internal/config"
	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// Comparator compares single (expected, actual) field pairs under type-aware
// rules. It holds tuning only, no per-comparison state, so one value may be
// shared across goroutines.
type Comparator struct {
	cfg config.Config
}

func New(cfg config.Config) (*Comparator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("comparator config: %w", err)
	}
	return &Comparator{cfg: cfg}, nil
}

func (c *Comparator) Exact(field string, expected, actual *string) types.FieldComparison {
	if cmp, done := absence(field, types.KindExact, expected == nil, actual == nil, deref(expected), deref(actual)); done {
		return cmp
	}
	sim := 0.0
	if NormalizeString(*expected) == NormalizeString(*actual) {
		sim = 1
	}
	return types.FieldComparison{
		FieldName:  field,
		Expected:   *expected,
		Actual:     *actual,
		Kind:       types.KindExact,
		Matched:    sim == 1,
		Similarity: sim,
	}
}

func (c *Comparator) Fuzzy(field string, expected, actual *string) types.FieldComparison {
	if cmp, done := absence(field, types.KindFuzzyString, expected == nil, actual == nil, deref(expected), deref(actual)); done {
		return cmp
	}
	sim := StringSimilarity(*expected, *actual)
	return types.FieldComparison{
		FieldName:  field,
		Expected:   *expected,
		Actual:     *actual,
		Kind:       types.KindFuzzyString,
		Matched:    sim >= c.cfg.FuzzyThreshold,
		Similarity: sim,
	}
}

// Numeric matches iff |expected-actual| stays within
// max(absolute_tolerance, relative_tolerance*|expected|). Similarity is
// 1 - min(1, relative error).
func (c *Comparator) Numeric(field string, expected, actual *float64) types.FieldComparison {
	if cmp, done := absence(field, types.KindNumericTolerant, expected == nil, actual == nil, formatNumber(expected), formatNumber(actual)); done {
		return cmp
	}
	diff := math.Abs(*expected - *actual)
	tolerance := math.Max(c.cfg.NumericAbsoluteTolerance, c.cfg.NumericRelativeTolerance*math.Abs(*expected))
	var relErr float64
	switch {
	case diff == 0:
		relErr = 0
	case *expected == 0:
		relErr = 1
	default:
		relErr = diff / math.Abs(*expected)
	}
	return types.FieldComparison{
		FieldName:  field,
		Expected:   formatNumber(expected),
		Actual:     formatNumber(actual),
		Kind:       types.KindNumericTolerant,
		Matched:    diff <= tolerance,
		Similarity: 1 - math.Min(1, relErr),
	}
}

// Date matches iff both values canonicalize to the same calendar day under
// the configured formats. A value that fails or is ambiguous under the
// configured formats makes the comparison a non-match with similarity 0.
func (c *Comparator) Date(field string, expected, actual *string) types.FieldComparison {
	if cmp, done := absence(field, types.KindDateNormalized, expected == nil, actual == nil, deref(expected), deref(actual)); done {
		return cmp
	}
	cmp := types.FieldComparison{
		FieldName: field,
		Expected:  *expected,
		Actual:    *actual,
		Kind:      types.KindDateNormalized,
	}
	expDate, expOK := parseDate(*expected, c.cfg.DateFormats)
	actDate, actOK := parseDate(*actual, c.cfg.DateFormats)
	if !expOK || !actOK {
		return cmp
	}
	if expDate == actDate {
		cmp.Matched = true
		cmp.Similarity = 1
	}
	return cmp
}

// absence applies the shared absent-value rules: both absent is always a
// match, any present/absent mix is a non-match with similarity 0. The bool
// reports whether the comparison was decided here.
func absence(field string, kind types.ComparisonKind, expAbsent, actAbsent bool, expText, actText string) (types.FieldComparison, bool) {
	if !expAbsent && !actAbsent {
		return types.FieldComparison{}, false
	}
	cmp := types.FieldComparison{
		FieldName: field,
		Expected:  expText,
		Actual:    actText,
		Kind:      kind,
	}
	if expAbsent && actAbsent {
		cmp.Matched = true
		cmp.Similarity = 1
	}
	return cmp, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
