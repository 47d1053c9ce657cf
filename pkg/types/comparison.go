package types

// ComparisonKind selects the rule used to compare one field pair.
type ComparisonKind string

const (
	KindExact           ComparisonKind = "exact"
	KindFuzzyString     ComparisonKind = "fuzzy-string"
	KindNumericTolerant ComparisonKind = "numeric-tolerant"
	KindDateNormalized  ComparisonKind = "date-normalized"
	KindListOfItems     ComparisonKind = "list-of-items"
)

// FieldComparison records the outcome of comparing one field of an extraction
// against ground truth. Expected and Actual are rendered for reporting; an
// absent value renders as the empty string.
type FieldComparison struct {
	FieldName  string         `json:"field_name"`
	Expected   string         `json:"expected"`
	Actual     string         `json:"actual"`
	Kind       ComparisonKind `json:"comparison_kind"`
	Matched    bool           `json:"matched"`
	Similarity float64        `json:"similarity"`
}

// Exact reports whether the comparison was a strict match. Similarity reaches
// 1 only when the normalized values are equal, so the strict field accuracy
// is derived from it rather than stored separately.
func (c FieldComparison) Exact() bool {
	return c.Similarity == 1
}
