package eval

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oleksandrenko/receiptbench/internal/compare"
	"github.com/oleksandrenko/receiptbench/internal/config"
	"github.com/oleksandrenko/receiptbench/internal/consistency"
	"github.com/oleksandrenko/receiptbench/pkg/schema"
	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// Evaluator turns one (ground truth, raw extraction) pair into an
// EvaluationRecord. It is stateless between calls and safe for concurrent
// use; identical inputs always produce identical records.
type Evaluator struct {
	comparator *compare.Comparator
	validator  *consistency.Validator
}

func New(cfg config.Config) (*Evaluator, error) {
	comparator, err := compare.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		comparator: comparator,
		validator:  consistency.New(cfg.DateFormats),
	}, nil
}

// Evaluate compares a raw extraction payload against ground truth. A payload
// that fails schema validation or strict decoding yields a failed record
// with the reason attached; it never returns an error, so one malformed
// extraction cannot abort a batch.
func (e *Evaluator) Evaluate(receiptID string, groundTruth types.ReceiptRecord, rawExtraction []byte, meta types.Metadata) types.EvaluationRecord {
	rec := types.EvaluationRecord{
		ReceiptID:      receiptID,
		Provider:       meta.Provider,
		PromptVersion:  meta.PromptVersion,
		ProcessingTime: meta.ProcessingTime,
		Cost:           meta.Cost,
	}

	extraction, err := parseExtraction(rawExtraction)
	if err != nil {
		rec.Failed = true
		rec.FailureReason = err.Error()
		return rec
	}

	items := e.comparator.Items("items", groundTruth.Items, extraction.Items)
	rec.Comparisons = []types.FieldComparison{
		e.comparator.Fuzzy("merchant_name", groundTruth.MerchantName, extraction.MerchantName),
		e.comparator.Date("date", groundTruth.Date, extraction.Date),
		e.comparator.Exact("time", groundTruth.Time, extraction.Time),
		e.comparator.Numeric("total_amount", groundTruth.TotalAmount, extraction.TotalAmount),
		e.comparator.Numeric("subtotal_amount", groundTruth.SubtotalAmount, extraction.SubtotalAmount),
		e.comparator.Numeric("tax_amount", groundTruth.TaxAmount, extraction.TaxAmount),
		e.comparator.Numeric("tax_percentage", groundTruth.TaxPercentage, extraction.TaxPercentage),
		e.comparator.Exact("payment_method", groundTruth.PaymentMethod, extraction.PaymentMethod),
		e.comparator.Exact("receipt_number", groundTruth.ReceiptNumber, extraction.ReceiptNumber),
		items.FieldComparison,
	}
	rec.SpuriousItems = items.Spurious

	// Ground truth is consistent by construction; only the extraction is
	// validated.
	validation := e.validator.Validate(extraction)
	rec.ConsistencyScore = validation.Score
	rec.ConsistencyChecks = validation.Checks

	rec.FieldAccuracy, rec.FuzzyAccuracy = accuracies(rec.Comparisons)
	return rec
}

// accuracies derives the two accuracy figures from the comparison sequence:
// the strict fraction counts only similarity-1 comparisons, the fuzzy
// fraction counts everything matched under the per-kind rules.
func accuracies(comparisons []types.FieldComparison) (field, fuzzy float64) {
	if len(comparisons) == 0 {
		return 0, 0
	}
	exact, matched := 0, 0
	for _, c := range comparisons {
		if c.Exact() {
			exact++
		}
		if c.Matched {
			matched++
		}
	}
	n := float64(len(comparisons))
	return float64(exact) / n, float64(matched) / n
}

func parseExtraction(raw []byte) (types.ReceiptRecord, error) {
	if len(raw) == 0 {
		return types.ReceiptRecord{}, fmt.Errorf("empty extraction payload")
	}
	if !json.Valid(raw) {
		return types.ReceiptRecord{}, fmt.Errorf("extraction payload is not valid JSON")
	}
	violations, err := schema.ValidateRecord(raw)
	if err != nil {
		return types.ReceiptRecord{}, err
	}
	if len(violations) > 0 {
		return types.ReceiptRecord{}, fmt.Errorf("extraction payload violates record schema: %s", strings.Join(violations, "; "))
	}
	return types.ParseRecord(raw)
}
