package consistency

import (
	"math"
	"strings"
	"time"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// Rule names, in evaluation order.
const (
	RuleItemsSumToTotal    = "items_sum_to_total"
	RuleDateNotFuture      = "date_not_future"
	RuleAmountsNotNegative = "amounts_not_negative"
	RuleMerchantPresent    = "merchant_present"
	RuleTaxMath            = "tax_math"
)

// Validator checks cross-field business rules on one extraction record and
// scores it as the fraction of rules that pass. A rule whose required fields
// are absent fails; it is never skipped, so scores stay comparable across
// records with different completeness.
type Validator struct {
	// Now is the evaluation run's clock, injectable for tests.
	Now func() time.Time
	// DateFormats are the layouts accepted when checking the date rule.
	DateFormats []string
}

func New(dateFormats []string) *Validator {
	return &Validator{Now: time.Now, DateFormats: dateFormats}
}

// Result is the consistency score plus the per-rule breakdown.
type Result struct {
	Score  float64
	Checks []types.ConsistencyCheck
}

func (v *Validator) Validate(rec types.ReceiptRecord) Result {
	checks := []types.ConsistencyCheck{
		{Name: RuleItemsSumToTotal, Passed: v.itemsSumToTotal(rec)},
		{Name: RuleDateNotFuture, Passed: v.dateNotFuture(rec)},
		{Name: RuleAmountsNotNegative, Passed: amountsNotNegative(rec)},
		{Name: RuleMerchantPresent, Passed: merchantPresent(rec)},
		{Name: RuleTaxMath, Passed: taxMath(rec)},
	}
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}
	return Result{
		Score:  float64(passed) / float64(len(checks)),
		Checks: checks,
	}
}

func (v *Validator) itemsSumToTotal(rec types.ReceiptRecord) bool {
	if rec.TotalAmount == nil {
		return false
	}
	sum := 0.0
	for _, it := range rec.Items {
		sum += it.Total
	}
	return math.Abs(sum-*rec.TotalAmount) <= 0.01
}

func (v *Validator) dateNotFuture(rec types.ReceiptRecord) bool {
	if rec.Date == nil {
		return false
	}
	raw := strings.TrimSpace(*rec.Date)
	for _, layout := range v.DateFormats {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		now := v.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return !t.After(today)
	}
	return false
}

func amountsNotNegative(rec types.ReceiptRecord) bool {
	for _, amount := range []*float64{rec.TotalAmount, rec.SubtotalAmount, rec.TaxAmount} {
		if amount != nil && *amount < 0 {
			return false
		}
	}
	for _, it := range rec.Items {
		if it.Total < 0 {
			return false
		}
		if it.UnitPrice != nil && *it.UnitPrice < 0 {
			return false
		}
	}
	return true
}

func merchantPresent(rec types.ReceiptRecord) bool {
	return rec.MerchantName != nil && strings.TrimSpace(*rec.MerchantName) != ""
}

func taxMath(rec types.ReceiptRecord) bool {
	if rec.TaxPercentage == nil || rec.SubtotalAmount == nil || rec.TotalAmount == nil {
		return false
	}
	implied := *rec.SubtotalAmount * (1 + *rec.TaxPercentage/100)
	if *rec.TotalAmount == 0 {
		return implied == 0
	}
	return math.Abs(implied-*rec.TotalAmount)/math.Abs(*rec.TotalAmount) <= 0.01
}
