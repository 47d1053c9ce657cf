package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReceiptRecord is the shared shape for ground-truth and extracted receipts.
// Pointer fields distinguish an absent value from a zero value; both an
// omitted key and an explicit null decode to nil.
type ReceiptRecord struct {
	MerchantName   *string    `json:"merchant_name"`
	Date           *string    `json:"date"`
	Time           *string    `json:"time"`
	TotalAmount    *float64   `json:"total_amount"`
	SubtotalAmount *float64   `json:"subtotal_amount"`
	TaxAmount      *float64   `json:"tax_amount"`
	TaxPercentage  *float64   `json:"tax_percentage"`
	Items          []LineItem `json:"items"`
	PaymentMethod  *string    `json:"payment_method"`
	ReceiptNumber  *string    `json:"receipt_number"`
}

type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       float64  `json:"total"`
}

const (
	PaymentCard  = "card"
	PaymentCash  = "cash"
	PaymentOther = "other"
)

// ParseRecord decodes a raw payload into a ReceiptRecord. Extraction output
// from LLM providers carries extra keys (store address, phone); those are
// ignored, but a payload that is not a JSON object or carries wrongly typed
// declared fields is rejected.
func ParseRecord(raw []byte) (ReceiptRecord, error) {
	var rec ReceiptRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ReceiptRecord{}, fmt.Errorf("parse receipt record: %w", err)
	}
	if rec.PaymentMethod != nil {
		normalized := NormalizePaymentMethod(*rec.PaymentMethod)
		rec.PaymentMethod = &normalized
	}
	return rec, nil
}

// NormalizePaymentMethod folds a raw payment string into the closed
// card/cash/other set. Providers emit values like "phone" or "contactless";
// anything not recognized counts as other.
func NormalizePaymentMethod(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case PaymentCard:
		return PaymentCard
	case PaymentCash:
		return PaymentCash
	default:
		return PaymentOther
	}
}
