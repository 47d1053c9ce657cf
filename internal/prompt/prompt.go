// Package prompt owns the closed set of extraction prompt versions and
// renders the template for each. Adding a version means adding a template
// here; nothing downstream switches on version content.
package prompt

import (
	"encoding/json"
	"fmt"
)

type Version string

const (
	V1Basic    Version = "v1"
	V2Detailed Version = "v2"
	V3CoT      Version = "v3"
)

func Versions() []Version {
	return []Version{V1Basic, V2Detailed, V3CoT}
}

func Parse(s string) (Version, error) {
	for _, v := range Versions() {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown prompt version %q (known: v1, v2, v3)", s)
}

// jsonSkeleton is the output shape every template demands. Keeping one copy
// guarantees all versions ask for the same fields.
const jsonSkeleton = `{
  "merchant_name": "Store name",
  "date": "YYYY-MM-DD",
  "time": "HH:MM",
  "total_amount": 0.00,
  "subtotal_amount": 0.00,
  "tax_amount": 0.00,
  "tax_percentage": 0.0,
  "items": [{
    "description": "Item",
    "quantity": 1.0,
    "unit_price": 0.00,
    "total": 0.00
  }],
  "payment_method": null,
  "receipt_number": null
}`

// Extraction renders the prompt for one receipt. baseline is an earlier
// extraction the model should correct; pass nil when there is none.
func Extraction(v Version, ocrText string, baseline json.RawMessage) (string, error) {
	base := "{}"
	if len(baseline) > 0 {
		base = string(baseline)
	}
	switch v {
	case V1Basic:
		return fmt.Sprintf(`Extract and optimize receipt data from OCR text.

OCR TEXT:
%s

PREVIOUS EXTRACTION:
%s

Return corrected JSON:
%s

Return ONLY JSON.`, ocrText, base, jsonSkeleton), nil

	case V2Detailed:
		return fmt.Sprintf(`You are an expert receipt analyzer. Review this OCR text and the previous extraction, then provide optimized JSON.

OCR TEXT:
%s

PREVIOUS EXTRACTION:
%s

Verify and optimize:
1. Merchant name: fix OCR errors (e.g. "5tesco" -> "Tesco")
2. Date: must be YYYY-MM-DD; watch for DD/MM/YYYY and MM-DD-YYYY sources
3. Items: all items listed, quantities and prices matching the OCR text
4. Math: items sum to subtotal, subtotal + tax = total (within 0.01)
5. Payment method: look for "CARD", "CASH", "CONTACTLESS"

Return corrected JSON with this structure:
%s

Rules:
- Return ONLY valid JSON, no other text and no markdown code blocks
- All numeric values must be valid numbers
- Dates must be exactly YYYY-MM-DD
- If unsure about a field, use null`, ocrText, base, jsonSkeleton), nil

	case V3CoT:
		return fmt.Sprintf(`Analyze this receipt step by step.

OCR TEXT:
%s

PREVIOUS EXTRACTION:
%s

Step 1: identify the merchant name (top line, large text) and fix OCR errors.
Step 2: find the transaction date and convert it to YYYY-MM-DD.
Step 3: list every item with description, quantity, unit price, and total.
Step 4: verify the subtotal equals the sum of item totals.
Step 5: identify tax lines ("TAX", "VAT", "GST") and derive the percentage.
Step 6: verify subtotal + tax = total within 0.01; re-check values if not.
Step 7: extract the payment method ("CARD", "CASH", "CONTACTLESS").

Return ONLY this JSON structure, no markdown and no explanation:
%s`, ocrText, base, jsonSkeleton), nil
	}
	return "", fmt.Errorf("unknown prompt version %q", v)
}
