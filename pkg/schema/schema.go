package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// receiptSchema mirrors the ReceiptRecord wire shape. Every declared field is
// nullable; unknown keys are allowed because providers attach extras like
// store_address.
const receiptSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "merchant_name": {"type": ["string", "null"]},
    "date": {"type": ["string", "null"]},
    "time": {"type": ["string", "null"]},
    "total_amount": {"type": ["number", "null"]},
    "subtotal_amount": {"type": ["number", "null"]},
    "tax_amount": {"type": ["number", "null"]},
    "tax_percentage": {"type": ["number", "null"]},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": "string"},
          "quantity": {"type": "number"},
          "unit_price": {"type": ["number", "null"]},
          "total": {"type": "number"}
        },
        "required": ["description", "quantity", "total"]
      }
    },
    "payment_method": {"type": ["string", "null"]},
    "receipt_number": {"type": ["string", "null"]}
  }
}`

// ValidateRecord checks a raw receipt payload against the record schema and
// returns the violations, empty when the payload conforms.
func ValidateRecord(raw []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewStringLoader(receiptSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate receipt payload: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
