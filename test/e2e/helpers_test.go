//go:build e2e

package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeJSONFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// groundTruthJSON renders a small but complete receipt for one ID. The
// totals are internally consistent so consistency checks pass.
func groundTruthJSON(seq int) string {
	return fmt.Sprintf(`{
  "merchant_name": "Biedronka %d",
  "date": "2025-03-14",
  "total_amount": %0.2f,
  "subtotal_amount": %0.2f,
  "tax_amount": 0.00,
  "items": [
    {"description": "Mleko UHT 2L", "quantity": 1, "total": %0.2f},
    {"description": "Chleb zytni", "quantity": 1, "total": 3.00}
  ]
}`, seq, float64(seq)+3.00, float64(seq)+3.00, float64(seq))
}

// noisyExtractionJSON is the same receipt with a fuzzy merchant name and a
// total inside the 0.01 tolerance.
func noisyExtractionJSON(seq int) string {
	return fmt.Sprintf(`{
  "merchant_name": "biedronka  %d",
  "date": "2025-03-14",
  "total_amount": %0.2f,
  "subtotal_amount": %0.2f,
  "tax_amount": 0.00,
  "items": [
    {"description": "Mleko UHT 2L", "quantity": 1, "total": %0.2f},
    {"description": "Chleb zytni", "quantity": 1, "total": 3.00}
  ]
}`, seq, float64(seq)+3.01, float64(seq)+3.00, float64(seq))
}
