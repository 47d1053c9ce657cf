package report

import (
	"encoding/json"
	"os"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

func WriteJSON(path string, r types.BenchmarkReport) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
