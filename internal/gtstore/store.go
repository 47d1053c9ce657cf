// Package gtstore loads ground-truth receipt records from a directory of
// JSON files, one file per receipt, named <receipt-id>.json.
package gtstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oleksandrenko/receiptbench/pkg/types"
)

// ErrNotFound reports a receipt ID with no ground-truth file. Callers
// distinguish it from parse errors because a missing ground truth is a
// wiring problem, not a bad extraction.
var ErrNotFound = errors.New("ground truth not found")

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open ground-truth dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open ground-truth dir: %s is not a directory", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Load(receiptID string) (types.ReceiptRecord, error) {
	path := filepath.Join(s.dir, receiptID+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.ReceiptRecord{}, fmt.Errorf("receipt %s: %w", receiptID, ErrNotFound)
		}
		return types.ReceiptRecord{}, fmt.Errorf("read ground truth %s: %w", receiptID, err)
	}
	rec, err := types.ParseRecord(raw)
	if err != nil {
		return types.ReceiptRecord{}, fmt.Errorf("parse ground truth %s: %w", receiptID, err)
	}
	return rec, nil
}

// List is sorted so enumeration order never depends on the filesystem.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list ground-truth dir: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
