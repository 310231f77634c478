package universe

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"MarketVault/internal/model"
)

// LoadCandidates reads the candidate pool CSV. The file needs symbol and
// name columns (any casing); symbols are uppercased and trimmed, blanks and
// repeats dropped. A missing file is seeded with the built-in default list
// and that list is returned, so a first run works without any hand-prepared
// input. A file that exists but cannot be parsed is an error: a malformed
// pool means a silently wrong universe.
func LoadCandidates(path string) ([]model.Candidate, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if werr := WriteTemplate(path); werr != nil {
			return nil, fmt.Errorf("write candidate template: %w", werr)
		}
		log.Printf("[INFO] wrote template candidate list to %s; review, edit, and rerun for precise control", path)
		return DefaultCandidates(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open candidate file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse candidate file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("candidate file %s is empty", path)
	}

	symbolIdx, nameIdx := -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "symbol":
			if symbolIdx < 0 {
				symbolIdx = i
			}
		case "name":
			if nameIdx < 0 {
				nameIdx = i
			}
		}
	}
	if symbolIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("candidate file %s must contain columns: name, symbol", path)
	}

	seen := make(map[string]bool)
	candidates := make([]model.Candidate, 0, len(records)-1)
	for _, row := range records[1:] {
		if symbolIdx >= len(row) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(row[symbolIdx]))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		name := ""
		if nameIdx < len(row) {
			name = strings.TrimSpace(row[nameIdx])
		}
		candidates = append(candidates, model.Candidate{Symbol: symbol, Name: name})
	}
	return candidates, nil
}

// WriteTemplate writes the default candidate list as a CSV at path, creating
// parent directories as needed.
func WriteTemplate(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "name"}); err != nil {
		return err
	}
	for _, c := range DefaultCandidates() {
		if err := w.Write([]string{c.Symbol, c.Name}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
