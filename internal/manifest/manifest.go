// Package manifest builds and persists the per-directory symbol manifests.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"MarketVault/internal/model"
)

// Filename is the manifest's name inside each asset directory.
const Filename = "manifest.json"

// Build assembles a manifest from the records of one build pass. Entries are
// sorted by symbol and stamped with the generation time; the result replaces
// any previous manifest wholesale.
func Build(records []model.SymbolRecord) model.Manifest {
	sorted := make([]model.SymbolRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToUpper(sorted[i].Symbol) < strings.ToUpper(sorted[j].Symbol)
	})
	return model.Manifest{
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		SymbolCount: len(sorted),
		Symbols:     sorted,
	}
}

// Write persists the manifest as indented JSON via a temp file and rename,
// so readers never observe a half-written manifest.
func Write(path string, m model.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// Load reads a manifest from disk. A missing file is an empty manifest, not
// an error. Both the regular object payload and a bare array of records are
// accepted, since hand-maintained manifests sometimes ship as plain lists.
func Load(path string) (model.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Manifest{}, nil
		}
		return model.Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []model.SymbolRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return model.Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
		}
		return model.Manifest{SymbolCount: len(records), Symbols: records}, nil
	}

	var m model.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
