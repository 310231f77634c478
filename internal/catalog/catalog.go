// Package catalog is the read path over a built data directory: it resolves
// symbols to history files, loads and normalizes them on demand, and answers
// metadata queries from the manifests.
package catalog

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"MarketVault/internal/history"
	"MarketVault/internal/manifest"
	"MarketVault/internal/model"
	"MarketVault/internal/store"
)

// Catalog serves normalized history and manifest metadata for one data root.
// Loaded series are cached and shared between callers; do not mutate them.
type Catalog struct {
	stockDir  string
	cryptoDir string
	overrides map[string]string

	stockManifest model.Manifest

	mu    sync.Mutex
	cache map[string]*model.Series
	group singleflight.Group
}

// New creates a catalog over the stock and crypto directories. Overrides map
// symbols to hand-maintained history files that take precedence over both
// directories. The stock manifest is read once here; a missing or broken
// manifest leaves the catalog serving history with no stock metadata.
func New(stockDir, cryptoDir string, overrides map[string]string) *Catalog {
	c := &Catalog{
		stockDir:  stockDir,
		cryptoDir: cryptoDir,
		overrides: make(map[string]string, len(overrides)),
		cache:     make(map[string]*model.Series),
	}
	for symbol, path := range overrides {
		c.overrides[strings.ToUpper(strings.TrimSpace(symbol))] = path
	}

	m, err := manifest.Load(filepath.Join(stockDir, manifest.Filename))
	if err != nil {
		log.Printf("[WARN] load stock manifest: %v", err)
	}
	c.stockManifest = m
	return c
}

// ResolvePath finds the history file backing a symbol: overrides win, then
// the stock directory, then crypto, parquet before CSV. The first file that
// exists is the one.
func (c *Catalog) ResolvePath(symbol string) (string, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if path, ok := c.overrides[sym]; ok {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	candidates := []string{
		filepath.Join(c.stockDir, sym+".parquet"),
		filepath.Join(c.stockDir, sym+".csv"),
		filepath.Join(c.cryptoDir, sym+".parquet"),
		filepath.Join(c.cryptoDir, sym+".csv"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// History returns the normalized series for a symbol, loading it on first
// use. Concurrent readers of the same symbol share a single load. Missing,
// malformed, and dateless files yield nil and are retried on the next call,
// since a later build may have produced a good file by then.
func (c *Catalog) History(symbol string) *model.Series {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	c.mu.Lock()
	if s, ok := c.cache[sym]; ok {
		c.mu.Unlock()
		return s
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(sym, func() (interface{}, error) {
		s := c.load(sym)
		if s != nil {
			c.mu.Lock()
			c.cache[sym] = s
			c.mu.Unlock()
		}
		return s, nil
	})
	s, _ := v.(*model.Series)
	return s
}

func (c *Catalog) load(sym string) *model.Series {
	path, ok := c.ResolvePath(sym)
	if !ok {
		return nil
	}
	table, err := store.ReadTable(path)
	if err != nil {
		log.Printf("[WARN] read history %s: %v", path, err)
		return nil
	}
	s := history.Normalize(table, math.NaN())
	if s == nil {
		log.Printf("[WARN] history %s has no usable dates", path)
		return nil
	}
	return s
}

// FirstAvailableDate reports the earliest bar on record for a symbol.
func (c *Catalog) FirstAvailableDate(symbol string) (model.Date, bool) {
	s := c.History(symbol)
	if s == nil {
		return model.Date{}, false
	}
	return s.FirstDate()
}

// LatestMarketCap reports the most recent market cap for a symbol: the last
// stored figure when the history carries one, otherwise shares outstanding
// from the manifest times the latest valuation. A zero shares figure counts
// as unknown, same as the build path.
func (c *Catalog) LatestMarketCap(symbol string) (float64, bool) {
	s := c.History(symbol)
	if s == nil {
		return 0, false
	}
	if v, ok := s.LatestMarketCap(); ok {
		return v, true
	}
	rec, ok := c.Metadata(symbol)
	if !ok || rec.SharesOutstanding == nil || *rec.SharesOutstanding == 0 {
		return 0, false
	}
	v, ok := s.LatestValuation()
	if !ok {
		return 0, false
	}
	return *rec.SharesOutstanding * v, true
}

// ListSymbols returns the manifest entries sorted by symbol. The crypto
// manifest is re-read on every call; crypto builds run on their own cadence
// and long-lived readers should see their updates.
func (c *Catalog) ListSymbols(includeCrypto bool) []model.SymbolRecord {
	records := make([]model.SymbolRecord, 0, len(c.stockManifest.Symbols))
	records = append(records, c.stockManifest.Symbols...)
	if includeCrypto {
		records = append(records, c.cryptoRecords()...)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToUpper(records[i].Symbol) < strings.ToUpper(records[j].Symbol)
	})
	return records
}

// Metadata returns the manifest record for a symbol, stocks first.
func (c *Catalog) Metadata(symbol string) (model.SymbolRecord, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	for _, rec := range c.stockManifest.Symbols {
		if strings.ToUpper(rec.Symbol) == sym {
			return rec, true
		}
	}
	for _, rec := range c.cryptoRecords() {
		if strings.ToUpper(rec.Symbol) == sym {
			return rec, true
		}
	}
	return model.SymbolRecord{}, false
}

func (c *Catalog) cryptoRecords() []model.SymbolRecord {
	m, err := manifest.Load(filepath.Join(c.cryptoDir, manifest.Filename))
	if err != nil {
		log.Printf("[WARN] load crypto manifest: %v", err)
		return nil
	}
	return m.Symbols
}
