// Package export emits the client-facing JSON bundle: one compact price
// series per symbol plus a manifest describing what was exported.
package export

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"MarketVault/internal/catalog"
	"MarketVault/internal/model"
)

type pricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// clientRecord mirrors what the web client expects; note `type`, not the
// manifest's `asset_type`.
type clientRecord struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Segment   string `json:"segment"`
	FirstDate string `json:"first_date"`
	LastDate  string `json:"last_date"`
}

type clientManifest struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Symbols     []clientRecord `json:"symbols"`
}

// Run rewrites outDir from the catalog: stale history files are removed
// first, then every symbol with usable closes gets history/SYMBOL.json and a
// manifest entry. Symbols with no close data are left out entirely.
func Run(cat *catalog.Catalog, outDir string) error {
	historyDir := filepath.Join(outDir, "history")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	stale, err := filepath.Glob(filepath.Join(historyDir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan export dir: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale export %s: %w", path, err)
		}
	}

	records := cat.ListSymbols(true)
	exported := make([]clientRecord, 0, len(records))
	for _, rec := range records {
		s := cat.History(rec.Symbol)
		if s == nil {
			log.Printf("[WARN] export: no history for %s", rec.Symbol)
			continue
		}
		points := project(s)
		if len(points) == 0 {
			log.Printf("[WARN] export: no usable closes for %s", rec.Symbol)
			continue
		}

		data, err := json.Marshal(points)
		if err != nil {
			return fmt.Errorf("encode %s: %w", rec.Symbol, err)
		}
		path := filepath.Join(historyDir, rec.Symbol+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		exported = append(exported, clientRecord{
			Symbol:    rec.Symbol,
			Name:      rec.Name,
			Type:      string(rec.AssetType),
			Segment:   rec.Segment,
			FirstDate: points[0].Date,
			LastDate:  points[len(points)-1].Date,
		})
	}

	payload, err := json.Marshal(clientManifest{
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Symbols:     exported,
	})
	if err != nil {
		return fmt.Errorf("encode client manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "manifest.json"), payload, 0644); err != nil {
		return fmt.Errorf("write client manifest: %w", err)
	}

	log.Printf("[INFO] exported %d symbols to %s", len(exported), outDir)
	return nil
}

// project flattens a series into date/price points. The raw close is
// preferred; series that only carry an adjusted close use that instead.
// Rows without a value are dropped, not gap-filled.
func project(s *model.Series) []pricePoint {
	var value func(model.Bar) float64
	switch {
	case s.HasClose:
		value = func(b model.Bar) float64 { return b.Close }
	case s.HasAdjClose:
		value = func(b model.Bar) float64 { return b.AdjClose }
	default:
		return nil
	}

	points := make([]pricePoint, 0, len(s.Bars))
	for _, b := range s.Bars {
		v := value(b)
		if math.IsNaN(v) {
			continue
		}
		points = append(points, pricePoint{Date: b.Date.String(), Price: v})
	}
	return points
}
