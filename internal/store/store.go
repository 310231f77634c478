// Package store reads and writes the per-symbol history files that make up
// the cache: parquet for canonical files, CSV for hand-maintained ones.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"MarketVault/internal/model"
)

// storageRow is the fixed on-disk schema of a canonical history file. Cells
// a series does not carry are stored as NaN.
type storageRow struct {
	Date      string  `parquet:"date"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	AdjClose  float64 `parquet:"adj_close"`
	Volume    float64 `parquet:"volume"`
	MarketCap float64 `parquet:"market_cap"`
}

var storageColumns = []string{
	model.ColDate, model.ColOpen, model.ColHigh, model.ColLow,
	model.ColClose, model.ColAdjClose, model.ColVolume, model.ColMarketCap,
}

// WriteSeries persists a series as a parquet file. The file is written to a
// temp name in the destination directory and renamed into place, so a
// crashed build never leaves a half-written file under the final name.
func WriteSeries(path string, s *model.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*.parquet")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	rows := make([]storageRow, len(s.Bars))
	for i, b := range s.Bars {
		rows[i] = storageRow{
			Date:      b.Date.String(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			AdjClose:  b.AdjClose,
			Volume:    b.Volume,
			MarketCap: b.MarketCap,
		}
	}

	w := parquet.NewGenericWriter[storageRow](tmp)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			cleanup()
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadTable loads a history file back into raw tabular form, dispatching on
// the file extension. Parquet files come back with the canonical columns;
// CSV files come back exactly as written, ragged rows included.
func ReadTable(path string) (model.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return readParquet(path)
	case ".csv":
		return readCSV(path)
	}
	return model.Table{}, fmt.Errorf("unsupported history file %s", path)
}

func readParquet(path string) (model.Table, error) {
	rows, err := parquet.ReadFile[storageRow](path)
	if err != nil {
		return model.Table{}, fmt.Errorf("read parquet %s: %w", path, err)
	}
	t := model.Table{Columns: storageColumns, Rows: make([][]string, len(rows))}
	for i, r := range rows {
		t.Rows[i] = []string{
			r.Date,
			model.FormatFloat(r.Open),
			model.FormatFloat(r.High),
			model.FormatFloat(r.Low),
			model.FormatFloat(r.Close),
			model.FormatFloat(r.AdjClose),
			model.FormatFloat(r.Volume),
			model.FormatFloat(r.MarketCap),
		}
	}
	return t, nil
}

func readCSV(path string) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return model.Table{}, nil
	}
	return model.Table{Columns: records[0], Rows: records[1:]}, nil
}
