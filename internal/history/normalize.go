// Package history turns raw provider tables into canonical daily series.
package history

import (
	"math"
	"sort"
	"strings"

	"MarketVault/internal/model"
)

// slot identifies which canonical column a source column feeds.
type slot int

const (
	slotExtra slot = iota
	slotOpen
	slotHigh
	slotLow
	slotClose
	slotAdjClose
	slotVolume
	slotMarketCap
)

// classifyColumn maps a source column name onto its canonical slot.
// Matching is case-insensitive with surrounding whitespace ignored.
func classifyColumn(name string) slot {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "open":
		return slotOpen
	case "high":
		return slotHigh
	case "low":
		return slotLow
	case "close":
		return slotClose
	case "adj close", "adj_close", "adjclose", "adjusted close":
		return slotAdjClose
	case "volume":
		return slotVolume
	case "marketcap", "market_cap":
		return slotMarketCap
	}
	return slotExtra
}

// dateColumn locates the date column: any column literally named "date"
// (leftmost wins), else a first column whose name marks it as a serialized
// frame index. Tables with neither have no usable dates at all.
func dateColumn(cols []string) (int, bool) {
	for i, name := range cols {
		if strings.ToLower(strings.TrimSpace(name)) == "date" {
			return i, true
		}
	}
	if len(cols) > 0 {
		switch strings.ToLower(strings.TrimSpace(cols[0])) {
		case "", "unnamed: 0", "__index_level_0__":
			return 0, true
		}
	}
	return 0, false
}

// Normalize converts a raw table into a canonical series: rows with
// unparseable dates are dropped, the remainder is sorted ascending with the
// last occurrence winning on duplicate days, recognized columns are mapped
// case-insensitively, and anything unrecognized passes through untouched.
//
// When the table carries no market-cap column and sharesOutstanding is
// known, a market cap is derived per row from the bar's valuation price
// (adjusted close when set, close otherwise) times the share count. With no
// shares figure the series simply carries no market-cap column.
//
// A nil result means the table carried no usable dates: either no
// identifiable date column, or no row whose date survived parsing. Callers
// treat nil as absent history, never as an empty-but-present series. The
// function is deterministic and idempotent: normalizing a series' own Table
// projection reproduces the series.
func Normalize(t model.Table, sharesOutstanding float64) *model.Series {
	dateIdx, ok := dateColumn(t.Columns)
	if !ok {
		return nil
	}

	// First matching column claims a slot; repeats pass through as extras.
	slots := make([]slot, len(t.Columns))
	taken := make(map[slot]bool)
	var extraIdx []int
	for i, name := range t.Columns {
		if i == dateIdx {
			continue
		}
		s := classifyColumn(name)
		if s == slotExtra || taken[s] {
			slots[i] = slotExtra
			extraIdx = append(extraIdx, i)
			continue
		}
		slots[i] = s
		taken[s] = true
	}
	colIdx := make(map[slot]int)
	for i, s := range slots {
		if i != dateIdx && s != slotExtra {
			colIdx[s] = i
		}
	}

	type parsedRow struct {
		date  model.Date
		cells []string
	}
	rows := make([]parsedRow, 0, len(t.Rows))
	for _, raw := range t.Rows {
		if dateIdx >= len(raw) {
			continue
		}
		d, err := model.ParseDate(raw[dateIdx])
		if err != nil {
			continue
		}
		rows = append(rows, parsedRow{date: d, cells: raw})
	}

	// Stable sort keeps input order among equal days, so keeping the final
	// element of each run keeps the last occurrence from the source.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	deduped := make([]parsedRow, 0, len(rows))
	for i, r := range rows {
		if i+1 < len(rows) && rows[i+1].date == r.date {
			continue
		}
		deduped = append(deduped, r)
	}

	// A date column with zero surviving rows is no history at all.
	if len(deduped) == 0 {
		return nil
	}

	s := &model.Series{
		HasOpen:      taken[slotOpen],
		HasHigh:      taken[slotHigh],
		HasLow:       taken[slotLow],
		HasClose:     taken[slotClose],
		HasAdjClose:  taken[slotAdjClose],
		HasVolume:    taken[slotVolume],
		HasMarketCap: taken[slotMarketCap],
	}
	deriveMC := !s.HasMarketCap && !math.IsNaN(sharesOutstanding) && (s.HasClose || s.HasAdjClose)
	if deriveMC {
		s.HasMarketCap = true
	}

	num := func(cells []string, sl slot) float64 {
		i, ok := colIdx[sl]
		if !ok || i >= len(cells) {
			return math.NaN()
		}
		return model.ParseFloat(cells[i])
	}

	s.Bars = make([]model.Bar, len(deduped))
	for i, r := range deduped {
		b := model.Bar{
			Date:      r.date,
			Open:      num(r.cells, slotOpen),
			High:      num(r.cells, slotHigh),
			Low:       num(r.cells, slotLow),
			Close:     num(r.cells, slotClose),
			AdjClose:  num(r.cells, slotAdjClose),
			Volume:    num(r.cells, slotVolume),
			MarketCap: num(r.cells, slotMarketCap),
		}
		if deriveMC {
			if v := s.Valuation(b); !math.IsNaN(v) {
				b.MarketCap = v * sharesOutstanding
			}
		}
		s.Bars[i] = b
	}

	for _, ei := range extraIdx {
		col := model.ExtraColumn{Name: t.Columns[ei], Cells: make([]string, len(deduped))}
		for i, r := range deduped {
			if ei < len(r.cells) {
				col.Cells[i] = r.cells[ei]
			}
		}
		s.Extras = append(s.Extras, col)
	}
	return s
}
