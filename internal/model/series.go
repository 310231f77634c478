package model

import "math"

// Bar represents a single daily bar. NaN marks a value the source did not
// supply for that day.
type Bar struct {
	Date      Date
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	Volume    float64
	MarketCap float64
}

// ExtraColumn is an unrecognized source column carried through untouched,
// row-aligned with the bars.
type ExtraColumn struct {
	Name  string
	Cells []string
}

// Series holds normalized daily history for one symbol: bars in ascending
// date order with at most one bar per day. The Has flags record which
// columns the source actually carried; a present column may still hold NaN
// cells, which is a different statement than the column being absent.
type Series struct {
	Bars []Bar

	HasOpen      bool
	HasHigh      bool
	HasLow       bool
	HasClose     bool
	HasAdjClose  bool
	HasVolume    bool
	HasMarketCap bool

	Extras []ExtraColumn
}

// FirstDate returns the earliest bar date.
func (s *Series) FirstDate() (Date, bool) {
	if len(s.Bars) == 0 {
		return Date{}, false
	}
	return s.Bars[0].Date, true
}

// LastDate returns the latest bar date.
func (s *Series) LastDate() (Date, bool) {
	if len(s.Bars) == 0 {
		return Date{}, false
	}
	return s.Bars[len(s.Bars)-1].Date, true
}

// LatestMarketCap returns the most recent non-NaN market-cap value, scanning
// backwards from the newest bar. It reports false when the series carries no
// market-cap column or every cell is NaN.
func (s *Series) LatestMarketCap() (float64, bool) {
	if !s.HasMarketCap {
		return 0, false
	}
	for i := len(s.Bars) - 1; i >= 0; i-- {
		if v := s.Bars[i].MarketCap; !math.IsNaN(v) {
			return v, true
		}
	}
	return 0, false
}

// Valuation returns the bar's valuation price: the adjusted close when the
// series carries one and the cell is set, otherwise the close.
func (s *Series) Valuation(b Bar) float64 {
	if s.HasAdjClose && !math.IsNaN(b.AdjClose) {
		return b.AdjClose
	}
	if s.HasClose {
		return b.Close
	}
	return math.NaN()
}

// LatestValuation returns the most recent non-NaN valuation price, scanning
// backwards from the newest bar.
func (s *Series) LatestValuation() (float64, bool) {
	if !s.HasAdjClose && !s.HasClose {
		return 0, false
	}
	for i := len(s.Bars) - 1; i >= 0; i-- {
		if v := s.Valuation(s.Bars[i]); !math.IsNaN(v) {
			return v, true
		}
	}
	return 0, false
}

// canonical column names, in projection order.
const (
	ColDate      = "date"
	ColOpen      = "open"
	ColHigh      = "high"
	ColLow       = "low"
	ColClose     = "close"
	ColAdjClose  = "adj_close"
	ColVolume    = "volume"
	ColMarketCap = "market_cap"
)

// Table projects the series back into tabular form using the canonical
// column names. Only columns the series carries are emitted, followed by the
// extras, so re-normalizing the result reproduces the series exactly.
func (s *Series) Table() Table {
	cols := []string{ColDate}
	pick := []func(Bar) float64{}
	if s.HasOpen {
		cols = append(cols, ColOpen)
		pick = append(pick, func(b Bar) float64 { return b.Open })
	}
	if s.HasHigh {
		cols = append(cols, ColHigh)
		pick = append(pick, func(b Bar) float64 { return b.High })
	}
	if s.HasLow {
		cols = append(cols, ColLow)
		pick = append(pick, func(b Bar) float64 { return b.Low })
	}
	if s.HasClose {
		cols = append(cols, ColClose)
		pick = append(pick, func(b Bar) float64 { return b.Close })
	}
	if s.HasAdjClose {
		cols = append(cols, ColAdjClose)
		pick = append(pick, func(b Bar) float64 { return b.AdjClose })
	}
	if s.HasVolume {
		cols = append(cols, ColVolume)
		pick = append(pick, func(b Bar) float64 { return b.Volume })
	}
	if s.HasMarketCap {
		cols = append(cols, ColMarketCap)
		pick = append(pick, func(b Bar) float64 { return b.MarketCap })
	}
	for _, ex := range s.Extras {
		cols = append(cols, ex.Name)
	}

	rows := make([][]string, len(s.Bars))
	for i, b := range s.Bars {
		row := make([]string, 0, len(cols))
		row = append(row, b.Date.String())
		for _, f := range pick {
			row = append(row, FormatFloat(f(b)))
		}
		for _, ex := range s.Extras {
			cell := ""
			if i < len(ex.Cells) {
				cell = ex.Cells[i]
			}
			row = append(row, cell)
		}
		rows[i] = row
	}
	return Table{Columns: cols, Rows: rows}
}
