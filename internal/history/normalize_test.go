package history

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketVault/internal/model"
)

func day(d int) model.Date { return model.NewDate(2024, time.January, d) }

func requireSameFloat(t *testing.T, want, got float64, msg string) {
	t.Helper()
	require.Equal(t, math.Float64bits(want), math.Float64bits(got),
		"%s: want %v, got %v", msg, want, got)
}

func requireSeriesEqual(t *testing.T, want, got *model.Series) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.HasOpen, got.HasOpen, "HasOpen")
	assert.Equal(t, want.HasHigh, got.HasHigh, "HasHigh")
	assert.Equal(t, want.HasLow, got.HasLow, "HasLow")
	assert.Equal(t, want.HasClose, got.HasClose, "HasClose")
	assert.Equal(t, want.HasAdjClose, got.HasAdjClose, "HasAdjClose")
	assert.Equal(t, want.HasVolume, got.HasVolume, "HasVolume")
	assert.Equal(t, want.HasMarketCap, got.HasMarketCap, "HasMarketCap")
	require.Equal(t, len(want.Bars), len(got.Bars), "bar count")
	for i := range want.Bars {
		wb, gb := want.Bars[i], got.Bars[i]
		require.Equal(t, wb.Date, gb.Date, "bar %d date", i)
		requireSameFloat(t, wb.Open, gb.Open, "open")
		requireSameFloat(t, wb.High, gb.High, "high")
		requireSameFloat(t, wb.Low, gb.Low, "low")
		requireSameFloat(t, wb.Close, gb.Close, "close")
		requireSameFloat(t, wb.AdjClose, gb.AdjClose, "adj close")
		requireSameFloat(t, wb.Volume, gb.Volume, "volume")
		requireSameFloat(t, wb.MarketCap, gb.MarketCap, "market cap")
	}
	assert.Equal(t, want.Extras, got.Extras, "extras")
}

func TestNormalizeSortsDedupesAndDropsBadDates(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"Date", "Close"},
		Rows: [][]string{
			{"2024-01-02", "100"},
			{"2024-01-03", "101"},
			{"not a date", "999"},
			{"2024-01-02", "102"}, // duplicate day, later occurrence wins
		},
	}
	s := Normalize(tbl, math.NaN())
	require.NotNil(t, s)
	require.Len(t, s.Bars, 2)
	assert.Equal(t, day(2), s.Bars[0].Date)
	assert.Equal(t, 102.0, s.Bars[0].Close)
	assert.Equal(t, day(3), s.Bars[1].Date)
	assert.Equal(t, 101.0, s.Bars[1].Close)
}

func TestNormalizeIndexColumnSentinels(t *testing.T) {
	for _, name := range []string{"", "Unnamed: 0", "__index_level_0__"} {
		tbl := model.Table{
			Columns: []string{name, "close"},
			Rows:    [][]string{{"2024-01-02", "50"}},
		}
		s := Normalize(tbl, math.NaN())
		require.NotNil(t, s, "sentinel %q", name)
		require.Len(t, s.Bars, 1)
		assert.Equal(t, 50.0, s.Bars[0].Close)
	}

	// The sentinel only applies to the first column.
	tbl := model.Table{
		Columns: []string{"close", "Unnamed: 0"},
		Rows:    [][]string{{"50", "2024-01-02"}},
	}
	assert.Nil(t, Normalize(tbl, math.NaN()))
}

func TestNormalizeNoDateColumnIsAbsent(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"open", "close"},
		Rows:    [][]string{{"1", "2"}},
	}
	assert.Nil(t, Normalize(tbl, math.NaN()))
	assert.Nil(t, Normalize(model.Table{}, math.NaN()))
}

func TestNormalizeZeroValidRowsIsAbsent(t *testing.T) {
	headerOnly := model.Table{Columns: []string{"date", "close"}}
	assert.Nil(t, Normalize(headerOnly, math.NaN()))

	allBadDates := model.Table{
		Columns: []string{"date", "close"},
		Rows:    [][]string{{"not a date", "1"}, {"", "2"}},
	}
	assert.Nil(t, Normalize(allBadDates, math.NaN()))
}

func TestNormalizeColumnAliases(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"DATE", "OPEN", "High", "low", "Close", "Adj Close", "VOLUME", "MarketCap"},
		Rows: [][]string{
			{"2024-01-02", "1", "2", "0.5", "1.5", "1.4", "1000", "5000000"},
		},
	}
	s := Normalize(tbl, math.NaN())
	require.NotNil(t, s)
	assert.True(t, s.HasOpen)
	assert.True(t, s.HasHigh)
	assert.True(t, s.HasLow)
	assert.True(t, s.HasClose)
	assert.True(t, s.HasAdjClose)
	assert.True(t, s.HasVolume)
	assert.True(t, s.HasMarketCap)
	assert.Empty(t, s.Extras)

	b := s.Bars[0]
	assert.Equal(t, 1.0, b.Open)
	assert.Equal(t, 2.0, b.High)
	assert.Equal(t, 0.5, b.Low)
	assert.Equal(t, 1.5, b.Close)
	assert.Equal(t, 1.4, b.AdjClose)
	assert.Equal(t, 1000.0, b.Volume)
	assert.Equal(t, 5000000.0, b.MarketCap)
}

func TestNormalizeDuplicateRecognizedColumnBecomesExtra(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "close", "Close"},
		Rows:    [][]string{{"2024-01-02", "10", "11"}},
	}
	s := Normalize(tbl, math.NaN())
	require.NotNil(t, s)
	assert.Equal(t, 10.0, s.Bars[0].Close)
	require.Len(t, s.Extras, 1)
	assert.Equal(t, "Close", s.Extras[0].Name)
	assert.Equal(t, []string{"11"}, s.Extras[0].Cells)
}

func TestNormalizeExtrasStayRowAligned(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "close", "Stock Splits"},
		Rows: [][]string{
			{"2024-01-03", "101", "b"},
			{"bogus", "999", "x"},
			{"2024-01-02", "100", "a"},
		},
	}
	s := Normalize(tbl, math.NaN())
	require.NotNil(t, s)
	require.Len(t, s.Bars, 2)
	require.Len(t, s.Extras, 1)
	// Rows were reordered ascending and the bogus row dropped; the extra
	// column must follow the surviving rows.
	assert.Equal(t, []string{"a", "b"}, s.Extras[0].Cells)
}

func TestNormalizeSourceMarketCapWinsOverDerivation(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "close", "market_cap"},
		Rows:    [][]string{{"2024-01-02", "200", "123456"}},
	}
	s := Normalize(tbl, 50)
	require.NotNil(t, s)
	assert.Equal(t, 123456.0, s.Bars[0].MarketCap)
}

func TestNormalizeDerivesMarketCapPerRow(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "close", "adj close"},
		Rows: [][]string{
			{"2024-01-02", "200", "190"}, // adjusted close wins
			{"2024-01-03", "210", ""},    // NaN adjusted close falls back to close
			{"2024-01-04", "", ""},       // no valuation at all
		},
	}
	s := Normalize(tbl, 50)
	require.NotNil(t, s)
	require.True(t, s.HasMarketCap)
	assert.Equal(t, 190.0*50, s.Bars[0].MarketCap)
	assert.Equal(t, 210.0*50, s.Bars[1].MarketCap)
	assert.True(t, math.IsNaN(s.Bars[2].MarketCap))
}

func TestNormalizeNoSharesMeansNoMarketCapColumn(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "close"},
		Rows:    [][]string{{"2024-01-02", "200"}},
	}
	s := Normalize(tbl, math.NaN())
	require.NotNil(t, s)
	assert.False(t, s.HasMarketCap)
	assert.True(t, math.IsNaN(s.Bars[0].MarketCap))
}

func TestNormalizeSharesWithoutValuationColumnMeansNoMarketCap(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "volume"},
		Rows:    [][]string{{"2024-01-02", "9000"}},
	}
	s := Normalize(tbl, 50)
	require.NotNil(t, s)
	assert.False(t, s.HasMarketCap)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume", "Dividends"},
		Rows: [][]string{
			{"2024-01-03", "10.5", "11", "10.25", "10.75", "", "120,000", "0"},
			{"2024-01-02", "10", "10.6", "9.9", "10.1", "10.05", "100000", "0.25"},
			{"2024-01-02", "10.1", "10.7", "9.95", "10.2", "10.15", "99000", "0.25"},
		},
	}
	first := Normalize(tbl, 1234.5)
	require.NotNil(t, first)
	second := Normalize(first.Table(), math.NaN())
	requireSeriesEqual(t, first, second)

	third := Normalize(second.Table(), math.NaN())
	requireSeriesEqual(t, second, third)
}

func TestNormalizeIsDeterministicUnderRowOrder(t *testing.T) {
	rows := [][]string{
		{"2024-01-02", "100"},
		{"2024-01-03", "101"},
		{"2024-01-04", "102"},
		{"2024-01-05", "103"},
		{"2024-01-08", "104"},
	}
	want := Normalize(model.Table{Columns: []string{"date", "close"}, Rows: rows}, math.NaN())

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([][]string, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Normalize(model.Table{Columns: []string{"date", "close"}, Rows: shuffled}, math.NaN())
		requireSeriesEqual(t, want, got)
	}
}

func TestNormalizeShortRowsParseAsNaN(t *testing.T) {
	tbl := model.Table{
		Columns: []string{"date", "open", "close"},
		Rows: [][]string{
			{"2024-01-02", "10"}, // ragged row, close missing
			{"2024-01-03", "11", "12"},
		},
	}
	s := Normalize(tbl, math.NaN())
	require.NotNil(t, s)
	require.Len(t, s.Bars, 2)
	assert.Equal(t, 10.0, s.Bars[0].Open)
	assert.True(t, math.IsNaN(s.Bars[0].Close))
	assert.Equal(t, 12.0, s.Bars[1].Close)
}
