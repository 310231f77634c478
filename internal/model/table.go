package model

import (
	"math"
	"strconv"
	"strings"
)

// Table is a raw tabular snapshot as delivered by a provider or read back
// from disk: named columns over rows of text cells. No ordering, typing, or
// column-name casing is guaranteed.
type Table struct {
	Columns []string
	Rows    [][]string
}

// IsEmpty reports whether the table carries no columns at all.
func (t Table) IsEmpty() bool { return len(t.Columns) == 0 }

// FormatFloat renders a numeric cell. NaN becomes the empty cell, every
// other value round-trips through ParseFloat bit for bit.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFloat reads a numeric cell. Empty or unparseable cells become NaN;
// thousands separators and surrounding whitespace are tolerated.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
