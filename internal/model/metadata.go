package model

import "math"

// Metadata holds what a provider knows about a symbol beyond its bars.
// Nil pointers mean the provider did not report the figure.
type Metadata struct {
	Name              string
	Segment           string
	MarketCap         *float64
	SharesOutstanding *float64
}

// Merge fills fields that are still missing from fallback. Populated fields
// are never overwritten.
func (m *Metadata) Merge(fallback Metadata) {
	if m.Name == "" {
		m.Name = fallback.Name
	}
	if m.Segment == "" {
		m.Segment = fallback.Segment
	}
	if m.MarketCap == nil {
		m.MarketCap = fallback.MarketCap
	}
	if m.SharesOutstanding == nil {
		m.SharesOutstanding = fallback.SharesOutstanding
	}
}

// Complete reports whether the fields worth a second, slower lookup are all
// populated.
func (m Metadata) Complete() bool {
	return m.MarketCap != nil && m.SharesOutstanding != nil && m.Name != ""
}

// Float unwraps an optional figure, NaN when absent.
func Float(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// FloatPtr wraps a figure as optional, nil when NaN.
func FloatPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
