package model

import "time"

// AssetType classifies a manifest entry.
type AssetType string

const (
	AssetStock  AssetType = "STOCK"
	AssetETF    AssetType = "ETF"
	AssetCrypto AssetType = "CRYPTO"
)

// SymbolRecord is one manifest entry describing a persisted history file.
type SymbolRecord struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	AssetType         AssetType `json:"asset_type"`
	Segment           string    `json:"segment"`
	SharesOutstanding *float64  `json:"shares_outstanding"`
	FirstDate         string    `json:"first_date"`
	LastDate          string    `json:"last_date"`
}

// Manifest lists every symbol persisted by a build pass. A build replaces
// the manifest wholesale; entries from earlier runs do not survive.
type Manifest struct {
	GeneratedAt time.Time      `json:"generated_at"`
	SymbolCount int            `json:"symbol_count"`
	Symbols     []SymbolRecord `json:"symbols"`
}

// IndexRow is one constituent of the reference index.
type IndexRow struct {
	Symbol  string
	Name    string
	Segment string
}

// Candidate is one entry of the candidate pool or a fixed addition list.
type Candidate struct {
	Symbol string
	Name   string
}
