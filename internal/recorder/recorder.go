package recorder

import (
	"time"

	"MarketVault/internal/model"
)

// Outcome statuses.
const (
	StatusSaved   = "SAVED"
	StatusSkipped = "SKIPPED"
)

// Run summarizes one completed build pass over the universe.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	StartDate    model.Date
	EndDate      model.Date
	SavedStocks  int
	SavedCrypto  int
	Skipped      int
	ClientExport bool
}

// Outcome records how a single symbol fared inside a run.
type Outcome struct {
	RunID     string
	Symbol    string
	AssetType model.AssetType
	Status    string // "SAVED" or "SKIPPED"
	Rows      int
	FirstDate string
	LastDate  string
	Note      string
}

// Recorder persists build journals for analysis.
type Recorder interface {
	RecordRun(run *Run) error
	RecordOutcome(evt *Outcome) error
	Close() error
}
