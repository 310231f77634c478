package collector

import (
	"context"

	"MarketVault/internal/model"
)

// Fetcher defines the interface for pulling market data from a provider.
// FetchHistory returns daily bars for [start, end) as a raw table; the
// normalizer owns column mapping, ordering, and deduplication. Metadata
// comes in two tiers: FetchFastMetadata is the cheap call tried first,
// FetchFullMetadata the slower call used to fill whatever the fast tier
// left blank.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, start, end model.Date) (model.Table, error)
	FetchFastMetadata(ctx context.Context, symbol string) (model.Metadata, error)
	FetchFullMetadata(ctx context.Context, symbol string) (model.Metadata, error)
	Name() string
}
