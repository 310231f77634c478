// Package metadata resolves per-symbol reference data (name, segment,
// market cap, shares outstanding) through a provider's tiered lookups.
package metadata

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"MarketVault/internal/collector"
	"MarketVault/internal/model"
)

// Resolver looks up symbol metadata through a fetcher, throttled so batch
// builds stay under provider rate limits.
type Resolver struct {
	fetcher collector.Fetcher
	limiter *rate.Limiter

	// Progress, when set, is called with each symbol before its lookup.
	Progress func(symbol string)
}

// NewResolver creates a resolver. A positive throttle spaces lookups at
// least that far apart; zero disables throttling (useful in tests).
func NewResolver(f collector.Fetcher, throttle time.Duration) *Resolver {
	r := &Resolver{fetcher: f}
	if throttle > 0 {
		r.limiter = rate.NewLimiter(rate.Every(throttle), 1)
	}
	return r
}

// Resolve fetches metadata for every symbol. The fast tier is tried first;
// when it leaves the name, market cap, or shares outstanding blank the full
// tier fills in what is still missing. Lookup errors never abort the batch:
// the symbol keeps whatever fields were populated, possibly none, and the
// loop moves on. Only context cancellation stops early, returning what was
// resolved so far.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) map[string]model.Metadata {
	out := make(map[string]model.Metadata, len(symbols))
	for _, symbol := range symbols {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				log.Printf("[WARN] metadata resolution stopped: %v", err)
				return out
			}
		} else if ctx.Err() != nil {
			log.Printf("[WARN] metadata resolution stopped: %v", ctx.Err())
			return out
		}
		if r.Progress != nil {
			r.Progress(symbol)
		}

		meta, err := r.fetcher.FetchFastMetadata(ctx, symbol)
		if err != nil {
			log.Printf("[WARN] fast metadata for %s: %v", symbol, err)
			meta = model.Metadata{}
		}
		if !meta.Complete() {
			full, err := r.fetcher.FetchFullMetadata(ctx, symbol)
			if err != nil {
				log.Printf("[WARN] full metadata for %s: %v", symbol, err)
			} else {
				meta.Merge(full)
			}
		}
		out[symbol] = meta
	}
	return out
}
