// Package pipeline orchestrates build passes: universe assembly, metadata
// resolution, history downloads, persistence, manifests, and the optional
// client export.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"MarketVault/internal/catalog"
	"MarketVault/internal/collector"
	"MarketVault/internal/config"
	"MarketVault/internal/export"
	"MarketVault/internal/history"
	"MarketVault/internal/manifest"
	"MarketVault/internal/metadata"
	"MarketVault/internal/model"
	"MarketVault/internal/recorder"
	"MarketVault/internal/store"
	"MarketVault/internal/universe"
)

// Options control one build pass.
type Options struct {
	Start      model.Date
	End        model.Date
	ExtraLimit int
	Throttle   time.Duration
	SkipStocks bool
	SkipCrypto bool
	EmitClient bool
}

// Pipeline wires a fetcher, the index source, and the journal into build runs.
type Pipeline struct {
	cfg     *config.Config
	fetcher collector.Fetcher
	index   *collector.IndexSource
	rec     recorder.Recorder
}

// NewPipeline creates a pipeline.
func NewPipeline(cfg *config.Config, f collector.Fetcher, index *collector.IndexSource, rec recorder.Recorder) *Pipeline {
	return &Pipeline{cfg: cfg, fetcher: f, index: index, rec: rec}
}

// Run executes one build pass: stocks, crypto, then the client export, each
// skippable. Per-symbol problems are journaled and reported, never fatal;
// only losing a whole input (index and cache both gone, unreadable candidate
// pool) aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	run := &recorder.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		StartDate: opts.Start,
		EndDate:   opts.End,
	}
	log.Printf("[INFO] build run %s: %s to %s", run.ID, opts.Start, opts.End)

	for _, dir := range []string{p.cfg.StockDir(), p.cfg.CryptoDir(), p.cfg.SourcesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	if !opts.SkipStocks {
		saved, skipped, err := p.processStocks(ctx, opts, run.ID)
		if err != nil {
			return err
		}
		run.SavedStocks = saved
		run.Skipped += skipped
	}
	if !opts.SkipCrypto {
		saved, skipped, err := p.processCrypto(ctx, opts, run.ID)
		if err != nil {
			return err
		}
		run.SavedCrypto = saved
		run.Skipped += skipped
	}
	if opts.EmitClient {
		cat := catalog.New(p.cfg.StockDir(), p.cfg.CryptoDir(), p.cfg.FallbackPaths())
		if err := export.Run(cat, p.cfg.Export.Dir); err != nil {
			return err
		}
		run.ClientExport = true
	}

	run.FinishedAt = time.Now().UTC()
	if err := p.rec.RecordRun(run); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	log.Println("[INFO] all tasks complete")
	return nil
}

func (p *Pipeline) processStocks(ctx context.Context, opts Options, runID string) (saved, skipped int, err error) {
	log.Println("[INFO] fetching index constituents")
	rows, err := p.index.Fetch(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("index constituents: %w", err)
	}
	log.Printf("[INFO] loaded %d index tickers", len(rows))

	primary := make([]string, 0, len(rows))
	indexName := make(map[string]string, len(rows))
	indexSegment := make(map[string]string, len(rows))
	for _, row := range rows {
		primary = append(primary, row.Symbol)
		indexName[row.Symbol] = row.Name
		indexSegment[row.Symbol] = row.Segment
	}

	pool, err := universe.LoadCandidates(p.cfg.Universe.CandidateFile)
	if err != nil {
		return 0, 0, fmt.Errorf("candidate pool: %w", err)
	}
	log.Printf("[INFO] candidate pool contains %d symbols", len(pool))
	candName := make(map[string]string, len(pool))
	for _, c := range pool {
		candName[c.Symbol] = c.Name
	}

	fixed := make([]string, 0, len(p.cfg.Universe.ETFs)+len(p.cfg.Universe.Specials))
	fixedName := make(map[string]string)
	etfs := make(map[string]bool, len(p.cfg.Universe.ETFs))
	for _, l := range p.cfg.Universe.ETFs {
		fixed = append(fixed, l.Symbol)
		fixedName[l.Symbol] = l.Name
		etfs[l.Symbol] = true
	}
	for _, l := range p.cfg.Universe.Specials {
		fixed = append(fixed, l.Symbol)
		fixedName[l.Symbol] = l.Name
	}

	meta := p.resolveMetadata(ctx, "equity metadata", unionSymbols(primary, pool, fixed), opts.Throttle)

	weight := func(symbol string) float64 {
		if m, ok := meta[symbol]; ok && m.MarketCap != nil {
			return *m.MarketCap
		}
		return 0
	}
	symbols, extras := universe.Build(primary, pool, fixed, opts.ExtraLimit, weight)
	if len(extras) < opts.ExtraLimit {
		log.Printf("[WARN] only %d non-index candidates available; add more rows to the candidate CSV for better coverage", len(extras))
	}

	log.Printf("[INFO] downloading history for %d equity and ETF symbols", len(symbols))
	results, err := p.downloadAll(ctx, "equity/ETF history", symbols, opts, p.cfg.StockDir(),
		func(symbol string) float64 { return usableShares(meta[symbol]) },
		func(symbol string, s *model.Series) model.SymbolRecord {
			m := meta[symbol]
			name := m.Name
			if name == "" {
				name = indexName[symbol]
			}
			if name == "" {
				name = candName[symbol]
			}
			if name == "" {
				name = fixedName[symbol]
			}
			if name == "" {
				name = symbol
			}

			assetType := model.AssetStock
			if etfs[symbol] {
				assetType = model.AssetETF
			}
			segment := m.Segment
			if seg, member := indexSegment[symbol]; member {
				segment = seg
			}

			return buildRecord(symbol, name, assetType, segment, m.SharesOutstanding, s)
		})
	if err != nil {
		return 0, 0, err
	}

	records, skippedSymbols := p.journalResults(runID, results, func(symbol string) model.AssetType {
		if etfs[symbol] {
			return model.AssetETF
		}
		return model.AssetStock
	})

	m := manifest.Build(records)
	if err := manifest.Write(filepath.Join(p.cfg.StockDir(), manifest.Filename), m); err != nil {
		return 0, 0, err
	}
	log.Printf("[INFO] stock manifest written with %d entries", len(records))
	if len(skippedSymbols) > 0 {
		log.Printf("[WARN] %s", skipSummary(skippedSymbols))
	}
	return len(records), len(skippedSymbols), nil
}

func (p *Pipeline) processCrypto(ctx context.Context, opts Options, runID string) (saved, skipped int, err error) {
	log.Println("[INFO] downloading cryptocurrency history")
	listings := p.cfg.Universe.Cryptos
	symbols := make([]string, 0, len(listings))
	names := make(map[string]string, len(listings))
	for _, l := range listings {
		symbols = append(symbols, l.Symbol)
		names[l.Symbol] = l.Name
	}

	meta := p.resolveMetadata(ctx, "crypto metadata", symbols, opts.Throttle)

	results, err := p.downloadAll(ctx, "crypto history", symbols, opts, p.cfg.CryptoDir(),
		func(symbol string) float64 { return usableShares(meta[symbol]) },
		func(symbol string, s *model.Series) model.SymbolRecord {
			name := names[symbol]
			if name == "" {
				name = symbol
			}
			return buildRecord(symbol, name, model.AssetCrypto, "Digital Asset", meta[symbol].SharesOutstanding, s)
		})
	if err != nil {
		return 0, 0, err
	}

	records, skippedSymbols := p.journalResults(runID, results, func(string) model.AssetType {
		return model.AssetCrypto
	})

	m := manifest.Build(records)
	if err := manifest.Write(filepath.Join(p.cfg.CryptoDir(), manifest.Filename), m); err != nil {
		return 0, 0, err
	}
	log.Printf("[INFO] crypto manifest written with %d entries", len(records))
	return len(records), len(skippedSymbols), nil
}

func (p *Pipeline) resolveMetadata(ctx context.Context, label string, symbols []string, throttle time.Duration) map[string]model.Metadata {
	log.Printf("[INFO] requesting metadata for %d symbols", len(symbols))
	res := metadata.NewResolver(p.fetcher, throttle)
	prog := NewProgress(label, len(symbols))
	res.Progress = prog.Step
	defer prog.Done()
	return res.Resolve(ctx, symbols)
}

// symbolResult is the outcome of one symbol's download.
type symbolResult struct {
	symbol string
	record model.SymbolRecord
	saved  bool
	rows   int
	note   string
}

// downloadAll fetches, normalizes, and persists every symbol in universe
// order, one at a time so the provider sees a single request stream.
// Cancelling the context stops the loop before the next symbol; the caller
// must then abandon the pass rather than write a partial manifest.
func (p *Pipeline) downloadAll(ctx context.Context, label string, symbols []string, opts Options, dir string,
	shares func(symbol string) float64,
	record func(symbol string, s *model.Series) model.SymbolRecord) ([]symbolResult, error) {

	prog := NewProgress(label, len(symbols))
	defer prog.Done()

	results := make([]symbolResult, 0, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		prog.Step(symbol)
		res := p.fetchOne(ctx, symbol, opts, dir, shares(symbol), record)
		if res.saved {
			prog.Log("[INFO] %s: saved %s rows from %s to %s",
				symbol, humanize.Comma(int64(res.rows)), res.record.FirstDate, res.record.LastDate)
		} else {
			prog.Log("[WARN] %s: skipped (%s)", symbol, res.note)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) fetchOne(ctx context.Context, symbol string, opts Options, dir string,
	shares float64, record func(string, *model.Series) model.SymbolRecord) symbolResult {

	table, err := p.fetcher.FetchHistory(ctx, symbol, opts.Start, opts.End)
	if err != nil {
		return symbolResult{symbol: symbol, note: fmt.Sprintf("fetch failed: %v", err)}
	}
	s := history.Normalize(table, shares)
	if s == nil || len(s.Bars) == 0 {
		return symbolResult{symbol: symbol, note: "no data"}
	}
	path := filepath.Join(dir, strings.ToUpper(symbol)+".parquet")
	if err := store.WriteSeries(path, s); err != nil {
		return symbolResult{symbol: symbol, note: fmt.Sprintf("write failed: %v", err)}
	}
	return symbolResult{
		symbol: symbol,
		record: record(symbol, s),
		saved:  true,
		rows:   len(s.Bars),
	}
}

// journalResults records an outcome per symbol and splits the results into
// manifest records and the skip list, both in universe order.
func (p *Pipeline) journalResults(runID string, results []symbolResult, assetOf func(symbol string) model.AssetType) ([]model.SymbolRecord, []string) {
	records := make([]model.SymbolRecord, 0, len(results))
	var skipped []string
	for _, res := range results {
		outcome := &recorder.Outcome{
			RunID:     runID,
			Symbol:    res.symbol,
			AssetType: assetOf(res.symbol),
			Rows:      res.rows,
			Note:      res.note,
		}
		if res.saved {
			outcome.Status = recorder.StatusSaved
			outcome.FirstDate = res.record.FirstDate
			outcome.LastDate = res.record.LastDate
			records = append(records, res.record)
		} else {
			outcome.Status = recorder.StatusSkipped
			skipped = append(skipped, res.symbol)
		}
		if err := p.rec.RecordOutcome(outcome); err != nil {
			log.Printf("[ERROR] record outcome for %s: %v", res.symbol, err)
		}
	}
	return records, skipped
}

func buildRecord(symbol, name string, assetType model.AssetType, segment string, shares *float64, s *model.Series) model.SymbolRecord {
	if shares != nil && *shares == 0 {
		shares = nil
	}
	first, _ := s.FirstDate()
	last, _ := s.LastDate()
	return model.SymbolRecord{
		Symbol:            symbol,
		Name:              name,
		AssetType:         assetType,
		Segment:           segment,
		SharesOutstanding: shares,
		FirstDate:         first.String(),
		LastDate:          last.String(),
	}
}

// usableShares unwraps shares outstanding for valuation; zero is as good as
// unknown.
func usableShares(m model.Metadata) float64 {
	v := model.Float(m.SharesOutstanding)
	if v == 0 {
		return math.NaN()
	}
	return v
}

func unionSymbols(primary []string, pool []model.Candidate, fixed []string) []string {
	set := make(map[string]struct{}, len(primary)+len(pool)+len(fixed))
	for _, s := range primary {
		set[s] = struct{}{}
	}
	for _, c := range pool {
		set[c.Symbol] = struct{}{}
	}
	for _, s := range fixed {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
