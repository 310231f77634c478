package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"MarketVault/internal/model"
	"MarketVault/internal/store"
)

// FileFetcher implements Fetcher over a directory of raw history snapshots,
// one <SYMBOL>.csv or <SYMBOL>.parquet per symbol. It serves offline and
// operator-supplied rebuilds; snapshots are full files, so the requested
// window is ignored. Local files carry no metadata.
type FileFetcher struct {
	Dir string
}

// NewFileFetcher creates a fetcher over the given snapshot directory.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Dir: dir}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchHistory(_ context.Context, symbol string, _, _ model.Date) (model.Table, error) {
	base := strings.ToUpper(strings.TrimSpace(symbol))
	for _, name := range []string{base + ".csv", base + ".parquet"} {
		path := filepath.Join(f.Dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return store.ReadTable(path)
	}
	return model.Table{}, fmt.Errorf("no snapshot for %s in %s", symbol, f.Dir)
}

func (f *FileFetcher) FetchFastMetadata(context.Context, string) (model.Metadata, error) {
	return model.Metadata{}, nil
}

func (f *FileFetcher) FetchFullMetadata(context.Context, string) (model.Metadata, error) {
	return model.Metadata{}, nil
}
