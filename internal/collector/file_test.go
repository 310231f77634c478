package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketVault/internal/model"
)

func TestFileFetcherReadsSnapshot(t *testing.T) {
	dir := t.TempDir()
	csv := "Date,Close\n2024-01-02,185.5\n2024-01-03,186.2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(csv), 0644))

	f := NewFileFetcher(dir)
	table, err := f.FetchHistory(context.Background(), "aapl", model.Date{}, model.Date{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Close"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2024-01-03", "186.2"}, table.Rows[1])
}

func TestFileFetcherMissingSnapshot(t *testing.T) {
	f := NewFileFetcher(t.TempDir())
	_, err := f.FetchHistory(context.Background(), "GONE", model.Date{}, model.Date{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot for GONE")
}

func TestFileFetcherMetadataIsEmpty(t *testing.T) {
	f := NewFileFetcher(t.TempDir())
	meta, err := f.FetchFastMetadata(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, model.Metadata{}, meta)

	meta, err = f.FetchFullMetadata(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, model.Metadata{}, meta)
}
