package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketVault/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_ROOT", "HTTPS_PROXY", "SQLITE_PATH", "INDEX_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err, "a missing config file falls back to defaults")

	assert.Equal(t, "data", cfg.Data.Root)
	assert.Equal(t, filepath.Join("data", "stocks"), cfg.StockDir())
	assert.Equal(t, filepath.Join("data", "crypto"), cfg.CryptoDir())
	assert.Equal(t, filepath.Join("data", "sources", "sp500_constituents.csv"), cfg.Index.CacheFile)
	assert.Equal(t, filepath.Join("data", "sources", "non_sp500_candidates.csv"), cfg.Universe.CandidateFile)
	assert.Equal(t, 100, cfg.Universe.ExtraLimit)
	assert.Len(t, cfg.Universe.ETFs, 10)
	assert.Equal(t, "SPY", cfg.Universe.ETFs[0].Symbol)
	assert.Equal(t, []Listing{{Symbol: "BTC-USD", Name: "Bitcoin"}, {Symbol: "ETH-USD", Name: "Ethereum"}}, cfg.Universe.Cryptos)
	assert.Equal(t, []Listing{{Symbol: "RNMBY", Name: "Rheinmetall AG"}}, cfg.Universe.Specials)
	assert.Equal(t, "btc_full_historical_data.csv", cfg.FallbackFiles["BTC-USD"])
	assert.Equal(t, filepath.Join("data", "sources", "btc_full_historical_data.csv"),
		cfg.FallbackPaths()["BTC-USD"], "bare fallback names live under sources")
	assert.Equal(t, "2000-01-03", cfg.Build.StartDate)
	assert.Equal(t, 100*time.Millisecond, cfg.ThrottleDuration())
	assert.Equal(t, "", cfg.Schedule.Cron)

	require.NoError(t, cfg.Validate())

	d, err := cfg.StartDate()
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2000, 1, 3), d)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data:
  root: /srv/market
universe:
  extra_limit: 25
  etfs:
    - symbol: SPY
      name: SPDR S&P 500 ETF Trust
build:
  start_date: "2010-06-01"
  throttle: 0.5
schedule:
  cron: "0 30 5 * * 2-6"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	t.Setenv("DATA_ROOT", "/mnt/override")
	t.Setenv("INDEX_URL", "https://example.com/constituents")
	t.Setenv("SQLITE_PATH", "/tmp/journal.db")
	t.Setenv("HTTPS_PROXY", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/override", cfg.Data.Root, "environment beats the file")
	assert.Equal(t, filepath.Join("/mnt/override", "sources", "sp500_constituents.csv"),
		cfg.Index.CacheFile, "derived defaults follow the overridden root")
	assert.Equal(t, "https://example.com/constituents", cfg.Index.URL)
	assert.Equal(t, "/tmp/journal.db", cfg.Database.SQLitePath)
	assert.Equal(t, 25, cfg.Universe.ExtraLimit)
	assert.Len(t, cfg.Universe.ETFs, 1, "an explicit list replaces the default wholesale")
	assert.Equal(t, 500*time.Millisecond, cfg.ThrottleDuration())
	assert.Equal(t, "0 30 5 * * 2-6", cfg.Schedule.Cron)

	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	cfg.Build.StartDate = "not-a-date"
	assert.ErrorContains(t, cfg.Validate(), "start_date")

	cfg.Build.StartDate = "2000-01-03"
	cfg.Universe.ExtraLimit = -1
	assert.ErrorContains(t, cfg.Validate(), "extra_limit")

	cfg.Universe.ExtraLimit = 0
	cfg.Build.Throttle = -0.1
	assert.ErrorContains(t, cfg.Validate(), "throttle")
}
