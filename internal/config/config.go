package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"MarketVault/internal/model"
)

// Listing is a symbol with its display name, used for the fixed ETF, crypto,
// and special-addition lists.
type Listing struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Config holds all application configuration.
type Config struct {
	Data struct {
		Root string `yaml:"root"`
	} `yaml:"data"`
	Provider struct {
		Proxy       string `yaml:"proxy"`
		SnapshotDir string `yaml:"snapshot_dir"` // set → serve history from local files instead of the network
	} `yaml:"provider"`
	Index struct {
		URL       string `yaml:"url"`
		CacheFile string `yaml:"cache_file"`
	} `yaml:"index"`
	Universe struct {
		CandidateFile string    `yaml:"candidate_file"`
		ExtraLimit    int       `yaml:"extra_limit"`
		ETFs          []Listing `yaml:"etfs"`
		Cryptos       []Listing `yaml:"cryptos"`
		Specials      []Listing `yaml:"specials"`
	} `yaml:"universe"`
	// FallbackFiles maps symbols to hand-maintained history files that take
	// precedence over anything in the data directories.
	FallbackFiles map[string]string `yaml:"fallback_files"`
	Build         struct {
		StartDate string  `yaml:"start_date"`
		Throttle  float64 `yaml:"throttle"` // seconds between metadata calls
	} `yaml:"build"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"` // empty → run once and exit
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_ROOT"); v != "" {
		cfg.Data.Root = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Provider.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("INDEX_URL"); v != "" {
		cfg.Index.URL = v
	}

	// Defaults
	if cfg.Data.Root == "" {
		cfg.Data.Root = "data"
	}
	if cfg.Index.URL == "" {
		cfg.Index.URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}
	if cfg.Index.CacheFile == "" {
		cfg.Index.CacheFile = filepath.Join(cfg.SourcesDir(), "sp500_constituents.csv")
	}
	if cfg.Universe.CandidateFile == "" {
		cfg.Universe.CandidateFile = filepath.Join(cfg.SourcesDir(), "non_sp500_candidates.csv")
	}
	if cfg.Universe.ExtraLimit == 0 {
		cfg.Universe.ExtraLimit = 100
	}
	if cfg.Universe.ETFs == nil {
		cfg.Universe.ETFs = []Listing{
			{Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust"},
			{Symbol: "IVV", Name: "iShares Core S&P 500 ETF"},
			{Symbol: "VOO", Name: "Vanguard S&P 500 ETF"},
			{Symbol: "QQQ", Name: "Invesco QQQ Trust"},
			{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF"},
			{Symbol: "IWM", Name: "iShares Russell 2000 ETF"},
			{Symbol: "EFA", Name: "iShares MSCI EAFE ETF"},
			{Symbol: "EEM", Name: "iShares MSCI Emerging Markets ETF"},
			{Symbol: "XLK", Name: "Technology Select Sector SPDR Fund"},
			{Symbol: "XLF", Name: "Financial Select Sector SPDR Fund"},
		}
	}
	if cfg.Universe.Cryptos == nil {
		cfg.Universe.Cryptos = []Listing{
			{Symbol: "BTC-USD", Name: "Bitcoin"},
			{Symbol: "ETH-USD", Name: "Ethereum"},
		}
	}
	if cfg.Universe.Specials == nil {
		cfg.Universe.Specials = []Listing{
			{Symbol: "RNMBY", Name: "Rheinmetall AG"},
		}
	}
	if cfg.FallbackFiles == nil {
		cfg.FallbackFiles = map[string]string{
			"BTC-USD": "btc_full_historical_data.csv",
			"ETH-USD": "eth_full_historical_data.csv",
		}
	}
	if cfg.Build.StartDate == "" {
		cfg.Build.StartDate = "2000-01-03"
	}
	if cfg.Build.Throttle == 0 {
		cfg.Build.Throttle = 0.1
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = filepath.Join("web", "public", "data")
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/marketvault.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Data.Root == "" {
		return fmt.Errorf("data.root is required")
	}
	if c.Index.URL == "" {
		return fmt.Errorf("index.url is required")
	}
	if _, err := model.ParseDate(c.Build.StartDate); err != nil {
		return fmt.Errorf("build.start_date: %w", err)
	}
	if c.Universe.ExtraLimit < 0 {
		return fmt.Errorf("universe.extra_limit must not be negative")
	}
	if c.Build.Throttle < 0 {
		return fmt.Errorf("build.throttle must not be negative")
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}
	return nil
}

// StockDir is where stock histories and their manifest live.
func (c *Config) StockDir() string { return filepath.Join(c.Data.Root, "stocks") }

// CryptoDir is where crypto histories and their manifest live.
func (c *Config) CryptoDir() string { return filepath.Join(c.Data.Root, "crypto") }

// SourcesDir is where universe inputs (index cache, candidate pool) live.
func (c *Config) SourcesDir() string { return filepath.Join(c.Data.Root, "sources") }

// FallbackPaths resolves FallbackFiles entries against the sources
// directory. Absolute paths pass through untouched.
func (c *Config) FallbackPaths() map[string]string {
	out := make(map[string]string, len(c.FallbackFiles))
	for symbol, file := range c.FallbackFiles {
		if !filepath.IsAbs(file) {
			file = filepath.Join(c.SourcesDir(), file)
		}
		out[symbol] = file
	}
	return out
}

// StartDate parses the configured build start date.
func (c *Config) StartDate() (model.Date, error) {
	return model.ParseDate(c.Build.StartDate)
}

// ThrottleDuration converts the configured throttle seconds to a duration.
func (c *Config) ThrottleDuration() time.Duration {
	return time.Duration(c.Build.Throttle * float64(time.Second))
}
