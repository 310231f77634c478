package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketVault/internal/model"
)

const constituentsPage = `<html><body>
<table class="infobox"><tr><th>Updated</th><td>daily</td></tr></table>
<table id="constituents">
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th><th>GICS Sub-Industry</th></tr>
<tr><td><a href="/MMM">MMM</a></td><td>3M</td><td>Industrials</td><td>Industrial Conglomerates</td></tr>
<tr><td>aos</td><td>A. O. Smith</td><td>Industrials</td><td>Building Products</td></tr>
<tr><td>ABT</td><td>Abbott Laboratories</td><td>Health Care</td><td>Health Care Equipment</td></tr>
</table>
</body></html>`

func TestIndexFetchParsesConstituents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(constituentsPage))
	}))
	defer server.Close()

	cache := filepath.Join(t.TempDir(), "constituents.csv")
	src := NewIndexSource(server.URL, cache, "")

	rows, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.IndexRow{Symbol: "MMM", Name: "3M", Segment: "Industrials"}, rows[0])
	// Symbols are uppercased regardless of how the page spells them.
	assert.Equal(t, model.IndexRow{Symbol: "AOS", Name: "A. O. Smith", Segment: "Industrials"}, rows[1])
	assert.Equal(t, "Health Care", rows[2].Segment)

	// A successful fetch refreshes the cache.
	data, err := os.ReadFile(cache)
	require.NoError(t, err)
	assert.Contains(t, string(data), "symbol,name,sector")
	assert.Contains(t, string(data), "AOS,A. O. Smith,Industrials")
}

func TestIndexFetchFallsBackToCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "constituents.csv")
	require.NoError(t, os.WriteFile(cache, []byte("symbol,name,sector\nMMM,3M,Industrials\nABT,Abbott Laboratories,Health Care\n"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	src := NewIndexSource(server.URL, cache, "")
	rows, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MMM", rows[0].Symbol)
	assert.Equal(t, "Health Care", rows[1].Segment)
}

func TestIndexFetchFailsWithoutCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	src := NewIndexSource(server.URL, filepath.Join(t.TempDir(), "missing.csv"), "")
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "cached copy unavailable")
}

func TestParseConstituentsNoTable(t *testing.T) {
	_, err := parseConstituents([]byte(`<html><body><p>nothing here</p></body></html>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to locate")
}

func TestParseConstituentsMissingColumns(t *testing.T) {
	page := `<html><body><table>
<tr><th>Symbol</th><th>Weight</th></tr>
<tr><td>MMM</td><td>0.5</td></tr>
</table></body></html>`
	_, err := parseConstituents([]byte(page))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security or gics sector")
}

func TestParseConstituentsSkipsDecorativeTables(t *testing.T) {
	// Tables without a Symbol header are passed over, not treated as errors.
	page := `<html><body>
<table><tr><th>Date</th><th>Event</th></tr><tr><td>2024-01-02</td><td>rebalance</td></tr></table>
<table>
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th></tr>
<tr><td>ABT</td><td>Abbott Laboratories</td><td>Health Care</td></tr>
</table>
</body></html>`
	rows, err := parseConstituents([]byte(page))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.IndexRow{Symbol: "ABT", Name: "Abbott Laboratories", Segment: "Health Care"}, rows[0])
}
