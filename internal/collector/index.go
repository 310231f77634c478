package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"MarketVault/internal/model"
)

// IndexSource fetches the reference index constituents from an HTML page
// carrying a constituents table. Every successful fetch refreshes an on-disk
// CSV cache; when the fetch fails the cache keeps builds running offline.
type IndexSource struct {
	URL       string
	CachePath string
	Client    *http.Client
}

// NewIndexSource creates an index source with optional proxy support.
func NewIndexSource(rawURL, cachePath, proxyURL string) *IndexSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &IndexSource{
		URL:       rawURL,
		CachePath: cachePath,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Fetch returns the current index constituents. A failed fetch falls back to
// the cached copy with a warning; only when both the fetch and the cache are
// unavailable does the universe have no primary source left, which is fatal
// for a stock build.
func (s *IndexSource) Fetch(ctx context.Context) ([]model.IndexRow, error) {
	rows, err := s.fetchLive(ctx)
	if err == nil {
		if cacheErr := s.writeCache(rows); cacheErr != nil {
			log.Printf("[WARN] refresh index cache: %v", cacheErr)
		}
		return rows, nil
	}

	cached, cacheErr := s.readCache()
	if cacheErr != nil {
		return nil, fmt.Errorf("fetch index constituents: %v; cached copy unavailable: %w", err, cacheErr)
	}
	log.Printf("[WARN] could not refresh index constituents (%v); using cached copy", err)
	return cached, nil
}

func (s *IndexSource) fetchLive(ctx context.Context) ([]model.IndexRow, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MarketVault/1.0; +https://localhost)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", s.URL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read index page: %w", err)
	}
	return parseConstituents(body)
}

// parseConstituents locates the constituents table in an HTML document: the
// first table whose header row carries a Symbol column. The table must also
// name the security and its GICS sector.
func parseConstituents(page []byte) ([]model.IndexRow, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	for _, table := range findTables(doc) {
		rows := tableCells(table)
		if len(rows) == 0 {
			continue
		}
		header := make(map[string]int, len(rows[0]))
		for i, name := range rows[0] {
			key := strings.ToLower(strings.TrimSpace(name))
			if _, taken := header[key]; !taken {
				header[key] = i
			}
		}
		symbolIdx, ok := header["symbol"]
		if !ok {
			continue
		}
		nameIdx, nameOK := header["security"]
		sectorIdx, sectorOK := header["gics sector"]
		if !nameOK || !sectorOK {
			return nil, fmt.Errorf("constituents table is missing the security or gics sector column")
		}

		out := make([]model.IndexRow, 0, len(rows)-1)
		for _, cells := range rows[1:] {
			if symbolIdx >= len(cells) {
				continue
			}
			symbol := strings.ToUpper(strings.TrimSpace(cells[symbolIdx]))
			if symbol == "" {
				continue
			}
			row := model.IndexRow{Symbol: symbol}
			if nameIdx < len(cells) {
				row.Name = strings.TrimSpace(cells[nameIdx])
			}
			if sectorIdx < len(cells) {
				row.Segment = strings.TrimSpace(cells[sectorIdx])
			}
			out = append(out, row)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("constituents table has no rows")
		}
		return out, nil
	}
	return nil, fmt.Errorf("unable to locate a constituents table in response")
}

func findTables(n *html.Node) []*html.Node {
	var tables []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "table" {
			tables = append(tables, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return tables
}

// tableCells flattens a table element into rows of trimmed cell text.
func tableCells(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			var cells []string
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
					cells = append(cells, strings.TrimSpace(nodeText(c)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

func (s *IndexSource) writeCache(rows []model.IndexRow) error {
	if s.CachePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.CachePath), 0755); err != nil {
		return err
	}
	f, err := os.Create(s.CachePath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "name", "sector"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Symbol, row.Name, row.Segment}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *IndexSource) readCache() ([]model.IndexRow, error) {
	if s.CachePath == "" {
		return nil, fmt.Errorf("no cache path configured")
	}
	f, err := os.Open(s.CachePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse index cache: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("index cache %s is empty", s.CachePath)
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	symbolIdx, ok := idx["symbol"]
	if !ok {
		return nil, fmt.Errorf("index cache %s has no symbol column", s.CachePath)
	}
	nameIdx, nameOK := idx["name"]
	sectorIdx, sectorOK := idx["sector"]

	rows := make([]model.IndexRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if symbolIdx >= len(rec) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(rec[symbolIdx]))
		if symbol == "" {
			continue
		}
		row := model.IndexRow{Symbol: symbol}
		if nameOK && nameIdx < len(rec) {
			row.Name = strings.TrimSpace(rec[nameIdx])
		}
		if sectorOK && sectorIdx < len(rec) {
			row.Segment = strings.TrimSpace(rec[sectorIdx])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
