package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"MarketVault/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// historyColumns is the column layout of chart API tables. The normalizer
// maps these names case-insensitively, so they mirror the provider's own
// labels rather than the canonical ones.
var historyColumns = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: defaultYahooBaseURL,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// cell renders a chart API value as a table cell. Nulls become empty cells,
// which the normalizer reads as NaN.
func cell(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return model.FormatFloat(n)
	case int:
		return model.FormatFloat(float64(n))
	}
	return ""
}

func at(values []interface{}, i int) interface{} {
	if i < len(values) {
		return values[i]
	}
	return nil
}

// FetchHistory pulls daily bars for [start, end) from the chart API.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, start, end model.Date) (model.Table, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(symbol), start.Time().Unix(), end.Time().Unix())

	body, err := f.get(ctx, u)
	if err != nil {
		return model.Table{}, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return model.Table{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return model.Table{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return model.Table{}, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if len(result.Indicators.Adjclose) > 0 {
		adj = result.Indicators.Adjclose[0].Adjclose
	}

	t := model.Table{Columns: historyColumns, Rows: make([][]string, 0, len(result.Timestamp))}
	for i, ts := range result.Timestamp {
		t.Rows = append(t.Rows, []string{
			model.DateOf(time.Unix(ts, 0).UTC()).String(),
			cell(at(quote.Open, i)),
			cell(at(quote.High, i)),
			cell(at(quote.Low, i)),
			cell(at(quote.Close, i)),
			cell(at(adj, i)),
			cell(at(quote.Volume, i)),
		})
	}
	return t, nil
}

// yahooQuote is the response structure from the v7 quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			Symbol            string   `json:"symbol"`
			LongName          string   `json:"longName"`
			ShortName         string   `json:"shortName"`
			MarketCap         *float64 `json:"marketCap"`
			SharesOutstanding *float64 `json:"sharesOutstanding"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// FetchFastMetadata pulls the quote snapshot: cheap, but it never carries a
// sector, so incomplete records go on to the full tier.
func (f *YahooFetcher) FetchFastMetadata(ctx context.Context, symbol string) (model.Metadata, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", f.BaseURL, url.QueryEscape(symbol))
	body, err := f.get(ctx, u)
	if err != nil {
		return model.Metadata{}, err
	}

	var quote yahooQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return model.Metadata{}, fmt.Errorf("yahoo decode quote: %w", err)
	}
	if quote.QuoteResponse.Error != nil {
		return model.Metadata{}, fmt.Errorf("yahoo quote error: %s", quote.QuoteResponse.Error.Description)
	}
	if len(quote.QuoteResponse.Result) == 0 {
		return model.Metadata{}, fmt.Errorf("yahoo quote: no result for %s", symbol)
	}

	r := quote.QuoteResponse.Result[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}
	return model.Metadata{
		Name:              name,
		MarketCap:         r.MarketCap,
		SharesOutstanding: r.SharesOutstanding,
	}, nil
}

// rawValue is Yahoo's {raw, fmt} number wrapper used by quoteSummary.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v *rawValue) ptr() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

// yahooSummary is the response structure from the v10 quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				LongName  string    `json:"longName"`
				ShortName string    `json:"shortName"`
				MarketCap *rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile *struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			DefaultKeyStatistics *struct {
				SharesOutstanding *rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFullMetadata pulls the profile modules: slower, but the only tier
// that reports a sector.
func (f *YahooFetcher) FetchFullMetadata(ctx context.Context, symbol string) (model.Metadata, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price%%2CsummaryProfile%%2CdefaultKeyStatistics",
		f.BaseURL, url.PathEscape(symbol))
	body, err := f.get(ctx, u)
	if err != nil {
		return model.Metadata{}, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return model.Metadata{}, fmt.Errorf("yahoo decode summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.Metadata{}, fmt.Errorf("yahoo summary error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.Metadata{}, fmt.Errorf("yahoo summary: no result for %s", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	var meta model.Metadata
	if r.Price != nil {
		meta.Name = r.Price.LongName
		if meta.Name == "" {
			meta.Name = r.Price.ShortName
		}
		meta.MarketCap = r.Price.MarketCap.ptr()
	}
	if r.SummaryProfile != nil {
		meta.Segment = r.SummaryProfile.Sector
	}
	if r.DefaultKeyStatistics != nil {
		meta.SharesOutstanding = r.DefaultKeyStatistics.SharesOutstanding.ptr()
	}
	return meta, nil
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
