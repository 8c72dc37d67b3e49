package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PutScout/internal/model"
)

// YahooProvider implements MarketData using the Yahoo Finance public API.
type YahooProvider struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooProvider creates a Yahoo Finance provider, optionally through a
// proxy.
func NewYahooProvider(proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
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
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooOptionChain is the response structure from the options API.
type yahooOptionChain struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				Puts []struct {
					Strike            float64 `json:"strike"`
					Bid               float64 `json:"bid"`
					Ask               float64 `json:"ask"`
					LastPrice         float64 `json:"lastPrice"`
					ImpliedVolatility float64 `json:"impliedVolatility"`
					Volume            float64 `json:"volume"`
					OpenInterest      float64 `json:"openInterest"`
				} `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

// yahooQuoteSummary is the trimmed quoteSummary response for sector lookup.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (p *YahooProvider) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, ticker, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.BaseURL, url.PathEscape(ticker), interval, rng)

	var chart yahooChart
	if err := p.getJSON(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data returned")
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchPriceSeries returns two years of daily bars, enough for the 200-day
// SMA and a one-year rolling volatility window.
func (p *YahooProvider) FetchPriceSeries(ctx context.Context, ticker string) (*model.PriceSeries, error) {
	bars, err := p.fetchChart(ctx, ticker, "1d", "2y")
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: no price data for %s", ticker)
	}
	return &model.PriceSeries{
		Ticker:       ticker,
		Bars:         bars,
		CurrentPrice: bars[len(bars)-1].Close,
		FetchedAt:    time.Now(),
	}, nil
}

// FetchExpirations lists the option expiration dates for a ticker.
func (p *YahooProvider) FetchExpirations(ctx context.Context, ticker string) ([]time.Time, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s", p.BaseURL, url.PathEscape(ticker))

	var chain yahooOptionChain
	if err := p.getJSON(ctx, u, &chain); err != nil {
		return nil, err
	}
	if chain.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chain.OptionChain.Error.Description)
	}
	if len(chain.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no option chain for %s", ticker)
	}

	dates := make([]time.Time, 0, len(chain.OptionChain.Result[0].ExpirationDates))
	for _, ts := range chain.OptionChain.Result[0].ExpirationDates {
		dates = append(dates, time.Unix(ts, 0).UTC())
	}
	return dates, nil
}

// FetchPuts returns the put quotes for one (ticker, expiration) pair.
func (p *YahooProvider) FetchPuts(ctx context.Context, ticker string, expiration time.Time) ([]model.OptionQuote, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s?date=%d",
		p.BaseURL, url.PathEscape(ticker), expiration.Unix())

	var chain yahooOptionChain
	if err := p.getJSON(ctx, u, &chain); err != nil {
		return nil, err
	}
	if chain.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chain.OptionChain.Error.Description)
	}
	if len(chain.OptionChain.Result) == 0 || len(chain.OptionChain.Result[0].Options) == 0 {
		return nil, fmt.Errorf("yahoo: empty chain for %s %s", ticker, expiration.Format("2006-01-02"))
	}

	raw := chain.OptionChain.Result[0].Options[0].Puts
	quotes := make([]model.OptionQuote, 0, len(raw))
	for _, q := range raw {
		quotes = append(quotes, model.OptionQuote{
			Ticker:            ticker,
			Expiration:        expiration,
			Strike:            q.Strike,
			Bid:               q.Bid,
			Ask:               q.Ask,
			LastPrice:         q.LastPrice,
			ImpliedVolatility: q.ImpliedVolatility,
			Volume:            q.Volume,
			OpenInterest:      q.OpenInterest,
		})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Strike < quotes[j].Strike })
	return quotes, nil
}

// FetchRiskFreeRate reads the 10-year treasury yield (^TNX) as a decimal.
func (p *YahooProvider) FetchRiskFreeRate(ctx context.Context) (float64, error) {
	bars, err := p.fetchChart(ctx, "^TNX", "1d", "5d")
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no treasury yield data")
	}
	return bars[len(bars)-1].Close / 100, nil
}

// FetchSector reads the sector label from the asset profile, "N/A" when the
// profile has none.
func (p *YahooProvider) FetchSector(ctx context.Context, ticker string) (string, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile",
		p.BaseURL, url.PathEscape(ticker))

	var summary yahooQuoteSummary
	if err := p.getJSON(ctx, u, &summary); err != nil {
		return "", err
	}
	if len(summary.QuoteSummary.Result) == 0 || summary.QuoteSummary.Result[0].AssetProfile.Sector == "" {
		return "N/A", nil
	}
	return summary.QuoteSummary.Result[0].AssetProfile.Sector, nil
}
