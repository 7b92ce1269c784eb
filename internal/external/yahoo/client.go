// Package yahoo fetches daily OHLCV history and live quotes from the Yahoo
// Finance chart API. It is the only upstream market data source.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/pkg/config"
	"github.com/wonny/pulse/backend/pkg/httputil"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// Client handles communication with the Yahoo Finance chart API.
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	timeout    time.Duration

	// 업스트림 예절용 로컬 토큰 버킷 (프로세스 단위)
	limiter *rate.Limiter
}

// NewClient creates a Yahoo Finance client. The rate limiter caps this
// process; cross-process limiting rides on the HTTP client's Redis limiter
// when one is attached.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Yahoo.BaseURL,
		timeout:    cfg.Yahoo.RequestTimeout,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Yahoo.RequestsPerSec), cfg.Yahoo.Burst),
	}
}

// yahooChart is the response structure of the chart API. Price arrays use
// interface{} because closed-market days arrive as JSON nulls.
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

func at(arr []interface{}, i int) interface{} {
	if i < len(arr) {
		return arr[i]
	}
	return nil
}

// tradingDate maps a Yahoo session timestamp to its UTC calendar date.
func tradingDate(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// fetchChart calls the chart endpoint for one symbol and converts the result
// to bars sorted by date. Unknown symbols and empty payloads come back as
// contracts.ErrEmptyHistory so callers can tell data conditions from
// provider faults.
func (c *Client) fetchChart(ctx context.Context, symbol string, params url.Values) ([]contracts.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		c.baseURL, url.PathEscape(symbol), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// 모르는 심볼은 404로 내려옴
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: %w", symbol, contracts.ErrEmptyHistory)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		if strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
			return nil, fmt.Errorf("symbol %s: %w", symbol, contracts.ErrEmptyHistory)
		}
		return nil, fmt.Errorf("chart API error: %s (%s)", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}

	if len(chart.Chart.Result) == 0 ||
		len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, contracts.ErrEmptyHistory)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]contracts.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(at(quote.Open, i))
		h := toFloat(at(quote.High, i))
		l := toFloat(at(quote.Low, i))
		cl := toFloat(at(quote.Close, i))
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // null 바 (거래 없는 날)
		}

		bars = append(bars, contracts.Bar{
			Date:   tradingDate(ts),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: int64(toFloat(at(quote.Volume, i))),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, contracts.ErrEmptyHistory)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// FetchDailyHistory returns daily bars for [start, end], oldest first. An
// unknown symbol or a window with no trading yields contracts.ErrEmptyHistory.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]contracts.Bar, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", "1d")

	bars, err := c.fetchChart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Fetched daily history")

	return bars, nil
}

// FetchQuote returns the most recent bar for a symbol as a live quote. During
// a session the bar is the in-progress one, so High moves intraday.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*contracts.SoftQuote, error) {
	params := url.Values{}
	params.Set("range", "5d")
	params.Set("interval", "1d")

	bars, err := c.fetchChart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	last := bars[len(bars)-1]
	return &contracts.SoftQuote{
		Symbol:          symbol,
		LastClose:       last.Close,
		LastHigh:        last.High,
		LastTradingDate: last.Date,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
