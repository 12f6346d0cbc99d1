// Package eastmoney implements a DataSource backed by the Eastmoney
// public kline API for A-share stocks and indexes.
package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/trademaster/trademaster/internal/core"
)

const defaultHistoryURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"

// klineLine matches "date,open,close,high,low,volume" entries.
var klineLine = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}),([^,]+),([^,]+),([^,]+),([^,]+),([^,]+)`)

// Eastmoney fetches daily bars from the Eastmoney kline endpoint.
type Eastmoney struct {
	client     *http.Client
	historyURL string
}

// Option configures an Eastmoney source.
type Option func(*Eastmoney)

// WithBaseURL overrides the kline endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(e *Eastmoney) { e.historyURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Eastmoney) { e.client = c }
}

// New creates a new Eastmoney data source.
func New(opts ...Option) *Eastmoney {
	e := &Eastmoney{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		historyURL: defaultHistoryURL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// parseSymbol converts a code to an Eastmoney secid. Shanghai = 1,
// Shenzhen = 0. Accepts both "600519.SH" and the "sh600519" prefix form
// used for index codes like sh000300.
func parseSymbol(symbol string) string {
	if parts := strings.Split(symbol, "."); len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "SZ":
			return "0." + parts[0]
		default:
			return "1." + parts[0]
		}
	}

	lower := strings.ToLower(symbol)
	switch {
	case strings.HasPrefix(lower, "sh"):
		return "1." + symbol[2:]
	case strings.HasPrefix(lower, "sz"):
		return "0." + symbol[2:]
	}
	return "1." + symbol
}

// GetDailyBars fetches forward-adjusted daily bars for a stock.
func (e *Eastmoney) GetDailyBars(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error) {
	return e.fetchKlines(ctx, code, start, end, "1")
}

// GetIndexDaily fetches unadjusted daily bars for an index.
func (e *Eastmoney) GetIndexDaily(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error) {
	return e.fetchKlines(ctx, code, start, end, "0")
}

func (e *Eastmoney) fetchKlines(ctx context.Context, code string, start, end time.Time, fqt string) ([]core.Bar, error) {
	secid := parseSymbol(code)

	url := fmt.Sprintf("%s?secid=%s&klt=101&fqt=%s&beg=%s&end=%s&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56",
		e.historyURL, secid, fqt,
		start.Format("20060102"),
		end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrDataSourceFailed, fmt.Errorf("fetching klines for %s: %w", code, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrDataSourceFailed,
			fmt.Errorf("fetching klines for %s: unexpected status %d", code, resp.StatusCode))
	}

	var result historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrDataSourceFailed, fmt.Errorf("decoding response for %s: %w", code, err))
	}

	// An absent payload means no data for the range, not a failure.
	if result.Data == nil || len(result.Data.Klines) == 0 {
		return nil, nil
	}

	bars := make([]core.Bar, 0, len(result.Data.Klines))
	for _, line := range result.Data.Klines {
		matches := klineLine.FindStringSubmatch(line)
		if len(matches) < 7 {
			continue
		}

		t, _ := time.Parse("2006-01-02", matches[1])
		open, _ := strconv.ParseFloat(matches[2], 64)
		closePrice, _ := strconv.ParseFloat(matches[3], 64)
		high, _ := strconv.ParseFloat(matches[4], 64)
		low, _ := strconv.ParseFloat(matches[5], 64)
		volume, _ := strconv.ParseInt(matches[6], 10, 64)

		bars = append(bars, core.Bar{
			Code:   code,
			Date:   t,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return bars, nil
}

// Response types
type historyResponse struct {
	Data *historyData `json:"data"`
}

type historyData struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Klines []string `json:"klines"`
}
