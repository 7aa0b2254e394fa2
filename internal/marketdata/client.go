package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shriiii01/investment-agent/internal/config"
	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

const (
	functionDaily = "TIME_SERIES_DAILY"

	// outputsize options: compact returns the latest 100 points, full the
	// whole history.
	outputSizeCompact = "compact"
	outputSizeFull    = "full"

	compactOutputSizeLimit = 100

	dateLayout = "2006-01-02"
)

// dailyResponse mirrors the upstream daily time series payload.
type dailyResponse struct {
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
	Note       string                       `json:"Note"`
	ErrorMsg   string                       `json:"Error Message"`
}

// Client fetches daily closing-price series from the market data provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a market data client from configuration.
func NewClient(cfg config.MarketDataConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetDailySeries retrieves the chronological daily closing prices for a
// symbol, truncated to the trading days covered by period. Upstream
// failures and empty payloads surface as StockDataError.
func (c *Client) GetDailySeries(ctx context.Context, symbol, period string) (*models.PriceSeries, error) {
	days := models.PeriodTradingDays(period)

	params := url.Values{}
	params.Add("function", functionDaily)
	params.Add("symbol", symbol)
	params.Add("apikey", c.apiKey)
	if days > compactOutputSizeLimit {
		params.Add("outputsize", outputSizeFull)
	} else {
		params.Add("outputsize", outputSizeCompact)
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, utils.NewStockDataError(fmt.Sprintf("failed to build request for %s", symbol), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.NewStockDataError(fmt.Sprintf("request for %s failed", symbol), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, utils.NewStockDataError(
			fmt.Sprintf("market data API returned status %d for %s: %s", resp.StatusCode, symbol, string(body)), nil)
	}

	var payload dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, utils.NewStockDataError(fmt.Sprintf("failed to decode response for %s", symbol), err)
	}
	if payload.ErrorMsg != "" {
		return nil, utils.NewStockDataError(fmt.Sprintf("market data API error for %s: %s", symbol, payload.ErrorMsg), nil)
	}
	if payload.Note != "" {
		return nil, utils.NewStockDataError(fmt.Sprintf("market data API throttled request for %s: %s", symbol, payload.Note), nil)
	}
	if len(payload.TimeSeries) == 0 {
		return nil, utils.NewStockDataError(fmt.Sprintf("no data returned for %s, possibly an unknown symbol", symbol), nil)
	}

	series, err := c.parseSeries(symbol, period, payload.TimeSeries, days)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"period": period,
		"points": series.Len(),
	}).Debug("Fetched daily price series")
	return series, nil
}

// parseSeries converts the date-keyed payload into a chronological series
// truncated to the most recent `days` points.
func (c *Client) parseSeries(symbol, period string, raw map[string]map[string]string, days int) (*models.PriceSeries, error) {
	dates := make([]string, 0, len(raw))
	for date := range raw {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	series := &models.PriceSeries{
		Symbol: symbol,
		Period: period,
		Dates:  make([]time.Time, 0, len(dates)),
		Closes: make([]float64, 0, len(dates)),
	}
	for _, date := range dates {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			c.logger.WithField("symbol", symbol).Warnf("Skipping malformed date %q: %v", date, err)
			continue
		}
		closeStr, ok := raw[date]["4. close"]
		if !ok {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			c.logger.WithField("symbol", symbol).Warnf("Skipping malformed close %q on %s: %v", closeStr, date, err)
			continue
		}
		series.Dates = append(series.Dates, parsed)
		series.Closes = append(series.Closes, closePrice)
	}

	if series.Len() == 0 {
		return nil, utils.NewStockDataError(fmt.Sprintf("price series for %s was empty after parsing", symbol), nil)
	}
	return series, nil
}
