package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Shriiii01/investment-agent/internal/cache"
	"github.com/Shriiii01/investment-agent/internal/metrics"
	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/store"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

const notAvailableLabel = "N/A"

// PriceProvider supplies daily closing price series per symbol and period.
type PriceProvider interface {
	GetDailySeries(ctx context.Context, symbol, period string) (*models.PriceSeries, error)
}

// Narrator turns a metric comparison into a written report.
type Narrator interface {
	Compare(ctx context.Context, req models.CompareRequest) (string, error)
}

// AnalysisService orchestrates a two-symbol comparison: price retrieval
// through the cache, metric computation, narrative generation and history
// persistence.
type AnalysisService struct {
	cache     *cache.FileCache
	history   *store.HistoryStore
	settings  *store.SettingsStore
	provider  PriceProvider
	narrator  Narrator
	perf      *PerformanceMonitor
	rsiPeriod int
	logger    *logrus.Logger
}

// NewAnalysisService wires the analysis pipeline together.
func NewAnalysisService(
	fileCache *cache.FileCache,
	history *store.HistoryStore,
	settings *store.SettingsStore,
	provider PriceProvider,
	narrator Narrator,
	perf *PerformanceMonitor,
	rsiPeriod int,
	logger *logrus.Logger,
) *AnalysisService {
	if rsiPeriod < 2 {
		rsiPeriod = 14
	}
	return &AnalysisService{
		cache:     fileCache,
		history:   history,
		settings:  settings,
		provider:  provider,
		narrator:  narrator,
		perf:      perf,
		rsiPeriod: rsiPeriod,
		logger:    logger,
	}
}

// Analyze runs the full comparison pipeline for one request. Missing
// analysis type or period fall back to the stored settings.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
	done := s.perf.Track("analyze")
	defer done()

	symbol1 := models.NormalizeSymbol(req.Symbol1)
	if err := models.ValidateSymbol(symbol1); err != nil {
		return nil, err
	}
	symbol2 := models.NormalizeSymbol(req.Symbol2)
	if err := models.ValidateSymbol(symbol2); err != nil {
		return nil, err
	}
	if symbol1 == symbol2 {
		return nil, utils.NewValidationErrorf("cannot compare %s against itself", symbol1)
	}

	settings := s.settings.Load()
	analysisType := models.AnalysisType(req.AnalysisType)
	if req.AnalysisType == "" {
		analysisType = settings.DefaultAnalysisType
	}
	if err := models.ValidateAnalysisType(analysisType); err != nil {
		return nil, err
	}
	period := req.Period
	if period == "" {
		period = settings.DefaultPeriod
	}
	if !models.ValidatePeriod(period) {
		return nil, utils.NewValidationErrorf("invalid period %q: expected one of %v", period, models.ValidPeriods)
	}

	series1, err := s.fetchSeries(ctx, symbol1, period)
	if err != nil {
		return nil, utils.Classify(s.logger, "fetch series", err)
	}
	series2, err := s.fetchSeries(ctx, symbol2, period)
	if err != nil {
		return nil, utils.Classify(s.logger, "fetch series", err)
	}

	comparison := s.buildComparison(series1, series2, settings.RiskFreeRate)

	report, err := s.narrator.Compare(ctx, models.CompareRequest{
		Symbol1:      symbol1,
		Symbol2:      symbol2,
		AnalysisType: analysisType,
		Comparison:   comparison,
	})
	if err != nil {
		return nil, utils.Classify(s.logger, "generate narrative", err)
	}

	result := &models.AnalysisResult{
		ID:           uuid.New().String(),
		Symbols:      [2]string{symbol1, symbol2},
		AnalysisType: analysisType,
		Period:       period,
		GeneratedAt:  time.Now().UTC(),
		Report:       report,
		Comparison:   comparison,
	}

	if err := s.history.Append(models.HistoryRecord{
		ID:           result.ID,
		Symbols:      result.Symbols,
		AnalysisType: result.AnalysisType,
		Timestamp:    result.GeneratedAt,
		Report:       result.Report,
		Comparison:   result.Comparison,
	}); err != nil {
		// The analysis succeeded; a history write failure must not lose it.
		s.logger.WithError(err).Warn("Failed to record analysis in history")
	}

	s.logger.WithFields(logrus.Fields{
		"symbols": result.Symbols,
		"type":    result.AnalysisType,
		"period":  result.Period,
	}).Info("Analysis complete")
	return result, nil
}

// fetchSeries reads the price series through the file cache so repeated
// comparisons within the TTL skip the upstream call.
func (s *AnalysisService) fetchSeries(ctx context.Context, symbol, period string) (*models.PriceSeries, error) {
	key := cache.Key("daily_series", symbol, period)
	raw, err := s.cache.GetOrCompute(key, func() (any, error) {
		return s.provider.GetDailySeries(ctx, symbol, period)
	})
	if err != nil {
		return nil, err
	}

	var series models.PriceSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("corrupt cached series for %s", symbol), err)
	}
	return &series, nil
}

// buildComparison computes the metric table for both series. Unavailable
// values render as N/A so the result stays JSON safe.
func (s *AnalysisService) buildComparison(a, b *models.PriceSeries, riskFreeRate float64) []models.ComparisonRow {
	summaryA := metrics.Summarize(a.Closes)
	summaryB := metrics.Summarize(b.Closes)
	trendA := metrics.Trend(a.Closes)
	trendB := metrics.Trend(b.Closes)
	drawdownA := metrics.MaxDrawdown(a.Closes)
	drawdownB := metrics.MaxDrawdown(b.Closes)
	smaPeriods := []int{20, 50}
	smaA := metrics.MovingAverages(a.Closes, smaPeriods)
	smaB := metrics.MovingAverages(b.Closes, smaPeriods)
	correlation := formatNumber(metrics.Correlation(a.Closes, b.Closes))

	return []models.ComparisonRow{
		{Metric: "Latest Close", Value1: formatNumber(summaryA.Latest), Value2: formatNumber(summaryB.Latest)},
		{Metric: "Period Low", Value1: formatNumber(summaryA.Min), Value2: formatNumber(summaryB.Min)},
		{Metric: "Period High", Value1: formatNumber(summaryA.Max), Value2: formatNumber(summaryB.Max)},
		{Metric: "Mean Close", Value1: formatNumber(summaryA.Mean), Value2: formatNumber(summaryB.Mean)},
		{Metric: "Period Return", Value1: formatPercent(metrics.PeriodReturn(a.Closes)), Value2: formatPercent(metrics.PeriodReturn(b.Closes))},
		{Metric: "Volatility (Ann.)", Value1: formatPercent(metrics.Volatility(a.Closes)), Value2: formatPercent(metrics.Volatility(b.Closes))},
		{Metric: "Sharpe Ratio", Value1: formatNumber(metrics.SharpeRatio(a.Closes, riskFreeRate)), Value2: formatNumber(metrics.SharpeRatio(b.Closes, riskFreeRate))},
		{Metric: fmt.Sprintf("RSI (%d)", s.rsiPeriod), Value1: formatNumber(metrics.RSI(a.Closes, s.rsiPeriod)), Value2: formatNumber(metrics.RSI(b.Closes, s.rsiPeriod))},
		{Metric: "Max Drawdown", Value1: formatPercent(drawdownA.Max), Value2: formatPercent(drawdownB.Max)},
		{Metric: "SMA (20)", Value1: formatSMA(smaA, 20), Value2: formatSMA(smaB, 20)},
		{Metric: "SMA (50)", Value1: formatSMA(smaA, 50), Value2: formatSMA(smaB, 50)},
		{Metric: "Trend", Value1: formatTrend(trendA), Value2: formatTrend(trendB)},
		{Metric: "Correlation", Value1: correlation, Value2: correlation},
	}
}

func formatNumber(v float64) string {
	if !metrics.IsAvailable(v) {
		return notAvailableLabel
	}
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

func formatPercent(v float64) string {
	if !metrics.IsAvailable(v) {
		return notAvailableLabel
	}
	return decimal.NewFromFloat(v * 100).Round(2).StringFixed(2) + "%"
}

func formatSMA(averages map[int]float64, period int) string {
	value, ok := averages[period]
	if !ok {
		return notAvailableLabel
	}
	return formatNumber(value)
}

func formatTrend(t metrics.TrendAnalysis) string {
	if t.Direction == metrics.TrendUnknown {
		return notAvailableLabel
	}
	return fmt.Sprintf("%s (%s)", t.Direction, decimal.NewFromFloat(t.Strength).Round(1).StringFixed(1))
}
