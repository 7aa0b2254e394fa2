package metrics

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear is the annualization factor for daily return series.
const tradingDaysPerYear = 252

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// NotAvailable is the sentinel for a metric that cannot be computed from
// the given input. Callers must check IsAvailable before displaying a value.
func NotAvailable() float64 {
	return math.NaN()
}

// IsAvailable reports whether v is a computed metric value rather than the
// not-available sentinel.
func IsAvailable(v float64) bool {
	return !math.IsNaN(v)
}

// Returns converts a chronological price series into day-over-day
// percentage returns. Fewer than two prices yield an empty slice.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}

// Volatility is the annualized standard deviation of daily returns:
// stddev multiplied by sqrt(252). Requires at least two prices.
func Volatility(prices []float64) float64 {
	returns := Returns(prices)
	if len(returns) == 0 {
		return NotAvailable()
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
}

// SharpeRatio is the annualized mean excess return divided by annualized
// return standard deviation. riskFreeRate is an annual rate. Not available
// when the denominator is zero or the series is too short.
func SharpeRatio(prices []float64, riskFreeRate float64) float64 {
	returns := Returns(prices)
	if len(returns) == 0 {
		return NotAvailable()
	}

	annualizedReturn := stat.Mean(returns, nil) * tradingDaysPerYear
	annualizedStdDev := stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
	if annualizedStdDev == 0 || math.IsNaN(annualizedStdDev) {
		return NotAvailable()
	}
	return (annualizedReturn - riskFreeRate) / annualizedStdDev
}

// RSI is the Relative Strength Index over the given period using Wilder's
// smoothing, in [0, 100]. Requires at least period+1 prices.
func RSI(prices []float64, period int) float64 {
	if period < 1 || len(prices) < period+1 {
		return NotAvailable()
	}

	rsiIndicator := momentum.NewRsiWithPeriod[float64](period)
	values := helper.ChanToSlice(rsiIndicator.Compute(helper.SliceToChan(prices)))
	if len(values) == 0 {
		return NotAvailable()
	}
	return values[len(values)-1]
}

// Summary holds trivial aggregates over a price series.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Latest float64 `json:"latest"`
}

// Summarize computes min/max/mean/latest. All fields are not available
// when the input is empty.
func Summarize(prices []float64) Summary {
	if len(prices) == 0 {
		return Summary{
			Min:    NotAvailable(),
			Max:    NotAvailable(),
			Mean:   NotAvailable(),
			Latest: NotAvailable(),
		}
	}

	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return Summary{
		Min:    min,
		Max:    max,
		Mean:   stat.Mean(prices, nil),
		Latest: prices[len(prices)-1],
	}
}

// PeriodReturn is the total return from the first to the last price in the
// series, as a fraction (0.03 means 3%).
func PeriodReturn(prices []float64) float64 {
	if len(prices) < 2 || prices[0] == 0 {
		return NotAvailable()
	}
	return (prices[len(prices)-1] - prices[0]) / prices[0]
}

// Correlation is the Pearson correlation of the two series' daily returns.
// The series are aligned on their most recent overlapping window.
func Correlation(pricesA, pricesB []float64) float64 {
	returnsA := Returns(pricesA)
	returnsB := Returns(pricesB)

	n := len(returnsA)
	if len(returnsB) < n {
		n = len(returnsB)
	}
	if n < 2 {
		return NotAvailable()
	}

	return stat.Correlation(returnsA[len(returnsA)-n:], returnsB[len(returnsB)-n:], nil)
}

// Drawdown holds maximum and current drawdown, both as negative fractions
// (-0.10 means a 10% decline).
type Drawdown struct {
	Max     float64 `json:"max_drawdown"`
	Current float64 `json:"current_drawdown"`
}

// MaxDrawdown computes peak-to-trough declines against the running maximum.
func MaxDrawdown(prices []float64) Drawdown {
	if len(prices) == 0 {
		return Drawdown{Max: NotAvailable(), Current: NotAvailable()}
	}

	runningMax := prices[0]
	maxDrawdown := 0.0
	current := 0.0
	for _, p := range prices {
		if p > runningMax {
			runningMax = p
		}
		if runningMax == 0 {
			continue
		}
		current = (p - runningMax) / runningMax
		if current < maxDrawdown {
			maxDrawdown = current
		}
	}
	return Drawdown{Max: maxDrawdown, Current: current}
}

// TrendDirection classifies the price trend.
type TrendDirection string

const (
	TrendBullish  TrendDirection = "bullish"
	TrendBearish  TrendDirection = "bearish"
	TrendSideways TrendDirection = "sideways"
	TrendUnknown  TrendDirection = "unknown"
)

// TrendAnalysis is the outcome of a short/long moving-average comparison.
type TrendAnalysis struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"`
	ShortMA   float64        `json:"short_ma"`
	LongMA    float64        `json:"long_ma"`
}

// Trend compares the latest price against short- and long-window mean
// prices. Fewer than two prices yield an unknown trend.
func Trend(prices []float64) TrendAnalysis {
	if len(prices) < 2 {
		return TrendAnalysis{Direction: TrendUnknown}
	}

	shortWindow := 20
	if half := len(prices) / 2; half < shortWindow {
		shortWindow = half
	}
	if shortWindow < 1 {
		shortWindow = 1
	}
	longWindow := 50
	if len(prices) < longWindow {
		longWindow = len(prices)
	}

	shortMA := stat.Mean(prices[len(prices)-shortWindow:], nil)
	longMA := stat.Mean(prices[len(prices)-longWindow:], nil)
	latest := prices[len(prices)-1]

	analysis := TrendAnalysis{ShortMA: shortMA, LongMA: longMA}
	switch {
	case latest > shortMA && shortMA > longMA:
		analysis.Direction = TrendBullish
		analysis.Strength = math.Min(100, (latest-longMA)/longMA*1000)
	case latest < shortMA && shortMA < longMA:
		analysis.Direction = TrendBearish
		analysis.Strength = math.Min(100, (longMA-latest)/longMA*1000)
	default:
		analysis.Direction = TrendSideways
		analysis.Strength = 50
	}
	return analysis
}

// MovingAverages returns the latest simple moving average for each period
// that the series is long enough to cover.
func MovingAverages(prices []float64, periods []int) map[int]float64 {
	result := make(map[int]float64, len(periods))
	for _, period := range periods {
		if period < 1 || len(prices) < period {
			continue
		}
		smaIndicator := trend.NewSmaWithPeriod[float64](period)
		values := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(prices)))
		if len(values) > 0 {
			result[period] = values[len(values)-1]
		}
	}
	return result
}
