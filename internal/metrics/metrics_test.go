package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns(t *testing.T) {
	assert.Nil(t, Returns(nil))
	assert.Nil(t, Returns([]float64{100}))

	returns := Returns([]float64{100, 102, 101})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.02, returns[0], 1e-9)
	assert.InDelta(t, -1.0/102.0, returns[1], 1e-9)
}

func TestVolatility(t *testing.T) {
	assert.False(t, IsAvailable(Volatility(nil)))
	assert.False(t, IsAvailable(Volatility([]float64{100})))

	vol := Volatility([]float64{100, 102, 101, 105, 103})
	require.True(t, IsAvailable(vol))
	assert.Positive(t, vol)
	assert.False(t, math.IsInf(vol, 0))
}

func TestSharpeRatio(t *testing.T) {
	assert.False(t, IsAvailable(SharpeRatio(nil, 0)))
	assert.False(t, IsAvailable(SharpeRatio([]float64{100}, 0)))

	// Constant prices have zero return stddev: not computable.
	assert.False(t, IsAvailable(SharpeRatio([]float64{100, 100, 100, 100}, 0)))

	sharpe := SharpeRatio([]float64{100, 102, 101, 105, 103}, 0)
	require.True(t, IsAvailable(sharpe))
	assert.False(t, math.IsInf(sharpe, 0))

	// A higher risk-free rate lowers the ratio.
	lower := SharpeRatio([]float64{100, 102, 101, 105, 103}, 0.05)
	assert.Less(t, lower, sharpe)
}

func TestRSI(t *testing.T) {
	// period+1 prices are required.
	short := make([]float64, DefaultRSIPeriod)
	for i := range short {
		short[i] = 100 + float64(i)
	}
	assert.False(t, IsAvailable(RSI(short, DefaultRSIPeriod)))

	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + 3*math.Sin(float64(i)/3) + float64(i)*0.2
	}
	rsi := RSI(prices, DefaultRSIPeriod)
	require.True(t, IsAvailable(rsi))
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)

	// A strictly rising series has no losses, so RSI saturates at 100.
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	assert.InDelta(t, 100.0, RSI(rising, DefaultRSIPeriod), 1e-6)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.False(t, IsAvailable(empty.Min))
	assert.False(t, IsAvailable(empty.Max))
	assert.False(t, IsAvailable(empty.Mean))
	assert.False(t, IsAvailable(empty.Latest))

	s := Summarize([]float64{100, 102, 101, 105, 103})
	assert.Equal(t, 100.0, s.Min)
	assert.Equal(t, 105.0, s.Max)
	assert.InDelta(t, 102.2, s.Mean, 1e-9)
	assert.Equal(t, 103.0, s.Latest)
}

func TestPeriodReturn(t *testing.T) {
	assert.False(t, IsAvailable(PeriodReturn([]float64{100})))
	// Fractions, same convention as Volatility: 0.03 is 3%.
	assert.InDelta(t, 0.03, PeriodReturn([]float64{100, 102, 101, 105, 103}), 1e-9)
	assert.InDelta(t, -0.5, PeriodReturn([]float64{100, 50}), 1e-9)
}

func TestCorrelation(t *testing.T) {
	assert.False(t, IsAvailable(Correlation([]float64{100}, []float64{100})))

	a := []float64{100, 102, 101, 105, 103}
	// Perfectly correlated: b moves in lockstep with a.
	b := []float64{50, 51, 50.5, 52.5, 51.5}
	assert.InDelta(t, 1.0, Correlation(a, b), 1e-9)

	// Series of different lengths align on the overlapping tail.
	longer := append([]float64{90, 95}, a...)
	assert.InDelta(t, 1.0, Correlation(longer, b), 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
	empty := MaxDrawdown(nil)
	assert.False(t, IsAvailable(empty.Max))

	d := MaxDrawdown([]float64{100, 110, 99, 105})
	assert.InDelta(t, -0.10, d.Max, 1e-9)
	assert.InDelta(t, (105.0-110.0)/110.0, d.Current, 1e-9)

	flat := MaxDrawdown([]float64{100, 100, 100})
	assert.Zero(t, flat.Max)
	assert.Zero(t, flat.Current)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendUnknown, Trend([]float64{100}).Direction)

	rising := make([]float64, 60)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	up := Trend(rising)
	assert.Equal(t, TrendBullish, up.Direction)
	assert.Positive(t, up.Strength)
	assert.Greater(t, up.ShortMA, up.LongMA)

	falling := make([]float64, 60)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	down := Trend(falling)
	assert.Equal(t, TrendBearish, down.Direction)

	flat := Trend([]float64{100, 100, 100, 100})
	assert.Equal(t, TrendSideways, flat.Direction)
}

func TestMovingAverages(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = float64(i + 1)
	}

	mas := MovingAverages(prices, []int{5, 20, 50})
	require.Contains(t, mas, 5)
	require.Contains(t, mas, 20)
	assert.NotContains(t, mas, 50)

	// Latest 5-day SMA over 26..30 is 28.
	assert.InDelta(t, 28.0, mas[5], 1e-9)
	// Latest 20-day SMA over 11..30 is 20.5.
	assert.InDelta(t, 20.5, mas[20], 1e-9)
}
