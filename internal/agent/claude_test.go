package agent

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shriiii01/investment-agent/internal/config"
	"github.com/Shriiii01/investment-agent/internal/models"
)

func TestNewClient(t *testing.T) {
	logger := logrus.New()

	t.Run("requires API key", func(t *testing.T) {
		_, err := NewClient(config.AgentConfig{Model: "claude-sonnet-4-20250514"}, logger)
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewClient(config.AgentConfig{
			APIKey: "test-key",
			Model:  "claude-sonnet-4-20250514",
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, int64(4096), c.maxTokens)
		assert.NotZero(t, c.timeout)
	})
}

func TestHealthCheck(t *testing.T) {
	logger := logrus.New()

	c, err := NewClient(config.AgentConfig{
		APIKey: "test-key",
		Model:  "claude-sonnet-4-20250514",
	}, logger)
	require.NoError(t, err)
	assert.NoError(t, c.HealthCheck())

	assert.Error(t, (&Client{}).HealthCheck())
}

func TestBuildPrompt(t *testing.T) {
	req := models.CompareRequest{
		Symbol1:      "AAPL",
		Symbol2:      "MSFT",
		AnalysisType: models.AnalysisDetailed,
		Comparison: []models.ComparisonRow{
			{Metric: "Volatility (Ann.)", Value1: "22.10%", Value2: "19.80%"},
			{Metric: "Sharpe Ratio", Value1: "1.34", Value2: "N/A"},
		},
	}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "AAPL and MSFT")
	assert.Contains(t, prompt, "| Metric | AAPL | MSFT |")
	assert.Contains(t, prompt, "| Sharpe Ratio | 1.34 | N/A |")
	assert.Contains(t, prompt, "detailed report")
}

func TestBuildPromptWithoutMetrics(t *testing.T) {
	prompt := BuildPrompt(models.CompareRequest{
		Symbol1:      "AAPL",
		Symbol2:      "GOOG",
		AnalysisType: models.AnalysisQuick,
	})

	assert.Contains(t, prompt, "AAPL and GOOG")
	assert.NotContains(t, prompt, "| Metric |")
}
