package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/Shriiii01/investment-agent/internal/config"
	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

// systemPrompt frames the model as an investment analyst.
const systemPrompt = "You are an investment analyst that researches stock prices, " +
	"analyst recommendations, and stock fundamentals. " +
	"Format your response using markdown and use tables to display data where possible. " +
	"Provide actionable insights and recommendations. " +
	"Include risk assessment in your analysis. " +
	"Compare key metrics side-by-side. " +
	"Highlight both strengths and weaknesses of each stock."

// analysisFocus adds per-type guidance to the comparison query.
var analysisFocus = map[models.AnalysisType]string{
	models.AnalysisQuick:     "Keep the report short: a summary table and a three-sentence verdict.",
	models.AnalysisDetailed:  "Write a detailed report covering valuation, momentum, risk and a final recommendation.",
	models.AnalysisPortfolio: "Focus on how the two stocks would complement each other in a diversified portfolio.",
	models.AnalysisTrend:     "Focus on price trend, momentum and technical posture over the analyzed period.",
}

// Client generates narrative comparison reports through the Anthropic API.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	logger    *logrus.Logger
}

// NewClient creates a narrative report client from configuration.
func NewClient(cfg config.AgentConfig, logger *logrus.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("agent API key is required (set ANTHROPIC_API_KEY or agent.api_key)")
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	logger.WithFields(logrus.Fields{
		"model":      cfg.Model,
		"max_tokens": maxTokens,
	}).Debug("Narrative agent initialized")

	return &Client{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Compare generates the narrative comparison report for two symbols. The
// computed metric table is embedded in the prompt so the narrative and the
// displayed numbers agree. Failures surface as APIError.
func (c *Client) Compare(ctx context.Context, req models.CompareRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
		},
	})
	if err != nil {
		return "", utils.NewAPIError(fmt.Sprintf("narrative generation failed for %s vs %s", req.Symbol1, req.Symbol2), err)
	}

	var report strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			report.WriteString(block.Text)
		}
	}
	if report.Len() == 0 {
		return "", utils.NewAPIError("narrative generation returned an empty response", nil)
	}

	c.logger.WithFields(logrus.Fields{
		"symbols":  []string{req.Symbol1, req.Symbol2},
		"duration": time.Since(start),
		"length":   report.Len(),
	}).Info("Generated narrative report")
	return report.String(), nil
}

// HealthCheck reports whether the narrative client is configured.
func (c *Client) HealthCheck() error {
	if c.model == "" {
		return fmt.Errorf("narrative agent model is not configured")
	}
	return nil
}

// BuildPrompt renders the comparison query, embedding the computed metric
// table as markdown.
func BuildPrompt(req models.CompareRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Compare both the stocks - %s and %s - and make a detailed report "+
		"for an investor trying to invest and compare these stocks.\n", req.Symbol1, req.Symbol2)

	if focus, ok := analysisFocus[req.AnalysisType]; ok {
		b.WriteString(focus)
		b.WriteString("\n")
	}

	if len(req.Comparison) > 0 {
		b.WriteString("\nComputed metrics for the analyzed period:\n\n")
		fmt.Fprintf(&b, "| Metric | %s | %s |\n", req.Symbol1, req.Symbol2)
		b.WriteString("|---|---|---|\n")
		for _, row := range req.Comparison {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", row.Metric, row.Value1, row.Value2)
		}
	}
	return b.String()
}
