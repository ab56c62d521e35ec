// Package analysis talks to the external NLP service that labels articles
// with sentiment, political bias, and sensationalism. The scoring model
// behind the endpoint is a black box to this system.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"BeInformed/internal/config"
	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// Client implements ports.Analyzer against the analysis HTTP endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Analyzer = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(cfg config.AnalysisConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		http:     client,
	}
}

type analyzeResponse struct {
	Sentiment struct {
		Score      float64 `json:"score"`
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"sentiment"`
	Bias struct {
		Score float64 `json:"score"`
		Label string  `json:"label"`
	} `json:"political_bias"`
	Sensationalism struct {
		Score float64 `json:"score"`
		Label string  `json:"label"`
	} `json:"sensationalism"`
}

// Analyze sends the article text for labeling and returns the scored
// result.
func (c *Client) Analyze(ctx context.Context, article domain.Article) (domain.Analysis, error) {
	if c.endpoint == "" {
		return domain.Analysis{}, fmt.Errorf("analysis client misconfigured")
	}

	payload := map[string]any{
		"title":       article.Title,
		"description": article.Description,
		"content":     article.Content,
		"source_name": article.SourceName,
	}

	var resp analyzeResponse
	if err := c.post(ctx, "/analyze", payload, &resp); err != nil {
		return domain.Analysis{}, err
	}

	return domain.Analysis{
		SentimentScore:      resp.Sentiment.Score,
		SentimentLabel:      domain.SentimentLabel(resp.Sentiment.Label),
		SentimentConfidence: resp.Sentiment.Confidence,
		BiasScore:           resp.Bias.Score,
		BiasLabel:           domain.BiasLabel(resp.Bias.Label),
		SensationalismScore: resp.Sensationalism.Score,
		SensationalismLabel: domain.SensationalismLabel(resp.Sensationalism.Label),
		AnalyzedAt:          time.Now().UTC(),
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("analysis error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
