// Package apiclient is a typed REST client for the BeInformed backend API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"BeInformed/internal/domain"
)

const apiPrefix = "/api/v1"

// Client talks to the backend API. A single base URL covers the whole
// surface; all requests share one bounded-timeout HTTP client.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a reusable client for the given server root URL.
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    client,
	}
}

// Health checks the canonical liveness endpoint at the server root.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("backend reported status %q", resp.Status)
	}
	return nil
}

// Probe issues the cheap reachability check used by the readiness monitor:
// a single-item sources read where any success counts as healthy.
func (c *Client) Probe(ctx context.Context) error {
	q := url.Values{}
	q.Set("limit", "1")
	return c.get(ctx, apiPrefix+"/sources", q, nil)
}

// SearchTopic searches (or creates) a topic and triggers article collection.
func (c *Client) SearchTopic(ctx context.Context, topic string, maxArticles int) (domain.TopicSearchResult, error) {
	body := map[string]any{"topic": topic}
	if maxArticles > 0 {
		body["max_articles"] = maxArticles
	}

	var result domain.TopicSearchResult
	if err := c.post(ctx, apiPrefix+"/topics/search", body, &result); err != nil {
		return domain.TopicSearchResult{}, err
	}
	return result, nil
}

// Topic fetches topic metadata by ID.
func (c *Client) Topic(ctx context.Context, id int64) (domain.Topic, error) {
	var topic domain.Topic
	err := c.get(ctx, fmt.Sprintf("%s/topics/%d", apiPrefix, id), nil, &topic)
	return topic, err
}

// Topics lists topics with pagination and sorting.
func (c *Client) Topics(ctx context.Context, skip, limit int, sortBy string) ([]domain.Topic, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if sortBy != "" {
		q.Set("sort_by", sortBy)
	}

	var topics []domain.Topic
	err := c.get(ctx, apiPrefix+"/topics", q, &topics)
	return topics, err
}

// TopicArticles fetches one page of a topic's articles.
func (c *Client) TopicArticles(ctx context.Context, topicID int64, page, size int) (domain.ArticlePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var result domain.ArticlePage
	err := c.get(ctx, fmt.Sprintf("%s/topics/%d/articles", apiPrefix, topicID), q, &result)
	return result, err
}

// TopicStatistics fetches the aggregate rollup for a topic. days=0 covers
// all time.
func (c *Client) TopicStatistics(ctx context.Context, topicID int64, days int) (domain.TopicStatistics, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))

	var stats domain.TopicStatistics
	err := c.get(ctx, fmt.Sprintf("%s/statistics/topics/%d", apiPrefix, topicID), q, &stats)
	return stats, err
}

// SourceStatistics fetches the per-source rollup for a topic.
func (c *Client) SourceStatistics(ctx context.Context, topicID int64) ([]domain.SourceStatistics, error) {
	var stats []domain.SourceStatistics
	err := c.get(ctx, fmt.Sprintf("%s/statistics/topics/%d/sources", apiPrefix, topicID), nil, &stats)
	return stats, err
}

// SentimentOverTime fetches the sentiment time series for a topic.
func (c *Client) SentimentOverTime(ctx context.Context, topicID int64, days int, interval string) (domain.SentimentOverTime, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", interval)

	var series domain.SentimentOverTime
	err := c.get(ctx, fmt.Sprintf("%s/statistics/topics/%d/sentiment-over-time", apiPrefix, topicID), q, &series)
	return series, err
}

// AnalyzeTopic triggers background analysis of a topic's unanalyzed
// articles. Success means the caller should re-fetch the topic later.
func (c *Client) AnalyzeTopic(ctx context.Context, topicID int64) error {
	return c.post(ctx, fmt.Sprintf("%s/analysis/topics/%d/analyze", apiPrefix, topicID), nil, nil)
}

// AnalyzeArticle triggers synchronous analysis of one article.
func (c *Client) AnalyzeArticle(ctx context.Context, articleID int64) error {
	return c.post(ctx, fmt.Sprintf("%s/analysis/articles/%d/analyze", apiPrefix, articleID), nil, nil)
}

// Sources lists stored sources.
func (c *Client) Sources(ctx context.Context, skip, limit int) ([]domain.Source, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var sources []domain.Source
	err := c.get(ctx, apiPrefix+"/sources", q, &sources)
	return sources, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	return c.do(req, v)
}

func (c *Client) post(ctx context.Context, path string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("api error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
