package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"BeInformed/internal/config"
	"BeInformed/internal/domain"
	"BeInformed/internal/newsprovider"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	maxPageSize    = 100
	searchWindow   = 30 * 24 * time.Hour
)

// Client fetches articles from the NewsAPI "everything" endpoint.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

var _ newsprovider.Provider = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.NewsAPIConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		language: language,
		client:   client,
	}
}

// Name identifies the provider inside the registry.
func (c *Client) Name() string {
	return "newsapi"
}

type searchResponse struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     []wireArticle `json:"articles"`
}

type wireArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Search queries the last month of coverage for the topic, sorted by
// relevancy, and maps the payload to domain articles. Entries without a
// title or URL are skipped.
func (c *Client) Search(ctx context.Context, query string, maxArticles int) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not configured")
	}
	if maxArticles <= 0 || maxArticles > maxPageSize {
		maxArticles = maxPageSize
	}

	now := time.Now().UTC()
	params := url.Values{}
	params.Set("q", query)
	params.Set("from", now.Add(-searchWindow).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("language", c.language)
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(maxArticles))
	params.Set("page", "1")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search everything: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned %s", resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, wire := range payload.Articles {
		if wire.Title == "" || wire.URL == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       wire.Title,
			URL:         wire.URL,
			Description: wire.Description,
			Content:     wire.Content,
			Author:      wire.Author,
			PublishedAt: parsePublishedAt(wire.PublishedAt),
			ImageURL:    wire.URLToImage,
			SourceName:  wire.Source.Name,
		})
	}

	return articles, nil
}

func parsePublishedAt(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &parsed
}
