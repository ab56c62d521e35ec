package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BeInformed/internal/ports"
)

// maxContentRunes bounds extracted text so oversized pages do not bloat the
// analysis payload.
const maxContentRunes = 10000

// Extractor fetches an article page and pulls readable paragraph text for
// analysis when the provider payload came without content.
type Extractor struct {
	client *http.Client
}

var _ ports.ContentFetcher = (*Extractor)(nil)

// NewExtractor wires an HTTP client.
func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Extractor{client: client}
}

// Extract downloads the page and returns its paragraph text, preferring the
// <article> element when present.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "BeInformed/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	return extractText(doc), nil
}

func extractText(doc *goquery.Document) string {
	scope := doc.Selection
	if article := doc.Find("article").First(); article.Length() > 0 {
		scope = article
	}

	var paragraphs []string
	scope.Find("p").Each(func(i int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	content := strings.Join(paragraphs, "\n\n")
	if runes := []rune(content); len(runes) > maxContentRunes {
		content = string(runes[:maxContentRunes])
	}
	return content
}
