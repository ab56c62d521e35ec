package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"BeInformed/internal/domain"
	"BeInformed/internal/newsprovider"
	"BeInformed/internal/ports"
)

const defaultMaxArticles = 20

// CollectorDeps wires the stores and the provider registry into the
// collection workflow.
type CollectorDeps struct {
	Topics    ports.TopicStore
	Articles  ports.ArticleStore
	Sources   ports.SourceStore
	Providers *newsprovider.Registry
	Provider  string
	Logger    *slog.Logger
}

// Collector implements the topic-search workflow: find or create the topic,
// fetch fresh coverage from the configured provider, and store it.
type Collector struct {
	topics    ports.TopicStore
	articles  ports.ArticleStore
	sources   ports.SourceStore
	providers *newsprovider.Registry
	provider  string
	logger    *slog.Logger
}

// NewCollector constructs the workflow component.
func NewCollector(deps CollectorDeps) *Collector {
	return &Collector{
		topics:    deps.Topics,
		articles:  deps.Articles,
		sources:   deps.Sources,
		providers: deps.Providers,
		provider:  deps.Provider,
		logger:    deps.Logger,
	}
}

// NormalizeTopic canonicalizes a topic name for lookup and storage.
func NormalizeTopic(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SearchTopic finds or creates the topic and collects articles for it.
// Per-article storage failures are reported in the result, not as an error.
func (c *Collector) SearchTopic(ctx context.Context, name string, maxArticles int) (domain.TopicSearchResult, error) {
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}

	normalized := NormalizeTopic(name)
	if normalized == "" {
		return domain.TopicSearchResult{}, fmt.Errorf("topic name is empty")
	}

	result := domain.TopicSearchResult{Errors: []string{}}

	topic, err := c.topics.ByName(ctx, normalized)
	if errors.Is(err, ports.ErrNotFound) {
		topic, err = c.topics.Create(ctx, normalized)
		if err != nil {
			return domain.TopicSearchResult{}, fmt.Errorf("create topic: %w", err)
		}
		result.IsNew = true
	} else if err != nil {
		return domain.TopicSearchResult{}, fmt.Errorf("load topic: %w", err)
	}

	if err := c.topics.RecordSearch(ctx, topic.ID); err != nil {
		return domain.TopicSearchResult{}, fmt.Errorf("record search: %w", err)
	}
	if refreshed, err := c.topics.ByID(ctx, topic.ID); err == nil {
		topic = refreshed
	}
	result.Topic = topic

	collection := c.collect(ctx, topic, name, maxArticles)
	result.ArticlesFound = collection.ArticlesFound
	result.ArticlesStored = collection.ArticlesStored
	result.SourcesFound = collection.SourcesFound
	result.SourcesStored = collection.SourcesStored
	result.Errors = collection.Errors

	return result, nil
}

// collect fetches articles from the provider and stores them. Failures are
// accumulated in the result so one bad article does not abort the search.
func (c *Collector) collect(ctx context.Context, topic domain.Topic, query string, maxArticles int) domain.CollectionResult {
	result := domain.CollectionResult{Topic: topic.Name, Errors: []string{}}

	provider, err := c.providers.Resolve(c.provider)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	fetched, err := provider.Search(ctx, query, maxArticles)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("error collecting articles: %v", err))
		return result
	}
	result.ArticlesFound = len(fetched)

	sourceNames := map[string]struct{}{}
	for _, article := range fetched {
		if article.SourceName != "" {
			sourceNames[article.SourceName] = struct{}{}
		}

		if err := c.storeArticle(ctx, topic, article); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error storing article %s: %v", article.Title, err))
			continue
		}
		result.ArticlesStored++
	}

	result.SourcesFound = len(sourceNames)
	if len(sourceNames) > 0 {
		titles := make([]string, 0, len(sourceNames))
		for name := range sourceNames {
			titles = append(titles, name)
		}
		sort.Strings(titles)

		stored, err := c.sources.CountByTitles(ctx, titles)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error counting sources: %v", err))
		} else {
			result.SourcesStored = stored
		}
	}

	c.debug("collection finished",
		"topic", topic.Name,
		"found", result.ArticlesFound,
		"stored", result.ArticlesStored,
		"errors", len(result.Errors))

	return result
}

func (c *Collector) storeArticle(ctx context.Context, topic domain.Topic, article domain.Article) error {
	existing, err := c.articles.ByURL(ctx, article.URL)
	if err == nil {
		return c.articles.LinkTopic(ctx, topic.ID, existing.ID)
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("lookup article: %w", err)
	}

	if article.SourceName != "" {
		source, err := c.findOrCreateSource(ctx, article.SourceName)
		if err != nil {
			return fmt.Errorf("resolve source: %w", err)
		}
		article.SourceID = &source.ID
	}

	stored, err := c.articles.Insert(ctx, article)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return c.articles.LinkTopic(ctx, topic.ID, stored.ID)
}

func (c *Collector) findOrCreateSource(ctx context.Context, name string) (domain.Source, error) {
	source, err := c.sources.ByTitle(ctx, name)
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return domain.Source{}, err
	}

	return c.sources.Create(ctx, domain.Source{
		URL:         syntheticSourceURL(name),
		Title:       name,
		SourceType:  "news",
		Description: "Source: " + name,
	})
}

// syntheticSourceURL fabricates a stable URL for providers that only report
// a source name.
func syntheticSourceURL(name string) string {
	return "https://" + strings.ReplaceAll(strings.ToLower(name), " ", "") + ".com"
}

func (c *Collector) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
