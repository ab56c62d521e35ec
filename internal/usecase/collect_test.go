package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"BeInformed/internal/domain"
	"BeInformed/internal/newsprovider"
	"BeInformed/internal/ports"
)

type fakeTopicStore struct {
	topics  map[string]domain.Topic
	nextID  int64
	records []int64
}

func newFakeTopicStore() *fakeTopicStore {
	return &fakeTopicStore{topics: map[string]domain.Topic{}, nextID: 1}
}

func (s *fakeTopicStore) ByID(ctx context.Context, id int64) (domain.Topic, error) {
	for _, t := range s.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Topic{}, ports.ErrNotFound
}

func (s *fakeTopicStore) ByName(ctx context.Context, name string) (domain.Topic, error) {
	if t, ok := s.topics[name]; ok {
		return t, nil
	}
	return domain.Topic{}, ports.ErrNotFound
}

func (s *fakeTopicStore) List(ctx context.Context, skip, limit int, sortBy string) ([]domain.Topic, error) {
	out := make([]domain.Topic, 0, len(s.topics))
	for _, t := range s.topics {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeTopicStore) Create(ctx context.Context, name string) (domain.Topic, error) {
	t := domain.Topic{ID: s.nextID, Name: name, CreatedAt: time.Now()}
	s.nextID++
	s.topics[name] = t
	return t, nil
}

func (s *fakeTopicStore) RecordSearch(ctx context.Context, id int64) error {
	s.records = append(s.records, id)
	for name, t := range s.topics {
		if t.ID == id {
			t.SearchCount++
			s.topics[name] = t
		}
	}
	return nil
}

type fakeArticleStore struct {
	byURL     map[string]domain.Article
	links     map[string]struct{}
	nextID    int64
	analyses  map[int64]domain.Analysis
	insertErr error
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{
		byURL:    map[string]domain.Article{},
		links:    map[string]struct{}{},
		analyses: map[int64]domain.Analysis{},
		nextID:   1,
	}
}

func (s *fakeArticleStore) ByID(ctx context.Context, id int64) (domain.Article, error) {
	for _, a := range s.byURL {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Article{}, ports.ErrNotFound
}

func (s *fakeArticleStore) ByURL(ctx context.Context, url string) (domain.Article, error) {
	if a, ok := s.byURL[url]; ok {
		return a, nil
	}
	return domain.Article{}, ports.ErrNotFound
}

func (s *fakeArticleStore) Insert(ctx context.Context, article domain.Article) (domain.Article, error) {
	if s.insertErr != nil {
		return domain.Article{}, s.insertErr
	}
	article.ID = s.nextID
	s.nextID++
	s.byURL[article.URL] = article
	return article, nil
}

func (s *fakeArticleStore) LinkTopic(ctx context.Context, topicID, articleID int64) error {
	s.links[fmt.Sprintf("%d:%d", topicID, articleID)] = struct{}{}
	return nil
}

func (s *fakeArticleStore) ListByTopic(ctx context.Context, topicID int64, skip, limit int, sortBy string) ([]domain.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) CountByTopic(ctx context.Context, topicID int64) (int, error) {
	return len(s.links), nil
}

func (s *fakeArticleStore) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) UpdateAnalysis(ctx context.Context, id int64, analysis domain.Analysis) error {
	s.analyses[id] = analysis
	return nil
}

func (s *fakeArticleStore) UnanalyzedByTopic(ctx context.Context, topicID int64, limit int) ([]domain.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) UnanalyzedRecent(ctx context.Context, days, limit int) ([]domain.Article, error) {
	return nil, nil
}

type fakeSourceStore struct {
	byTitle map[string]domain.Source
	nextID  int64
}

func newFakeSourceStore() *fakeSourceStore {
	return &fakeSourceStore{byTitle: map[string]domain.Source{}, nextID: 1}
}

func (s *fakeSourceStore) ByID(ctx context.Context, id int64) (domain.Source, error) {
	for _, src := range s.byTitle {
		if src.ID == id {
			return src, nil
		}
	}
	return domain.Source{}, ports.ErrNotFound
}

func (s *fakeSourceStore) ByURL(ctx context.Context, url string) (domain.Source, error) {
	for _, src := range s.byTitle {
		if src.URL == url {
			return src, nil
		}
	}
	return domain.Source{}, ports.ErrNotFound
}

func (s *fakeSourceStore) ByTitle(ctx context.Context, title string) (domain.Source, error) {
	if src, ok := s.byTitle[title]; ok {
		return src, nil
	}
	return domain.Source{}, ports.ErrNotFound
}

func (s *fakeSourceStore) List(ctx context.Context, skip, limit int, sourceType string) ([]domain.Source, error) {
	out := make([]domain.Source, 0, len(s.byTitle))
	for _, src := range s.byTitle {
		out = append(out, src)
	}
	return out, nil
}

func (s *fakeSourceStore) CountByTitles(ctx context.Context, titles []string) (int, error) {
	count := 0
	for _, title := range titles {
		if _, ok := s.byTitle[title]; ok {
			count++
		}
	}
	return count, nil
}

func (s *fakeSourceStore) Create(ctx context.Context, source domain.Source) (domain.Source, error) {
	source.ID = s.nextID
	s.nextID++
	source.CreatedAt = time.Now()
	s.byTitle[source.Title] = source
	return source, nil
}

func (s *fakeSourceStore) Update(ctx context.Context, source domain.Source) (domain.Source, error) {
	s.byTitle[source.Title] = source
	return source, nil
}

func (s *fakeSourceStore) Delete(ctx context.Context, id int64) error {
	for title, src := range s.byTitle {
		if src.ID == id {
			delete(s.byTitle, title)
			return nil
		}
	}
	return ports.ErrNotFound
}

type fakeProvider struct {
	name     string
	articles []domain.Article
	err      error
	queries  []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, query string, maxArticles int) ([]domain.Article, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.articles) > maxArticles {
		return p.articles[:maxArticles], nil
	}
	return p.articles, nil
}

func newTestCollector(provider *fakeProvider) (*Collector, *fakeTopicStore, *fakeArticleStore, *fakeSourceStore) {
	topics := newFakeTopicStore()
	articles := newFakeArticleStore()
	sources := newFakeSourceStore()

	registry := newsprovider.NewRegistry()
	registry.Register(provider)

	collector := NewCollector(CollectorDeps{
		Topics:    topics,
		Articles:  articles,
		Sources:   sources,
		Providers: registry,
		Provider:  provider.name,
	})
	return collector, topics, articles, sources
}

func TestSearchTopicCreatesAndStores(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		name: "newsapi",
		articles: []domain.Article{
			{Title: "First", URL: "https://example.com/1", SourceName: "Example News"},
			{Title: "Second", URL: "https://example.com/2", SourceName: "Example News"},
		},
	}
	collector, topics, articles, sources := newTestCollector(provider)

	result, err := collector.SearchTopic(context.Background(), "  Climate Change ", 10)
	if err != nil {
		t.Fatalf("SearchTopic: %v", err)
	}

	if !result.IsNew {
		t.Fatal("expected a new topic")
	}
	if result.Topic.Name != "climate change" {
		t.Fatalf("topic name not normalized: %q", result.Topic.Name)
	}
	if result.ArticlesFound != 2 || result.ArticlesStored != 2 {
		t.Fatalf("unexpected counters: found=%d stored=%d", result.ArticlesFound, result.ArticlesStored)
	}
	if result.SourcesFound != 1 || result.SourcesStored != 1 {
		t.Fatalf("unexpected source counters: found=%d stored=%d", result.SourcesFound, result.SourcesStored)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	if len(topics.records) != 1 {
		t.Fatalf("expected one search record, got %d", len(topics.records))
	}
	if len(articles.byURL) != 2 {
		t.Fatalf("expected 2 stored articles, got %d", len(articles.byURL))
	}

	source, err := sources.ByTitle(context.Background(), "Example News")
	if err != nil {
		t.Fatalf("source was not created: %v", err)
	}
	if source.URL != "https://examplenews.com" {
		t.Fatalf("unexpected synthesized source URL: %q", source.URL)
	}
	if source.SourceType != "news" {
		t.Fatalf("unexpected source type: %q", source.SourceType)
	}
}

func TestSearchTopicReusesExistingTopic(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{name: "newsapi"}
	collector, topics, _, _ := newTestCollector(provider)

	if _, err := topics.Create(context.Background(), "economy"); err != nil {
		t.Fatalf("seed topic: %v", err)
	}

	result, err := collector.SearchTopic(context.Background(), "Economy", 5)
	if err != nil {
		t.Fatalf("SearchTopic: %v", err)
	}
	if result.IsNew {
		t.Fatal("topic should not be reported as new")
	}
	if result.Topic.SearchCount != 1 {
		t.Fatalf("search count not bumped: %d", result.Topic.SearchCount)
	}
}

func TestSearchTopicDeduplicatesByURL(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		name: "newsapi",
		articles: []domain.Article{
			{Title: "Known", URL: "https://example.com/known", SourceName: "Example News"},
		},
	}
	collector, _, articles, _ := newTestCollector(provider)

	seeded, err := articles.Insert(context.Background(), domain.Article{
		Title: "Known", URL: "https://example.com/known",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}

	result, err := collector.SearchTopic(context.Background(), "dedupe", 5)
	if err != nil {
		t.Fatalf("SearchTopic: %v", err)
	}

	if result.ArticlesStored != 1 {
		t.Fatalf("existing article should still count as stored: %d", result.ArticlesStored)
	}
	if len(articles.byURL) != 1 {
		t.Fatalf("duplicate insert happened: %d articles", len(articles.byURL))
	}
	if _, ok := articles.links[fmt.Sprintf("%d:%d", result.Topic.ID, seeded.ID)]; !ok {
		t.Fatal("existing article was not linked to the topic")
	}
}

func TestSearchTopicCollectsErrorsWithoutFailing(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		name: "newsapi",
		articles: []domain.Article{
			{Title: "Broken", URL: "https://example.com/broken"},
		},
	}
	collector, _, articles, _ := newTestCollector(provider)
	articles.insertErr = errors.New("disk full")

	result, err := collector.SearchTopic(context.Background(), "storms", 5)
	if err != nil {
		t.Fatalf("SearchTopic: %v", err)
	}
	if result.ArticlesStored != 0 {
		t.Fatalf("nothing should be stored: %d", result.ArticlesStored)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one accumulated error, got %v", result.Errors)
	}
}

func TestSearchTopicProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{name: "newsapi", err: errors.New("rate limited")}
	collector, _, _, _ := newTestCollector(provider)

	result, err := collector.SearchTopic(context.Background(), "outage", 5)
	if err != nil {
		t.Fatalf("SearchTopic: %v", err)
	}
	if result.ArticlesFound != 0 {
		t.Fatalf("no articles expected: %d", result.ArticlesFound)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("provider failure should be reported: %v", result.Errors)
	}
}

func TestSearchTopicRejectsEmptyName(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{name: "newsapi"}
	collector, _, _, _ := newTestCollector(provider)

	if _, err := collector.SearchTopic(context.Background(), "   ", 5); err == nil {
		t.Fatal("expected an error for a blank topic name")
	}
}
