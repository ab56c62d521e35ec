package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"BeInformed/internal/domain"
)

type fakeAnalyzer struct {
	analysis domain.Analysis
	err      error
	seen     []domain.Article
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, article domain.Article) (domain.Analysis, error) {
	a.seen = append(a.seen, article)
	if a.err != nil {
		return domain.Analysis{}, a.err
	}
	return a.analysis, nil
}

type fakeFetcher struct {
	content string
	err     error
	urls    []string
}

func (f *fakeFetcher) Extract(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func testAnalysis() domain.Analysis {
	return domain.Analysis{
		SentimentScore:      0.42,
		SentimentLabel:      domain.SentimentPositive,
		SentimentConfidence: 0.9,
		BiasScore:           -0.1,
		BiasLabel:           domain.BiasCentrist,
		SensationalismScore: 0.2,
		SensationalismLabel: domain.SensationalismFactual,
		AnalyzedAt:          time.Now().UTC(),
	}
}

func TestAnalyzeArticleFetchesMissingContent(t *testing.T) {
	t.Parallel()

	store := newFakeArticleStore()
	seeded, err := store.Insert(context.Background(), domain.Article{
		Title: "No body", URL: "https://example.com/a",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}

	analyzer := &fakeAnalyzer{analysis: testAnalysis()}
	fetcher := &fakeFetcher{content: "full text"}
	service := NewAnalysisService(AnalysisDeps{Articles: store, Analyzer: analyzer, Fetcher: fetcher})

	article, err := service.AnalyzeArticle(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("AnalyzeArticle: %v", err)
	}

	if len(fetcher.urls) != 1 || fetcher.urls[0] != "https://example.com/a" {
		t.Fatalf("fetcher not consulted: %v", fetcher.urls)
	}
	if len(analyzer.seen) != 1 || analyzer.seen[0].Content != "full text" {
		t.Fatal("analyzer did not receive the extracted content")
	}
	if article.SentimentLabel != domain.SentimentPositive {
		t.Fatalf("labels not applied: %q", article.SentimentLabel)
	}
	if article.LastAnalyzedAt == nil {
		t.Fatal("analysis timestamp not applied")
	}
	if _, ok := store.analyses[seeded.ID]; !ok {
		t.Fatal("analysis was not persisted")
	}
}

func TestAnalyzeArticleSurvivesFetchFailure(t *testing.T) {
	t.Parallel()

	store := newFakeArticleStore()
	seeded, err := store.Insert(context.Background(), domain.Article{
		Title: "No body", URL: "https://example.com/a",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}

	analyzer := &fakeAnalyzer{analysis: testAnalysis()}
	fetcher := &fakeFetcher{err: errors.New("paywall")}
	service := NewAnalysisService(AnalysisDeps{Articles: store, Analyzer: analyzer, Fetcher: fetcher})

	if _, err := service.AnalyzeArticle(context.Background(), seeded.ID); err != nil {
		t.Fatalf("fetch failure must not abort analysis: %v", err)
	}
	if len(analyzer.seen) != 1 {
		t.Fatal("analyzer should still run on title and description")
	}
}

func TestAnalyzeArticleSkipsFetchWhenContentPresent(t *testing.T) {
	t.Parallel()

	store := newFakeArticleStore()
	seeded, err := store.Insert(context.Background(), domain.Article{
		Title: "Has body", URL: "https://example.com/b", Content: "already here",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}

	analyzer := &fakeAnalyzer{analysis: testAnalysis()}
	fetcher := &fakeFetcher{content: "should not be used"}
	service := NewAnalysisService(AnalysisDeps{Articles: store, Analyzer: analyzer, Fetcher: fetcher})

	if _, err := service.AnalyzeArticle(context.Background(), seeded.ID); err != nil {
		t.Fatalf("AnalyzeArticle: %v", err)
	}
	if len(fetcher.urls) != 0 {
		t.Fatalf("fetcher should not run: %v", fetcher.urls)
	}
}

func TestAnalyzeArticleAnalyzerFailure(t *testing.T) {
	t.Parallel()

	store := newFakeArticleStore()
	seeded, err := store.Insert(context.Background(), domain.Article{
		Title: "Bad", URL: "https://example.com/c", Content: "text",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}

	analyzer := &fakeAnalyzer{err: errors.New("model offline")}
	service := NewAnalysisService(AnalysisDeps{Articles: store, Analyzer: analyzer})

	if _, err := service.AnalyzeArticle(context.Background(), seeded.ID); err == nil {
		t.Fatal("expected analyzer failure to surface")
	}
	if len(store.analyses) != 0 {
		t.Fatal("nothing should be persisted on failure")
	}
}

type listArticleStore struct {
	fakeArticleStore
	pending []domain.Article
}

func (s *listArticleStore) UnanalyzedByTopic(ctx context.Context, topicID int64, limit int) ([]domain.Article, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *listArticleStore) UnanalyzedRecent(ctx context.Context, days, limit int) ([]domain.Article, error) {
	return s.UnanalyzedByTopic(ctx, 0, limit)
}

func TestAnalyzeTopicSkipsFailedArticles(t *testing.T) {
	t.Parallel()

	store := &listArticleStore{fakeArticleStore: *newFakeArticleStore()}
	store.pending = []domain.Article{
		{ID: 1, Title: "ok", Content: "a"},
		{ID: 2, Title: "also ok", Content: "b"},
	}

	analyzer := &fakeAnalyzer{analysis: testAnalysis()}
	service := NewAnalysisService(AnalysisDeps{Articles: store, Analyzer: analyzer})

	analyzed, err := service.AnalyzeTopic(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("AnalyzeTopic: %v", err)
	}
	if analyzed != 2 {
		t.Fatalf("expected 2 analyzed, got %d", analyzed)
	}
}

func TestAnalyzeRecentHonorsLimit(t *testing.T) {
	t.Parallel()

	store := &listArticleStore{fakeArticleStore: *newFakeArticleStore()}
	store.pending = []domain.Article{
		{ID: 1, Content: "a"},
		{ID: 2, Content: "b"},
		{ID: 3, Content: "c"},
	}

	analyzer := &fakeAnalyzer{analysis: testAnalysis()}
	service := NewAnalysisService(AnalysisDeps{Articles: store, Analyzer: analyzer})

	analyzed, err := service.AnalyzeRecent(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("AnalyzeRecent: %v", err)
	}
	if analyzed != 2 {
		t.Fatalf("expected 2 analyzed, got %d", analyzed)
	}
}
