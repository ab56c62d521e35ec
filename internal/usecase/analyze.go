package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// AnalysisDeps wires the article store and the external NLP collaborators.
type AnalysisDeps struct {
	Articles ports.ArticleStore
	Analyzer ports.Analyzer
	Fetcher  ports.ContentFetcher
	Logger   *slog.Logger
}

// AnalysisService runs articles through the external NLP service and
// persists the labels.
type AnalysisService struct {
	articles ports.ArticleStore
	analyzer ports.Analyzer
	fetcher  ports.ContentFetcher
	logger   *slog.Logger
}

// NewAnalysisService constructs the workflow component.
func NewAnalysisService(deps AnalysisDeps) *AnalysisService {
	return &AnalysisService{
		articles: deps.Articles,
		analyzer: deps.Analyzer,
		fetcher:  deps.Fetcher,
		logger:   deps.Logger,
	}
}

// AnalyzeArticle analyzes one article and returns it with fresh labels.
func (s *AnalysisService) AnalyzeArticle(ctx context.Context, id int64) (domain.Article, error) {
	article, err := s.articles.ByID(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}
	return s.analyze(ctx, article)
}

// AnalyzeTopic analyzes up to limit of a topic's unanalyzed articles and
// returns how many succeeded. Individual failures are logged and skipped.
func (s *AnalysisService) AnalyzeTopic(ctx context.Context, topicID int64, limit int) (int, error) {
	pending, err := s.articles.UnanalyzedByTopic(ctx, topicID, limit)
	if err != nil {
		return 0, fmt.Errorf("load unanalyzed articles: %w", err)
	}
	return s.analyzeBatch(ctx, pending), nil
}

// AnalyzeRecent analyzes up to limit unanalyzed articles published in the
// last days across all topics.
func (s *AnalysisService) AnalyzeRecent(ctx context.Context, days, limit int) (int, error) {
	pending, err := s.articles.UnanalyzedRecent(ctx, days, limit)
	if err != nil {
		return 0, fmt.Errorf("load recent articles: %w", err)
	}
	return s.analyzeBatch(ctx, pending), nil
}

func (s *AnalysisService) analyzeBatch(ctx context.Context, pending []domain.Article) int {
	analyzed := 0
	for _, article := range pending {
		if _, err := s.analyze(ctx, article); err != nil {
			if ctx.Err() != nil {
				return analyzed
			}
			s.warn("analyze article failed", "article_id", article.ID, "error", err)
			continue
		}
		analyzed++
	}
	return analyzed
}

func (s *AnalysisService) analyze(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.Content == "" && s.fetcher != nil && article.URL != "" {
		content, err := s.fetcher.Extract(ctx, article.URL)
		if err != nil {
			// Analysis still works off the title and description.
			s.warn("content extraction failed", "article_id", article.ID, "error", err)
		} else {
			article.Content = content
		}
	}

	analysis, err := s.analyzer.Analyze(ctx, article)
	if err != nil {
		return domain.Article{}, fmt.Errorf("analyze article %d: %w", article.ID, err)
	}

	if err := s.articles.UpdateAnalysis(ctx, article.ID, analysis); err != nil {
		return domain.Article{}, fmt.Errorf("persist analysis %d: %w", article.ID, err)
	}

	article.SentimentScore = &analysis.SentimentScore
	article.SentimentLabel = analysis.SentimentLabel
	article.SentimentConfidence = &analysis.SentimentConfidence
	article.BiasScore = &analysis.BiasScore
	article.BiasLabel = analysis.BiasLabel
	article.SensationalismScore = &analysis.SensationalismScore
	article.SensationalismLabel = analysis.SensationalismLabel
	article.LastAnalyzedAt = &analysis.AnalyzedAt

	return article, nil
}

func (s *AnalysisService) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
