package ports

import (
	"context"
	"errors"

	"BeInformed/internal/domain"
)

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// TopicStore persists searchable topics.
type TopicStore interface {
	ByID(ctx context.Context, id int64) (domain.Topic, error)
	ByName(ctx context.Context, name string) (domain.Topic, error)
	List(ctx context.Context, skip, limit int, sortBy string) ([]domain.Topic, error)
	Create(ctx context.Context, name string) (domain.Topic, error)
	RecordSearch(ctx context.Context, id int64) error
}

// ArticleStore persists collected articles and their analysis results.
type ArticleStore interface {
	ByID(ctx context.Context, id int64) (domain.Article, error)
	ByURL(ctx context.Context, url string) (domain.Article, error)
	Insert(ctx context.Context, article domain.Article) (domain.Article, error)
	LinkTopic(ctx context.Context, topicID, articleID int64) error
	ListByTopic(ctx context.Context, topicID int64, skip, limit int, sortBy string) ([]domain.Article, error)
	CountByTopic(ctx context.Context, topicID int64) (int, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error)
	UpdateAnalysis(ctx context.Context, id int64, analysis domain.Analysis) error
	UnanalyzedByTopic(ctx context.Context, topicID int64, limit int) ([]domain.Article, error)
	UnanalyzedRecent(ctx context.Context, days, limit int) ([]domain.Article, error)
}

// SourceStore persists publishers as an explicit repository instead of the
// ambient in-memory list the frontend used to carry.
type SourceStore interface {
	ByID(ctx context.Context, id int64) (domain.Source, error)
	ByURL(ctx context.Context, url string) (domain.Source, error)
	ByTitle(ctx context.Context, title string) (domain.Source, error)
	List(ctx context.Context, skip, limit int, sourceType string) ([]domain.Source, error)
	CountByTitles(ctx context.Context, titles []string) (int, error)
	Create(ctx context.Context, source domain.Source) (domain.Source, error)
	Update(ctx context.Context, source domain.Source) (domain.Source, error)
	Delete(ctx context.Context, id int64) error
}

// StatisticsStore computes aggregate rollups for topics.
type StatisticsStore interface {
	TopicStatistics(ctx context.Context, topicID int64, days int) (domain.TopicStatistics, error)
	SourceStatistics(ctx context.Context, topicID int64) ([]domain.SourceStatistics, error)
	SentimentOverTime(ctx context.Context, topicID int64, days int, interval string) (domain.SentimentOverTime, error)
}

// Analyzer pushes article text to the external NLP service for
// sentiment, bias, and sensationalism labeling.
type Analyzer interface {
	Analyze(ctx context.Context, article domain.Article) (domain.Analysis, error)
}

// ContentFetcher extracts readable full text from an article URL.
type ContentFetcher interface {
	Extract(ctx context.Context, url string) (string, error)
}
