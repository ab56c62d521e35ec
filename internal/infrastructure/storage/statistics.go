package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// StatisticsRepository computes aggregate rollups with SQL.
type StatisticsRepository struct {
	db *sql.DB
}

var _ ports.StatisticsStore = (*StatisticsRepository)(nil)

// NewStatisticsRepository wires a sql.DB implementation.
func NewStatisticsRepository(db *sql.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// TopicStatistics aggregates a topic's articles. The total counts every
// linked article regardless of age; analyzed counts and averages honor the
// days cutoff (0 means all time).
func (r *StatisticsRepository) TopicStatistics(ctx context.Context, topicID int64, days int) (domain.TopicStatistics, error) {
	stats := domain.EmptyTopicStatistics()

	total, err := r.countLinked(ctx, topicID)
	if err != nil {
		return stats, err
	}
	if total == 0 {
		return stats, nil
	}
	stats.TotalArticles = total

	var cutoff *time.Time
	if days > 0 {
		t := time.Now().AddDate(0, 0, -days)
		cutoff = &t
		stats.TimeRange = fmt.Sprintf("last %d days", days)
	}

	builder := psql.Select(
		"COUNT(a.last_analyzed_at)",
		"COALESCE(AVG(a.sentiment_score), 0)",
		"COALESCE(AVG(a.sensationalism_score), 0)",
		"COUNT(DISTINCT a.source_id)",
		"COALESCE(SUM(CASE WHEN a.sentiment_label = 'positive' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN a.sentiment_label = 'neutral' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN a.sentiment_label = 'negative' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN a.political_bias_label = 'left-leaning' THEN 1 ELSE 0 END), 0)",
		// Upstream labels some centrist articles "neutral"; both land in
		// the centrist bucket.
		"COALESCE(SUM(CASE WHEN a.political_bias_label IN ('centrist', 'neutral') THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN a.political_bias_label = 'right-leaning' THEN 1 ELSE 0 END), 0)",
	).
		From("articles a").
		Join("topic_articles ta ON ta.article_id = a.id").
		Where(sq.Eq{"ta.topic_id": topicID})
	if cutoff != nil {
		builder = builder.Where(sq.GtOrEq{"a.published_at": *cutoff})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return stats, fmt.Errorf("build query: %w", err)
	}

	var avgSentiment, avgSensationalism float64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.AnalyzedArticles,
		&avgSentiment,
		&avgSensationalism,
		&stats.SourcesCount,
		&stats.SentimentDistribution.Positive,
		&stats.SentimentDistribution.Neutral,
		&stats.SentimentDistribution.Negative,
		&stats.BiasDistribution.LeftLeaning,
		&stats.BiasDistribution.Centrist,
		&stats.BiasDistribution.RightLeaning,
	)
	if err != nil {
		return stats, fmt.Errorf("query topic statistics: %w", err)
	}

	stats.AverageSentiment = round2(avgSentiment)
	stats.SensationalismLevel = round2(avgSensationalism)

	return stats, nil
}

// SourceStatistics returns per-source rollups ordered by article count.
func (r *StatisticsRepository) SourceStatistics(ctx context.Context, topicID int64) ([]domain.SourceStatistics, error) {
	query, args, err := psql.Select(
		"a.source_id",
		"a.source_name",
		"COUNT(a.id)",
		"COALESCE(AVG(a.sentiment_score), 0)",
		"COALESCE(AVG(a.political_bias_score), 0)",
		"COALESCE(AVG(a.sensationalism_score), 0)",
	).
		From("articles a").
		Join("topic_articles ta ON ta.article_id = a.id").
		Where(sq.Eq{"ta.topic_id": topicID}).
		Where("a.source_name IS NOT NULL").
		GroupBy("a.source_id", "a.source_name").
		OrderBy("COUNT(a.id) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query source statistics: %w", err)
	}
	defer rows.Close()

	result := make([]domain.SourceStatistics, 0)
	for rows.Next() {
		var (
			stat     domain.SourceStatistics
			sourceID sql.NullInt64
		)
		if err := rows.Scan(&sourceID, &stat.SourceName, &stat.ArticleCount,
			&stat.AverageSentiment, &stat.AverageBias, &stat.AverageSensationalism); err != nil {
			return nil, fmt.Errorf("scan source statistics: %w", err)
		}
		if sourceID.Valid {
			stat.SourceID = &sourceID.Int64
		}
		stat.AverageSentiment = round2(stat.AverageSentiment)
		stat.AverageBias = round2(stat.AverageBias)
		stat.AverageSensationalism = round2(stat.AverageSensationalism)
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SentimentOverTime returns the average sentiment per published date.
// Week and month intervals group by date as well, a compatibility shim
// carried over from the original statistics API.
func (r *StatisticsRepository) SentimentOverTime(ctx context.Context, topicID int64, days int, interval string) (domain.SentimentOverTime, error) {
	series := domain.EmptySentimentOverTime()

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	query, args, err := psql.Select(
		"DATE(a.published_at)",
		"COALESCE(AVG(a.sentiment_score), 0)",
		"COUNT(a.id)",
	).
		From("articles a").
		Join("topic_articles ta ON ta.article_id = a.id").
		Where(sq.Eq{"ta.topic_id": topicID}).
		Where("a.sentiment_score IS NOT NULL").
		Where(sq.GtOrEq{"a.published_at": start}).
		Where(sq.LtOrEq{"a.published_at": end}).
		GroupBy("DATE(a.published_at)").
		OrderBy("DATE(a.published_at)").
		ToSql()
	if err != nil {
		return series, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return series, fmt.Errorf("query sentiment over time: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date      time.Time
			sentiment float64
			count     int
		)
		if err := rows.Scan(&date, &sentiment, &count); err != nil {
			return series, fmt.Errorf("scan sentiment over time: %w", err)
		}
		series.Dates = append(series.Dates, date.Format("2006-01-02"))
		series.Sentiment = append(series.Sentiment, round2(sentiment))
		series.Counts = append(series.Counts, count)
	}
	if err := rows.Err(); err != nil {
		return series, fmt.Errorf("rows iteration: %w", err)
	}

	return series, nil
}

func (r *StatisticsRepository) countLinked(ctx context.Context, topicID int64) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("topic_articles").
		Where(sq.Eq{"topic_id": topicID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count linked articles: %w", err)
	}
	return count, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
