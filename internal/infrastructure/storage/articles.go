package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// ArticleRepository persists articles and their analysis results.
type ArticleRepository struct {
	db *sql.DB
}

var _ ports.ArticleStore = (*ArticleRepository)(nil)

// NewArticleRepository wires a sql.DB implementation.
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `id, title, url, description, content, author, published_at, image_url,
	source_id, source_name, sentiment_score, sentiment_label, sentiment_confidence,
	political_bias_score, political_bias_label, sensationalism_score, sensationalism_label,
	last_analyzed_at, created_at`

// ByID returns the article or ports.ErrNotFound.
func (r *ArticleRepository) ByID(ctx context.Context, id int64) (domain.Article, error) {
	query, args, err := psql.Select(articleColumns).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// ByURL returns the article with the given URL or ports.ErrNotFound.
func (r *ArticleRepository) ByURL(ctx context.Context, url string) (domain.Article, error) {
	query, args, err := psql.Select(articleColumns).From("articles").Where(sq.Eq{"url": url}).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// Insert stores a new article and returns it with its assigned ID.
func (r *ArticleRepository) Insert(ctx context.Context, article domain.Article) (domain.Article, error) {
	query, args, err := psql.Insert("articles").
		Columns("title", "url", "description", "content", "author", "published_at",
			"image_url", "source_id", "source_name").
		Values(article.Title, article.URL, nullString(article.Description),
			nullString(article.Content), nullString(article.Author), article.PublishedAt,
			nullString(article.ImageURL), article.SourceID, nullString(article.SourceName)).
		Suffix("RETURNING " + articleColumns).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// LinkTopic associates an article with a topic; duplicate links are ignored.
func (r *ArticleRepository) LinkTopic(ctx context.Context, topicID, articleID int64) error {
	query, args, err := psql.Insert("topic_articles").
		Columns("topic_id", "article_id").
		Values(topicID, articleID).
		Suffix("ON CONFLICT (topic_id, article_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link topic: %w", err)
	}
	return nil
}

// ListByTopic returns one page of a topic's articles.
func (r *ArticleRepository) ListByTopic(ctx context.Context, topicID int64, skip, limit int, sortBy string) ([]domain.Article, error) {
	query, args, err := psql.Select(prefixed(articleColumns)).
		From("articles a").
		Join("topic_articles ta ON ta.article_id = a.id").
		Where(sq.Eq{"ta.topic_id": topicID}).
		OrderBy(articleOrder(sortBy)).
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.scanMany(ctx, query, args...)
}

// CountByTopic counts all articles linked to a topic.
func (r *ArticleRepository) CountByTopic(ctx context.Context, topicID int64) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("topic_articles").
		Where(sq.Eq{"topic_id": topicID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// List returns a flat article listing with optional source filters.
func (r *ArticleRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	builder := psql.Select(articleColumns).
		From("articles").
		OrderBy("published_at DESC NULLS LAST").
		Offset(uint64(filter.Skip)).
		Limit(uint64(filter.Limit))

	if filter.SourceID != nil {
		builder = builder.Where(sq.Eq{"source_id": *filter.SourceID})
	}
	if filter.SourceName != "" {
		builder = builder.Where(sq.Eq{"source_name": filter.SourceName})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.scanMany(ctx, query, args...)
}

// UpdateAnalysis stores the analyzer's labels and stamps last_analyzed_at.
func (r *ArticleRepository) UpdateAnalysis(ctx context.Context, id int64, analysis domain.Analysis) error {
	query, args, err := psql.Update("articles").
		Set("sentiment_score", analysis.SentimentScore).
		Set("sentiment_label", string(analysis.SentimentLabel)).
		Set("sentiment_confidence", analysis.SentimentConfidence).
		Set("political_bias_score", analysis.BiasScore).
		Set("political_bias_label", string(analysis.BiasLabel)).
		Set("sensationalism_score", analysis.SensationalismScore).
		Set("sensationalism_label", string(analysis.SensationalismLabel)).
		Set("last_analyzed_at", analysis.AnalyzedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	return nil
}

// UnanalyzedByTopic lists a topic's articles still awaiting analysis.
func (r *ArticleRepository) UnanalyzedByTopic(ctx context.Context, topicID int64, limit int) ([]domain.Article, error) {
	query, args, err := psql.Select(prefixed(articleColumns)).
		From("articles a").
		Join("topic_articles ta ON ta.article_id = a.id").
		Where(sq.Eq{"ta.topic_id": topicID}).
		Where("a.last_analyzed_at IS NULL").
		OrderBy("a.published_at DESC NULLS LAST").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.scanMany(ctx, query, args...)
}

// UnanalyzedRecent lists recent unanalyzed articles across all topics.
func (r *ArticleRepository) UnanalyzedRecent(ctx context.Context, days, limit int) ([]domain.Article, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := psql.Select(articleColumns).
		From("articles").
		Where("last_analyzed_at IS NULL").
		Where(sq.GtOrEq{"published_at": cutoff}).
		OrderBy("published_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.scanMany(ctx, query, args...)
}

func (r *ArticleRepository) scanOne(ctx context.Context, query string, args ...any) (domain.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, ports.ErrNotFound
	}
	return article, err
}

func (r *ArticleRepository) scanMany(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		a                   domain.Article
		description         sql.NullString
		content             sql.NullString
		author              sql.NullString
		publishedAt         sql.NullTime
		imageURL            sql.NullString
		sourceID            sql.NullInt64
		sourceName          sql.NullString
		sentimentScore      sql.NullFloat64
		sentimentLabel      sql.NullString
		sentimentConfidence sql.NullFloat64
		biasScore           sql.NullFloat64
		biasLabel           sql.NullString
		sensationalismScore sql.NullFloat64
		sensationalismLabel sql.NullString
		lastAnalyzedAt      sql.NullTime
	)

	err := row.Scan(&a.ID, &a.Title, &a.URL, &description, &content, &author,
		&publishedAt, &imageURL, &sourceID, &sourceName,
		&sentimentScore, &sentimentLabel, &sentimentConfidence,
		&biasScore, &biasLabel, &sensationalismScore, &sensationalismLabel,
		&lastAnalyzedAt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, err
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	a.Description = description.String
	a.Content = content.String
	a.Author = author.String
	a.ImageURL = imageURL.String
	a.SourceName = sourceName.String
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	if sourceID.Valid {
		a.SourceID = &sourceID.Int64
	}
	if sentimentScore.Valid {
		a.SentimentScore = &sentimentScore.Float64
	}
	a.SentimentLabel = domain.SentimentLabel(sentimentLabel.String)
	if sentimentConfidence.Valid {
		a.SentimentConfidence = &sentimentConfidence.Float64
	}
	if biasScore.Valid {
		a.BiasScore = &biasScore.Float64
	}
	a.BiasLabel = domain.BiasLabel(biasLabel.String)
	if sensationalismScore.Valid {
		a.SensationalismScore = &sensationalismScore.Float64
	}
	a.SensationalismLabel = domain.SensationalismLabel(sensationalismLabel.String)
	if lastAnalyzedAt.Valid {
		a.LastAnalyzedAt = &lastAnalyzedAt.Time
	}

	return a, nil
}

func articleOrder(sortBy string) string {
	switch sortBy {
	case "title":
		return "a.title ASC"
	case "source_name":
		return "a.source_name ASC NULLS LAST"
	default:
		return "a.published_at DESC NULLS LAST"
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

// prefixed qualifies every column with the "a" table alias for joins.
func prefixed(columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = "a." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
