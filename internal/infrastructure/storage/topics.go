package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// TopicRepository persists topics in Postgres.
type TopicRepository struct {
	db *sql.DB
}

var _ ports.TopicStore = (*TopicRepository)(nil)

// NewTopicRepository wires a sql.DB implementation.
func NewTopicRepository(db *sql.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

const topicColumns = "id, name, description, search_count, created_at, updated_at, last_searched_at"

// ByID returns the topic or ports.ErrNotFound.
func (r *TopicRepository) ByID(ctx context.Context, id int64) (domain.Topic, error) {
	query, args, err := psql.Select(topicColumns).From("topics").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Topic{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// ByName returns the topic with the given (normalized) name.
func (r *TopicRepository) ByName(ctx context.Context, name string) (domain.Topic, error) {
	query, args, err := psql.Select(topicColumns).From("topics").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return domain.Topic{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// List returns topics with pagination and sorting.
func (r *TopicRepository) List(ctx context.Context, skip, limit int, sortBy string) ([]domain.Topic, error) {
	query, args, err := psql.Select(topicColumns).
		From("topics").
		OrderBy(topicOrder(sortBy)).
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	topics := make([]domain.Topic, 0)
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return topics, nil
}

// Create inserts a topic with a zero search count.
func (r *TopicRepository) Create(ctx context.Context, name string) (domain.Topic, error) {
	query, args, err := psql.Insert("topics").
		Columns("name", "search_count").
		Values(name, 0).
		Suffix("RETURNING " + topicColumns).
		ToSql()
	if err != nil {
		return domain.Topic{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// RecordSearch bumps the search counter and stamps the search time.
func (r *TopicRepository) RecordSearch(ctx context.Context, id int64) error {
	query, args, err := psql.Update("topics").
		Set("search_count", sq.Expr("search_count + 1")).
		Set("last_searched_at", sq.Expr("NOW()")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

func (r *TopicRepository) scanOne(ctx context.Context, query string, args ...any) (domain.Topic, error) {
	topic, err := scanTopic(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Topic{}, ports.ErrNotFound
	}
	return topic, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (domain.Topic, error) {
	var (
		topic          domain.Topic
		description    sql.NullString
		updatedAt      sql.NullTime
		lastSearchedAt sql.NullTime
	)

	err := row.Scan(&topic.ID, &topic.Name, &description, &topic.SearchCount,
		&topic.CreatedAt, &updatedAt, &lastSearchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Topic{}, err
	}
	if err != nil {
		return domain.Topic{}, fmt.Errorf("scan topic: %w", err)
	}

	topic.Description = description.String
	if updatedAt.Valid {
		topic.UpdatedAt = &updatedAt.Time
	}
	if lastSearchedAt.Valid {
		topic.LastSearchedAt = &lastSearchedAt.Time
	}
	return topic, nil
}

func topicOrder(sortBy string) string {
	switch sortBy {
	case "name":
		return "name ASC"
	case "created_at":
		return "created_at DESC"
	case "last_searched_at":
		return "last_searched_at DESC NULLS LAST"
	default:
		return "search_count DESC"
	}
}
