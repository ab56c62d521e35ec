package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// SourceRepository persists publishers in Postgres.
type SourceRepository struct {
	db *sql.DB
}

var _ ports.SourceStore = (*SourceRepository)(nil)

// NewSourceRepository wires a sql.DB implementation.
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

const sourceColumns = "id, url, title, description, source_type, credibility_score, created_at, updated_at"

// ByID returns the source or ports.ErrNotFound.
func (r *SourceRepository) ByID(ctx context.Context, id int64) (domain.Source, error) {
	return r.one(ctx, sq.Eq{"id": id})
}

// ByURL returns the source with the given URL or ports.ErrNotFound.
func (r *SourceRepository) ByURL(ctx context.Context, url string) (domain.Source, error) {
	return r.one(ctx, sq.Eq{"url": url})
}

// ByTitle returns the source with the given title or ports.ErrNotFound.
func (r *SourceRepository) ByTitle(ctx context.Context, title string) (domain.Source, error) {
	return r.one(ctx, sq.Eq{"title": title})
}

// List returns sources with pagination and an optional type filter.
func (r *SourceRepository) List(ctx context.Context, skip, limit int, sourceType string) ([]domain.Source, error) {
	builder := psql.Select(sourceColumns).
		From("sources").
		OrderBy("title ASC").
		Offset(uint64(skip)).
		Limit(uint64(limit))
	if sourceType != "" {
		builder = builder.Where(sq.Eq{"source_type": sourceType})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	sources := make([]domain.Source, 0)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

// CountByTitles counts how many of the given titles exist in storage.
func (r *SourceRepository) CountByTitles(ctx context.Context, titles []string) (int, error) {
	if len(titles) == 0 {
		return 0, nil
	}

	var count int
	query := `SELECT COUNT(*) FROM sources WHERE title = ANY($1)`
	if err := r.db.QueryRowContext(ctx, query, pq.StringArray(titles)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sources: %w", err)
	}
	return count, nil
}

// Create inserts a new source.
func (r *SourceRepository) Create(ctx context.Context, source domain.Source) (domain.Source, error) {
	query, args, err := psql.Insert("sources").
		Columns("url", "title", "description", "source_type", "credibility_score").
		Values(source.URL, source.Title, nullString(source.Description),
			nullString(source.SourceType), source.CredibilityScore).
		Suffix("RETURNING " + sourceColumns).
		ToSql()
	if err != nil {
		return domain.Source{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// Update rewrites the mutable fields of a source.
func (r *SourceRepository) Update(ctx context.Context, source domain.Source) (domain.Source, error) {
	query, args, err := psql.Update("sources").
		Set("url", source.URL).
		Set("title", source.Title).
		Set("description", nullString(source.Description)).
		Set("source_type", nullString(source.SourceType)).
		Set("credibility_score", source.CredibilityScore).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": source.ID}).
		Suffix("RETURNING " + sourceColumns).
		ToSql()
	if err != nil {
		return domain.Source{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

// Delete removes a source; ports.ErrNotFound when no row matched.
func (r *SourceRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("sources").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *SourceRepository) one(ctx context.Context, cond sq.Eq) (domain.Source, error) {
	query, args, err := psql.Select(sourceColumns).From("sources").Where(cond).ToSql()
	if err != nil {
		return domain.Source{}, fmt.Errorf("build query: %w", err)
	}
	return r.scanOne(ctx, query, args...)
}

func (r *SourceRepository) scanOne(ctx context.Context, query string, args ...any) (domain.Source, error) {
	source, err := scanSource(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, ports.ErrNotFound
	}
	return source, err
}

func scanSource(row rowScanner) (domain.Source, error) {
	var (
		source      domain.Source
		description sql.NullString
		sourceType  sql.NullString
		credibility sql.NullFloat64
		updatedAt   sql.NullTime
	)

	err := row.Scan(&source.ID, &source.URL, &source.Title, &description,
		&sourceType, &credibility, &source.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, err
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("scan source: %w", err)
	}

	source.Description = description.String
	source.SourceType = sourceType.String
	if credibility.Valid {
		source.CredibilityScore = &credibility.Float64
	}
	if updatedAt.Valid {
		source.UpdatedAt = &updatedAt.Time
	}
	return source, nil
}
