// Package storage persists topics, articles, and sources in Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

// psql builds queries with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS topics (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		search_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		last_searched_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS sources (
		id SERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		source_type TEXT,
		credibility_score DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS articles (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		description TEXT,
		content TEXT,
		author TEXT,
		published_at TIMESTAMPTZ,
		image_url TEXT,
		source_id INTEGER REFERENCES sources(id),
		source_name TEXT,
		sentiment_score DOUBLE PRECISION,
		sentiment_label VARCHAR(20),
		sentiment_confidence DOUBLE PRECISION,
		political_bias_score DOUBLE PRECISION,
		political_bias_label VARCHAR(50),
		sensationalism_score DOUBLE PRECISION,
		sensationalism_label VARCHAR(20),
		last_analyzed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS topic_articles (
		topic_id INTEGER NOT NULL REFERENCES topics(id),
		article_id INTEGER NOT NULL REFERENCES articles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (topic_id, article_id)
	);

	CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at);
	CREATE INDEX IF NOT EXISTS idx_articles_source_name ON articles(source_name);
	CREATE INDEX IF NOT EXISTS idx_articles_last_analyzed_at ON articles(last_analyzed_at);
	CREATE INDEX IF NOT EXISTS idx_topic_articles_topic_id ON topic_articles(topic_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
