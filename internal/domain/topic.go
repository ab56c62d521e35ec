package domain

import "time"

// Topic is a user-searchable subject that articles are collected for.
type Topic struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	SearchCount    int        `json:"search_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	LastSearchedAt *time.Time `json:"last_searched_at"`
}

// CollectionResult reports the outcome of one article-collection run.
// Per-article failures are accumulated in Errors instead of aborting the run.
type CollectionResult struct {
	Topic          string   `json:"topic"`
	ArticlesFound  int      `json:"articles_found"`
	ArticlesStored int      `json:"articles_stored"`
	SourcesFound   int      `json:"sources_found"`
	SourcesStored  int      `json:"sources_stored"`
	Errors         []string `json:"errors"`
}

// TopicSearchResult is the outcome of searching (and possibly creating) a
// topic together with its collection counters.
type TopicSearchResult struct {
	Topic          Topic    `json:"topic"`
	IsNew          bool     `json:"is_new"`
	ArticlesFound  int      `json:"articles_found"`
	ArticlesStored int      `json:"articles_stored"`
	SourcesFound   int      `json:"sources_found"`
	SourcesStored  int      `json:"sources_stored"`
	Errors         []string `json:"errors"`
}
