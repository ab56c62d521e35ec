package domain

import "time"

// Source is a publisher that articles originate from.
type Source struct {
	ID               int64      `json:"id"`
	URL              string     `json:"url"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	SourceType       string     `json:"source_type,omitempty"`
	CredibilityScore *float64   `json:"credibility_score"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}
