package domain

import "time"

// SentimentLabel classifies the overall tone of an article.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// BiasLabel classifies the political leaning of an article.
type BiasLabel string

const (
	BiasLeftLeaning  BiasLabel = "left-leaning"
	BiasCentrist     BiasLabel = "centrist"
	BiasRightLeaning BiasLabel = "right-leaning"
	// BiasNeutral is emitted by the upstream analyzer for some centrist
	// articles; aggregation folds it into the centrist bucket.
	BiasNeutral BiasLabel = "neutral"
)

// SensationalismLabel classifies the reporting tone of an article.
type SensationalismLabel string

const (
	SensationalismFactual  SensationalismLabel = "factual"
	SensationalismSomewhat SensationalismLabel = "somewhat sensational"
	SensationalismHigh     SensationalismLabel = "highly sensational"
)

// Article is a news article collected for a topic. Label fields are empty
// and score pointers nil until the article has been analyzed.
type Article struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
	ImageURL    string     `json:"image_url,omitempty"`

	SourceID   *int64 `json:"source_id"`
	SourceName string `json:"source_name,omitempty"`

	SentimentScore      *float64       `json:"sentiment_score"`
	SentimentLabel      SentimentLabel `json:"sentiment_label,omitempty"`
	SentimentConfidence *float64       `json:"sentiment_confidence"`

	BiasScore *float64  `json:"political_bias_score"`
	BiasLabel BiasLabel `json:"political_bias_label,omitempty"`

	SensationalismScore *float64            `json:"sensationalism_score"`
	SensationalismLabel SensationalismLabel `json:"sensationalism_label,omitempty"`

	LastAnalyzedAt *time.Time `json:"last_analyzed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Analyzed reports whether the article carries analysis results.
func (a Article) Analyzed() bool {
	return a.LastAnalyzedAt != nil
}

// ArticlePage is a single page of a topic's article listing.
type ArticlePage struct {
	Items []Article `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
}

// ArticleFilter narrows a flat article listing.
type ArticleFilter struct {
	Skip       int
	Limit      int
	SourceID   *int64
	SourceName string
}

// Analysis is the result returned by the external NLP service for one
// article. The scoring model itself is opaque to this system.
type Analysis struct {
	SentimentScore      float64             `json:"sentiment_score"`
	SentimentLabel      SentimentLabel      `json:"sentiment_label"`
	SentimentConfidence float64             `json:"sentiment_confidence"`
	BiasScore           float64             `json:"political_bias_score"`
	BiasLabel           BiasLabel           `json:"political_bias_label"`
	SensationalismScore float64             `json:"sensationalism_score"`
	SensationalismLabel SensationalismLabel `json:"sensationalism_label"`
	AnalyzedAt          time.Time           `json:"analyzed_at"`
}
