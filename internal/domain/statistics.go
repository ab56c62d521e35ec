package domain

// SentimentDistribution counts articles per sentiment label.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// BiasDistribution counts articles per political-bias bucket. Articles
// labeled "neutral" by the analyzer are counted as centrist.
type BiasDistribution struct {
	LeftLeaning  int `json:"leftLeaning"`
	Centrist     int `json:"centrist"`
	RightLeaning int `json:"rightLeaning"`
}

// TopicStatistics is the aggregate payload served for one topic. Key casing
// matches the statistics API contract consumed by the frontend.
type TopicStatistics struct {
	TotalArticles         int                   `json:"totalArticles"`
	AnalyzedArticles      int                   `json:"analyzedArticles"`
	AverageSentiment      float64               `json:"averageSentiment"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
	BiasDistribution      BiasDistribution      `json:"biasDistribution"`
	SourcesCount          int                   `json:"sourcesCount"`
	SensationalismLevel   float64               `json:"sensationalismLevel"`
	TimeRange             string                `json:"timeRange"`
}

// EmptyTopicStatistics is the safe default served when a topic has no
// articles or the statistics query fails.
func EmptyTopicStatistics() TopicStatistics {
	return TopicStatistics{TimeRange: "all time"}
}

// SourceStatistics is a per-source rollup for one topic.
type SourceStatistics struct {
	SourceID              *int64  `json:"sourceId"`
	SourceName            string  `json:"sourceName"`
	ArticleCount          int     `json:"articleCount"`
	AverageSentiment      float64 `json:"averageSentiment"`
	AverageBias           float64 `json:"averageBias"`
	AverageSensationalism float64 `json:"averageSensationalism"`
}

// SentimentOverTime is a per-date sentiment time series for one topic.
// Slices are index-aligned and never nil.
type SentimentOverTime struct {
	Dates     []string  `json:"dates"`
	Sentiment []float64 `json:"sentiment"`
	Counts    []int     `json:"counts"`
}

// EmptySentimentOverTime returns an empty, non-nil time series.
func EmptySentimentOverTime() SentimentOverTime {
	return SentimentOverTime{Dates: []string{}, Sentiment: []float64{}, Counts: []int{}}
}
