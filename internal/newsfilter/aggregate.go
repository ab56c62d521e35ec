package newsfilter

import "BeInformed/internal/domain"

// Counts is the rollup derived from one page of articles, feeding summary
// cards and charts.
type Counts struct {
	Total          int
	Analyzed       int
	Sentiment      domain.SentimentDistribution
	Bias           domain.BiasDistribution
	Sensationalism SensationalismDistribution
	SourcesCount   int
}

// SensationalismDistribution counts articles per sensationalism label.
type SensationalismDistribution struct {
	Factual  int `json:"factual"`
	Somewhat int `json:"somewhatSensational"`
	High     int `json:"highlySensational"`
}

// Aggregate computes rollup counts over the articles. Unlabeled articles
// contribute to Total (and Analyzed when applicable) but to no label bucket.
func Aggregate(articles []domain.Article) Counts {
	var c Counts
	c.Total = len(articles)

	seenSources := map[string]struct{}{}
	for _, a := range articles {
		if a.Analyzed() {
			c.Analyzed++
		}
		if a.SourceName != "" {
			seenSources[a.SourceName] = struct{}{}
		}

		switch a.SentimentLabel {
		case domain.SentimentPositive:
			c.Sentiment.Positive++
		case domain.SentimentNeutral:
			c.Sentiment.Neutral++
		case domain.SentimentNegative:
			c.Sentiment.Negative++
		}

		switch a.BiasLabel {
		case domain.BiasLeftLeaning:
			c.Bias.LeftLeaning++
		case domain.BiasCentrist, domain.BiasNeutral:
			// Upstream labels some centrist articles "neutral"; they are
			// folded into the centrist bucket for aggregation only.
			c.Bias.Centrist++
		case domain.BiasRightLeaning:
			c.Bias.RightLeaning++
		}

		switch a.SensationalismLabel {
		case domain.SensationalismFactual:
			c.Sensationalism.Factual++
		case domain.SensationalismSomewhat:
			c.Sensationalism.Somewhat++
		case domain.SensationalismHigh:
			c.Sensationalism.High++
		}
	}
	c.SourcesCount = len(seenSources)

	return c
}

// AnalyzedPercent returns the analyzed share in [0,100], and 0 when the
// rollup is empty.
func (c Counts) AnalyzedPercent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Analyzed) / float64(c.Total) * 100
}

// Summary labels for aggregate cards. The thresholds are fixed business
// rules inherited from the product, not model-derived.
const (
	SummaryMostlyPositive = "mostly positive"
	SummaryMostlyNegative = "mostly negative"
	SummaryNeutral        = "neutral"

	SummaryMostlyCentrist = "mostly centrist"
	SummaryLeftLeaning    = "left-leaning"
	SummaryRightLeaning   = "right-leaning"
	SummaryMixed          = "mixed"
)

// SentimentSummary maps an average sentiment score in [-1,1] to a display
// label: above 0.3 is mostly positive, below -0.3 mostly negative.
func SentimentSummary(averageScore float64) string {
	switch {
	case averageScore > 0.3:
		return SummaryMostlyPositive
	case averageScore < -0.3:
		return SummaryMostlyNegative
	default:
		return SummaryNeutral
	}
}

// BiasSummary classifies the bias distribution: a centrist share above 60%
// reads mostly centrist, one wing leading the other by more than 20
// percentage points reads as that wing, anything else is mixed.
func (c Counts) BiasSummary() string {
	total := c.Bias.LeftLeaning + c.Bias.Centrist + c.Bias.RightLeaning
	if total == 0 {
		return SummaryMixed
	}

	left := float64(c.Bias.LeftLeaning) / float64(total) * 100
	centrist := float64(c.Bias.Centrist) / float64(total) * 100
	right := float64(c.Bias.RightLeaning) / float64(total) * 100

	switch {
	case centrist > 60:
		return SummaryMostlyCentrist
	case left-right > 20:
		return SummaryLeftLeaning
	case right-left > 20:
		return SummaryRightLeaning
	default:
		return SummaryMixed
	}
}
