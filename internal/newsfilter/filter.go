package newsfilter

import (
	"sort"
	"time"

	"BeInformed/internal/domain"
)

// DateRange restricts articles to the last N days; RangeAll disables the
// restriction.
type DateRange int

const (
	RangeAll     DateRange = 0
	RangeDay     DateRange = 1
	RangeWeek    DateRange = 7
	RangeMonth   DateRange = 30
	RangeQuarter DateRange = 90
)

// Criteria selects a subset of articles. Every set-typed dimension uses
// inclusion semantics: an empty set places no restriction, a non-empty set
// matches only articles whose value is a member. Articles missing a value on
// a restricted dimension never match.
type Criteria struct {
	Sentiments []domain.SentimentLabel
	Biases     []domain.BiasLabel
	Sources    []string
	Range      DateRange
}

// Empty reports whether the criteria places no restriction at all.
func (c Criteria) Empty() bool {
	return len(c.Sentiments) == 0 && len(c.Biases) == 0 && len(c.Sources) == 0 && c.Range == RangeAll
}

// AvailableSources returns the distinct non-empty source names present in
// the articles, sorted ascending.
func AvailableSources(articles []domain.Article) []string {
	seen := map[string]struct{}{}
	sources := make([]string, 0)
	for _, a := range articles {
		if a.SourceName == "" {
			continue
		}
		if _, ok := seen[a.SourceName]; ok {
			continue
		}
		seen[a.SourceName] = struct{}{}
		sources = append(sources, a.SourceName)
	}
	sort.Strings(sources)
	return sources
}

// Apply returns the articles matching every dimension of the criteria,
// preserving their relative order. The input is never mutated; now anchors
// the date-range cutoff.
func Apply(articles []domain.Article, c Criteria, now time.Time) []domain.Article {
	matched := make([]domain.Article, 0, len(articles))
	var cutoff time.Time
	if c.Range != RangeAll {
		cutoff = now.AddDate(0, 0, -int(c.Range))
	}

	for _, a := range articles {
		if !matchSentiment(a, c.Sentiments) {
			continue
		}
		if !matchBias(a, c.Biases) {
			continue
		}
		if !matchSource(a, c.Sources) {
			continue
		}
		if c.Range != RangeAll {
			if a.PublishedAt == nil {
				continue
			}
			if a.PublishedAt.Before(cutoff) || a.PublishedAt.After(now) {
				continue
			}
		}
		matched = append(matched, a)
	}

	return matched
}

func matchSentiment(a domain.Article, selected []domain.SentimentLabel) bool {
	if len(selected) == 0 {
		return true
	}
	if a.SentimentLabel == "" {
		return false
	}
	for _, s := range selected {
		if a.SentimentLabel == s {
			return true
		}
	}
	return false
}

func matchBias(a domain.Article, selected []domain.BiasLabel) bool {
	if len(selected) == 0 {
		return true
	}
	if a.BiasLabel == "" {
		return false
	}
	for _, b := range selected {
		if a.BiasLabel == b {
			return true
		}
	}
	return false
}

func matchSource(a domain.Article, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if a.SourceName == "" {
		return false
	}
	for _, s := range selected {
		if a.SourceName == s {
			return true
		}
	}
	return false
}
