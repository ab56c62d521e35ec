// Command beinformed-cli searches a topic against a running backend,
// filters the returned articles locally, and prints an aggregate report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"BeInformed/internal/apiclient"
	"BeInformed/internal/config"
	"BeInformed/internal/domain"
	"BeInformed/internal/newsfilter"
	"BeInformed/internal/readiness"
	"BeInformed/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New("cli")

	var (
		apiURL    = flag.String("api", defaultAPIURL(cfg), "backend base URL")
		topic     = flag.String("topic", "", "topic to search (required)")
		max       = flag.Int("max", 0, "max articles to collect (0 = server default)")
		sentiment = flag.String("sentiment", "", "comma-separated sentiment filter (positive,neutral,negative)")
		bias      = flag.String("bias", "", "comma-separated bias filter (left-leaning,centrist,right-leaning)")
		source    = flag.String("source", "", "comma-separated source-name filter")
		days      = flag.Int("days", 0, "date range in days: 0 (all), 1, 7, 30, or 90")
		page      = flag.Int("page", 1, "article page to fetch")
		size      = flag.Int("size", 50, "articles per page")
		local     = flag.Bool("local", cfg.Client.Local(), "trust the backend and skip readiness probing")
		fallback  = flag.Duration("fallback", time.Minute, "optimistically assume a starting backend is healthy after this long (0 disables)")
	)
	flag.Parse()

	if strings.TrimSpace(*topic) == "" {
		fmt.Fprintln(os.Stderr, "usage: beinformed-cli -topic <name> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	criteria, err := buildCriteria(*sentiment, *bias, *source, *days)
	if err != nil {
		log.Fatalf("invalid filter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := apiclient.New(*apiURL, nil)

	monitor := readiness.New(readiness.ProberFunc(client.Probe), readiness.Options{
		FallbackAfter: *fallback,
		SkipProbe:     *local,
	})
	monitor.Start()
	defer monitor.Stop()

	log.Printf("waiting for backend at %s", *apiURL)
	status := monitor.Wait(ctx)
	if status.State != readiness.StateHealthy {
		log.Fatalf("backend not available after %d attempts: %s", status.Attempts, status.Message)
	}

	result, err := client.SearchTopic(ctx, *topic, *max)
	if err != nil {
		log.Fatalf("topic search failed: %v", err)
	}
	log.Printf("topic %q: %d articles found, %d stored (%d sources)",
		result.Topic.Name, result.ArticlesFound, result.ArticlesStored, result.SourcesFound)
	for _, msg := range result.Errors {
		log.Printf("collection warning: %s", msg)
	}

	articles, err := client.TopicArticles(ctx, result.Topic.ID, *page, *size)
	if err != nil {
		log.Fatalf("fetching articles failed: %v", err)
	}

	filtered := newsfilter.Apply(articles.Items, criteria, time.Now())
	printArticles(filtered, articles.Total, *page, articles.Pages)
	printSourceList(newsfilter.AvailableSources(articles.Items))
	printStatistics(ctx, client, result.Topic.ID, *days, filtered)
}

func defaultAPIURL(cfg config.Config) string {
	if cfg.Client.BaseURL != "" {
		return cfg.Client.BaseURL
	}
	return "http://localhost:8000"
}

// buildCriteria translates comma-separated flag values into filter criteria.
func buildCriteria(sentiment, bias, source string, days int) (newsfilter.Criteria, error) {
	var c newsfilter.Criteria

	for _, raw := range splitCSV(sentiment) {
		switch domain.SentimentLabel(raw) {
		case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
			c.Sentiments = append(c.Sentiments, domain.SentimentLabel(raw))
		default:
			return c, fmt.Errorf("unknown sentiment %q", raw)
		}
	}

	for _, raw := range splitCSV(bias) {
		switch domain.BiasLabel(raw) {
		case domain.BiasLeftLeaning, domain.BiasCentrist, domain.BiasRightLeaning:
			c.Biases = append(c.Biases, domain.BiasLabel(raw))
		default:
			return c, fmt.Errorf("unknown bias %q", raw)
		}
	}

	c.Sources = splitCSV(source)

	switch days {
	case 0:
		c.Range = newsfilter.RangeAll
	case 1:
		c.Range = newsfilter.RangeDay
	case 7:
		c.Range = newsfilter.RangeWeek
	case 30:
		c.Range = newsfilter.RangeMonth
	case 90:
		c.Range = newsfilter.RangeQuarter
	default:
		return c, fmt.Errorf("days must be 0, 1, 7, 30, or 90")
	}

	return c, nil
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printArticles(articles []domain.Article, total, page, pages int) {
	fmt.Printf("\n%d articles match (page %d of %d, %d total on topic)\n\n",
		len(articles), page, pages, total)

	for _, a := range articles {
		published := "unknown date"
		if a.PublishedAt != nil {
			published = a.PublishedAt.Format("2006-01-02")
		}
		fmt.Printf("  [%s] %s\n", published, a.Title)
		if a.SourceName != "" {
			fmt.Printf("      %s", a.SourceName)
		}
		if a.Analyzed() {
			fmt.Printf("  sentiment=%s bias=%s", a.SentimentLabel, a.BiasLabel)
		}
		fmt.Println()
	}
}

func printSourceList(sources []string) {
	if len(sources) == 0 {
		return
	}
	fmt.Printf("\nsources on this page: %s\n", strings.Join(sources, ", "))
}

// printStatistics prefers the server-side rollup and falls back to a local
// aggregate over the filtered page when the statistics endpoint fails.
func printStatistics(ctx context.Context, client *apiclient.Client, topicID int64, days int, filtered []domain.Article) {
	stats, err := client.TopicStatistics(ctx, topicID, days)
	if err == nil {
		fmt.Printf("\ntopic statistics (%s):\n", stats.TimeRange)
		fmt.Printf("  articles: %d total, %d analyzed\n", stats.TotalArticles, stats.AnalyzedArticles)
		fmt.Printf("  average sentiment: %.2f (%s)\n",
			stats.AverageSentiment, newsfilter.SentimentSummary(stats.AverageSentiment))
		fmt.Printf("  sentiment: %d positive / %d neutral / %d negative\n",
			stats.SentimentDistribution.Positive, stats.SentimentDistribution.Neutral,
			stats.SentimentDistribution.Negative)
		fmt.Printf("  bias: %d left / %d centrist / %d right\n",
			stats.BiasDistribution.LeftLeaning, stats.BiasDistribution.Centrist,
			stats.BiasDistribution.RightLeaning)
		fmt.Printf("  sources: %d, sensationalism level: %.2f\n",
			stats.SourcesCount, stats.SensationalismLevel)
		return
	}

	counts := newsfilter.Aggregate(filtered)
	fmt.Printf("\nlocal aggregate over %d filtered articles (statistics endpoint unavailable: %v):\n",
		counts.Total, err)
	fmt.Printf("  analyzed: %d (%.0f%%)\n", counts.Analyzed, counts.AnalyzedPercent())
	fmt.Printf("  sentiment: %d positive / %d neutral / %d negative\n",
		counts.Sentiment.Positive, counts.Sentiment.Neutral, counts.Sentiment.Negative)
	fmt.Printf("  bias: %d left / %d centrist / %d right (%s)\n",
		counts.Bias.LeftLeaning, counts.Bias.Centrist, counts.Bias.RightLeaning,
		counts.BiasSummary())
	fmt.Printf("  sources: %d\n", counts.SourcesCount)
}
