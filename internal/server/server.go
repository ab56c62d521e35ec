// Package server exposes the REST API over the collection, analysis, and
// statistics workflows.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

// backgroundJobTimeout bounds analysis runs detached from the request.
const backgroundJobTimeout = 10 * time.Minute

// TopicSearcher runs the search-and-collect workflow for a topic name.
type TopicSearcher interface {
	SearchTopic(ctx context.Context, name string, maxArticles int) (domain.TopicSearchResult, error)
}

// ArticleAnalyzer drives the NLP analysis workflows.
type ArticleAnalyzer interface {
	AnalyzeArticle(ctx context.Context, id int64) (domain.Article, error)
	AnalyzeTopic(ctx context.Context, topicID int64, limit int) (int, error)
	AnalyzeRecent(ctx context.Context, days, limit int) (int, error)
}

// Deps lists the collaborators the API surface needs.
type Deps struct {
	Topics     ports.TopicStore
	Articles   ports.ArticleStore
	Sources    ports.SourceStore
	Statistics ports.StatisticsStore
	Searcher   TopicSearcher
	Analyzer   ArticleAnalyzer
	Logger     *slog.Logger
}

// Server holds the handlers; build the http.Handler with Router.
type Server struct {
	topics     ports.TopicStore
	articles   ports.ArticleStore
	sources    ports.SourceStore
	statistics ports.StatisticsStore
	searcher   TopicSearcher
	analyzer   ArticleAnalyzer
	logger     *slog.Logger
}

// New wires the API server.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		topics:     deps.Topics,
		articles:   deps.Articles,
		sources:    deps.Sources,
		statistics: deps.Statistics,
		searcher:   deps.Searcher,
		analyzer:   deps.Analyzer,
		logger:     logger,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/", s.handleWelcome)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/topics", func(r chi.Router) {
			r.Get("/", s.handleListTopics)
			r.Post("/search", s.handleSearchTopic)
			r.Get("/{topicID}", s.handleGetTopic)
			r.Get("/{topicID}/articles", s.handleTopicArticles)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.handleListArticles)
			r.Get("/{articleID}", s.handleGetArticle)
		})

		r.Route("/sources", func(r chi.Router) {
			r.Get("/", s.handleListSources)
			r.Post("/", s.handleCreateSource)
			r.Get("/{sourceID}", s.handleGetSource)
			r.Put("/{sourceID}", s.handleUpdateSource)
			r.Delete("/{sourceID}", s.handleDeleteSource)
		})

		r.Route("/statistics", func(r chi.Router) {
			r.Get("/topics/{topicID}", s.handleTopicStatistics)
			r.Get("/topics/{topicID}/sources", s.handleSourceStatistics)
			r.Get("/topics/{topicID}/sentiment-over-time", s.handleSentimentOverTime)
		})

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/topics/{topicID}/analyze", s.handleAnalyzeTopic)
			r.Post("/articles/{articleID}/analyze", s.handleAnalyzeArticle)
			r.Post("/recent/analyze", s.handleAnalyzeRecent)
		})
	})

	return r
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to BeInformed API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
