package server

import (
	"context"
	"errors"
	"net/http"

	"BeInformed/internal/ports"
)

const (
	defaultAnalyzeLimit = 10
	defaultRecentDays   = 7
	defaultRecentLimit  = 50
)

// handleAnalyzeTopic kicks off analysis of a topic's pending articles in
// the background and returns immediately.
func (s *Server) handleAnalyzeTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := s.topicFromPath(w, r)
	if !ok {
		return
	}

	limit := clamp(queryInt(r, "limit", defaultAnalyzeLimit), 1, maxPageSize)

	go func() {
		// Detached from the request context so the job outlives the response.
		ctx, cancel := context.WithTimeout(context.Background(), backgroundJobTimeout)
		defer cancel()

		analyzed, err := s.analyzer.AnalyzeTopic(ctx, id, limit)
		if err != nil {
			s.logger.Error("background topic analysis", "topic_id", id, "error", err)
			return
		}
		s.logger.Info("topic analysis finished", "topic_id", id, "analyzed", analyzed)
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{
		"message":  "analysis started",
		"topic_id": id,
	})
}

func (s *Server) handleAnalyzeArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "articleID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := s.analyzer.AnalyzeArticle(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		s.logger.Error("analyze article", "article_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

func (s *Server) handleAnalyzeRecent(w http.ResponseWriter, r *http.Request) {
	days := clamp(queryInt(r, "days", defaultRecentDays), 1, 365)
	limit := clamp(queryInt(r, "limit", defaultRecentLimit), 1, maxListLimit)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundJobTimeout)
		defer cancel()

		analyzed, err := s.analyzer.AnalyzeRecent(ctx, days, limit)
		if err != nil {
			s.logger.Error("background recent analysis", "error", err)
			return
		}
		s.logger.Info("recent analysis finished", "analyzed", analyzed)
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{
		"message": "analysis started",
		"days":    days,
		"limit":   limit,
	})
}
