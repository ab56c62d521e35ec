package server

import (
	"errors"
	"net/http"

	"BeInformed/internal/ports"
)

const defaultSeriesDays = 30

func (s *Server) handleTopicStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := s.topicFromPath(w, r)
	if !ok {
		return
	}

	days := queryInt(r, "days", 0)
	if days < 0 {
		WriteError(w, http.StatusBadRequest, "days must not be negative")
		return
	}

	stats, err := s.statistics.TopicStatistics(r.Context(), id, days)
	if err != nil {
		s.logger.Error("topic statistics", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSourceStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := s.topicFromPath(w, r)
	if !ok {
		return
	}

	stats, err := s.statistics.SourceStatistics(r.Context(), id)
	if err != nil {
		s.logger.Error("source statistics", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSentimentOverTime(w http.ResponseWriter, r *http.Request) {
	id, ok := s.topicFromPath(w, r)
	if !ok {
		return
	}

	days := queryInt(r, "days", defaultSeriesDays)
	if days <= 0 {
		WriteError(w, http.StatusBadRequest, "days must be positive")
		return
	}

	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "day"
	}
	switch interval {
	case "day", "week", "month":
	default:
		WriteError(w, http.StatusBadRequest, "interval must be day, week, or month")
		return
	}

	series, err := s.statistics.SentimentOverTime(r.Context(), id, days, interval)
	if err != nil {
		s.logger.Error("sentiment over time", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// topicFromPath parses the topic ID and verifies the topic exists; it
// writes the error response itself when the request cannot proceed.
func (s *Server) topicFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "topicID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}

	if _, err := s.topics.ByID(r.Context(), id); errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "topic not found")
		return 0, false
	} else if err != nil {
		s.logger.Error("get topic", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load topic")
		return 0, false
	}
	return id, true
}
