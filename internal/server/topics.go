package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	skip, limit := listParams(r)
	sortBy := r.URL.Query().Get("sort_by")

	topics, err := s.topics.List(r.Context(), skip, limit, sortBy)
	if err != nil {
		s.logger.Error("list topics", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list topics")
		return
	}
	WriteJSON(w, http.StatusOK, topics)
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "topicID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	topic, err := s.topics.ByID(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		s.logger.Error("get topic", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load topic")
		return
	}
	WriteJSON(w, http.StatusOK, topic)
}

type searchTopicRequest struct {
	Topic       string `json:"topic"`
	MaxArticles int    `json:"max_articles"`
}

func (s *Server) handleSearchTopic(w http.ResponseWriter, r *http.Request) {
	var req searchTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		WriteError(w, http.StatusBadRequest, "topic is required")
		return
	}

	result, err := s.searcher.SearchTopic(r.Context(), req.Topic, req.MaxArticles)
	if err != nil {
		s.logger.Error("search topic", "topic", req.Topic, "error", err)
		WriteError(w, http.StatusInternalServerError, "topic search failed")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleTopicArticles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "topicID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.topics.ByID(r.Context(), id); errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "topic not found")
		return
	} else if err != nil {
		s.logger.Error("get topic", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load topic")
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	size := clamp(queryInt(r, "size", defaultPageSize), 1, maxPageSize)
	sortBy := r.URL.Query().Get("sort_by")

	total, err := s.articles.CountByTopic(r.Context(), id)
	if err != nil {
		s.logger.Error("count articles", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to count articles")
		return
	}

	items, err := s.articles.ListByTopic(r.Context(), id, (page-1)*size, size, sortBy)
	if err != nil {
		s.logger.Error("list articles", "topic_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list articles")
		return
	}

	// Pages reports at least 1 so clients always have a valid last page.
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	WriteJSON(w, http.StatusOK, domain.ArticlePage{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pages,
	})
}
