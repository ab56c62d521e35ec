package server

import (
	"errors"
	"net/http"
	"strconv"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	skip, limit := listParams(r)

	filter := domain.ArticleFilter{
		Skip:       skip,
		Limit:      limit,
		SourceName: r.URL.Query().Get("source_name"),
	}
	if raw := r.URL.Query().Get("source_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid source_id")
			return
		}
		filter.SourceID = &id
	}

	articles, err := s.articles.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("list articles", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list articles")
		return
	}
	WriteJSON(w, http.StatusOK, articles)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "articleID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := s.articles.ByID(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		s.logger.Error("get article", "article_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load article")
		return
	}
	WriteJSON(w, http.StatusOK, article)
}
