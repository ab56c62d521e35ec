package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"BeInformed/internal/domain"
	"BeInformed/internal/ports"
)

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	skip, limit := listParams(r)
	sourceType := r.URL.Query().Get("source_type")

	sources, err := s.sources.List(r.Context(), skip, limit, sourceType)
	if err != nil {
		s.logger.Error("list sources", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}
	WriteJSON(w, http.StatusOK, sources)
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sourceID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	source, err := s.sources.ByID(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "source not found")
		return
	}
	if err != nil {
		s.logger.Error("get source", "source_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load source")
		return
	}
	WriteJSON(w, http.StatusOK, source)
}

type sourceRequest struct {
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	SourceType       string   `json:"source_type"`
	CredibilityScore *float64 `json:"credibility_score"`
}

func (req sourceRequest) validate() error {
	if strings.TrimSpace(req.URL) == "" {
		return errors.New("url is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

func (req sourceRequest) toDomain() domain.Source {
	return domain.Source{
		URL:              strings.TrimSpace(req.URL),
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		SourceType:       req.SourceType,
		CredibilityScore: req.CredibilityScore,
	}
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.sources.ByURL(r.Context(), strings.TrimSpace(req.URL)); err == nil {
		WriteError(w, http.StatusBadRequest, "source with this URL already exists")
		return
	} else if !errors.Is(err, ports.ErrNotFound) {
		s.logger.Error("check source url", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to create source")
		return
	}

	source, err := s.sources.Create(r.Context(), req.toDomain())
	if err != nil {
		s.logger.Error("create source", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to create source")
		return
	}
	WriteJSON(w, http.StatusCreated, source)
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sourceID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.sources.ByID(r.Context(), id); errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "source not found")
		return
	} else if err != nil {
		s.logger.Error("get source", "source_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to update source")
		return
	}

	update := req.toDomain()
	update.ID = id

	source, err := s.sources.Update(r.Context(), update)
	if err != nil {
		s.logger.Error("update source", "source_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to update source")
		return
	}
	WriteJSON(w, http.StatusOK, source)
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sourceID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.sources.Delete(r.Context(), id); errors.Is(err, ports.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "source not found")
		return
	} else if err != nil {
		s.logger.Error("delete source", "source_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to delete source")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
