package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/model"
	"github.com/openhouse-labs/propscore/internal/store"
)

type compareRequest struct {
	Name       string                     `json:"name,omitempty"`
	Properties []model.PropertyAttributes `json:"properties"`
	Criteria   model.ComparisonCriteria   `json:"criteria"`
}

type compareResponse struct {
	Results []model.ComparisonResult `json:"results"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	results, err := s.engine.Compare(req.Properties, req.Criteria)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{Results: results})
}

func (s *Server) handleCreateComparison(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeErrorMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	results, err := s.engine.Compare(req.Properties, req.Criteria)
	if err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.store.SaveComparison(r.Context(), req.Name, req.Properties, req.Criteria, results)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	filter := store.ComparisonFilter{
		Name:   r.URL.Query().Get("name"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	comparisons, err := s.store.ListComparisons(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if comparisons == nil {
		comparisons = []model.PropertyComparison{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"comparisons": comparisons})
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	pc, err := s.store.GetComparison(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pc)
}

func (s *Server) handleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	if err := s.store.DeleteComparison(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	props, err := s.store.ListProperties(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if props == nil {
		props = []model.PropertyAttributes{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": props})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	p, err := s.store.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProperty(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	var p model.PropertyAttributes
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	if p.ID == "" {
		p.ID = id
	}
	if p.ID != id {
		writeErrorMessage(w, http.StatusBadRequest, "body id does not match URL")
		return
	}

	if err := s.store.UpsertProperty(r.Context(), p); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleImportProperties(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	var body struct {
		Properties []model.PropertyAttributes `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := s.store.ImportProperties(r.Context(), body.Properties)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// writeError maps domain errors onto status codes. Scoring validation
// failures are the client's fault (422), missing records are 404, and
// everything else is masked as a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, engine.ErrInvalidCohortSize),
		eris.Is(err, engine.ErrInvalidAttribute),
		eris.Is(err, engine.ErrInvalidCriteria):
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case eris.Is(err, store.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Code:    http.StatusText(status),
		Message: msg,
	})
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
