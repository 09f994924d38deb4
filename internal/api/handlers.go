package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quadrant-labs/StrategyPipe/internal/flow"
	"github.com/quadrant-labs/StrategyPipe/internal/models"
	"github.com/quadrant-labs/StrategyPipe/internal/store"
)

// AnswerRequest is the submit-answer request body. Text answers set Text;
// multi-select answers set Values in selection order.
type AnswerRequest struct {
	Text   string   `json:"text,omitempty"`
	Values []string `json:"values,omitempty"`
}

// toAnswerValue converts the request body to the flow answer shape.
func (r AnswerRequest) toAnswerValue() models.AnswerValue {
	if r.Values != nil {
		return models.ListAnswer(r.Values)
	}
	return models.TextAnswer(r.Text)
}

// SelectionRequest is the toggle-selection request body.
type SelectionRequest struct {
	Value string `json:"value"`
}

// healthHandler handles GET /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"status":   "healthy",
		"sessions": s.sessions.Count(),
	}))
}

// createSessionHandler handles POST /api/v1/sessions
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess := flow.NewSession()
	s.engine.Start(sess)
	s.sessions.Save(sess)
	slog.Info("createSessionHandler: session created", "sessionID", sess.ID)
	writeJSONResponse(w, http.StatusCreated, models.Success(s.engine.Snapshot(sess)))
}

// getSessionHandler handles GET /api/v1/sessions/{id}
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.engine.Snapshot(sess)))
}

// submitAnswerHandler handles POST /api/v1/sessions/{id}/answers. Invalid
// answers are a silent no-op: the handler still returns the current
// snapshot, and the client sees that nothing changed.
func (s *Server) submitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("submitAnswerHandler: invalid JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.engine.SubmitAnswer(r.Context(), sess, req.toAnswerValue()); err != nil {
		slog.Error("submitAnswerHandler: submit failed", "sessionID", sess.ID, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process answer"))
		return
	}
	s.sessions.Save(sess)
	writeJSONResponse(w, http.StatusOK, models.Success(s.engine.Snapshot(sess)))
}

// toggleSelectionHandler handles POST /api/v1/sessions/{id}/selection
func (s *Server) toggleSelectionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("toggleSelectionHandler: invalid JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.engine.ToggleSelection(sess, req.Value)
	s.sessions.Save(sess)
	writeJSONResponse(w, http.StatusOK, models.Success(s.engine.Snapshot(sess)))
}

// restartSessionHandler handles POST /api/v1/sessions/{id}/restart
func (s *Server) restartSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.engine.Restart(sess)
	s.sessions.Save(sess)
	slog.Info("restartSessionHandler: session restarted", "sessionID", sess.ID)
	writeJSONResponse(w, http.StatusOK, models.Success(s.engine.Snapshot(sess)))
}

// deleteSessionHandler handles DELETE /api/v1/sessions/{id}
func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.sessions.Delete(sess.ID)
	slog.Info("deleteSessionHandler: session deleted", "sessionID", sess.ID)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session deleted", nil))
}

// lookupSession resolves the {id} route parameter. On failure it writes the
// error response and returns false.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*flow.Session, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing session ID"))
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		} else {
			slog.Error("lookupSession: store failure", "sessionID", id, "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load session"))
		}
		return nil, false
	}
	return sess, true
}
