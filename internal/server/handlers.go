package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/repcycle/internal/catalog"
	"github.com/claude/repcycle/internal/tracker"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	active, remaining := s.tracker.RestRemaining()
	writeJSON(w, http.StatusOK, map[string]any{
		"state": snap,
		"rest": map[string]any{
			"active":            active,
			"remaining_seconds": remaining,
		},
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"programs":    s.cat.Programs(),
		"restPresets": tracker.RestPresets,
	})
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prog, err := s.cat.Program(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	days := make([]catalog.Day, 0, len(prog.DayIDs))
	for _, dayID := range prog.DayIDs {
		d, err := s.cat.Day(prog.ID, dayID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		days = append(days, d)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"program": prog,
		"days":    days,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.tracker.ActiveSession()
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type startRequest struct {
	ProgramID string `json:"program_id"`
	DayID     string `json:"day_id"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.tracker.StartSession(req.ProgramID, req.DayID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tracker.ResetSession()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	entry, err := s.tracker.FinishWorkout()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleGetRest(w http.ResponseWriter, r *http.Request) {
	active, remaining := s.tracker.RestRemaining()
	writeJSON(w, http.StatusOK, map[string]any{
		"active":            active,
		"remaining_seconds": remaining,
	})
}

func (s *Server) handleSkipRest(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.SkipRest(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exID")
	idx, ok := parseIndex(w, r)
	if !ok {
		return
	}
	if err := s.tracker.ToggleSet(exID, idx); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ActiveSession())
}

type editSetRequest struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

func (s *Server) handleEditSet(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exID")
	idx, ok := parseIndex(w, r)
	if !ok {
		return
	}
	var req editSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.tracker.EditSet(exID, idx, req.Reps, req.Weight); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ActiveSession())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exID")
	if err := s.tracker.AddSet(exID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ActiveSession())
}

type setCountRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleSetSetCount(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exID")
	var req setCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.tracker.SetSetCount(exID, req.Count); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ActiveSession())
}

func (s *Server) handleSwapExercise(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exID")
	if err := s.tracker.SwapExercise(exID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ActiveSession())
}

func (s *Server) handleToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exID")
	if err := s.tracker.ToggleChecklistItem(exID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ActiveSession())
}

func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return 0, false
	}
	return idx, true
}

// writeError maps domain errors onto HTTP statuses: unknown catalog ids are
// 404, bad indices 400, operations that need a session 409.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, tracker.ErrIndexOutOfRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, tracker.ErrNoActiveSession):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.log.Error("handler error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
