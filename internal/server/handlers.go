package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/routine"
	"github.com/claude/limber/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// generateRequest is the request body for POST /api/v1/routines. All fields
// are optional; free text and explicit fields may be mixed, with explicit
// fields taking precedence. A nil transitionSeconds falls back to the
// per-install setting.
type generateRequest struct {
	Text              string   `json:"text"`
	Issue             string   `json:"issue"`
	Areas             []string `json:"areas"`
	Position          string   `json:"position"`
	Duration          string   `json:"duration"`
	DeskFriendly      bool     `json:"deskFriendly"`
	RestEvery         int      `json:"restEvery"`
	RestSeconds       int      `json:"restSeconds"`
	TransitionSeconds *int     `json:"transitionSeconds"`
}

func (s *Server) handleGenerateRoutine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	transition := 0
	if req.TransitionSeconds != nil {
		transition = *req.TransitionSeconds
	} else {
		var err error
		transition, err = s.settings.TransitionSeconds()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	entitled, err := s.db.IsPremium(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	areas := make([]catalog.Area, 0, len(req.Areas))
	for _, a := range req.Areas {
		areas = append(areas, catalog.Area(a))
	}

	rt, err := s.gen.Generate(routine.Request{
		Text:              req.Text,
		Issue:             routine.Issue(req.Issue),
		Areas:             areas,
		Position:          catalog.Position(req.Position),
		Bucket:            req.Duration,
		DeskFriendly:      req.DeskFriendly,
		RestEvery:         req.RestEvery,
		RestSeconds:       req.RestSeconds,
		TransitionSeconds: transition,
		Entitled:          entitled,
	})
	if err != nil {
		if errors.Is(err, routine.ErrNoStretches) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("generate error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	row := storage.NewRoutineRow(rt, uid)
	if err := s.db.InsertRoutine(r.Context(), row); err != nil {
		s.log.Error("failed to store routine", "id", rt.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine ID"})
		return
	}

	row, err := s.db.GetRoutine(r.Context(), id, uid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleCompleteRoutine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine ID"})
		return
	}

	done, err := s.db.CompleteRoutine(r.Context(), id, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !done {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found or already completed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (s *Server) handleRoutineHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QueryRoutines(r.Context(), uid, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListStretches(w http.ResponseWriter, r *http.Request) {
	area := catalog.Area(r.URL.Query().Get("area"))
	pos := catalog.Position(r.URL.Query().Get("position"))
	writeJSON(w, http.StatusOK, catalog.Filter(s.catalog, area, pos))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
