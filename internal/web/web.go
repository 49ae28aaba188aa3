// Package web serves the task store as a JSON API. It exposes the same
// operations as the desktop window: add, toggle, confirmed delete, calendar
// drop, plus the dashboard, calendar and chart projections.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MihkelHunter/mkPlanner/internal/todo"
	"github.com/MihkelHunter/mkPlanner/internal/view"
)

// Server wires HTTP routes to a todo.Store.
type Server struct {
	store *todo.Store
	log   *slog.Logger
	now   func() time.Time
	mux   *http.ServeMux
}

func New(store *todo.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: store, log: logger, now: time.Now, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /api/tasks", s.listTasks)
	s.mux.HandleFunc("POST /api/tasks", s.addTask)
	s.mux.HandleFunc("POST /api/tasks/{id}/toggle", s.toggleTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.deleteTask)
	s.mux.HandleFunc("PUT /api/tasks/{id}/date", s.rescheduleTask)
	s.mux.HandleFunc("GET /api/dashboard", s.dashboard)
	s.mux.HandleFunc("GET /api/calendar", s.calendar)
	s.mux.HandleFunc("GET /api/chart", s.chart)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.Info("http request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

type addRequest struct {
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Priority    string `json:"priority"`
}

type rescheduleRequest struct {
	Date string `json:"date"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.List(s.store, r.URL.Query().Get("q")))
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	priority, err := todo.ParsePriority(req.Priority)
	if err != nil {
		s.fail(w, err)
		return
	}
	task, err := s.store.Add(req.Description, req.Date, req.Time, priority)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.Toggle(id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteTask needs ?confirm=true; without it the delete is declined.
func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		writeError(w, http.StatusConflict, "delete not confirmed")
		return
	}
	if _, err := s.store.Delete(id, func(todo.Task) bool { return true }); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) rescheduleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := view.Drop(s.store, view.DragPayload{TaskID: id}, view.Day{Date: req.Date}); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Dashboard(s.store.All()))
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Calendar(s.store.All(), s.now()))
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Chart(s.store.All()))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Warning())
		return
	}
	s.log.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
