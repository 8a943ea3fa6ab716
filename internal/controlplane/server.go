package controlplane

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/planner"
	"github.com/fentz26/studyplan/internal/store"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Server provides the HTTP API for studyplan.
type Server struct {
	service *Service
	addr    string
	origins []string
	logger  *slog.Logger
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, addr string, origins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		service: service,
		addr:    addr,
		origins: origins,
		logger:  logger,
	}
}

// Handler returns the API routes wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Task endpoints
	mux.HandleFunc("/tasks", s.handleTasks)
	mux.HandleFunc("/tasks/", s.handleTaskByID)

	// Plan endpoints
	mux.HandleFunc("/plan", s.handlePlan)
	mux.HandleFunc("/plan/export", s.handlePlanExport)

	mux.HandleFunc("/audit", s.handleAudit)
	mux.HandleFunc("/health", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("starting studyplan server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := HealthResponse{OK: true, DB: "ok", Version: Version, Time: time.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if err := s.service.Ping(ctx); err != nil {
		health.OK = false
		health.DB = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// handleTasks handles POST /tasks and GET /tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTask(w, r)
	case http.MethodGet:
		s.listTasks(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTaskByID handles /tasks/{id}
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/tasks/"), "/")
	if taskID == "" || strings.Contains(taskID, "/") {
		http.Error(w, "task id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTask(w, r, taskID)
	case http.MethodPatch:
		s.updateTask(w, r, taskID)
	case http.MethodDelete:
		s.deleteTask(w, r, taskID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePlan handles POST /plan and GET /plan
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.generatePlan(w, r)
	case http.MethodGet:
		s.getPlan(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Task Handlers ---

type createTaskRequest struct {
	Title          string  `json:"title"`
	Subject        string  `json:"subject"`
	Deadline       string  `json:"deadline"`
	Days           *int    `json:"days"`
	Priority       int     `json:"priority"`
	EstimatedHours float64 `json:"estimated_hours"`
	TaskType       string  `json:"task_type"`
	Difficulty     int     `json:"difficulty"`
}

func (req createTaskRequest) task(now time.Time) (models.Task, error) {
	t := models.Task{
		Title:          req.Title,
		Subject:        req.Subject,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
		TaskType:       models.ParseTaskType(req.TaskType),
		Difficulty:     req.Difficulty,
	}
	switch {
	case req.Deadline != "":
		d, err := models.ParseDeadline(req.Deadline)
		if err != nil {
			return t, fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
		t.Deadline = d
	case req.Days != nil:
		t.Deadline = now.AddDate(0, 0, *req.Days)
	}
	return t, nil
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	t, err := req.task(s.service.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	task, err := s.service.CreateTask(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.Filter{Subject: q.Get("subject")}
	if tt := q.Get("type"); tt != "" {
		f.TaskType = models.ParseTaskType(tt)
	}
	f.IncompleteOnly, _ = strconv.ParseBool(q.Get("incomplete"))

	tasks, err := s.service.ListTasks(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := s.service.GetTask(taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(body))
	for k, v := range body {
		fields[k] = fmt.Sprint(v)
	}
	task, err := s.service.UpdateTaskFields(taskID, fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, taskID string) {
	if err := s.service.DeleteTask(taskID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Plan Handlers ---

type generatePlanRequest struct {
	Capacity map[string]float64 `json:"capacity"`
}

// PlanResponse is the body of GET and POST /plan.
type PlanResponse struct {
	Plan          *models.WeeklyPlan    `json:"plan"`
	TasksIncluded int                   `json:"tasks_included"`
	Outstanding   []planner.Outstanding `json:"outstanding"`
}

func newPlanResponse(res *planner.Result) PlanResponse {
	out := res.Outstanding
	if out == nil {
		out = []planner.Outstanding{}
	}
	return PlanResponse{Plan: res.Plan, TasksIncluded: res.TasksIncluded(), Outstanding: out}
}

func (s *Server) generatePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	override := planner.Capacity{}
	for day, hours := range req.Capacity {
		if _, ok := planner.ParseWeekday(day); !ok {
			http.Error(w, fmt.Sprintf("unknown day %q", day), http.StatusBadRequest)
			return
		}
		override[day] = hours
	}

	res, err := s.service.GeneratePlan(override)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(res))
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.CurrentPlan()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(res))
}

type artifactResponse struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handlePlanExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, err := s.service.ExportPlan("")
	if res == nil {
		s.writeError(w, err)
		return
	}

	artifacts := make([]artifactResponse, 0, len(res.Artifacts))
	for _, a := range res.Artifacts {
		ar := artifactResponse{Kind: a.Kind, Path: a.Path}
		if a.Err != nil {
			ar.Error = a.Err.Error()
		}
		artifacts = append(artifacts, ar)
	}

	status := http.StatusOK
	if len(res.Paths()) == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]interface{}{"artifacts": artifacts})
}

// --- Audit Handlers ---

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.service.AuditLog(r.URL.Query().Get("action"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.PDREntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidTask), errors.Is(err, ErrInvalidUpdate):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNoPlan):
		status = http.StatusConflict
	default:
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
