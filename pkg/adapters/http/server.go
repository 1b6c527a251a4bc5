package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxBudget caps the steps a single request may apply.
const DefaultMaxBudget = 1_000_000

// maxBodySize limits definition uploads.
const maxBodySize = 1 << 20

// Server exposes machines and sessions over HTTP.
type Server struct {
	Sessions  *session.Manager
	Metrics   *observability.Metrics
	Streams   *StreamManager
	MaxBudget int

	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records runs and serves them on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxBudget overrides DefaultMaxBudget. Values below 1 keep the default,
// since every request must be bounded.
func WithMaxBudget(steps int) Option {
	return func(s *Server) {
		s.MaxBudget = steps
	}
}

// NewServer creates a server backed by the session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions:  sessions,
		Streams:   NewStreamManager(),
		MaxBudget: DefaultMaxBudget,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.MaxBudget < 1 {
		s.logger.Warn("max budget must be positive, using default", "max_budget", s.MaxBudget, "default", DefaultMaxBudget)
		s.MaxBudget = DefaultMaxBudget
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates the HTTP handler for sessions.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Post("/run", s.Run)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/step", s.StepSession)
			r.Post("/run", s.RunSession)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunResponse is the body returned by POST /run.
type RunResponse struct {
	Name     string   `json:"name"`
	Tape     []string `json:"tape"`
	Head     int      `json:"head"`
	Position int      `json:"position"`
	State    string   `json:"state"`
	Steps    int      `json:"steps"`
	Halted   bool     `json:"halted"`
	Error    string   `json:"error,omitempty"`
}

// Run handles POST /run: compile the posted definition and run it to completion.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	def, ok := s.decodeDefinition(w, r)
	if !ok {
		return
	}
	budget, ok := s.budget(w, r, "budget", s.MaxBudget)
	if !ok {
		return
	}

	prog, err := schema.Compile(def)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var opts []turing.Option
	if s.Metrics != nil {
		opts = append(opts, turing.WithLifecycleHooks(observability.Hooks[string, string](s.Metrics)))
	}
	m, err := prog.New(opts...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, runErr := runner.Run(r.Context(), m, runner.WithBudget(budget), runner.WithLogger(s.logger))
	s.observe(res.Steps)

	resp := RunResponse{
		Name:     prog.Name,
		Tape:     res.Tape,
		Head:     res.Head,
		Position: res.Position,
		State:    res.State,
		Steps:    res.Steps,
		Halted:   res.Halted,
	}
	status := http.StatusOK
	if runErr != nil {
		resp.Error = runErr.Error()
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, resp)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	def, ok := s.decodeDefinition(w, r)
	if !ok {
		return
	}
	snap, err := s.Sessions.Create(r.Context(), def)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepSession handles POST /sessions/{id}/step?n=.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	n, ok := s.budget(w, r, "n", 1)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	res, err := s.Sessions.Step(r.Context(), id, n)
	s.respondAdvance(w, id, res, err)
}

// RunSession handles POST /sessions/{id}/run?budget=.
func (s *Server) RunSession(w http.ResponseWriter, r *http.Request) {
	budget, ok := s.budget(w, r, "budget", s.MaxBudget)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	res, err := s.Sessions.Run(r.Context(), id, budget)
	s.respondAdvance(w, id, res, err)
}

func (s *Server) respondAdvance(w http.ResponseWriter, id string, res *session.Result, err error) {
	if res == nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.observe(res.Applied)
	if res.Diff != nil {
		if data, mErr := json.Marshal(res.Diff); mErr == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}

	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, struct {
			*session.Result
			Error string `json:"error"`
		}{res, err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": turing.Version,
	})
}

// -- Helpers --

func (s *Server) observe(steps int) {
	if s.Metrics != nil {
		s.Metrics.ObserveRun(steps)
	}
}

func (s *Server) decodeDefinition(w http.ResponseWriter, r *http.Request) (*domain.Definition, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}

	format := schema.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			format = schema.FormatYAML
		}
	}

	def, err := schema.Parse(data, format)
	if err != nil {
		s.logger.Warn("invalid definition", "err", err)
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if def.Name == "" {
		def.Name = "anonymous"
	}
	return def, true
}

// budget reads a positive step count from the query, clamped to MaxBudget.
func (s *Server) budget(w http.ResponseWriter, r *http.Request, key string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("query parameter %q must be a positive integer", key))
		return 0, false
	}
	if n > s.MaxBudget {
		n = s.MaxBudget
	}
	return n, true
}

func statusFor(err error) int {
	var verr *schema.AggregateError
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionLocked):
		return http.StatusConflict
	case errors.As(err, &verr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	for _, e := range schema.ValidationErrors(err) {
		resp.Details = append(resp.Details, e.Error())
	}
	if len(resp.Details) > 0 {
		resp.Error = "invalid definition"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
