// Package webui serves the genai HTTP API: it lists the loaded skills, runs
// requests against them, and exposes the recorded run history.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/history"
	"github.com/jingkaihe/genai/pkg/interpreter"
	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/skills"
)

// maxRequestBody bounds POST /api/run payloads
const maxRequestBody = 1 << 20

// Server represents the HTTP API server
type Server struct {
	router *mux.Router
	interp *interpreter.Interpreter
	runs   *history.Store
	config *ServerConfig
	server *http.Server
}

// ServerConfig holds the configuration for the web server
type ServerConfig struct {
	Host string
	Port int
	// AllowedOrigins lists the browser origins granted CORS access. No
	// origin is granted access when it is empty.
	AllowedOrigins []string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// NewServer creates a server answering requests with interp. runs may be
// nil when run history is disabled.
func NewServer(config *ServerConfig, interp *interpreter.Interpreter, runs *history.Store) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}
	if interp == nil {
		return nil, errors.New("interpreter is required")
	}

	s := &Server{
		router: mux.NewRouter(),
		interp: interp,
		runs:   runs,
		config: config,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/{name}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/run", s.handleRun).Methods("POST", "OPTIONS")
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		if origin := r.Header.Get("Origin"); origin != "" && slices.Contains(s.config.AllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter captures the status code for logging
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// SkillSummary is the list view of a skill
type SkillSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Steps       int      `json:"steps"`
	Path        string   `json:"path"`
}

func summarize(skill *skills.Skill) SkillSummary {
	tags := skill.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	return SkillSummary{
		Name:        skill.Name(),
		Description: skill.Metadata.Description,
		Version:     skill.Metadata.Version,
		Category:    skill.Metadata.Category,
		Tags:        tags,
		Steps:       len(skill.Steps),
		Path:        skill.Path,
	}
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	loaded := s.interp.Skills()
	summaries := make([]SkillSummary, 0, len(loaded))
	for _, skill := range loaded {
		summaries = append(summaries, summarize(skill))
	}

	s.writeJSONResponse(r.Context(), w, map[string]any{
		"skills":   summaries,
		"total":    len(summaries),
		"provider": s.interp.Provider(),
	})
}

// handleGetSkill handles GET /api/skills/{name}
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	skill := s.interp.Skill(name)
	if skill == nil {
		s.writeErrorResponse(r.Context(), w, http.StatusNotFound, "skill not found: "+name, nil)
		return
	}

	s.writeJSONResponse(r.Context(), w, skill)
}

// handleRun handles POST /api/run
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !isJSONContent(r) {
		s.writeErrorResponse(ctx, w, http.StatusUnsupportedMediaType, "content type must be application/json", nil)
		return
	}

	var req interpreter.Request
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeErrorResponse(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Prompt == "" {
		s.writeErrorResponse(ctx, w, http.StatusBadRequest, "prompt is required", nil)
		return
	}

	outcome, err := s.interp.Run(ctx, req)
	if err != nil {
		kind := interpreter.ErrorKind(err)
		s.writeRunError(ctx, w, runErrorStatus(kind, req), kind, err)
		return
	}

	s.writeJSONResponse(ctx, w, outcome)
}

// isJSONContent reports whether the request body is declared as JSON.
// Browsers send text/plain and form bodies cross-origin without a preflight.
func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func runErrorStatus(kind string, req interpreter.Request) int {
	switch kind {
	case "selection":
		if req.Skill != "" {
			return http.StatusNotFound
		}
		return http.StatusUnprocessableEntity
	case "cancelled":
		return http.StatusServiceUnavailable
	case "internal":
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// handleListRuns handles GET /api/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.runs == nil {
		s.writeErrorResponse(ctx, w, http.StatusServiceUnavailable, "run history is disabled", nil)
		return
	}

	query := r.URL.Query()
	opts := history.QueryOptions{Skill: query.Get("skill"), Limit: 50}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}

	result, err := s.runs.List(ctx, opts)
	if err != nil {
		s.writeErrorResponse(ctx, w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}

	s.writeJSONResponse(ctx, w, result)
}

// handleGetRun handles GET /api/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.runs == nil {
		s.writeErrorResponse(ctx, w, http.StatusServiceUnavailable, "run history is disabled", nil)
		return
	}

	id := mux.Vars(r)["id"]
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			s.writeErrorResponse(ctx, w, http.StatusNotFound, "run not found: "+id, nil)
			return
		}
		s.writeErrorResponse(ctx, w, http.StatusInternalServerError, "failed to get run", err)
		return
	}

	s.writeJSONResponse(ctx, w, run)
}

func (s *Server) writeJSONResponse(ctx context.Context, w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(ctx).WithError(err).Error("failed to encode JSON response")
	}
}

func (s *Server) writeErrorResponse(ctx context.Context, w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		logger.G(ctx).WithError(err).Error(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":   message,
		"status":  statusCode,
		"success": false,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(ctx).WithError(err).Error("failed to encode error response")
	}
}

// writeRunError reports a failed run with its error kind
func (s *Server) writeRunError(ctx context.Context, w http.ResponseWriter, statusCode int, kind string, err error) {
	logger.G(ctx).WithError(err).WithField("kind", kind).Warn("run failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":   err.Error(),
		"kind":    kind,
		"status":  statusCode,
		"success": false,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(ctx).WithError(err).Error("failed to encode error response")
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "web server error")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Close stops the server immediately
func (s *Server) Close() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
