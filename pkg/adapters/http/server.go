package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/orgtree"
	"github.com/aretw0/orgtree/api"
	"github.com/aretw0/orgtree/internal/logging"
	"github.com/aretw0/orgtree/internal/presentation/graph"
	"github.com/aretw0/orgtree/pkg/chart"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/observability"
	"github.com/aretw0/orgtree/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// Server serves organization sessions over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Metrics  *observability.Metrics
	Spec     *openapi3.T

	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams enables GET /sessions/{id}/events. The StreamManager's Hooks must be
// registered on the session manager's engines, otherwise no event reaches subscribers.
// Without this option the route is not served.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics exposes m on GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(mgr *session.Manager, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	server := &Server{
		Sessions: mgr,
		Spec:     spec,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.OpenAPI)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.Metrics != nil {
		r.Handle("/metrics", server.Metrics.Handler())
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", server.CreateSession)
			r.Get("/", server.GetSession)
			r.Delete("/", server.DeleteSession)
			r.Get("/chart", server.GetChart)
			r.Get("/employees/{employeeID}", server.FindEmployee)
			r.Post("/moves", server.MoveEmployee)
			r.Post("/undo", server.Undo)
			r.Post("/redo", server.Redo)
			r.Get("/history", server.GetHistory)
			r.Get("/graph", server.GetGraph)
			if server.Streams != nil {
				r.Get("/events", server.SubscribeEvents)
			}
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>orgtree API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// SessionResponse summarizes a session.
type SessionResponse struct {
	ID            string       `json:"id"`
	Chart         domain.Chart `json:"chart"`
	Cursor        int          `json:"cursor"`
	HistoryLength int          `json:"history_length"`
	CanUndo       bool         `json:"can_undo"`
	CanRedo       bool         `json:"can_redo"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// StepResponse is returned by undo and redo.
type StepResponse struct {
	SessionResponse
	Applied bool `json:"applied"`
}

// MoveRequest is the body of POST /sessions/{id}/moves.
type MoveRequest struct {
	EmployeeID   *int `json:"employee_id"`
	SupervisorID *int `json:"supervisor_id"`
}

// EmployeeResponse describes one employee and its supervisor.
type EmployeeResponse struct {
	ID           int   `json:"id"`
	SupervisorID int   `json:"supervisor_id"`
	Subordinates []int `json:"subordinates"`
}

// HistoryResponse lists the recorded moves.
type HistoryResponse struct {
	Cursor int           `json:"cursor"`
	Moves  []domain.Move `json:"moves"`
}

func newSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		Chart:         s.Chart,
		Cursor:        s.Cursor,
		HistoryLength: len(s.History),
		CanUndo:       s.Cursor > 0,
		CanRedo:       s.Cursor < len(s.History),
		UpdatedAt:     s.UpdatedAt,
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.Spec != nil && s.Spec.Info != nil {
		apiVersion = s.Spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "orgtree-http",
		"version":     strings.TrimSpace(orgtree.Version),
		"api_version": apiVersion,
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the PUT /sessions/{id} request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("CreateSession: invalid request body", "err", err)
		return
	}
	c, err := chart.FromMap(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.Sessions.Create(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetChart handles the GET /sessions/{id}/chart request.
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == string(chart.FormatYAML) {
		data, err := chart.Marshal(sess.Chart, chart.FormatYAML)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Chart)
}

// FindEmployee handles the GET /sessions/{id}/employees/{employeeID} request.
func (s *Server) FindEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.Atoi(chi.URLParam(r, "employeeID"))
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "employee id must be an integer")
		return
	}

	var resp EmployeeResponse
	err = s.Sessions.View(r.Context(), chi.URLParam(r, "id"), func(e *orgtree.Engine) error {
		pos, err := e.FindByIDOrFail(employeeID)
		if err != nil {
			return err
		}
		resp = EmployeeResponse{
			ID:           pos.Employee.ID,
			SupervisorID: pos.Supervisor.ID,
			Subordinates: pos.Employee.SubordinateIDs(),
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if resp.Subordinates == nil {
		resp.Subordinates = []int{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// MoveEmployee handles the POST /sessions/{id}/moves request.
func (s *Server) MoveEmployee(w http.ResponseWriter, r *http.Request) {
	var body MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("MoveEmployee: invalid request body", "err", err)
		return
	}
	if body.EmployeeID == nil || body.SupervisorID == nil {
		s.writeStatus(w, http.StatusBadRequest, "employee_id and supervisor_id are required")
		return
	}

	sess, err := s.Sessions.Update(r.Context(), chi.URLParam(r, "id"), func(e *orgtree.Engine) error {
		return e.Move(*body.EmployeeID, *body.SupervisorID)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// Undo handles the POST /sessions/{id}/undo request.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, (*orgtree.Engine).Undo)
}

// Redo handles the POST /sessions/{id}/redo request.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, (*orgtree.Engine).Redo)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, fn func(*orgtree.Engine) bool) {
	var applied bool
	sess, err := s.Sessions.Update(r.Context(), chi.URLParam(r, "id"), func(e *orgtree.Engine) error {
		applied = fn(e)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StepResponse{
		SessionResponse: newSessionResponse(sess),
		Applied:         applied,
	})
}

// GetHistory handles the GET /sessions/{id}/history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	moves := sess.History
	if moves == nil {
		moves = []domain.Move{}
	}
	s.writeJSON(w, http.StatusOK, HistoryResponse{Cursor: sess.Cursor, Moves: moves})
}

// GetGraph handles the GET /sessions/{id}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(sess.Chart, graph.OverlayFromHistory(sess.History, sess.Cursor)))
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeStatus(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if err := domain.ValidateSessionID(sessionID); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: subscribing to session updates", "session_id", sessionID)
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var notFound *domain.NotFoundError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCEOImmutable), errors.Is(err, domain.ErrSelfSupervision):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidChart), errors.Is(err, domain.ErrInvalidSessionID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeStatus(w, status, err.Error())
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
