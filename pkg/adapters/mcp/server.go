package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/orgtree"
	"github.com/aretw0/orgtree/internal/logging"
	"github.com/aretw0/orgtree/pkg/chart"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const sessionURIPrefix = "orgtree://sessions/"

// EmployeeResponse describes an employee and its supervisor.
type EmployeeResponse struct {
	ID           int   `json:"id" jsonschema_description:"Employee ID"`
	SupervisorID int   `json:"supervisor_id" jsonschema_description:"Supervisor ID; the CEO is its own supervisor"`
	Subordinates []int `json:"subordinates" jsonschema_description:"IDs of direct reports"`
}

// StateResponse aligns with the HTTP session summary and provides a unified structure across adapters.
type StateResponse struct {
	SessionID string       `json:"session_id" jsonschema_description:"The session that was changed"`
	Applied   bool         `json:"applied" jsonschema_description:"False when undo or redo had nothing to do"`
	Cursor    int          `json:"cursor" jsonschema_description:"Number of applied moves"`
	CanUndo   bool         `json:"can_undo"`
	CanRedo   bool         `json:"can_redo"`
	Chart     domain.Chart `json:"chart" jsonschema_description:"The organization after the operation"`
}

// Server exposes organization sessions as an MCP Server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance. A nil logger discards output.
func NewServer(mgr *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  mgr,
		mcpServer: server.NewMCPServer("orgtree-mcp", strings.TrimSpace(orgtree.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session holding the organization"))

	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create or replace a session from a chart given as JSON: {\"id\":1,\"subordinates\":[...]}."),
		sessionArg,
		mcp.WithString("chart", mcp.Required(), mcp.Description("Chart document (JSON)")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreateSession))

	s.mcpServer.AddTool(mcp.NewTool("find_employee",
		mcp.WithDescription("Look up an employee and its supervisor by ID."),
		sessionArg,
		mcp.WithNumber("employee_id", mcp.Required(), mcp.Description("Employee ID")),
		mcp.WithOutputSchema[EmployeeResponse](),
	), mcp.NewStructuredToolHandler(s.handleFindEmployee))

	s.mcpServer.AddTool(mcp.NewTool("move_employee",
		mcp.WithDescription("Move an employee under a new supervisor. Its direct reports stay with the old supervisor."),
		sessionArg,
		mcp.WithNumber("employee_id", mcp.Required(), mcp.Description("Employee to move")),
		mcp.WithNumber("supervisor_id", mcp.Required(), mcp.Description("New supervisor")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleMove))

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last applied move."),
		sessionArg,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleUndo))

	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone move."),
		sessionArg,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleRedo))

	s.mcpServer.AddTool(mcp.NewTool("get_chart",
		mcp.WithDescription("Get the current organization chart as JSON."),
		sessionArg,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, _ := request.GetArguments()["session_id"].(string)
		sess, err := s.sessions.Load(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		jsonBytes, err := json.Marshal(sess.Chart)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	sessionID, _ := args["session_id"].(string)
	doc, _ := args["chart"].(string)

	c, err := chart.Parse([]byte(doc), chart.FormatJSON)
	if err != nil {
		return StateResponse{}, fmt.Errorf("invalid chart: %w", err)
	}
	sess, err := s.sessions.Create(ctx, sessionID, c)
	if err != nil {
		return StateResponse{}, err
	}
	return newStateResponse(sess, true), nil
}

func (s *Server) handleFindEmployee(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EmployeeResponse, error) {
	sessionID, _ := args["session_id"].(string)
	employeeID, err := intArg(args, "employee_id")
	if err != nil {
		return EmployeeResponse{}, err
	}

	var resp EmployeeResponse
	err = s.sessions.View(ctx, sessionID, func(e *orgtree.Engine) error {
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
	return resp, err
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	sessionID, _ := args["session_id"].(string)
	employeeID, err := intArg(args, "employee_id")
	if err != nil {
		return StateResponse{}, err
	}
	supervisorID, err := intArg(args, "supervisor_id")
	if err != nil {
		return StateResponse{}, err
	}

	sess, err := s.sessions.Update(ctx, sessionID, func(e *orgtree.Engine) error {
		return e.Move(employeeID, supervisorID)
	})
	if err != nil {
		s.logger.Warn("MCP move rejected", "session_id", sessionID, "err", err)
		return StateResponse{}, err
	}
	return newStateResponse(sess, true), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return s.step(ctx, args, (*orgtree.Engine).Undo)
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return s.step(ctx, args, (*orgtree.Engine).Redo)
}

func (s *Server) step(ctx context.Context, args map[string]interface{}, fn func(*orgtree.Engine) bool) (StateResponse, error) {
	sessionID, _ := args["session_id"].(string)
	var applied bool
	sess, err := s.sessions.Update(ctx, sessionID, func(e *orgtree.Engine) error {
		applied = fn(e)
		return nil
	})
	if err != nil {
		return StateResponse{}, err
	}
	return newStateResponse(sess, applied), nil
}

func (s *Server) registerResources() {
	// EXPOSE: orgtree://sessions/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sessionURIPrefix+"{id}", "Organization Session",
		mcp.WithTemplateDescription("Chart and history of a stored session"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readSession)
}

func (s *Server) readSession(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessionID, ok := strings.CutPrefix(request.Params.URI, sessionURIPrefix)
	if !ok || sessionID == "" {
		return nil, fmt.Errorf("unsupported resource %q", request.Params.URI)
	}
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	jsonBytes, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func newStateResponse(sess *domain.Session, applied bool) StateResponse {
	return StateResponse{
		SessionID: sess.ID,
		Applied:   applied,
		Cursor:    sess.Cursor,
		CanUndo:   sess.Cursor > 0,
		CanRedo:   sess.Cursor < len(sess.History),
		Chart:     sess.Chart,
	}
}

var errNotInteger = errors.New("must be an integer")

// intArg reads a numeric argument; JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, error) {
	switch v := args[name].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s %w", name, errNotInteger)
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s %w", name, errNotInteger)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s is required", name)
	}
}
