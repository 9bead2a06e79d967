package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/internal/presentation/graph"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/aretw0/autotutor/pkg/runner"
	"github.com/aretw0/autotutor/pkg/session"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs.
const (
	ScriptURI = "autotutor://script"
	GraphURI  = "autotutor://graph"
)

// LessonView is the structured result of every lesson tool.
type LessonView struct {
	LessonID   string                   `json:"lesson_id" jsonschema_description:"Identifier to pass to choose_option and get_transcript"`
	Version    int                      `json:"version" jsonschema_description:"Transcript version, incremented on every selection"`
	Status     domain.Status            `json:"status" jsonschema_description:"at_choice while waiting for a selection, terminated at the end"`
	Transcript []domain.TranscriptEntry `json:"transcript" jsonschema_description:"Chat bubbles in order; the last one lists the options when a selection is expected"`
	Plot       string                   `json:"plot,omitempty" jsonschema_description:"Text rendering of the function graph"`
}

// StartArgs are the arguments of start_lesson.
type StartArgs struct {
	StudentName string   `json:"student_name"`
	Family      string   `json:"function_type"`
	A           float64  `json:"a"`
	B           float64  `json:"b"`
	C           float64  `json:"c"`
	XMin        *float64 `json:"x_min,omitempty"`
	XMax        *float64 `json:"x_max,omitempty"`
	YMin        *float64 `json:"y_min,omitempty"`
	YMax        *float64 `json:"y_max,omitempty"`
}

// ChooseArgs are the arguments of choose_option.
type ChooseArgs struct {
	LessonID string   `json:"lesson_id"`
	Index    *float64 `json:"index,omitempty"`
	Input    string   `json:"input,omitempty"`
}

// LessonArgs identifies a lesson.
type LessonArgs struct {
	LessonID string `json:"lesson_id"`
}

// Server exposes the lesson registry as an MCP Server.
type Server struct {
	lessons   *session.Manager
	script    *domain.Script
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(lessons *session.Manager, script *domain.Script, opts ...Option) *Server {
	s := &Server{
		lessons:   lessons,
		script:    script,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("autotutor-mcp", autotutor.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_lesson",
		mcp.WithDescription("Start a lesson about when a thrown ball reaches the ground. f(x) = ax^2 + bx + c for quadratics, ax + b for lines."),
		mcp.WithString("function_type", mcp.Required(), mcp.Enum(string(domain.FamilyLinear), string(domain.FamilyQuadratic)), mcp.Description("linear or quadratic")),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("Leading coefficient")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Second coefficient")),
		mcp.WithNumber("c", mcp.Description("Constant term (quadratic only)")),
		mcp.WithString("student_name", mcp.Description("Name the tutor addresses the learner by")),
		mcp.WithNumber("x_min", mcp.Description("Left bound of the plot")),
		mcp.WithNumber("x_max", mcp.Description("Right bound of the plot")),
		mcp.WithNumber("y_min", mcp.Description("Lower bound of the plot")),
		mcp.WithNumber("y_max", mcp.Description("Upper bound of the plot")),
		mcp.WithOutputSchema[LessonView](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartLesson))

	chooseTool := mcp.NewTool("choose_option",
		mcp.WithDescription("Select an option of the current prompt, by zero-based index or by the text/number a learner typed."),
		mcp.WithString("lesson_id", mcp.Required(), mcp.Description("Lesson identifier")),
		mcp.WithNumber("index", mcp.Description("Zero-based option index")),
		mcp.WithString("input", mcp.Description("1-based option number or option text")),
		mcp.WithOutputSchema[LessonView](),
	)
	s.mcpServer.AddTool(chooseTool, mcp.NewStructuredToolHandler(s.handleChooseOption))

	transcriptTool := mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the current transcript of a lesson."),
		mcp.WithString("lesson_id", mcp.Required(), mcp.Description("Lesson identifier")),
		mcp.WithOutputSchema[LessonView](),
	)
	s.mcpServer.AddTool(transcriptTool, mcp.NewStructuredToolHandler(s.handleGetTranscript))
}

func (s *Server) handleStartLesson(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (LessonView, error) {
	bounds := setup.DefaultBounds
	for _, b := range []struct {
		v   *float64
		dst *float64
	}{
		{args.XMin, &bounds.X[0]}, {args.XMax, &bounds.X[1]},
		{args.YMin, &bounds.Y[0]}, {args.YMax, &bounds.Y[1]},
	} {
		if b.v != nil {
			*b.dst = *b.v
		}
	}
	name := args.StudentName
	if name == "" {
		name = setup.DefaultStudentName
	}

	fn := setup.Function{Family: domain.Family(args.Family), A: args.A, B: args.B, C: args.C}
	info, err := fn.Handoff(name, bounds)
	if err != nil {
		return LessonView{}, err
	}
	l, err := s.lessons.Start(ctx, info)
	if err != nil {
		return LessonView{}, fmt.Errorf("start failed: %w", err)
	}
	s.logger.Info("MCP lesson started", "lesson_id", l.ID(), "function", info.Expression)
	return view(l, l.Snapshot(), true), nil
}

func (s *Server) handleChooseOption(ctx context.Context, request mcp.CallToolRequest, args ChooseArgs) (LessonView, error) {
	l, err := s.lessons.Get(args.LessonID)
	if err != nil {
		return LessonView{}, err
	}

	var index int
	switch {
	case args.Index != nil:
		if index, err = wholeIndex(*args.Index); err != nil {
			return LessonView{}, err
		}
	case args.Input != "":
		clean, err := runner.SanitizeInput(args.Input)
		if err != nil {
			s.logger.Warn("MCP choose: input rejected", "err", err, "size", len(args.Input))
			return LessonView{}, fmt.Errorf("input rejected: %w", err)
		}
		prompt, ok := l.Snapshot().Prompt()
		if !ok {
			return LessonView{}, fmt.Errorf("lesson is not waiting for a selection: %w", domain.ErrInvalidState)
		}
		if index, err = runner.ParseChoice(clean, prompt.Options); err != nil {
			return LessonView{}, err
		}
	default:
		return LessonView{}, errors.New("either index or input is required")
	}

	snap, err := l.Choose(ctx, index)
	if err != nil {
		return LessonView{}, err
	}
	return view(l, snap, false), nil
}

// wholeIndex converts a JSON number to an option index. Fractions, NaN and
// values outside int are rejected rather than truncated.
func wholeIndex(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("index must be a whole number, got %v: %w", v, runner.ErrInvalidChoice)
	}
	return int(v), nil
}

func (s *Server) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, args LessonArgs) (LessonView, error) {
	l, err := s.lessons.Get(args.LessonID)
	if err != nil {
		return LessonView{}, err
	}
	return view(l, l.Snapshot(), true), nil
}

func view(l *lesson.Lesson, snap *domain.Snapshot, withPlot bool) LessonView {
	v := LessonView{
		LessonID:   snap.LessonID,
		Version:    snap.Version,
		Status:     snap.Status,
		Transcript: snap.Transcript,
	}
	if withPlot {
		v.Plot, _ = l.Plot()
	}
	return v
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ScriptURI, "Lesson Script",
		mcp.WithResourceDescription("The compiled branching dialogue"),
		mcp.WithMIMEType("application/json"),
	), s.readScript)

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Lesson Graph",
		mcp.WithResourceDescription("Mermaid flowchart of the dialogue"),
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readScript(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.script)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ScriptURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.script, nil),
		},
	}, nil
}
