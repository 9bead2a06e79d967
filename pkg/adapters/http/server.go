package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/pkg/assets"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/aretw0/autotutor/pkg/runner"
	"github.com/aretw0/autotutor/pkg/session"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AssetReader serves image bytes by name.
type AssetReader interface {
	Read(name string) (assets.Asset, []byte, error)
}

// Server holds the handlers of the lesson API.
type Server struct {
	Lessons  *session.Manager
	Script   *domain.Script
	Assets   AssetReader
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithScript exposes the script on GET /script.
func WithScript(s *domain.Script) Option {
	return func(srv *Server) {
		srv.Script = s
	}
}

// WithAssets serves images on GET /assets/images/{name}.
func WithAssets(a AssetReader) Option {
	return func(srv *Server) {
		srv.Assets = a
	}
}

// WithGatherer exposes metrics on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(srv *Server) {
		srv.Gatherer = g
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		srv.Logger = logger
	}
}

// NewHandler creates the HTTP handler for the lesson registry.
func NewHandler(lessons *session.Manager, opts ...Option) http.Handler {
	s := &Server{Lessons: lessons}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/script", s.GetScript)
	r.Get("/assets/images/{name}", s.GetImage)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", s.ListLessons)
		r.Post("/", s.StartLesson)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetLesson)
			r.Delete("/", s.DeleteLesson)
			r.Post("/choose", s.Choose)
			r.Get("/events", s.SubscribeEvents)
			r.Get("/ws", s.Socket)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartRequest is the body of POST /lessons: the learner's setup.
type StartRequest struct {
	StudentName string        `json:"student_name"`
	Family      domain.Family `json:"function_type"`
	A           float64       `json:"a"`
	B           float64       `json:"b"`
	C           float64       `json:"c"`
	XBounds     *[2]float64   `json:"x_bounds,omitempty"`
	YBounds     *[2]float64   `json:"y_bounds,omitempty"`
}

// LessonResponse carries a lesson view.
type LessonResponse struct {
	LessonID string            `json:"lesson_id"`
	Info     domain.LessonInfo `json:"info"`
	Snapshot *domain.Snapshot  `json:"snapshot"`
	Plot     string            `json:"plot,omitempty"`
}

// ChooseRequest selects an option either by zero-based index or by the text
// a learner typed ("2", "Got it!").
type ChooseRequest struct {
	Index *int   `json:"index,omitempty"`
	Input string `json:"input,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string        `json:"error"`
	Checks []setup.Check `json:"checks,omitempty"`
}

// StartLesson handles POST /lessons.
func (s *Server) StartLesson(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	bounds := setup.DefaultBounds
	if body.XBounds != nil {
		bounds.X = *body.XBounds
	}
	if body.YBounds != nil {
		bounds.Y = *body.YBounds
	}
	name := body.StudentName
	if strings.TrimSpace(name) == "" {
		name = setup.DefaultStudentName
	}
	fn := setup.Function{Family: body.Family, A: body.A, B: body.B, C: body.C}

	info, err := fn.Handoff(name, bounds)
	if err != nil {
		s.writeError(w, err)
		return
	}

	l, err := s.Lessons.Start(r.Context(), info)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.Logger.Info("lesson started", "lesson_id", l.ID(), "function", info.Expression)
	s.writeJSON(w, http.StatusCreated, lessonResponse(l))
}

// ListLessons handles GET /lessons.
func (s *Server) ListLessons(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"lessons": s.Lessons.List()})
}

// GetLesson handles GET /lessons/{id}.
func (s *Server) GetLesson(w http.ResponseWriter, r *http.Request) {
	l, err := s.Lessons.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lessonResponse(l))
}

// DeleteLesson handles DELETE /lessons/{id}.
func (s *Server) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := s.Lessons.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Choose handles POST /lessons/{id}/choose.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	l, err := s.Lessons.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	index, err := selection(l, body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap, err := l.Choose(r.Context(), index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// selection resolves a ChooseRequest against the current prompt.
func selection(l *lesson.Lesson, body ChooseRequest) (int, error) {
	if body.Index != nil {
		return *body.Index, nil
	}
	clean, err := runner.SanitizeInput(body.Input)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	prompt, ok := l.Snapshot().Prompt()
	if !ok {
		return 0, fmt.Errorf("lesson is not waiting for a selection: %w", domain.ErrInvalidState)
	}
	return runner.ParseChoice(clean, prompt.Options)
}

// GetScript handles GET /script.
func (s *Server) GetScript(w http.ResponseWriter, r *http.Request) {
	if s.Script == nil {
		s.writeError(w, fmt.Errorf("script: %w", errNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, s.Script)
}

// GetImage handles GET /assets/images/{name}.
func (s *Server) GetImage(w http.ResponseWriter, r *http.Request) {
	if s.Assets == nil {
		s.writeError(w, fmt.Errorf("assets: %w", errNotFound))
		return
	}
	asset, data, err := s.Assets.Read(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "autotutor-http",
		"version": autotutor.Version,
		"lessons": s.Lessons.Len(),
	})
}

// -- Helpers --

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errors.New("not found")
)

func lessonResponse(l *lesson.Lesson) LessonResponse {
	plot, _ := l.Plot()
	return LessonResponse{
		LessonID: l.ID(),
		Info:     l.Info(),
		Snapshot: l.Snapshot(),
		Plot:     plot,
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrLessonNotFound), errors.Is(err, assets.ErrNotFound), errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, runner.ErrInvalidChoice), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, setup.ErrInvalidSetup), errors.Is(err, setup.ErrDegenerate), errors.Is(err, setup.ErrNoRealRoots):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	} else {
		s.Logger.Debug("request rejected", "status", code, "err", err)
	}

	resp := ErrorResponse{Error: err.Error()}
	var checklist *setup.ChecklistError
	if errors.As(err, &checklist) {
		resp.Checks = checklist.Failed
	}
	s.writeJSON(w, code, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
