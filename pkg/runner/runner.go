package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
)

// Runner handles the read-choose loop of a lesson using the provided IO.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Headless bool
	ShowPlot bool
	Renderer ContentRenderer
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run drives the lesson until it ends, the input is exhausted, or the
// learner types "exit". Invalid selections are reported and asked again.
func (r *Runner) Run(ctx context.Context, l *lesson.Lesson) error {
	handler := r.resolveHandler()

	if r.ShowPlot {
		if out, err := l.Plot(); err == nil && out != "" {
			if err := handler.Plot(ctx, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}

	var last *domain.Snapshot
	for {
		snap := l.Snapshot()
		if err := handler.Render(ctx, domain.Diff(last, snap)); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		last = snap

		if snap.Status == domain.StatusTerminated {
			r.Logger.Debug("lesson finished", "lesson_id", l.ID())
			return nil
		}
		prompt, ok := snap.Prompt()
		if !ok {
			return fmt.Errorf("lesson %s halted without a prompt: %w", l.ID(), domain.ErrInvariant)
		}

		index, err := r.readChoice(ctx, handler, prompt.Options)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if _, err := l.Choose(ctx, index); err != nil {
			var oor *domain.OutOfRangeError
			if errors.As(err, &oor) {
				_ = handler.SystemOutput(ctx, err.Error())
				continue
			}
			return fmt.Errorf("choice error: %w", err)
		}
	}
}

// readChoice loops until the learner enters a valid option.
func (r *Runner) readChoice(ctx context.Context, handler IOHandler, options []string) (int, error) {
	for {
		val, err := handler.Input(ctx)
		if err != nil {
			if err == io.EOF {
				return 0, err
			}
			return 0, fmt.Errorf("input error: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "exit", "quit":
			return 0, io.EOF
		}

		index, err := ParseChoice(val, options)
		if err != nil {
			r.Logger.Debug("selection rejected", "input", val, "err", err)
			if err := handler.SystemOutput(ctx, err.Error()); err != nil {
				return 0, err
			}
			continue
		}
		return index, nil
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	if !r.Headless {
		fmt.Fprintln(th.Writer, "--- AutoTutor ---")
	}
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}
