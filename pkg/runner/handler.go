package runner

import (
	"context"

	"github.com/aretw0/autotutor/pkg/domain"
)

// IOHandler defines the strategy for interacting with the learner.
// This allows switching between Text (CLI) and JSON (Structured) modes.
type IOHandler interface {
	// Render presents the transcript changes since the previous call.
	Render(ctx context.Context, diff *domain.SnapshotDiff) error

	// Plot presents the rendered function graph.
	Plot(ctx context.Context, plot string) error

	// Input reads a response from the learner.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (e.g. an invalid selection).
	// This is distinct from transcript rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms narration before it is printed, e.g. markdown
// to ANSI.
type ContentRenderer func(string) (string, error)
