package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/config"
	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/internal/presentation/tui"
	"github.com/aretw0/autotutor/pkg/runner"
	"github.com/aretw0/autotutor/pkg/setup"
)

// RunOptions configures an interactive lesson.
type RunOptions struct {
	Config      *config.Config
	Function    setup.Function
	Bounds      setup.Bounds
	StudentName string

	TUI      bool
	JSON     bool
	Headless bool

	Input  io.Reader
	Output io.Writer
}

// Execute validates the setup, starts a lesson and drives it until the end.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := logging.New(logging.Level(opts.Config.Debug))

	tutor, err := NewTutor(opts.Config, logger)
	if err != nil {
		return err
	}

	name := opts.StudentName
	if name == "" {
		name = setup.DefaultStudentName
	}
	info, err := opts.Function.Handoff(name, opts.Bounds)
	if err != nil {
		var checklist *setup.ChecklistError
		if errors.As(err, &checklist) && !opts.JSON {
			PrintChecklist(opts.Output, opts.Function, name, opts.Bounds)
		}
		return err
	}

	l, err := tutor.Start(ctx, info)
	if err != nil {
		return fmt.Errorf("failed to start lesson: %w", err)
	}
	logger.Debug("lesson started", "lesson_id", l.ID(), "function", info.Expression)

	if opts.TUI {
		return tui.Run(ctx, l, tui.WithMarkdown(tui.NewRenderer(0)))
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.Input, opts.Output)
	} else {
		var renderOpts []runner.TextHandlerOption
		if runner.IsTerminal(opts.Output) {
			renderOpts = append(renderOpts, runner.WithTextHandlerRenderer(tui.NewRenderer(0)))
		}
		handler = runner.NewTextHandler(opts.Input, opts.Output, renderOpts...)
		if !opts.Headless {
			tui.PrintBanner(opts.Output, autotutor.Version)
		}
	}

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithHeadless(opts.Headless),
		runner.WithPlot(!opts.Headless || opts.JSON),
	)
	return r.Run(ctx, l)
}
