package cli

import (
	"log/slog"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/config"
	"github.com/aretw0/autotutor/pkg/observability"
	"github.com/aretw0/autotutor/pkg/plot"
	"github.com/aretw0/autotutor/pkg/runner"
)

// NewTutor builds the tutor every command shares from the resolved config.
// In debug mode node transitions are logged.
func NewTutor(cfg *config.Config, logger *slog.Logger, extra ...autotutor.Option) (*autotutor.Tutor, error) {
	runner.DefaultMaxInputSize = cfg.MaxInputSize

	opts := []autotutor.Option{
		autotutor.WithLogger(logger),
		autotutor.WithScriptFile(cfg.Script),
		autotutor.WithAssetsDir(cfg.AssetsDir),
		autotutor.WithPlotter(plot.NewASCII(cfg.Plot.Width, cfg.Plot.Height)),
	}
	if cfg.Debug {
		opts = append(opts, autotutor.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	return autotutor.New(append(opts, extra...)...)
}
