package autotutor

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aretw0/autotutor/content"
	"github.com/aretw0/autotutor/internal/compiler"
	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/internal/runtime"
	"github.com/aretw0/autotutor/internal/validator"
	"github.com/aretw0/autotutor/pkg/assets"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/aretw0/autotutor/pkg/observability"
	"github.com/aretw0/autotutor/pkg/plot"
)

// Tutor is the high-level entry point: one validated script shared by every
// lesson it starts.
type Tutor struct {
	script     *domain.Script
	scriptPath string
	assetsDir  string
	engine     *runtime.Engine
	assets     *assets.FS
	plotter    plot.Plotter
	sizeFactor float64
	metrics    *observability.Metrics
	hooks      domain.LifecycleHooks
	maxSteps   int
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Tutor.
type Option func(*Tutor)

// WithScript uses an already built script instead of the bundled lesson.
func WithScript(s *domain.Script) Option {
	return func(t *Tutor) {
		t.script = s
	}
}

// WithScriptFile loads the script from a YAML file.
func WithScriptFile(path string) Option {
	return func(t *Tutor) {
		t.scriptPath = path
	}
}

// WithAssetsDir serves images from a directory instead of the bundled ones.
func WithAssetsDir(dir string) Option {
	return func(t *Tutor) {
		t.assetsDir = dir
	}
}

// WithPlotter sets the plot collaborator used by every lesson.
func WithPlotter(p plot.Plotter) Option {
	return func(t *Tutor) {
		t.plotter = p
	}
}

// WithSizeFactor scales lesson plots.
func WithSizeFactor(f float64) Option {
	return func(t *Tutor) {
		t.sizeFactor = f
	}
}

// WithMetrics records lesson metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Tutor) {
		t.metrics = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tutor) {
		t.hooks = hooks
	}
}

// WithMaxSteps bounds fast-forward.
func WithMaxSteps(n int) Option {
	return func(t *Tutor) {
		t.maxSteps = n
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tutor) {
		t.logger = logger
	}
}

// New loads and validates the script. Scripts with error-level issues are
// rejected; warnings are logged.
func New(opts ...Option) (*Tutor, error) {
	t := &Tutor{
		sizeFactor: lesson.DefaultSizeFactor,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.NewNop()
	}

	if t.script == nil {
		script, err := LoadScript(t.scriptPath)
		if err != nil {
			return nil, err
		}
		t.script = script
	}

	report := validator.ValidateScript(t.script)
	for _, w := range report.Warnings() {
		t.logger.Warn("script warning", "node_id", w.NodeID, "issue", w.Message)
	}
	if err := report.Err(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	var assetFS fs.FS = content.FS()
	dir := content.ImagesDir
	if t.assetsDir != "" {
		assetFS = os.DirFS(t.assetsDir)
		dir = "."
	}
	t.assets = assets.New(assetFS, dir, assets.WithLogger(t.logger))

	hooks := t.hooks
	if t.metrics != nil {
		hooks = observability.Combine(t.hooks, t.metrics.Hooks())
	}
	t.engine = runtime.NewEngine(t.script,
		runtime.WithLogger(t.logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithMaxSteps(t.maxSteps),
	)
	return t, nil
}

// LoadScript compiles the YAML script at path, or the bundled lesson when
// path is empty.
func LoadScript(path string) (*domain.Script, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = content.Lesson()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	script, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script: %w", err)
	}
	return script, nil
}

// Script returns the loaded script.
func (t *Tutor) Script() *domain.Script {
	return t.script
}

// Assets returns the image resolver.
func (t *Tutor) Assets() *assets.FS {
	return t.assets
}

// Metrics returns the metrics collectors, if configured.
func (t *Tutor) Metrics() *observability.Metrics {
	return t.metrics
}

// Start begins a lesson for the given handoff.
func (t *Tutor) Start(ctx context.Context, info domain.LessonInfo, opts ...lesson.Option) (*lesson.Lesson, error) {
	base := []lesson.Option{
		lesson.WithLogger(t.logger),
		lesson.WithAssets(t.assets),
		lesson.WithSizeFactor(t.sizeFactor),
	}
	if t.plotter != nil {
		base = append(base, lesson.WithPlotter(t.plotter))
	}
	if t.metrics != nil {
		base = append(base, lesson.WithMetrics(t.metrics))
	}
	return lesson.New(ctx, t.engine, info, append(base, opts...)...)
}
