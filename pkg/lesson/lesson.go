// Package lesson is the stateful shell around one learner's run: it owns the
// runner state, projects the transcript after every transition, renders the
// plot once, and notifies observers.
package lesson

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/internal/runtime"
	"github.com/aretw0/autotutor/pkg/assets"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/observability"
	"github.com/aretw0/autotutor/pkg/plot"
	"github.com/aretw0/autotutor/pkg/variables"
	"github.com/google/uuid"
)

// DefaultSizeFactor matches the plot scale used next to the chat.
const DefaultSizeFactor = 2.5

// Observer receives every new snapshot, in transition order.
// Observers must not call Choose on the lesson that notifies them.
type Observer func(*domain.Snapshot)

// Lesson is one live lesson. It is safe for concurrent use; transitions are
// serialized.
type Lesson struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	id      string
	info    domain.LessonInfo
	engine  *runtime.Engine
	vars    *variables.Context
	state   *domain.State
	current *domain.Snapshot

	plotter    plot.Plotter
	sizeFactor float64
	plotOut    string
	plotErr    error

	resolver assets.Resolver
	metrics  *observability.Metrics
	logger   *slog.Logger

	nextObserver int
	observers    map[int]Observer
	order        []int
}

// Option configures a Lesson.
type Option func(*Lesson)

// WithID sets the lesson identifier. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(l *Lesson) {
		l.id = id
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lesson) {
		l.logger = logger
	}
}

// WithPlotter sets the plot collaborator.
func WithPlotter(p plot.Plotter) Option {
	return func(l *Lesson) {
		l.plotter = p
	}
}

// WithSizeFactor scales the rendered plot.
func WithSizeFactor(f float64) Option {
	return func(l *Lesson) {
		l.sizeFactor = f
	}
}

// WithAssets sets the image resolver. Without one no images are shown.
func WithAssets(r assets.Resolver) Option {
	return func(l *Lesson) {
		l.resolver = r
	}
}

// WithMetrics records plot failures and transition timings.
func WithMetrics(m *observability.Metrics) Option {
	return func(l *Lesson) {
		l.metrics = m
	}
}

// New starts a lesson: it builds the variables from the handoff, positions the
// runner at the first choice and renders the plot.
func New(ctx context.Context, engine *runtime.Engine, info domain.LessonInfo, opts ...Option) (*Lesson, error) {
	l := &Lesson{
		info:       info,
		engine:     engine,
		sizeFactor: DefaultSizeFactor,
		logger:     logging.NewNop(),
		observers:  make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.id == "" {
		l.id = uuid.NewString()
	}

	start := time.Now()
	vars, err := variables.New(info)
	if err != nil {
		return nil, err
	}
	l.vars = vars

	state, err := engine.Start(ctx, vars)
	if err != nil {
		return nil, err
	}
	state, err = engine.FastForward(ctx, state, vars)
	if err != nil {
		return nil, fmt.Errorf("lesson %s: %w", l.id, err)
	}
	snap, err := l.project(state, 1)
	if err != nil {
		return nil, fmt.Errorf("lesson %s: %w", l.id, err)
	}
	l.state = state
	l.current = snap

	l.renderPlot(ctx)

	if l.metrics != nil {
		l.metrics.LessonsStarted.WithLabelValues(string(info.Family)).Inc()
		l.metrics.ObserveTransition("start", start)
	}
	l.logger.Info("lesson started", "lesson_id", l.id, "family", info.Family, "node_id", state.Current)
	return l, nil
}

// ID returns the lesson identifier.
func (l *Lesson) ID() string {
	return l.id
}

// Info returns the handoff the lesson was started with.
func (l *Lesson) Info() domain.LessonInfo {
	return l.info
}

// Variables returns the lesson's variable context.
func (l *Lesson) Variables() *variables.Context {
	return l.vars
}

// Choose selects an option at the current choice, fast-forwards, and
// publishes the new snapshot. On error nothing changes.
func (l *Lesson) Choose(ctx context.Context, index int) (*domain.Snapshot, error) {
	l.mu.Lock()
	start := time.Now()

	next, err := l.engine.Advance(ctx, l.state, l.vars, index)
	if err == nil {
		next, err = l.engine.FastForward(ctx, next, l.vars)
	}
	var snap *domain.Snapshot
	if err == nil {
		snap, err = l.project(next, l.current.Version+1)
	}
	if err != nil {
		l.mu.Unlock()
		l.logger.Debug("choice rejected", "lesson_id", l.id, "index", index, "err", err)
		return nil, err
	}

	l.state = next
	l.current = snap
	observers := l.snapshotObservers()
	if l.metrics != nil {
		l.metrics.ObserveTransition("choose", start)
	}

	// Hand over to the notify lock before releasing state so observers see
	// snapshots in transition order.
	l.notifyMu.Lock()
	l.mu.Unlock()
	defer l.notifyMu.Unlock()

	for _, o := range observers {
		o(cloneSnapshot(snap))
	}
	return cloneSnapshot(snap), nil
}

// Snapshot returns a copy of the current transcript view.
func (l *Lesson) Snapshot() *domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneSnapshot(l.current)
}

// State returns a copy of the runner state.
func (l *Lesson) State() *domain.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Snapshot()
}

// History returns a copy of the runner history.
func (l *Lesson) History() []domain.HistoryEntry {
	return l.State().History
}

// Current returns the node the runner is positioned at.
func (l *Lesson) Current() (domain.Node, error) {
	return l.engine.Script().Node(l.State().Current)
}

// Done reports whether the lesson reached the end.
func (l *Lesson) Done() bool {
	return l.State().Terminated()
}

// Plot returns the rendered plot. The error is the plotter's failure, which
// never affects the dialogue.
func (l *Lesson) Plot() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.plotOut, l.plotErr
}

// Subscribe registers an observer and returns a function that removes it.
func (l *Lesson) Subscribe(o Observer) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextObserver
	l.nextObserver++
	l.observers[id] = o
	l.order = append(l.order, id)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.observers, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i:i], l.order[i+1:]...)
				break
			}
		}
	}
}

func (l *Lesson) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.observers[id])
	}
	return out
}

func (l *Lesson) project(state *domain.State, version int) (*domain.Snapshot, error) {
	entries, err := runtime.Project(l.engine.Script(), l.vars, state.History, state.Current)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Image == "" {
			continue
		}
		if l.resolver == nil {
			entries[i].Image = ""
			continue
		}
		if _, ok := l.resolver.Resolve(entries[i].Image); !ok {
			l.logger.Debug("image not found", "lesson_id", l.id, "image", entries[i].Image)
			entries[i].Image = ""
		}
	}
	return &domain.Snapshot{
		LessonID:   l.id,
		Version:    version,
		Status:     state.Status,
		Transcript: entries,
	}, nil
}

// renderPlot asks the plotter once. Failures, including panics, are logged
// and counted.
func (l *Lesson) renderPlot(ctx context.Context) {
	if l.plotter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.plotErr = fmt.Errorf("plotter panic: %v", r)
			l.plotFailed()
		}
	}()

	out, err := l.plotter.Plot(ctx, plot.Request{
		Expression: l.info.Expression,
		XBounds:    l.info.XBounds,
		YBounds:    l.info.YBounds,
		SizeFactor: l.sizeFactor,
	})
	if err != nil {
		l.plotErr = err
		l.plotFailed()
		return
	}
	l.plotOut = out
}

func (l *Lesson) plotFailed() {
	l.logger.Warn("plot failed", "lesson_id", l.id, "expression", l.info.Expression, "err", l.plotErr)
	if l.metrics != nil {
		l.metrics.PlotFailures.Inc()
	}
}

func cloneSnapshot(s *domain.Snapshot) *domain.Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Transcript = make([]domain.TranscriptEntry, len(s.Transcript))
	for i, e := range s.Transcript {
		if e.Options != nil {
			e.Options = append([]string(nil), e.Options...)
		}
		out.Transcript[i] = e
	}
	return &out
}
