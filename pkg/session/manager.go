package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/aretw0/autotutor/pkg/observability"
)

// Starter begins lessons. It is implemented by *autotutor.Tutor.
type Starter interface {
	Start(ctx context.Context, info domain.LessonInfo, opts ...lesson.Option) (*lesson.Lesson, error)
}

// Manager is the in-memory registry of live lessons.
type Manager struct {
	starter Starter

	mu      sync.RWMutex
	lessons map[string]*lesson.Lesson

	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics keeps the active lessons gauge current.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates an empty registry backed by starter.
func NewManager(starter Starter, opts ...Option) *Manager {
	m := &Manager{
		starter: starter,
		lessons: make(map[string]*lesson.Lesson),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a lesson and registers it under its ID.
func (m *Manager) Start(ctx context.Context, info domain.LessonInfo, opts ...lesson.Option) (*lesson.Lesson, error) {
	l, err := m.starter.Start(ctx, info, opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, exists := m.lessons[l.ID()]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("lesson %s already registered", l.ID())
	}
	m.lessons[l.ID()] = l
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.ActiveLessons.Inc()
	}
	m.logger.Debug("lesson registered", "lesson_id", l.ID(), "student", info.StudentName)
	return l, nil
}

// Get returns a live lesson.
func (m *Manager) Get(id string) (*lesson.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lessons[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrLessonNotFound)
	}
	return l, nil
}

// Choose forwards a selection to a live lesson.
func (m *Manager) Choose(ctx context.Context, id string, index int) (*domain.Snapshot, error) {
	l, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return l.Choose(ctx, index)
}

// Delete drops a lesson from the registry.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.lessons[id]
	delete(m.lessons, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, domain.ErrLessonNotFound)
	}
	if m.metrics != nil {
		m.metrics.ActiveLessons.Dec()
	}
	return nil
}

// List returns the IDs of the live lessons, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.lessons))
	for id := range m.lessons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live lessons.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lessons)
}
