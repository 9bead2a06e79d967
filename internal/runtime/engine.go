package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/pkg/domain"
)

// DefaultMaxSteps bounds a single fast-forward.
const DefaultMaxSteps = 1000

// Variables is what the engine needs from a lesson's variable context.
type Variables interface {
	domain.Resolver
	Env() map[string]any
}

// Engine is the dialogue runner over an immutable script.
// It keeps no per-lesson state and is safe for concurrent use.
type Engine struct {
	script     *domain.Script
	conditions *Conditions
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	maxSteps   int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers callbacks for engine events.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxSteps overrides the fast-forward step limit.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithConditions shares a condition cache between engines.
func WithConditions(c *Conditions) Option {
	return func(e *Engine) {
		e.conditions = c
	}
}

// NewEngine creates a new engine for script.
func NewEngine(script *domain.Script, opts ...Option) *Engine {
	e := &Engine{
		script:   script,
		logger:   logging.NewNop(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.conditions == nil {
		e.conditions = NewConditions()
	}
	return e
}

// Script returns the script the engine runs.
func (e *Engine) Script() *domain.Script {
	return e.script
}

// Start positions a fresh state at the script's first active node.
// It does not fast-forward.
func (e *Engine) Start(ctx context.Context, vars Variables) (*domain.State, error) {
	node, err := e.enter(ctx, vars, e.script.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return domain.NewState(node), nil
}

// Advance consumes the current node. At a choice, optionIndex selects the
// branch and must be in range; at a line it is ignored.
// The input state is never modified. On error the caller keeps its state.
func (e *Engine) Advance(ctx context.Context, state *domain.State, vars Variables, optionIndex int) (*domain.State, error) {
	if state.Terminated() {
		return nil, fmt.Errorf("cannot advance past the end: %w", domain.ErrInvalidState)
	}

	node, err := e.script.Node(state.Current)
	if err != nil {
		return nil, err
	}

	var entry domain.HistoryEntry
	var target string
	switch node.Kind {
	case domain.KindChoice:
		opt, err := node.OptionAt(optionIndex)
		if err != nil {
			return nil, err
		}
		entry = domain.HistoryEntry{NodeID: node.ID, Selected: optionIndex}
		target = opt.Next
		e.emitChoice(ctx, node.ID, optionIndex, target)
	case domain.KindLine:
		entry = domain.HistoryEntry{NodeID: node.ID, Selected: domain.NoSelection}
		target = node.Next
	default:
		return nil, fmt.Errorf("node %s has unknown kind %q: %w", node.ID, node.Kind, domain.ErrInvalidState)
	}

	e.emitNodeLeave(ctx, node)
	next, err := e.enter(ctx, vars, target)
	if err != nil {
		return nil, err
	}
	return state.Advance(entry, next), nil
}

// FastForward advances through narration lines until the current node is a
// choice or the terminal sentinel. It never consumes a choice, so applying it
// twice yields the same state.
func (e *Engine) FastForward(ctx context.Context, state *domain.State, vars Variables) (*domain.State, error) {
	visited := make(map[string]struct{})
	current := state
	for steps := 0; current.Status == domain.StatusAtLine; steps++ {
		if steps >= e.maxSteps {
			return nil, fmt.Errorf("fast-forward exceeded %d steps at %s: %w", e.maxSteps, current.Current, domain.ErrCycle)
		}
		if _, seen := visited[current.Current]; seen {
			return nil, fmt.Errorf("line %s revisited without input: %w", current.Current, domain.ErrCycle)
		}
		visited[current.Current] = struct{}{}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := e.Advance(ctx, current, vars, domain.NoSelection)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// enter resolves the node that becomes current when moving to id, skipping
// guarded nodes whose condition does not hold.
func (e *Engine) enter(ctx context.Context, vars Variables, id string) (domain.Node, error) {
	skipped := make(map[string]struct{})
	for {
		node, err := e.script.Node(id)
		if err != nil {
			return domain.Node{}, err
		}

		if node.When != "" {
			ok, err := e.conditions.Eval(node.When, vars.Env())
			if err != nil {
				return domain.Node{}, fmt.Errorf("node %s: %w", node.ID, err)
			}
			if !ok {
				if _, seen := skipped[node.ID]; seen {
					return domain.Node{}, fmt.Errorf("guarded node %s skipped twice: %w", node.ID, domain.ErrCycle)
				}
				skipped[node.ID] = struct{}{}
				if node.Next == "" {
					return domain.Node{}, fmt.Errorf("guarded node %s has no fall-through: %w", node.ID, domain.ErrNodeNotFound)
				}
				e.logger.Debug("skipping guarded node", "node_id", node.ID, "when", node.When)
				id = node.Next
				continue
			}
		}

		e.emitNodeEnter(ctx, node)
		if node.IsTerminal() {
			e.emitTerminate(ctx, node)
		}
		return node, nil
	}
}
