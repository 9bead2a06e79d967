package runtime

import (
	"errors"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrCondition is returned for conditions that fail to compile or run.
var ErrCondition = errors.New("invalid condition")

// Conditions compiles and caches boolean node guards.
type Conditions struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewConditions creates an empty condition cache.
func NewConditions() *Conditions {
	return &Conditions{programs: make(map[string]*vm.Program)}
}

// Compile checks that expression is a valid boolean condition.
func (c *Conditions) Compile(expression string) (*vm.Program, error) {
	c.mu.RLock()
	program, ok := c.programs[expression]
	c.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrCondition, expression, err)
	}

	c.mu.Lock()
	c.programs[expression] = program
	c.mu.Unlock()
	return program, nil
}

// Eval runs expression against env.
func (c *Conditions) Eval(expression string, env map[string]any) (bool, error) {
	program, err := c.Compile(expression)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("%w %q: %v", ErrCondition, expression, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w %q: result is %T, not bool", ErrCondition, expression, out)
	}
	return b, nil
}
