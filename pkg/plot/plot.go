// Package plot draws the lesson function next to the dialogue.
package plot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	// ErrInvalidRequest is returned for empty expressions or inverted bounds.
	ErrInvalidRequest = errors.New("invalid plot request")
	// ErrExpression is returned when the function cannot be compiled.
	ErrExpression = errors.New("invalid function expression")
)

// Request describes one plot.
type Request struct {
	Expression string     `json:"expression"`
	XBounds    [2]float64 `json:"x_bounds"`
	YBounds    [2]float64 `json:"y_bounds"`
	// SizeFactor scales the canvas; zero means 1.
	SizeFactor float64 `json:"size_factor"`
}

// Validate checks the request before any drawing happens.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Expression) == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidRequest)
	}
	if !(r.XBounds[0] < r.XBounds[1]) || !(r.YBounds[0] < r.YBounds[1]) {
		return fmt.Errorf("%w: bounds must be increasing, got x=%v y=%v", ErrInvalidRequest, r.XBounds, r.YBounds)
	}
	if r.SizeFactor < 0 {
		return fmt.Errorf("%w: negative size factor", ErrInvalidRequest)
	}
	return nil
}

// Plotter renders a function. Implementations may fail; callers decide
// whether a failure matters.
type Plotter interface {
	Plot(ctx context.Context, req Request) (string, error)
}

var (
	implicitMul = regexp.MustCompile(`(\d|\))\s*(x|\()`)
	variableX   = regexp.MustCompile(`\bx\b`)
)

// Normalize rewrites the display form of a function ("-1x^2 + 1x + 1")
// into an evaluable expression ("-1*x^2 + 1*x + 1").
func Normalize(expression string) string {
	out := strings.ReplaceAll(expression, "−", "-")
	for {
		next := implicitMul.ReplaceAllString(out, "$1*$2")
		if next == out {
			return next
		}
		out = next
	}
}

// Compile prepares a function of x for repeated evaluation.
func Compile(expression string) (*Func, error) {
	src := Normalize(expression)
	if !variableX.MatchString(src) {
		// Constant functions are fine; keep x in the env anyway.
		src = "(" + src + ") + 0*x"
	}
	program, err := expr.Compile(src, expr.Env(map[string]any{"x": 0.0}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrExpression, expression, err)
	}
	return &Func{program: program}, nil
}

// Func is a compiled function of x.
type Func struct {
	program *vm.Program
}

// At evaluates the function at x.
func (f *Func) At(x float64) (float64, error) {
	out, err := expr.Run(f.program, map[string]any{"x": x})
	if err != nil {
		return math.NaN(), err
	}
	y, ok := out.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("%w: result is %T", ErrExpression, out)
	}
	return y, nil
}
