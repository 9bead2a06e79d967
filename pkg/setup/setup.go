// Package setup turns a learner-configured function into the lesson handoff.
package setup

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/variables"
)

var (
	// ErrDegenerate is returned when the leading coefficient is zero.
	ErrDegenerate = errors.New("leading coefficient must not be zero")
	// ErrNoRealRoots is returned for quadratics that never cross the x-axis.
	ErrNoRealRoots = errors.New("function has no real x-intercepts")
)

// Defaults mirror the example lesson: f(x) = -x^2 + x + 1 on [-5, 5].
var (
	DefaultFunction = Function{Family: domain.FamilyQuadratic, A: -1, B: 1, C: 1}
	DefaultBounds   = Bounds{X: [2]float64{-5, 5}, Y: [2]float64{-5, 5}}
)

// DefaultStudentName is used when the learner leaves the name empty.
const DefaultStudentName = "TestName"

// Function is f(x) = Ax^2 + Bx + C for quadratics and f(x) = Ax + B for lines.
// C is ignored for linear functions.
type Function struct {
	Family domain.Family `json:"function_type" yaml:"function_type" mapstructure:"family"`
	A      float64       `json:"a" yaml:"a" mapstructure:"a"`
	B      float64       `json:"b" yaml:"b" mapstructure:"b"`
	C      float64       `json:"c" yaml:"c" mapstructure:"c"`
}

// Bounds is the visible plotting window.
type Bounds struct {
	X [2]float64 `json:"x_bounds" yaml:"x_bounds"`
	Y [2]float64 `json:"y_bounds" yaml:"y_bounds"`
}

// Expression renders the function the way the lesson displays it,
// e.g. "-1x^2 + 1x + 1" or "2x + 3".
func (f Function) Expression() string {
	if f.Family == domain.FamilyLinear {
		return fmt.Sprintf("%sx + %s", variables.Number(f.A), variables.Number(f.B))
	}
	return fmt.Sprintf("%sx^2 + %sx + %s", variables.Number(f.A), variables.Number(f.B), variables.Number(f.C))
}

// YIntercept is f(0).
func (f Function) YIntercept() float64 {
	if f.Family == domain.FamilyLinear {
		return f.B
	}
	return f.C
}

// Eval computes f(x).
func (f Function) Eval(x float64) float64 {
	if f.Family == domain.FamilyLinear {
		return f.A*x + f.B
	}
	return f.A*x*x + f.B*x + f.C
}

// Intercepts returns the x-intercepts rounded to two decimals.
// Quadratics return the (-b + √D) / 2a root first.
func (f Function) Intercepts() ([]float64, error) {
	if !f.Family.Valid() {
		return nil, fmt.Errorf("unknown function family %q", f.Family)
	}
	if f.A == 0 {
		return nil, ErrDegenerate
	}
	if f.Family == domain.FamilyLinear {
		return []float64{round2(-f.B / f.A)}, nil
	}

	d := f.B*f.B - 4*f.A*f.C
	if d < 0 {
		return nil, ErrNoRealRoots
	}
	sq := math.Sqrt(d)
	return []float64{
		round2((-f.B + sq) / (2 * f.A)),
		round2((-f.B - sq) / (2 * f.A)),
	}, nil
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// Check is one item of the setup checklist.
type Check struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
	// Required checks gate the lesson start. Others are advisory.
	Required bool `json:"required"`
}

// Checklist evaluates the setup the way the configuration screen shows it.
func (f Function) Checklist(studentName string, b Bounds) []Check {
	roots, rootsErr := f.Intercepts()
	y0 := f.YIntercept()

	anyPositive := false
	allVisible := rootsErr == nil
	for _, r := range roots {
		if r > 0 {
			anyPositive = true
		}
		if r < b.X[0] || r > b.X[1] {
			allVisible = false
		}
	}

	filled := rootsErr == nil &&
		strings.TrimSpace(studentName) != "" &&
		b.X[0] < b.X[1] && b.Y[0] < b.Y[1]

	return []Check{
		{Name: "height", Description: "f(0) > 0", Passed: y0 > 0, Required: true},
		{Name: "positive_x_intercept", Description: "There is some x-intercept with an x-value greater than 0", Passed: anyPositive, Required: true},
		{Name: "x_intercepts_visible", Description: "The x-intercept(s) are visible within the selected x-bounds", Passed: allVisible, Required: true},
		{Name: "y_intercept_visible", Description: "The y-intercept is visible within the selected y-bounds", Passed: y0 >= b.Y[0] && y0 <= b.Y[1]},
		{Name: "complete", Description: "All fields are filled", Passed: filled, Required: true},
	}
}

// ErrInvalidSetup is matched by *ChecklistError.
var ErrInvalidSetup = errors.New("invalid setup")

// ChecklistError lists the required checks that failed.
type ChecklistError struct {
	Failed []Check
}

func (e *ChecklistError) Error() string {
	names := make([]string, len(e.Failed))
	for i, c := range e.Failed {
		names[i] = c.Description
	}
	return fmt.Sprintf("invalid setup: %s", strings.Join(names, "; "))
}

func (e *ChecklistError) Is(target error) bool {
	return target == ErrInvalidSetup
}

// Handoff validates the setup and builds the lesson input.
func (f Function) Handoff(studentName string, b Bounds) (domain.LessonInfo, error) {
	var failed []Check
	for _, c := range f.Checklist(studentName, b) {
		if c.Required && !c.Passed {
			failed = append(failed, c)
		}
	}
	if len(failed) > 0 {
		return domain.LessonInfo{}, &ChecklistError{Failed: failed}
	}

	roots, err := f.Intercepts()
	if err != nil {
		return domain.LessonInfo{}, err
	}
	return domain.LessonInfo{
		Family:      f.Family,
		StudentName: strings.TrimSpace(studentName),
		Expression:  f.Expression(),
		XBounds:     b.X,
		YBounds:     b.Y,
		XIntercepts: roots,
	}, nil
}
