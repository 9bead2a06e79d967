// Package variables builds the per-lesson substitution context and fills
// script placeholders from it.
package variables

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/aretw0/autotutor/pkg/domain"
)

// Names of the variables every lesson exposes to the script.
const (
	Linearity      = "linearity"
	StudentName    = "studentName"
	FunctionString = "functionString"
	X1             = "x1"
	X2             = "x2"
	X1Num          = "x1Num"
	X2Num          = "x2Num"
	AnswerNum      = "answerNum"
	AnswerCoords   = "answerCoords"
)

// None is the value of the second intercept variables for linear lessons.
const None = "none"

// ErrInvalidLessonInfo is returned when the handoff cannot produce a context.
var ErrInvalidLessonInfo = errors.New("invalid lesson info")

// placeholderPattern matches {name} and {$name}.
var placeholderPattern = regexp.MustCompile(`\{\$?([A-Za-z_][A-Za-z0-9_]*)\}`)

// Known returns the names of every variable a context can hold, sorted.
func Known() []string {
	names := []string{
		Linearity, StudentName, FunctionString,
		X1, X2, X1Num, X2Num, AnswerNum, AnswerCoords,
	}
	sort.Strings(names)
	return names
}

// Context is the read-only mapping from variable name to display value.
// It is safe for concurrent use because it never changes after New.
type Context struct {
	values map[string]string
}

// New derives the lesson variables from the setup handoff.
func New(info domain.LessonInfo) (*Context, error) {
	values := map[string]string{
		StudentName:    info.StudentName,
		FunctionString: info.Expression,
	}

	switch info.Family {
	case domain.FamilyLinear:
		if len(info.XIntercepts) < 1 {
			return nil, fmt.Errorf("%w: linear lesson needs one x-intercept", ErrInvalidLessonInfo)
		}
		root := info.XIntercepts[0]
		values[Linearity] = "true"
		values[X1] = Coords(root)
		values[X1Num] = Number(root)
		values[X2] = None
		values[X2Num] = None
		values[AnswerNum] = Number(root)
		values[AnswerCoords] = Coords(root)
	case domain.FamilyQuadratic:
		if len(info.XIntercepts) < 2 {
			return nil, fmt.Errorf("%w: quadratic lesson needs two x-intercepts, got %d", ErrInvalidLessonInfo, len(info.XIntercepts))
		}
		r1, r2 := info.XIntercepts[0], info.XIntercepts[1]
		values[Linearity] = "false"
		values[X1] = Coords(r1)
		values[X1Num] = Number(r1)
		values[X2] = Coords(r2)
		values[X2Num] = Number(r2)
		values[AnswerNum] = Number(r2)
		values[AnswerCoords] = Coords(r2)
	default:
		return nil, fmt.Errorf("%w: unknown family %q", ErrInvalidLessonInfo, info.Family)
	}

	return &Context{values: values}, nil
}

// FromMap builds a context from literal values. Used by tests and tools.
func FromMap(values map[string]string) *Context {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Context{values: cp}
}

// Lookup returns the value for name or a *domain.MissingVariableError.
func (c *Context) Lookup(name string) (string, error) {
	if c != nil {
		if v, ok := c.values[name]; ok {
			return v, nil
		}
	}
	return "", &domain.MissingVariableError{Name: name}
}

// Resolve substitutes every placeholder in template.
// The first unknown name aborts the substitution.
func (c *Context) Resolve(template string) (string, error) {
	var missing error
	out := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		if missing != nil {
			return m
		}
		name := placeholderPattern.FindStringSubmatch(m)[1]
		v, err := c.Lookup(name)
		if err != nil {
			missing = err
			return m
		}
		return v
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}

// Env exposes the variables to condition expressions.
func (c *Context) Env() map[string]any {
	env := make(map[string]any, len(c.values))
	for k, v := range c.values {
		env[k] = v
	}
	return env
}

// Placeholders lists the variable names referenced by template, in order of appearance.
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		names = append(names, m[1])
	}
	return names
}

// Number formats v with the shortest decimal representation that round-trips.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Coords formats an x-intercept as a point on the x-axis.
func Coords(v float64) string {
	return fmt.Sprintf("(%s, 0)", Number(v))
}

var _ domain.Resolver = (*Context)(nil)
