package variables_test

import (
	"testing"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Linear(t *testing.T) {
	ctx, err := variables.New(domain.LessonInfo{
		Family:      domain.FamilyLinear,
		StudentName: "Sam",
		Expression:  "-2x + 8",
		XIntercepts: []float64{4},
	})
	require.NoError(t, err)

	tests := map[string]string{
		variables.Linearity:      "true",
		variables.StudentName:    "Sam",
		variables.FunctionString: "-2x + 8",
		variables.X1:             "(4, 0)",
		variables.X2:             "none",
		variables.X1Num:          "4",
		variables.X2Num:          "none",
		variables.AnswerNum:      "4",
		variables.AnswerCoords:   "(4, 0)",
	}
	for name, want := range tests {
		got, err := ctx.Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("Lookup(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestNew_QuadraticAnswerIsSecondRoot(t *testing.T) {
	ctx, err := variables.New(domain.LessonInfo{
		Family:      domain.FamilyQuadratic,
		StudentName: "Ana",
		Expression:  "-1x^2 + 1x + 1",
		XIntercepts: []float64{-0.62, 1.62},
	})
	require.NoError(t, err)

	v, _ := ctx.Lookup(variables.Linearity)
	assert.Equal(t, "false", v)
	v, _ = ctx.Lookup(variables.X1)
	assert.Equal(t, "(-0.62, 0)", v)
	v, _ = ctx.Lookup(variables.AnswerNum)
	assert.Equal(t, "1.62", v)
	v, _ = ctx.Lookup(variables.AnswerCoords)
	assert.Equal(t, "(1.62, 0)", v)
}

func TestNew_Invalid(t *testing.T) {
	_, err := variables.New(domain.LessonInfo{Family: domain.FamilyQuadratic, XIntercepts: []float64{1}})
	assert.ErrorIs(t, err, variables.ErrInvalidLessonInfo)

	_, err = variables.New(domain.LessonInfo{Family: "cubic", XIntercepts: []float64{1}})
	assert.ErrorIs(t, err, variables.ErrInvalidLessonInfo)
}

func TestResolve(t *testing.T) {
	ctx := variables.FromMap(map[string]string{
		"studentName": "Sam",
		"x1":          "(4, 0)",
		"linearity":   "true",
		"x2":          "none",
	})

	got, err := ctx.Resolve("Hi {studentName}, the ball lands at {x1}.")
	require.NoError(t, err)
	assert.Equal(t, "Hi Sam, the ball lands at (4, 0).", got)

	got, err = ctx.Resolve("Yarn style {$studentName} works too.")
	require.NoError(t, err)
	assert.Equal(t, "Yarn style Sam works too.", got)

	got, err = ctx.Resolve("No placeholders at all.")
	require.NoError(t, err)
	assert.Equal(t, "No placeholders at all.", got)
}

func TestResolve_MissingVariable(t *testing.T) {
	ctx := variables.FromMap(map[string]string{"studentName": "Sam"})

	_, err := ctx.Resolve("Hi {studentName}, meet {coach}.")
	require.ErrorIs(t, err, domain.ErrMissingVariable)

	var missing *domain.MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "coach", missing.Name)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4, "4"},
		{1.62, "1.62"},
		{-0.5, "-0.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := variables.Number(tt.in); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, variables.Placeholders("{a} and {$b}"))
	assert.Empty(t, variables.Placeholders("plain"))
}
