package setup_test

import (
	"testing"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunction_Expression(t *testing.T) {
	assert.Equal(t, "-1x^2 + 1x + 1", setup.DefaultFunction.Expression())
	assert.Equal(t, "-2x + 8", setup.Function{Family: domain.FamilyLinear, A: -2, B: 8}.Expression())
}

func TestFunction_Intercepts(t *testing.T) {
	tests := []struct {
		name string
		f    setup.Function
		want []float64
		err  error
	}{
		{"Linear", setup.Function{Family: domain.FamilyLinear, A: -2, B: 8}, []float64{4}, nil},
		{"Quadratic Default", setup.DefaultFunction, []float64{-0.62, 1.62}, nil},
		{"Double Root", setup.Function{Family: domain.FamilyQuadratic, A: 1, B: -2, C: 1}, []float64{1, 1}, nil},
		{"No Real Roots", setup.Function{Family: domain.FamilyQuadratic, A: 1, B: 0, C: 1}, nil, setup.ErrNoRealRoots},
		{"Degenerate", setup.Function{Family: domain.FamilyLinear, A: 0, B: 1}, nil, setup.ErrDegenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.f.Intercepts()
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFunction_Checklist(t *testing.T) {
	checks := setup.DefaultFunction.Checklist("Sam", setup.DefaultBounds)
	for _, c := range checks {
		assert.True(t, c.Passed, c.Name)
	}

	// Negative height, root outside the window.
	f := setup.Function{Family: domain.FamilyLinear, A: 1, B: -8}
	byName := map[string]setup.Check{}
	for _, c := range f.Checklist("", setup.DefaultBounds) {
		byName[c.Name] = c
	}
	assert.False(t, byName["height"].Passed)
	assert.True(t, byName["positive_x_intercept"].Passed)
	assert.False(t, byName["x_intercepts_visible"].Passed)
	assert.False(t, byName["y_intercept_visible"].Passed)
	assert.False(t, byName["complete"].Passed)
}

func TestFunction_Handoff(t *testing.T) {
	info, err := setup.Function{Family: domain.FamilyLinear, A: -2, B: 4}.Handoff(" Sam ", setup.DefaultBounds)
	require.NoError(t, err)
	assert.Equal(t, domain.LessonInfo{
		Family:      domain.FamilyLinear,
		StudentName: "Sam",
		Expression:  "-2x + 4",
		XBounds:     [2]float64{-5, 5},
		YBounds:     [2]float64{-5, 5},
		XIntercepts: []float64{2},
	}, info)

	// y-intercept outside the window is advisory only.
	_, err = setup.Function{Family: domain.FamilyLinear, A: -2, B: 8}.Handoff("Sam", setup.DefaultBounds)
	require.NoError(t, err)

	_, err = setup.Function{Family: domain.FamilyLinear, A: 2, B: 4}.Handoff("Sam", setup.DefaultBounds)
	assert.ErrorIs(t, err, setup.ErrInvalidSetup)

	var cerr *setup.ChecklistError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.Failed, 1)
	assert.Equal(t, "positive_x_intercept", cerr.Failed[0].Name)
}
