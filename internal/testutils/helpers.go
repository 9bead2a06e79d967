// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"context"
	"testing"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/aretw0/autotutor/pkg/plot"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/stretchr/testify/require"
)

// LinearSteps is the number of selections the linear lesson takes when the
// first option is always chosen.
const LinearSteps = 4

// NewTutor builds a tutor over the bundled lesson with a small text plot.
// It fails the test immediately on error.
func NewTutor(t *testing.T, opts ...autotutor.Option) *autotutor.Tutor {
	t.Helper()
	tutor, err := autotutor.New(append([]autotutor.Option{autotutor.WithPlotter(plot.NewASCII(20, 6))}, opts...)...)
	require.NoError(t, err, "Failed to build tutor")
	return tutor
}

// LinearInfo is the handoff for f(x) = -2x + 8, which lands at x = 4.
func LinearInfo(t *testing.T) domain.LessonInfo {
	t.Helper()
	info, err := setup.Function{Family: domain.FamilyLinear, A: -2, B: 8}.Handoff("Sam", setup.Bounds{
		X: [2]float64{-5, 5},
		Y: [2]float64{-10, 10},
	})
	require.NoError(t, err, "Failed to hand off linear setup")
	return info
}

// QuadraticInfo is the handoff for the default function.
func QuadraticInfo(t *testing.T) domain.LessonInfo {
	t.Helper()
	info, err := setup.DefaultFunction.Handoff("Ana", setup.DefaultBounds)
	require.NoError(t, err, "Failed to hand off default setup")
	return info
}

// Start begins a lesson on tutor.
func Start(t *testing.T, tutor *autotutor.Tutor, info domain.LessonInfo) *lesson.Lesson {
	t.Helper()
	l, err := tutor.Start(context.Background(), info)
	require.NoError(t, err, "Failed to start lesson")
	return l
}
