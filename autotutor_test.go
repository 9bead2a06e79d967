package autotutor_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/dsl"
	"github.com/aretw0/autotutor/pkg/observability"
	"github.com/aretw0/autotutor/pkg/plot"
	"github.com/aretw0/autotutor/pkg/setup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledLesson_Linear(t *testing.T) {
	ctx := context.Background()
	tutor, err := autotutor.New(autotutor.WithPlotter(plot.NewASCII(24, 8)))
	require.NoError(t, err)

	info, err := setup.Function{Family: domain.FamilyLinear, A: -2, B: 8}.Handoff("Sam", setup.Bounds{
		X: [2]float64{-5, 5},
		Y: [2]float64{-10, 10},
	})
	require.NoError(t, err)

	l, err := tutor.Start(ctx, info)
	require.NoError(t, err)

	snap := l.Snapshot()
	assert.Equal(t, "Hi Sam! Let's figure out when Antoine's ball reaches the ground.", snap.Transcript[0].Text)
	assert.Equal(t, "img-balcony", snap.Transcript[0].Image)

	// Always taking the first option walks the happy path to the end.
	for !l.Done() {
		_, err := l.Choose(ctx, 0)
		require.NoError(t, err)
	}

	final := l.Snapshot()
	var texts []string
	for _, e := range final.Transcript {
		texts = append(texts, e.Text)
	}
	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "A line crosses the x-axis exactly once, at (4, 0).")
	assert.NotContains(t, joined, "parabola")
	assert.Contains(t, joined, "The ball lands at (4, 0).")
	assert.Contains(t, joined, "The ball lands 4 seconds after Antoine throws it.")
	assert.Equal(t, domain.EntryEnding, final.Transcript[len(final.Transcript)-1].Kind)
	assert.Equal(t, "End of example.", final.Transcript[len(final.Transcript)-1].Text)

	out, err := l.Plot()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestBundledLesson_QuadraticWrongAnswerLoops(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	tutor, err := autotutor.New(autotutor.WithMetrics(metrics))
	require.NoError(t, err)

	info, err := setup.DefaultFunction.Handoff("Ana", setup.DefaultBounds)
	require.NoError(t, err)

	l, err := tutor.Start(ctx, info)
	require.NoError(t, err)

	// Skip the two introductory choices.
	_, err = l.Choose(ctx, 1)
	require.NoError(t, err)
	snap, err := l.Choose(ctx, 0)
	require.NoError(t, err)

	prompt, ok := snap.Prompt()
	require.True(t, ok)
	assert.Equal(t, []string{"The ball lands at (-0.62, 0).", "The ball lands at (1.62, 0)."}, prompt.Options)

	// The wrong intercept explains and asks again.
	snap, err = l.Choose(ctx, 0)
	require.NoError(t, err)
	prompt, ok = snap.Prompt()
	require.True(t, ok)
	assert.Len(t, prompt.Options, 2)

	snap, err = l.Choose(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, snap.Transcript[len(snap.Transcript)-3].Text, "1.62 seconds")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LessonsStarted.WithLabelValues("quadratic")))
}

func TestNew_RejectsInvalidScript(t *testing.T) {
	b := dsl.New("broken")
	b.Add("start").Text("Hi {nobody}").Go("ghost")
	script, err := b.Build()
	require.NoError(t, err)

	_, err = autotutor.New(autotutor.WithScript(script))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, autotutor.Version)
	assert.NotContains(t, autotutor.Version, "\n")
}
