package http

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/autotutor/internal/logging"
	"github.com/aretw0/autotutor/internal/testutils"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow_LaggingClientReachesTermination(t *testing.T) {
	ctx := context.Background()
	l := testutils.Start(t, testutils.NewTutor(t), testutils.LinearInfo(t))
	s := &Server{Logger: logging.NewNop()}

	wake, unsubscribe := s.watch(l)
	defer unsubscribe()
	first := l.Snapshot()

	// Nothing reads while the lesson runs to its end.
	for i := 0; i < testutils.LinearSteps; i++ {
		_, err := l.Choose(ctx, 0)
		require.NoError(t, err)
	}
	require.True(t, l.Done())
	assert.Len(t, wake, 1, "pending notifications coalesce")

	var diffs []*domain.SnapshotDiff
	err := s.follow(ctx, l, first, wake, func(d *domain.SnapshotDiff) error {
		diffs = append(diffs, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, 1+testutils.LinearSteps, diffs[0].Version)
	require.NotNil(t, diffs[0].Status)
	assert.Equal(t, domain.StatusTerminated, *diffs[0].Status)
	assert.Equal(t, domain.EntryEnding, diffs[0].Appended[len(diffs[0].Appended)-1].Kind)
}

func TestFollow_StopsOnCancel(t *testing.T) {
	l := testutils.Start(t, testutils.NewTutor(t), testutils.LinearInfo(t))
	s := &Server{Logger: logging.NewNop()}

	wake, unsubscribe := s.watch(l)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.follow(ctx, l, l.Snapshot(), wake, func(*domain.SnapshotDiff) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFollow_EmitErrorStops(t *testing.T) {
	ctx := context.Background()
	l := testutils.Start(t, testutils.NewTutor(t), testutils.LinearInfo(t))
	s := &Server{Logger: logging.NewNop()}

	wake, unsubscribe := s.watch(l)
	defer unsubscribe()
	first := l.Snapshot()

	_, err := l.Choose(ctx, 0)
	require.NoError(t, err)

	boom := errors.New("client gone")
	err = s.follow(ctx, l, first, wake, func(*domain.SnapshotDiff) error { return boom })
	assert.ErrorIs(t, err, boom)
}
