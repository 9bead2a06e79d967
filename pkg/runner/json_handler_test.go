package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Input(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"JSON String", "\"2\"\n", "2"},
		{"JSON Number", "2\n", "2"},
		{"Raw Text", "Got it!\n", "Got it!"},
		{"No Trailing Newline", "1", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := runner.NewJSONHandler(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := h.Input(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONHandler_RenderNilDiff(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewJSONHandler(strings.NewReader(""), out)

	require.NoError(t, h.Render(context.Background(), nil))
	assert.Empty(t, out.String())

	require.NoError(t, h.Render(context.Background(), &domain.SnapshotDiff{LessonID: "l1", Version: 2, Keep: 3}))
	assert.Equal(t, `{"type":"diff","diff":{"lesson_id":"l1","version":2,"keep":3}}`+"\n", out.String())
}
