package runner_test

import (
	"testing"

	"github.com/aretw0/autotutor/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestParseChoice(t *testing.T) {
	options := []string{"The ball lands at (4, 0).", "The ball lands at (0, 0)."}

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"First By Number", "1", 0, false},
		{"Second By Number", " 2 ", 1, false},
		{"By Text", "the ball lands at (0, 0).", 1, false},
		{"Zero", "0", 0, true},
		{"Too Large", "3", 0, true},
		{"Empty", "", 0, true},
		{"Unknown Text", "maybe", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner.ParseChoice(tt.input, options)
			if tt.wantErr {
				assert.ErrorIs(t, err, runner.ErrInvalidChoice)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
