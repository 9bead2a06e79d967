package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/autotutor/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON_RenamesErrorKey(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewJSON(buf, slog.LevelInfo)

	logger.Warn("plot failed", "error", errors.New("boom"))
	logger.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.Level(true))
	assert.Equal(t, slog.LevelInfo, logging.Level(false))
}
