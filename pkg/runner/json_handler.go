package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/autotutor/pkg/domain"
)

// Message is one JSON line emitted by the JSONHandler.
type Message struct {
	Type   string               `json:"type"`
	Diff   *domain.SnapshotDiff `json:"diff,omitempty"`
	Plot   string               `json:"plot,omitempty"`
	System string               `json:"system,omitempty"`
}

// Message types.
const (
	MessageDiff   = "diff"
	MessagePlot   = "plot"
	MessageSystem = "system"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Render emits the diff as a single JSON line.
func (h *JSONHandler) Render(ctx context.Context, diff *domain.SnapshotDiff) error {
	if diff == nil {
		return nil
	}
	return h.Encoder.Encode(Message{Type: MessageDiff, Diff: diff})
}

// Plot emits the rendered graph.
func (h *JSONHandler) Plot(ctx context.Context, plot string) error {
	return h.Encoder.Encode(Message{Type: MessagePlot, Plot: plot})
}

// Input reads one line. A JSON string or number is unwrapped; anything else
// is returned as raw text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return SanitizeInput(s)
	}
	var n json.Number
	if err := json.Unmarshal([]byte(text), &n); err == nil {
		if _, convErr := strconv.Atoi(n.String()); convErr == nil {
			return n.String(), nil
		}
	}
	return SanitizeInput(text)
}

// SystemOutput emits a meta-message.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageSystem, System: msg})
}

var _ IOHandler = (*JSONHandler)(nil)
