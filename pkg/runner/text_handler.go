package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of the chat bubbles.
type Styles struct {
	Tutor   lipgloss.Style
	Learner lipgloss.Style
	Prompt  lipgloss.Style
	Option  lipgloss.Style
	Image   lipgloss.Style
	Plot    lipgloss.Style
	System  lipgloss.Style
}

// DefaultStyles returns the standard palette: tutor bubbles on the left,
// learner bubbles on the right.
func DefaultStyles() Styles {
	bubble := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return Styles{
		Tutor:   bubble.BorderForeground(lipgloss.Color("63")),
		Learner: bubble.BorderForeground(lipgloss.Color("212")),
		Prompt:  lipgloss.NewStyle().Bold(true),
		Option:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).PaddingLeft(2),
		Image:   lipgloss.NewStyle().Faint(true).Italic(true),
		Plot:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
		System:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// TextHandler renders the transcript as chat bubbles on a text terminal.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Styles   Styles
	Width    int

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the narration renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerWidth overrides the detected terminal width.
func WithTextHandlerWidth(width int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Width = width
	}
}

// WithTextHandlerStyles replaces the bubble styles.
func WithTextHandlerStyles(s Styles) TextHandlerOption {
	return func(h *TextHandler) {
		h.Styles = s
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Styles: DefaultStyles(),
		Width:  TerminalWidth(w),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff so a persistently failing reader does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Render prints the appended entries. A terminal cannot take lines back, so
// the retracted prompt simply stays above the learner's selection.
func (h *TextHandler) Render(ctx context.Context, diff *domain.SnapshotDiff) error {
	if diff == nil {
		return nil
	}
	for _, e := range diff.Appended {
		if err := h.renderEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) renderEntry(e domain.TranscriptEntry) error {
	switch e.Kind {
	case domain.EntryPrompt:
		var sb strings.Builder
		sb.WriteString(h.Styles.Prompt.Render(e.Text))
		for i, opt := range e.Options {
			sb.WriteString("\n")
			sb.WriteString(h.Styles.Option.Render(fmt.Sprintf("%d) %s", i+1, opt)))
		}
		_, err := fmt.Fprintln(h.Writer, sb.String())
		return err
	case domain.EntrySelection:
		_, err := fmt.Fprintln(h.Writer, h.bubble(h.Styles.Learner, e.Text, lipgloss.Right))
		return err
	}

	text := e.Text
	if h.Renderer != nil && e.Kind == domain.EntryNarration {
		if rendered, err := h.Renderer(text); err == nil {
			text = strings.TrimSpace(rendered)
		}
	}
	if e.Image != "" {
		text += "\n" + h.Styles.Image.Render("[image: "+e.Image+"]")
	}
	_, err := fmt.Fprintln(h.Writer, h.bubble(h.Styles.Tutor, text, lipgloss.Left))
	return err
}

func (h *TextHandler) bubble(style lipgloss.Style, text string, pos lipgloss.Position) string {
	width := h.Width
	if width <= 0 {
		width = DefaultWidth
	}
	// Bubbles take at most two thirds of the line, like a chat window.
	limit := width * 2 / 3
	if w := lipgloss.Width(text) + style.GetHorizontalPadding(); w < limit {
		limit = w
	}
	rendered := style.Width(limit).Render(text)
	return lipgloss.PlaceHorizontal(width, pos, rendered)
}

// Plot prints the function graph in a frame.
func (h *TextHandler) Plot(ctx context.Context, plot string) error {
	_, err := fmt.Fprintln(h.Writer, h.Styles.Plot.Render(strings.TrimRight(plot, "\n")))
	return err
}

// Input reads one sanitized line. Rejected input is reported and read again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message with a "[System]" prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, h.Styles.System.Render("[System] "+msg))
	return err
}

var _ IOHandler = (*TextHandler)(nil)
