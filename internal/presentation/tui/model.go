package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tutorBubble   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	learnerBubble = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212")).Padding(0, 1)
	imageStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	plotStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	optionStyle   = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Model is the bubbletea model of one lesson: the transcript in a scrolling
// viewport, the plot on the right, and the option list below.
type Model struct {
	ctx    context.Context
	lesson *lesson.Lesson
	render func(string) (string, error)

	snap   *domain.Snapshot
	plot   string
	cursor int
	err    error

	viewport viewport.Model
	width    int
	height   int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithMarkdown renders narration with the given renderer (see NewRenderer).
func WithMarkdown(render func(string) (string, error)) ModelOption {
	return func(m *Model) {
		m.render = render
	}
}

// NewModel creates the model for a started lesson.
func NewModel(ctx context.Context, l *lesson.Lesson, opts ...ModelOption) *Model {
	m := &Model{
		ctx:    ctx,
		lesson: l,
		snap:   l.Snapshot(),
		width:  defaultWidth,
		height: defaultHeight,
	}
	if out, err := l.Plot(); err == nil {
		m.plot = strings.TrimRight(out, "\n")
	}
	for _, opt := range opts {
		opt(m)
	}
	m.viewport = viewport.New(m.transcriptWidth(), m.transcriptHeight())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = m.transcriptWidth()
		m.viewport.Height = m.transcriptHeight()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.options())-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			m.choose(m.cursor)
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.choose(int(key[0] - '1'))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.viewport.View()
	if m.plot != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, plotStyle.Render(m.plot))
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n")
	if prompt, ok := m.snap.Prompt(); ok {
		sb.WriteString(prompt.Text)
		sb.WriteString("\n")
		for i, opt := range prompt.Options {
			line := fmt.Sprintf("%d) %s", i+1, opt)
			if i == m.cursor {
				sb.WriteString(selectedStyle.Render("> " + line))
			} else {
				sb.WriteString(optionStyle.Render("  " + line))
			}
			sb.WriteString("\n")
		}
	}
	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	if m.snap.Status == domain.StatusTerminated {
		sb.WriteString(helpStyle.Render("q: quit"))
	} else {
		sb.WriteString(helpStyle.Render("↑/↓: move • enter or 1-9: choose • q: quit"))
	}
	return sb.String()
}

// Snapshot returns the snapshot currently displayed.
func (m *Model) Snapshot() *domain.Snapshot {
	return m.snap
}

func (m *Model) options() []string {
	prompt, _ := m.snap.Prompt()
	return prompt.Options
}

func (m *Model) choose(index int) {
	if m.snap.Status != domain.StatusAtChoice {
		return
	}
	snap, err := m.lesson.Choose(m.ctx, index)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.snap = snap
	m.cursor = 0
	m.refresh()
}

func (m *Model) refresh() {
	width := m.transcriptWidth()
	var blocks []string
	for _, e := range m.snap.Transcript {
		if e.Kind == domain.EntryPrompt {
			continue
		}
		blocks = append(blocks, m.entry(e, width))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) entry(e domain.TranscriptEntry, width int) string {
	limit := width * 3 / 4
	if e.Align == domain.AlignRight {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, learnerBubble.Width(fit(e.Text, limit)).Render(e.Text))
	}

	text := e.Text
	if m.render != nil && e.Kind == domain.EntryNarration {
		if out, err := m.render(text); err == nil {
			text = strings.TrimSpace(out)
		}
	}
	if e.Image != "" {
		text += "\n" + imageStyle.Render("[image: "+e.Image+"]")
	}
	return tutorBubble.Width(fit(text, limit)).Render(text)
}

func fit(text string, limit int) int {
	if w := lipgloss.Width(text) + 2; w < limit {
		return w
	}
	return limit
}

func (m *Model) transcriptWidth() int {
	w := m.width
	if m.plot != "" {
		w -= lipgloss.Width(plotStyle.Render(m.plot))
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) transcriptHeight() int {
	// Leave room for the prompt, up to a handful of options and the help line.
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

// Run starts the interactive program for a lesson and blocks until the
// learner quits.
func Run(ctx context.Context, l *lesson.Lesson, opts ...ModelOption) error {
	p := tea.NewProgram(NewModel(ctx, l, opts...), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
