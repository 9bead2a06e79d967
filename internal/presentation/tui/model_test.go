package tui_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/autotutor/internal/presentation/tui"
	"github.com/aretw0/autotutor/internal/testutils"
	"github.com/aretw0/autotutor/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) *tui.Model {
	t.Helper()
	l := testutils.Start(t, testutils.NewTutor(t), testutils.QuadraticInfo(t))

	m := tui.NewModel(context.Background(), l)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func press(m *tui.Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitialView(t *testing.T) {
	m := newModel(t)

	view := m.View()
	assert.Contains(t, view, "What does the graph show?")
	assert.Contains(t, view, "> 1) What does the graph show?")
	assert.Contains(t, view, "*", "plot pane should be visible")
}

func TestModel_NumberSelection(t *testing.T) {
	m := newModel(t)
	before := len(m.Snapshot().Transcript)

	press(m, runes("2"))

	snap := m.Snapshot()
	assert.Equal(t, 2, snap.Version)
	assert.Greater(t, len(snap.Transcript), before)
	assert.Contains(t, m.View(), "So we want to find where f(x) = 0?")
}

func TestModel_ArrowSelection(t *testing.T) {
	m := newModel(t)

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	snap := m.Snapshot()
	// The cursor stops at the last option.
	var selection domain.TranscriptEntry
	for _, e := range snap.Transcript {
		if e.Kind == domain.EntrySelection {
			selection = e
		}
	}
	assert.Equal(t, "I'm ready to start.", selection.Text)
}

func TestModel_OutOfRangeShowsError(t *testing.T) {
	m := newModel(t)

	press(m, runes("9"))

	assert.Equal(t, 1, m.Snapshot().Version)
	assert.Contains(t, m.View(), "out of range")
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPrintBanner(t *testing.T) {
	buf := &bytes.Buffer{}
	tui.PrintBanner(buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
