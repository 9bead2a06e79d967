package domain

// Align is the side a chat bubble is rendered on.
type Align string

const (
	AlignLeft  Align = "left"  // Tutor narration
	AlignRight Align = "right" // Learner side
)

// EntryKind classifies transcript entries.
type EntryKind string

const (
	EntryNarration EntryKind = "narration"
	EntrySelection EntryKind = "selection"
	EntryPrompt    EntryKind = "prompt"
	EntryEnding    EntryKind = "ending"
)

// DefaultPrompt heads the option list when the choice node carries no text.
const DefaultPrompt = "Choose an option."

// TranscriptEntry is one render-ready chat bubble.
type TranscriptEntry struct {
	NodeID  string    `json:"node_id"`
	Align   Align     `json:"align"`
	Kind    EntryKind `json:"kind"`
	Text    string    `json:"text"`
	Image   string    `json:"image,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// Actionable reports whether the entry offers selectable options.
func (e TranscriptEntry) Actionable() bool {
	return e.Kind == EntryPrompt && len(e.Options) > 0
}

// Snapshot is the presentation view of a live lesson after a transition.
type Snapshot struct {
	LessonID   string            `json:"lesson_id"`
	Version    int               `json:"version"`
	Status     Status            `json:"status"`
	Transcript []TranscriptEntry `json:"transcript"`
}

// Prompt returns the trailing prompt entry, if the lesson awaits a selection.
func (s *Snapshot) Prompt() (TranscriptEntry, bool) {
	if s == nil || len(s.Transcript) == 0 {
		return TranscriptEntry{}, false
	}
	last := s.Transcript[len(s.Transcript)-1]
	return last, last.Actionable()
}
