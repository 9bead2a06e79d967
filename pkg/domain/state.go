package domain

// Status is the observable mode of the dialogue runner.
type Status string

const (
	StatusAtLine     Status = "at_line"    // Current node is narration
	StatusAtChoice   Status = "at_choice"  // Current node awaits a selection
	StatusTerminated Status = "terminated" // Terminal sentinel reached
)

// NoSelection marks history entries of narration lines.
const NoSelection = -1

// HistoryEntry records a node the runner has passed through.
type HistoryEntry struct {
	NodeID string `json:"node_id"`
	// Selected is the chosen option index for choice nodes, NoSelection otherwise.
	Selected int `json:"selected"`
}

// State is an immutable snapshot of a lesson run.
// Transitions never mutate a State; they return a new one.
type State struct {
	Current string         `json:"current"`
	Status  Status         `json:"status"`
	History []HistoryEntry `json:"history"`
}

// StatusOf derives the runner status for a node.
func StatusOf(n Node) Status {
	switch {
	case n.IsTerminal():
		return StatusTerminated
	case n.Kind == KindChoice:
		return StatusAtChoice
	default:
		return StatusAtLine
	}
}

// NewState creates a clean state positioned at node n.
func NewState(n Node) *State {
	return &State{
		Current: n.ID,
		Status:  StatusOf(n),
		History: []HistoryEntry{},
	}
}

// Terminated reports whether the sentinel has been reached.
func (s *State) Terminated() bool {
	return s.Status == StatusTerminated
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]HistoryEntry, len(s.History))
	copy(next.History, s.History)
	return &next
}

// Advance returns a copy of s with entry appended, positioned at n.
func (s *State) Advance(entry HistoryEntry, n Node) *State {
	next := s.Snapshot()
	next.History = append(next.History, entry)
	next.Current = n.ID
	next.Status = StatusOf(n)
	return next
}

// MoveTo returns a copy of s positioned at n without touching history.
// It is used when skipping nodes whose condition does not hold.
func (s *State) MoveTo(n Node) *State {
	next := s.Snapshot()
	next.Current = n.ID
	next.Status = StatusOf(n)
	return next
}
