package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two lesson snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	LessonID string `json:"lesson_id"`
	Version  int    `json:"version"`

	Status *Status `json:"status,omitempty"`

	// Keep is the number of leading transcript entries the client retains.
	// The trailing prompt of the previous snapshot is usually dropped,
	// because it is replaced by the selected option.
	Keep int `json:"keep"`

	// Appended holds the entries to add after the kept prefix.
	Appended []TranscriptEntry `json:"appended,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		LessonID: newSnap.LessonID,
		Version:  newSnap.Version,
	}

	if oldSnap == nil || oldSnap.Status != newSnap.Status {
		diff.Status = &newSnap.Status
	}

	keep := 0
	if oldSnap != nil {
		keep = commonPrefix(oldSnap.Transcript, newSnap.Transcript)
	}
	diff.Keep = keep
	if len(newSnap.Transcript) > keep {
		diff.Appended = newSnap.Transcript[keep:]
	}

	if oldSnap != nil && diff.IsEmpty() && keep == len(oldSnap.Transcript) {
		return nil
	}
	return diff
}

func commonPrefix(a, b []TranscriptEntry) int {
	n := 0
	for n < len(a) && n < len(b) && reflect.DeepEqual(a[n], b[n]) {
		n++
	}
	return n
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Status == nil && len(d.Appended) == 0
}
