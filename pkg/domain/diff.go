package domain

// SnapshotDiff represents the changes between two snapshots of the same session.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	State  *string `json:"state,omitempty"`
	Head   *int    `json:"head,omitempty"`
	Halted *bool   `json:"halted,omitempty"`

	// Steps is the number of transitions applied between the two snapshots.
	Steps int `json:"steps,omitempty"`

	// Cells maps logical positions to their new symbol, covering both
	// overwritten cells and cells created by tape growth.
	Cells map[int]string `json:"cells,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		SessionID: newSnap.SessionID,
	}

	if oldSnap == nil || oldSnap.State != newSnap.State {
		diff.State = &newSnap.State
	}
	if oldSnap == nil || oldSnap.Position() != newSnap.Position() {
		head := newSnap.Position()
		diff.Head = &head
	}
	if oldSnap == nil {
		if newSnap.Halted {
			diff.Halted = &newSnap.Halted
		}
	} else if oldSnap.Halted != newSnap.Halted {
		diff.Halted = &newSnap.Halted
	}

	if oldSnap != nil {
		diff.Steps = newSnap.Steps - oldSnap.Steps
	} else {
		diff.Steps = newSnap.Steps
	}

	diff.Cells = diffCells(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffCells(old, new *Snapshot) map[int]string {
	delta := make(map[int]string)

	if old == nil {
		for i, sym := range new.Tape {
			delta[i-new.Offset] = sym
		}
		return delta
	}

	// Tapes only grow, so every logical position of old exists in new.
	for i, sym := range new.Tape {
		pos := i - new.Offset
		oldIdx := pos + old.Offset
		if oldIdx < 0 || oldIdx >= len(old.Tape) || old.Tape[oldIdx] != sym {
			delta[pos] = sym
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.State == nil &&
		d.Head == nil &&
		d.Halted == nil &&
		d.Steps == 0 &&
		len(d.Cells) == 0
}
