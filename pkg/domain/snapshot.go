package domain

import "time"

// Snapshot is the persisted configuration of a string-typed machine session.
type Snapshot struct {
	SessionID  string     `json:"session_id"`
	Definition Definition `json:"definition"`

	State string   `json:"state"`
	Head  int      `json:"head"`
	Tape  []string `json:"tape"`

	// Offset is the number of cells prepended since construction.
	// The logical position of tape index i is i - Offset.
	Offset int `json:"offset"`

	Steps     int       `json:"steps"`
	Halted    bool      `json:"halted"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted snapshot when the store seals sessions at
	// rest. A sealed envelope carries only the ID, counters and timestamps.
	Sealed []byte `json:"sealed,omitempty"`
}

// Position returns the logical head position relative to the first initial cell.
func (s *Snapshot) Position() int {
	return s.Head - s.Offset
}

// Clone returns a deep copy safe for independent mutation.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	next := *s
	next.Tape = append([]string(nil), s.Tape...)
	next.Definition.States = append([]string(nil), s.Definition.States...)
	next.Definition.Symbols = append([]string(nil), s.Definition.Symbols...)
	next.Definition.Final = append([]string(nil), s.Definition.Final...)
	next.Definition.Rules = append([]Rule(nil), s.Definition.Rules...)
	next.Definition.Tape = append([]string(nil), s.Definition.Tape...)
	next.Sealed = append([]byte(nil), s.Sealed...)
	return &next
}
