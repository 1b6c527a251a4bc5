package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/trace"
)

// PrintSnapshot writes a session summary, or the raw snapshot as JSON.
func PrintSnapshot(w io.Writer, snap *domain.Snapshot, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	_, err := fmt.Fprintf(w, "session:  %s\nmachine:  %s\nstate:    %s\nsteps:    %d\nhalted:   %t\nposition: %d\ntape:     %s\n",
		snap.SessionID,
		snap.Definition.Name,
		snap.State,
		snap.Steps,
		snap.Halted,
		snap.Position(),
		trace.Tape(snap.Tape, snap.Head, nil),
	)
	return err
}
