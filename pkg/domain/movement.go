package domain

import (
	"fmt"
	"strings"
)

// Movement is the direction the head moves after writing a symbol.
// There is no "stay" movement.
type Movement int

// The zero Movement is invalid so that a missing direction is detectable.
const (
	Left Movement = iota + 1
	Right
)

// Valid reports whether m is Left or Right.
func (m Movement) Valid() bool {
	return m == Left || m == Right
}

// String returns "Left" or "Right".
func (m Movement) String() string {
	switch m {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Movement(%d)", int(m))
	}
}

// ParseMovement accepts "L", "R", "left", "right" (case-insensitive).
func ParseMovement(s string) (Movement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "<":
		return Left, nil
	case "r", "right", ">":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMovement, s)
}

// MarshalText encodes the movement as "L" or "R".
func (m Movement) MarshalText() ([]byte, error) {
	switch m {
	case Left:
		return []byte("L"), nil
	case Right:
		return []byte("R"), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMovement, int(m))
}

// UnmarshalText decodes any form accepted by ParseMovement.
func (m *Movement) UnmarshalText(text []byte) error {
	parsed, err := ParseMovement(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
