package layout

import (
	"errors"
	"fmt"
)

// ErrInvariantViolated wraps a failed consistency check on the line
// tree: the sum of every line's length no longer matches the
// document's length (the terminal line is a zero-length entry).
var ErrInvariantViolated = errors.New("layout: line tree invariant violated")

// checkInvariants verifies m.lines against m.store after an edit has
// been folded in. Its caller decides what to do with a non-nil
// result via handleInvariantViolation, which is build-tag gated: it
// aborts in debug builds and logs-and-recovers in release builds.
func (m *Manager) checkInvariants() error {
	if got, want := m.lines.TotalLength(), m.store.Length(); got != want {
		return fmt.Errorf("%w: line tree total length = %d, want %d (document length %d)", ErrInvariantViolated, got, want, m.store.Length())
	}
	return nil
}
