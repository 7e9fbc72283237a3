//go:build lineengine_debug

package layout

// handleInvariantViolation aborts immediately so a broken line-tree
// invariant is caught at its source rather than corrupting whatever
// layout runs next.
func (m *Manager) handleInvariantViolation(err error) {
	panic(err)
}
