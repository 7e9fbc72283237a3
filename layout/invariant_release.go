//go:build !lineengine_debug

package layout

import (
	"log"

	"github.com/halfmoon-text/lineengine/linestorage"
)

// handleInvariantViolation logs the violation and forces every line
// dirty so each line is retypeset by the next LayoutLines call whose
// rect covers it, rather than aborting the process.
func (m *Manager) handleInvariantViolation(err error) {
	log.Printf("layout: %v; forcing full re-layout", err)
	m.lines.Each(func(e linestorage.Entry[*TextLine]) bool {
		if !e.Payload.NeedsLayout {
			e.Payload.NeedsLayout = true
			m.dirtyCount++
		}
		return true
	})
}
