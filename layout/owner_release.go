//go:build !lineengine_debug

package layout

// debugOwnerGoroutine is a zero-cost stand-in outside debug builds:
// the thread-identity assertion only runs when built with the
// lineengine_debug tag.
type debugOwnerGoroutine struct{}

func newDebugOwnerGoroutine() debugOwnerGoroutine { return debugOwnerGoroutine{} }

func (debugOwnerGoroutine) assert() {}
