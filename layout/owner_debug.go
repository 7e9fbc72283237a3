//go:build lineengine_debug

package layout

import (
	"bytes"
	"fmt"
	"runtime"
)

// debugOwnerGoroutine records which goroutine constructed a Manager
// and asserts every public entry point runs on that same goroutine,
// the same single-owner-per-call contract callers must otherwise
// uphold informally.
type debugOwnerGoroutine struct {
	id uint64
}

func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(line, ' '); i >= 0 {
		line = line[:i]
	}
	var id uint64
	fmt.Sscanf(string(line), "%d", &id)
	return id
}

func newDebugOwnerGoroutine() debugOwnerGoroutine {
	return debugOwnerGoroutine{id: currentGoroutineID()}
}

func (g debugOwnerGoroutine) assert() {
	if id := currentGoroutineID(); id != g.id {
		panic(fmt.Sprintf("layout: Manager accessed from goroutine %d, owned by goroutine %d", id, g.id))
	}
}
