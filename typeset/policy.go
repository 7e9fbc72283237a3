package typeset

import (
	"sort"

	"github.com/halfmoon-text/lineengine/unicodeprop"
)

// Policy is the per-fragment line-break strategy.
type Policy int

const (
	// Character uses the typesetter's suggested break as-is (subject
	// to the CRLF guard below).
	Character Policy = iota
	// Word extends Character by walking backward for a whitespace or
	// punctuation boundary.
	Word
)

// maxWordScanBack is the 100-character cap on the Word policy's
// backward scan, preventing pathological walks on lines with no
// whitespace.
const maxWordScanBack = 100

// Break applies policy to the Typesetter's raw suggestion for
// [startOffset, ...) and returns the final break offset and metrics to
// use for this fragment. props backs the Word policy's boundary
// search; a nil props falls back to unicodeprop.NewDefault().
func Break(policy Policy, ts Typesetter, props unicodeprop.Properties, text []rune, startOffset int, constrainingWidth float32) Result {
	raw := ts.NextBreak(text, startOffset, constrainingWidth)
	raw.BreakOffset = guardCRLF(text, raw.BreakOffset)

	if policy == Character {
		return raw
	}
	if props == nil {
		props = unicodeprop.NewDefault()
	}
	return applyWordPolicy(ts, props, text, startOffset, raw)
}

// hugeWidth stands in for "no width constraint", used to re-measure a
// fragment once the Word policy has chosen a narrower break than the
// Typesetter originally suggested.
const hugeWidth = float32(1 << 20)

// guardCRLF advances off by one if it falls between the \r and \n of a
// CRLF sequence, so the pair is never split across fragments.
func guardCRLF(text []rune, off int) int {
	if off > 0 && off < len(text) && text[off-1] == '\r' && text[off] == '\n' {
		return off + 1
	}
	return off
}

// applyWordPolicy implements the Word strategy: if the character
// policy's break already lands on a UAX#14 line-break opportunity, or
// at the end of the line, it is kept as-is. Otherwise this looks
// backward, up to maxWordScanBack characters, for the nearest earlier
// opportunity and breaks there; if none is found, it falls back to the
// character break.
func applyWordPolicy(ts Typesetter, props unicodeprop.Properties, text []rune, startOffset int, charBreak Result) Result {
	off := charBreak.BreakOffset
	opportunities := props.LineBreakOpportunities(text)
	if off >= len(text) || isBreakOpportunity(opportunities, off) {
		return charBreak
	}

	limit := off - maxWordScanBack
	if limit < startOffset {
		limit = startOffset
	}
	best := -1
	for _, o := range opportunities {
		if o <= limit || o >= off {
			continue
		}
		if o > best {
			best = o
		}
	}
	if best < 0 {
		return charBreak
	}
	// Re-measure the narrower fragment: the Typesetter contract takes
	// an attributed substring, so slicing text to the chosen break and
	// asking again with no effective width limit recovers its true
	// metrics.
	remeasured := ts.NextBreak(text[:best], startOffset, hugeWidth)
	remeasured.BreakOffset = best
	return remeasured
}

// isBreakOpportunity reports whether off is present in bounds, which
// LineBreakOpportunities guarantees is sorted ascending.
func isBreakOpportunity(bounds []int, off int) bool {
	i := sort.SearchInts(bounds, off)
	return i < len(bounds) && bounds[i] == off
}
