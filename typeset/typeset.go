// Package typeset implements the Typesetter capability contract and
// the character/word line-break policies that consume it.
//
// The contract is pluggable so tests can stub it: Default is the
// engine's real implementation, but LayoutManager only ever depends on
// the Typesetter interface.
//
// Grounded on the RunHandler/Shaper capability split in
// skia/shaper/handler.go and skia/shaper/interfaces.go (a narrow
// interface standing in for the host platform's shaping engine), and on
// skia/shaper/harfbuzz.go's use of fixed.Int26_6 sub-pixel accumulation,
// which this package reuses for the same reason: glyph advances are
// computed in 26.6 fixed point and only converted to the engine's
// float32 Scalar at the fragment boundary.
package typeset

import (
	"log"

	"golang.org/x/image/math/fixed"

	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/unicodeprop"
)

// Result is what a Typesetter call returns: the next cluster-break
// offset and the metrics of the fragment [startOffset, BreakOffset).
type Result struct {
	BreakOffset int
	Ascent      base.Scalar
	Descent     base.Scalar
	Width       base.Scalar
}

// Typesetter is the capability contract: given an attributed
// substring, a starting offset, and a constraining width, it
// yields the next cluster-break offset and the fragment's metrics.
// BreakOffset > startOffset unless text is empty.
type Typesetter interface {
	NextBreak(text []rune, startOffset int, constrainingWidth base.Scalar) Result
}

// GlyphAdvancer is the narrow, platform-owned capability this package
// needs to turn runes into widths, standing in for the host's actual
// glyph rasterizer — per-glyph custom shaping is out of scope, and the
// engine never inspects glyph internals itself. A host wires in real
// font metrics; tests use a fixed-width stub.
type GlyphAdvancer interface {
	// Advance returns the horizontal advance of r in the current font.
	Advance(r rune) base.Scalar
	// Ascent and Descent return the font's line metrics (positive
	// descent, matching skia/models/font_metrics.go's convention).
	Ascent() base.Scalar
	Descent() base.Scalar
}

// Default is the engine's standard Typesetter: it finds grapheme
// cluster boundaries via a Properties capability (never splitting a
// cluster) and asks a GlyphAdvancer for each cluster's width,
// accumulating in fixed.Int26_6 the way skia/shaper/harfbuzz.go
// accumulates shaped advances.
type Default struct {
	Advancer GlyphAdvancer
	Props    unicodeprop.Properties
}

// NewDefault returns a Default bound to the given glyph metrics
// capability and Unicode property source. A nil props falls back to
// unicodeprop.NewDefault().
func NewDefault(advancer GlyphAdvancer, props unicodeprop.Properties) *Default {
	if props == nil {
		props = unicodeprop.NewDefault()
	}
	return &Default{Advancer: advancer, Props: props}
}

// NextBreak implements Typesetter.
func (d *Default) NextBreak(text []rune, startOffset int, constrainingWidth base.Scalar) Result {
	if startOffset >= len(text) {
		return Result{BreakOffset: startOffset, Ascent: d.Advancer.Ascent(), Descent: d.Advancer.Descent()}
	}
	rest := text[startOffset:]
	bounds := d.Props.GraphemeBoundaries(rest)

	limit := floatToFixed(constrainingWidth)
	var acc fixed.Int26_6
	breakOffset := startOffset
	for i := 1; i < len(bounds); i++ {
		clusterStart, clusterEnd := bounds[i-1], bounds[i]
		clusterWidth := fixed.Int26_6(0)
		for _, r := range rest[clusterStart:clusterEnd] {
			clusterWidth += floatToFixed(d.Advancer.Advance(r))
		}
		next := acc + clusterWidth
		absEnd := startOffset + clusterEnd
		if next > limit {
			break
		}
		acc = next
		breakOffset = absEnd
	}
	if breakOffset == startOffset && len(rest) > 0 {
		// No progress at all (e.g. a single cluster already wider than
		// the limit): take the first cluster so the caller always
		// advances.
		if len(bounds) > 1 {
			clusterEnd := bounds[1]
			breakOffset = startOffset + clusterEnd
			for _, r := range rest[:clusterEnd] {
				acc += floatToFixed(d.Advancer.Advance(r))
			}
			if !d.Props.IsWide(rest[0]) {
				log.Printf("typeset: cluster %q exceeds constraining width %v without being East-Asian wide", string(rest[:clusterEnd]), constrainingWidth)
			}
		} else {
			breakOffset = startOffset + 1
		}
	}
	return Result{
		BreakOffset: breakOffset,
		Ascent:      d.Advancer.Ascent(),
		Descent:     d.Advancer.Descent(),
		Width:       fixedToFloat(acc),
	}
}

func floatToFixed(f base.Scalar) fixed.Int26_6 { return fixed.Int26_6(f * 64) }
func fixedToFloat(i fixed.Int26_6) base.Scalar { return base.Scalar(i) / 64 }

var _ Typesetter = (*Default)(nil)
