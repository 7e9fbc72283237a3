// Package unicodeprop supplies the code-unit/grapheme/line-break
// property lookups the layout manager needs to keep clusters intact and
// to find word-wrap boundaries, without the engine ever inspecting
// glyph internals itself.
//
// Modeled on the SkUnicode capability contract
// (skia/interfaces/unicode.go), generalized from its fixed flag set to
// the two concerns this engine actually needs: grapheme-cluster
// boundaries (never split by the layout manager) and line-break
// opportunities (the word-wrap policy's boundary search). Backed by
// the real Unicode segmentation and East-Asian-width packages the
// wider go-text/x-text ecosystem uses for exactly this
// (go-text/typesetting/segmenter, golang.org/x/text/width), rather
// than a hand-rolled classifier.
package unicodeprop

import (
	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/width"
)

// Properties answers the Unicode segmentation questions the layout
// manager and its word-wrap policy need.
type Properties interface {
	// GraphemeBoundaries returns every grapheme-cluster boundary offset
	// in text, in ascending order, including 0 and len(text).
	GraphemeBoundaries(text []rune) []int

	// LineBreakOpportunities returns every UAX#14 line-break opportunity
	// offset in text (the boundary search space for the "word" line
	// policy), in ascending order.
	LineBreakOpportunities(text []rune) []int

	// IsWide returns true if r is classified East Asian Wide or
	// Fullwidth, meaning a single cluster may legitimately be wider
	// than the constraining width (the un-splittable-cluster
	// exception).
	IsWide(r rune) bool
}

// Default is the engine's standard Properties implementation, backed by
// go-text/typesetting's UAX#29/UAX#14 segmenter and x/text's East Asian
// width tables.
type Default struct {
	seg segmenter.Segmenter
}

// NewDefault returns a ready-to-use Default.
func NewDefault() *Default { return &Default{} }

// GraphemeBoundaries implements Properties.
func (d *Default) GraphemeBoundaries(text []rune) []int {
	if len(text) == 0 {
		return []int{0}
	}
	d.seg.Init(text)
	bounds := []int{0}
	it := d.seg.GraphemeIterator()
	for it.Next() {
		g := it.Grapheme()
		bounds = append(bounds, g.Offset+len(g.Text))
	}
	if bounds[len(bounds)-1] != len(text) {
		bounds = append(bounds, len(text))
	}
	return bounds
}

// LineBreakOpportunities implements Properties.
func (d *Default) LineBreakOpportunities(text []rune) []int {
	if len(text) == 0 {
		return nil
	}
	d.seg.Init(text)
	var bounds []int
	it := d.seg.LineIterator()
	for it.Next() {
		l := it.Line()
		bounds = append(bounds, l.Offset+len(l.Text))
	}
	return bounds
}

// IsWide implements Properties.
func (d *Default) IsWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	default:
		return false
	}
}

var _ Properties = (*Default)(nil)
