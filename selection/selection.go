// Package selection implements SelectionManager: a set of
// non-overlapping text selections with caret affinity, deriving
// caret/selection rectangles from a layout.Manager and translating
// motion commands into range mutations.
//
// Grounded on PositionWithAffinity (skia/paragraph/position.go), which
// is exactly this caret-affinity concept (there Upstream/Downstream,
// renamed Leading/Trailing to match this engine's own vocabulary).
package selection

import (
	"sort"
	"unicode"

	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/layout"
	"github.com/halfmoon-text/lineengine/textstore"
)

// Affinity disambiguates a caret that falls between two fragments at a
// soft-wrap boundary.
type Affinity int

const (
	// Leading associates the caret with the start of the following
	// fragment.
	Leading Affinity = iota
	// Trailing associates the caret with the end of the preceding
	// fragment.
	Trailing
)

// unsetDesiredX marks a selection that has not yet had its desired
// column fixed by a vertical motion; caret x positions come from
// measured glyph widths and are never negative, so -1 is an
// unambiguous sentinel.
const unsetDesiredX = base.Scalar(-1)

// Selection is (range, affinity, desiredXForVerticalMotion).
type Selection struct {
	Range    textstore.Range
	Affinity Affinity
	DesiredX base.Scalar
}

// NewCaret returns a zero-length selection at offset with Leading
// affinity and no fixed desired column.
func NewCaret(offset int) Selection {
	return Selection{Range: textstore.Range{Location: offset, Length: 0}, Affinity: Leading, DesiredX: unsetDesiredX}
}

// Manager is the SelectionManager.
type Manager struct {
	layout *layout.Manager
	store  *textstore.Store

	selections []Selection
}

// NewManager returns a Manager with a single caret at offset 0,
// subscribed to store so edits reset affinity and shift ranges.
func NewManager(lm *layout.Manager, store *textstore.Store) *Manager {
	m := &Manager{layout: lm, store: store, selections: []Selection{NewCaret(0)}}
	store.Subscribe(m)
	return m
}

// Selections returns a copy of the current selection set, in document
// order.
func (m *Manager) Selections() []Selection {
	out := make([]Selection, len(m.selections))
	copy(out, m.selections)
	return out
}

// Set replaces the entire selection set with a single selection.
func (m *Manager) Set(sel Selection) {
	m.selections = []Selection{sel}
}

// Add inserts sel into the set, merging with any selection it
// overlaps.
func (m *Manager) Add(sel Selection) {
	m.selections = append(m.selections, sel)
	m.normalize()
}

func (m *Manager) normalize() {
	sort.Slice(m.selections, func(i, j int) bool {
		return m.selections[i].Range.Location < m.selections[j].Range.Location
	})
	out := m.selections[:0]
	for _, s := range m.selections {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if s.Range.Location <= last.Range.End() {
				if end := s.Range.End(); end > last.Range.End() {
					last.Range.Length = end - last.Range.Location
				}
				continue
			}
		}
		out = append(out, s)
	}
	m.selections = out
}

// Changed implements textstore.Observer: selections after the edit
// shift by its delta, selections before it are untouched, and any selection the edit
// overlaps collapses to a caret at the end of the replacement text,
// resetting affinity and desired column.
func (m *Manager) Changed(delta textstore.EditDelta) {
	for i := range m.selections {
		sel := &m.selections[i]
		switch {
		case delta.Range.End() <= sel.Range.Location:
			sel.Range.Location += delta.Delta
		case delta.Range.Location >= sel.Range.End():
			// Selection entirely before the edit: untouched.
		default:
			newEnd := delta.Range.Location + delta.Range.Length + delta.Delta
			*sel = NewCaret(newEnd)
		}
	}
	m.normalize()
}

// HitTest places a caret at p, with Leading affinity.
func (m *Manager) HitTest(p base.Point) Selection {
	return NewCaret(m.layout.TextOffsetAtPoint(p))
}

// RectsFor returns the draw rectangles covering sel's range, via the
// owning LayoutManager's geometry.
func (m *Manager) RectsFor(sel Selection) []base.Rect {
	return m.layout.RectsFor(sel.Range)
}

// ExtendCharacter moves (dir < 0: left, dir > 0: right) every
// selection's caret by one character, collapsing a non-empty selection
// in that direction first.
func (m *Manager) ExtendCharacter(dir int) {
	for i := range m.selections {
		m.extendCharacterOne(&m.selections[i], dir)
	}
	m.normalize()
}

func (m *Manager) extendCharacterOne(sel *Selection, dir int) {
	if dir < 0 {
		loc := sel.Range.Location - 1
		if loc < 0 {
			loc = 0
		}
		*sel = Selection{Range: textstore.Range{Location: loc, Length: 0}, Affinity: Trailing, DesiredX: unsetDesiredX}
		return
	}
	loc := sel.Range.End() + 1
	if max := m.store.Length(); loc > max {
		loc = max
	}
	*sel = Selection{Range: textstore.Range{Location: loc, Length: 0}, Affinity: Leading, DesiredX: unsetDesiredX}
}

// ExtendWord moves every selection's caret to the next/previous word
// boundary, using its own whitespace/punctuation classification
// (isWordBoundary below) rather than the Word line-break policy's
// UAX#14 opportunities: caret word-motion and line wrapping are
// related but distinct notions of "word" and are allowed to diverge.
func (m *Manager) ExtendWord(dir int) {
	text := []rune(m.store.String())
	for i := range m.selections {
		sel := &m.selections[i]
		loc := sel.Range.Location
		if dir < 0 {
			loc = scanWordBackward(text, loc)
		} else {
			loc = scanWordForward(text, loc)
		}
		affinity := Leading
		if dir < 0 {
			affinity = Trailing
		}
		*sel = Selection{Range: textstore.Range{Location: loc, Length: 0}, Affinity: affinity, DesiredX: unsetDesiredX}
	}
	m.normalize()
}

func scanWordForward(text []rune, from int) int {
	i := from
	for i < len(text) && !isWordBoundary(text[i]) {
		i++
	}
	for i < len(text) && isWordBoundary(text[i]) {
		i++
	}
	return i
}

func scanWordBackward(text []rune, from int) int {
	i := from
	for i > 0 && isWordBoundary(text[i-1]) {
		i--
	}
	for i > 0 && !isWordBoundary(text[i-1]) {
		i--
	}
	return i
}

func isWordBoundary(r rune) bool {
	return r == '\n' || r == '\r' || unicode.IsSpace(r) || unicode.IsPunct(r)
}

// ExtendLine moves every selection's caret up (dir < 0) or down
// (dir > 0) by one line, preserving the desired column across
// successive calls until the caller moves horizontally.
func (m *Manager) ExtendLine(dir int) {
	m.moveVertically(dir, m.layout.EstimateLineHeight())
}

// ExtendPage moves every selection's caret by one page of the given
// height.
func (m *Manager) ExtendPage(dir int, pageHeight base.Scalar) {
	m.moveVertically(dir, pageHeight)
}

func (m *Manager) moveVertically(dir int, step base.Scalar) {
	for i := range m.selections {
		sel := &m.selections[i]
		rect := m.layout.RectForOffset(sel.Range.End())
		x := sel.DesiredX
		if x == unsetDesiredX {
			x = rect.Left
			sel.DesiredX = x
		}
		targetY := rect.Top + base.Scalar(dir)*step
		offset := m.layout.TextOffsetAtPoint(base.Point{X: x, Y: targetY})
		sel.Range = textstore.Range{Location: offset, Length: 0}
		sel.Affinity = Leading
	}
	m.normalize()
}

var _ textstore.Observer = (*Manager)(nil)
