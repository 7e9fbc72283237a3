package layout

import (
	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/linestorage"
	"github.com/halfmoon-text/lineengine/textstore"
)

// measureX returns the glyph-width of the first relCU code units of the
// fragment starting at fragStartCU, by re-asking the Typesetter for an
// unconstrained break — the same contract LayoutManager otherwise uses
// to produce fragments, reused here purely as a ruler.
func (m *Manager) measureX(fragStartCU, relCU int) base.Scalar {
	if relCU <= 0 {
		return 0
	}
	prefix := m.store.AttributedSubstring(textstore.Range{Location: fragStartCU, Length: relCU})
	if prefix == "" {
		return 0
	}
	res := m.typesetter.NextBreak([]rune(prefix), 0, measureWidth)
	return res.Width
}

// RectForOffset returns the caret rectangle at offset, including
// offsets one past the document end (the terminal line), which never
// fails.
func (m *Manager) RectForOffset(offset int) base.Rect {
	m.owner.assert()
	le, err := m.lines.AtOffset(offset)
	if err != nil {
		return base.Rect{}
	}
	line := le.Payload
	within := offset - le.Offset

	height := line.Fragments.TotalHeight()
	if height == 0 {
		height = m.EstimateLineHeight()
	}
	if line.Fragments.Count() == 0 {
		return base.Rect{Top: le.Y, Bottom: le.Y + height}
	}

	fe, err := line.Fragments.AtOffset(within)
	if err != nil {
		return base.Rect{Top: le.Y, Bottom: le.Y + height}
	}
	x := m.measureX(le.Offset+fe.Offset, within-fe.Offset)
	y := le.Y + fe.Y
	return base.Rect{Left: x, Top: y, Right: x, Bottom: y + fe.Height}
}

// RectForLineEnd returns the caret rectangle at the true end-of-line
// for the line containing offset: after any trailing whitespace, but
// before the line's terminator. This differs from RectForOffset at
// the last visible glyph whenever the line has trailing whitespace.
func (m *Manager) RectForLineEnd(offset int) base.Rect {
	m.owner.assert()
	le, err := m.lines.AtOffset(offset)
	if err != nil {
		return base.Rect{}
	}
	return m.RectForOffset(le.Offset + le.Payload.VisibleEnd())
}

// TextOffsetAtPoint returns an offset for any point, clamping as needed
// rather than failing.
func (m *Manager) TextOffsetAtPoint(p base.Point) int {
	m.owner.assert()
	le, err := m.lines.AtPosition(p.Y)
	if err != nil {
		return 0
	}
	line := le.Payload
	if line.Fragments.Count() == 0 {
		return le.Offset
	}
	fe, err := line.Fragments.AtPosition(p.Y - le.Y)
	if err != nil {
		return le.Offset
	}
	fragStart := le.Offset + fe.Offset
	return fragStart + m.withinFragmentOffset(fragStart, fe.Length, p.X)
}

// withinFragmentOffset finds the code-unit offset within [0, fragLenCU)
// whose glyph-width is closest to x, by repeatedly re-measuring growing
// prefixes. This is O(n) in the fragment's length, acceptable since
// fragments are bounded by one soft-wrapped row.
func (m *Manager) withinFragmentOffset(fragStartCU, fragLenCU int, x base.Scalar) int {
	text := m.store.AttributedSubstring(textstore.Range{Location: fragStartCU, Length: fragLenCU})
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	cum := codeUnitOffsets(runes)
	prev := base.Scalar(0)
	for i := 1; i <= len(runes); i++ {
		res := m.typesetter.NextBreak(runes[:i], 0, measureWidth)
		if res.Width > x {
			mid := prev + (res.Width-prev)/2
			if x < mid {
				return cum[i-1]
			}
			return cum[i]
		}
		prev = res.Width
	}
	return cum[len(runes)]
}

// RectsFor returns the rectangles covering rng across fragments,
// without retypesetting anything.
func (m *Manager) RectsFor(rng textstore.Range) []base.Rect {
	m.owner.assert()
	var out []base.Rect
	startIdx, err := m.lineIndexAtOffset(rng.Location)
	if err != nil {
		return out
	}
	endIdx := startIdx
	if rng.Length > 0 {
		if li, err := m.lineIndexAtOffset(rng.End() - 1); err == nil {
			endIdx = li
		}
	}

	for li := startIdx; li <= endIdx; li++ {
		le, err := m.lines.AtIndex(li)
		if err != nil {
			break
		}
		line := le.Payload
		segStart := max(le.Offset, rng.Location)
		segEnd := min(le.Offset+le.Length, rng.End())
		if segEnd < segStart {
			continue
		}
		line.Fragments.Each(func(fe linestorage.Entry[LineFragment]) bool {
			fragStart := le.Offset + fe.Offset
			fragEnd := fragStart + fe.Length
			s := max(fragStart, segStart)
			e := min(fragEnd, segEnd)
			if e < s {
				return true
			}
			left := m.measureX(fragStart, s-fragStart)
			right := m.measureX(fragStart, e-fragStart)
			top := le.Y + fe.Y
			out = append(out, base.Rect{Left: left, Top: top, Right: right, Bottom: top + fe.Height})
			return true
		})
	}
	return out
}
