package layout

import (
	"testing"

	"github.com/halfmoon-text/lineengine/attachment"
	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/linestorage"
	"github.com/halfmoon-text/lineengine/render"
	"github.com/halfmoon-text/lineengine/textstore"
	"github.com/halfmoon-text/lineengine/typeset"
)

// stubTypesetter always consumes the whole slice handed to it as a
// single fragment, ignoring constrainingWidth — sufficient for tests
// that exercise line/height bookkeeping rather than wrapping.
type stubTypesetter struct {
	ascent, descent base.Scalar
}

func (s stubTypesetter) NextBreak(text []rune, startOffset int, constrainingWidth base.Scalar) typeset.Result {
	if startOffset >= len(text) {
		return typeset.Result{BreakOffset: startOffset, Ascent: s.ascent, Descent: s.descent}
	}
	return typeset.Result{
		BreakOffset: len(text),
		Ascent:      s.ascent,
		Descent:     s.descent,
		Width:       base.Scalar(len(text) - startOffset),
	}
}

func newTestManager(t *testing.T, initial string) (*Manager, *textstore.Store) {
	t.Helper()
	store := textstore.New(initial)
	m := NewManager(store, stubTypesetter{ascent: 3, descent: 1}, attachment.New(), Config{
		ConstrainingWidth: 1000,
		Policy:            typeset.Character,
		BaseLineHeight:    4,
	})
	return m, store
}

func TestInsertSplittingLineIntroducesNewLine(t *testing.T) {
	m, store := newTestManager(t, "A\nB\nC\nD")
	if got := m.LineCount(); got != 4 {
		t.Fatalf("initial LineCount = %d, want 4", got)
	}
	if err := store.ReplaceCharacters(textstore.Range{Location: 6, Length: 0}, "\nE"); err != nil {
		t.Fatal(err)
	}
	if got := m.LineCount(); got != 5 {
		t.Fatalf("LineCount after insert = %d, want 5", got)
	}
	if got := m.lines.TotalLength(); got != 9 {
		t.Fatalf("TotalLength after insert = %d, want 9", got)
	}
}

func TestDeleteSpanningLinesMergesThem(t *testing.T) {
	m, store := newTestManager(t, "A\nB\nC\nD")
	if err := store.ReplaceCharacters(textstore.Range{Location: 5, Length: 2}, ""); err != nil {
		t.Fatal(err)
	}
	if got := m.LineCount(); got != 3 {
		t.Fatalf("LineCount after delete = %d, want 3", got)
	}
	if got := m.lines.TotalLength(); got != 5 {
		t.Fatalf("TotalLength after delete = %d, want 5", got)
	}
}

func TestCRLFReplacementCountsAsOneLineBreak(t *testing.T) {
	m, store := newTestManager(t, "A\nB\nC\nD")
	if err := store.ReplaceCharacters(textstore.Range{Location: 0, Length: 7}, "A\r\nB\nC\r"); err != nil {
		t.Fatal(err)
	}
	if got := m.LineCount(); got != 4 {
		t.Fatalf("LineCount after CRLF replace = %d, want 4", got)
	}
}

func TestRenderDelegateHeightOverrideSurvivesInsert(t *testing.T) {
	store := textstore.New("A\nB\nC\nD")
	delegate := &forcedHeightDelegate{height: 2}
	m := NewManager(store, stubTypesetter{ascent: 3, descent: 1}, attachment.New(), Config{
		ConstrainingWidth: 1000,
		Policy:            typeset.Character,
		BaseLineHeight:    4,
		Delegate:          delegate,
	})
	m.LayoutLines(base.Rect{Top: 0, Bottom: 1 << 20})
	if got := m.lines.TotalHeight(); got != 8 {
		t.Fatalf("TotalHeight after forcing 2.0/line over 4 lines = %v, want 8", got)
	}

	if err := store.ReplaceCharacters(textstore.Range{Location: 0, Length: 0}, "0\n1\r\n2\r"); err != nil {
		t.Fatal(err)
	}
	if got := m.LineCount(); got != 7 {
		t.Fatalf("LineCount after insert = %d, want 7", got)
	}
	m.LayoutLines(base.Rect{Top: 0, Bottom: 1 << 20})
	if got := m.lines.TotalHeight(); got != 14 {
		t.Fatalf("TotalHeight after relayout = %v, want 14", got)
	}
}

type forcedHeightDelegate struct{ height base.Scalar }

func (d *forcedHeightDelegate) PrepareForDisplay(ctx render.PrepareContext, f render.FragmentHeights) {
	for i := 0; i < f.FragmentCount(); i++ {
		cur, err := f.Height(i)
		if err != nil {
			continue
		}
		_ = f.UpdateHeight(i, d.height-cur)
	}
}

func (d *forcedHeightDelegate) EstimatedLineHeight() (base.Scalar, bool) { return d.height, true }

var _ render.Delegate = (*forcedHeightDelegate)(nil)

func TestIteratingEmptyLinesYieldsNoSkips(t *testing.T) {
	m, _ := newTestManager(t, "A\n\nB\n\nC")
	if got := m.LineCount(); got != 5 {
		t.Fatalf("LineCount = %d, want 5", got)
	}

	var seenByEach []int
	m.lines.Each(func(e linestorage.Entry[*TextLine]) bool {
		seenByEach = append(seenByEach, e.Index)
		return true
	})
	if len(seenByEach) != 5 {
		t.Fatalf("Each visited %d lines, want 5", len(seenByEach))
	}

	var seenByStartingAt []int
	m.lines.StartingAt(0, 1<<30, func(e linestorage.Entry[*TextLine]) bool {
		seenByStartingAt = append(seenByStartingAt, e.Index)
		return true
	})

	for _, seen := range [][]int{seenByEach, seenByStartingAt} {
		if len(seen) != 5 {
			t.Fatalf("iteration visited %d lines, want 5: %v", len(seen), seen)
		}
		for i, v := range seen {
			if v != i {
				t.Fatalf("line indices = %v, want 0,1,2,3,4 with no skips", seen)
			}
		}
	}
}

func TestTrailingWhitespaceSplitIsPopulated(t *testing.T) {
	m, _ := newTestManager(t, "A  \nBC")
	m.LayoutLines(base.Rect{Top: 0, Bottom: 1 << 20})

	first, err := m.lines.AtIndex(0)
	if err != nil {
		t.Fatalf("AtIndex(0): %v", err)
	}
	line := first.Payload
	if line.ContentLength != 1 {
		t.Fatalf("ContentLength = %d, want 1 (just %q)", line.ContentLength, "A")
	}
	if line.TrailingSpaceLength != 2 {
		t.Fatalf("TrailingSpaceLength = %d, want 2", line.TrailingSpaceLength)
	}
	if line.TerminatorLength != 1 {
		t.Fatalf("TerminatorLength = %d, want 1", line.TerminatorLength)
	}
	if got, want := line.ContentEnd(), 1; got != want {
		t.Fatalf("ContentEnd() = %d, want %d", got, want)
	}
	if got, want := line.VisibleEnd(), 3; got != want {
		t.Fatalf("VisibleEnd() = %d, want %d", got, want)
	}

	last, err := m.lines.AtIndex(1)
	if err != nil {
		t.Fatalf("AtIndex(1): %v", err)
	}
	if got := last.Payload.TerminatorLength; got != 0 {
		t.Fatalf("terminal line TerminatorLength = %d, want 0", got)
	}
}

func TestRectForLineEndDiffersFromLastGlyphWhenTrailingSpacePresent(t *testing.T) {
	m, _ := newTestManager(t, "A  \nBC")
	m.LayoutLines(base.Rect{Top: 0, Bottom: 1 << 20})

	lastGlyph := m.RectForOffset(1) // right after "A"
	lineEnd := m.RectForLineEnd(0)  // true end of line, after the trailing spaces
	if lineEnd.Left == lastGlyph.Left {
		t.Fatalf("RectForLineEnd = %+v, want a position past the last visible glyph at %+v", lineEnd, lastGlyph)
	}
}

func TestInvalidateLayoutForRangeMarksOnlyOverlappingLines(t *testing.T) {
	m, _ := newTestManager(t, "A\nB\nC\nD")
	m.LayoutLines(base.Rect{Top: 0, Bottom: 1 << 20})
	if m.NeedsLayout() {
		t.Fatalf("NeedsLayout after full layout = true, want false")
	}

	m.InvalidateLayoutForRange(textstore.Range{Location: 2, Length: 2})

	dirty := 0
	m.lines.Each(func(e linestorage.Entry[*TextLine]) bool {
		if e.Payload.NeedsLayout {
			dirty++
		}
		return true
	})
	if dirty != 1 {
		t.Fatalf("dirty lines after invalidating [2,4) = %d, want 1 (just the B line)", dirty)
	}
	if !m.NeedsLayout() {
		t.Fatalf("NeedsLayout after invalidate = false, want true")
	}
}
