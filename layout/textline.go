package layout

// TextLine is one LineStorage payload: a logical line's stable identity
// plus its (possibly stale) fragment set.
//
// Grounded on skia/paragraph/text_line.go and text_wrapper.go, which
// track a line's trailing whitespace separately from its rendered
// extent: textExcludingSpaces, text, and textIncludingNewlines. A
// TextLine's within-line content is split the same way, via
// ContentLength/TrailingSpaceLength/TerminatorLength below, so a caret
// at true end-of-line can be told apart from one at the last visible
// glyph.
type TextLine struct {
	// ID is preserved across edits that split, merge, or simply shift
	// this line.
	ID uint64

	Fragments *LineFragmentStore

	// Metrics is the ascent/descent/leading roll-up across this line's
	// fragments, refreshed on every produceFragments call.
	Metrics LineMetrics

	// NeedsLayout is true until the next layoutLines call that covers
	// this line retypesets it.
	NeedsLayout bool

	// ContentLength is the within-line code-unit offset of
	// textExcludingSpaces' end: the line's content with trailing
	// whitespace and its line terminator both stripped.
	ContentLength int

	// TrailingSpaceLength is the code-unit length of the run of
	// horizontal whitespace, if any, between ContentLength and the
	// line's terminator.
	TrailingSpaceLength int

	// TerminatorLength is the code-unit length of this line's own
	// line-ending sequence (LF, CR, or CRLF); 0 for a terminal line
	// with no trailing break.
	TerminatorLength int
}

// ContentEnd returns the within-line offset immediately after the
// line's last non-whitespace, non-terminator rune — skia's
// textExcludingSpaces.
func (l *TextLine) ContentEnd() int { return l.ContentLength }

// VisibleEnd returns the within-line offset immediately after the
// line's trailing whitespace but before its terminator — skia's text,
// and the offset a caret at true end-of-line should use.
func (l *TextLine) VisibleEnd() int { return l.ContentLength + l.TrailingSpaceLength }
