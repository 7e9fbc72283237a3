package layout

import (
	"log"
	"unicode"

	"github.com/halfmoon-text/lineengine/attachment"
	"github.com/halfmoon-text/lineengine/render"
	"github.com/halfmoon-text/lineengine/textstore"
	"github.com/halfmoon-text/lineengine/typeset"
)

// produceFragments rebuilds line's entire fragment set from scratch,
// starting at the document offset lineStart and spanning lineLength
// code units: a line's fragment set is destroyed and recreated on any
// edit overlapping its range.
//
// Text is decoded to runes once and handed to the Typesetter in rune
// space — the idiomatic boundary for Go's grapheme segmenter — while
// TextLine/LineFragment ranges stay in the UTF-16 code units
// TextStore/AttachmentIndex use; codeUnitOffsets bridges the two
// coordinate spaces.
func (m *Manager) produceFragments(line *TextLine, lineStart, lineLength int) {
	text := m.store.AttributedSubstring(textstore.Range{Location: lineStart, Length: lineLength})
	runes := []rune(text)
	cum := codeUnitOffsets(runes)
	atts := m.attachments.Attachments(textstore.Range{Location: lineStart, Length: lineLength})

	line.ContentLength, line.TrailingSpaceLength, line.TerminatorLength = lineEndSplit(runes, cum)

	fresh := NewLineFragmentStore()
	metrics := NewLineMetrics()

	if len(runes) == 0 {
		res := m.typesetter.NextBreak(nil, 0, m.constrainingWidth)
		metrics.AddFragment(res.Ascent, res.Descent)
		fresh.Append(LineFragment{
			Range:   textstore.Range{Location: lineStart, Length: 0},
			Height:  m.lineHeight(res.Ascent, res.Descent),
			Descent: res.Descent,
		})
		line.Metrics = metrics
		m.finishFragments(line, fresh, lineStart, lineLength, text, atts)
		return
	}

	runePos := 0
	attIdx := 0
	for runePos < len(runes) {
		cuHere := lineStart + cum[runePos]
		for attIdx < len(atts) && atts[attIdx].Range.End() <= cuHere {
			attIdx++
		}
		if attIdx < len(atts) && atts[attIdx].Range.Location <= cuHere {
			a := atts[attIdx]
			fresh.Append(LineFragment{
				Range:   a.Range,
				Width:   a.Descriptor.Width,
				Height:  a.Descriptor.Height,
				Descent: a.Descriptor.Height,
			})
			runePos = runeIndexForCodeUnit(cum, a.Range.End()-lineStart)
			attIdx++
			continue
		}

		limitRune := len(runes)
		if attIdx < len(atts) {
			if next := runeIndexForCodeUnit(cum, atts[attIdx].Range.Location-lineStart); next < limitRune {
				limitRune = next
			}
		}

		res := typeset.Break(m.policy, m.typesetter, m.props, runes[:limitRune], runePos, m.constrainingWidth)
		breakRune := res.BreakOffset
		if breakRune <= runePos {
			// Typesetter made no progress: advance by one cluster so
			// the line always finishes, even if the typesetter reports no
			// progress on its own.
			log.Printf("layout: typesetter made no progress at rune offset %d in line %d; forcing a one-cluster advance", runePos, line.ID)
			breakRune = runePos + 1
			if b := m.props.GraphemeBoundaries(runes[runePos:limitRune]); len(b) > 1 {
				breakRune = runePos + b[1]
			}
			if breakRune > limitRune {
				breakRune = limitRune
			}
		}

		fragStart := lineStart + cum[runePos]
		fragEnd := lineStart + cum[breakRune]
		metrics.AddFragment(res.Ascent, res.Descent)
		fresh.Append(LineFragment{
			Range:        textstore.Range{Location: fragStart, Length: fragEnd - fragStart},
			Width:        res.Width,
			Height:       m.lineHeight(res.Ascent, res.Descent),
			ScaledHeight: m.lineHeight(res.Ascent, res.Descent),
			Descent:      res.Descent,
		})
		runePos = breakRune
	}

	line.Metrics = metrics
	m.finishFragments(line, fresh, lineStart, lineLength, text, atts)
}

// finishFragments lets the render delegate adjust fragment heights
// before the line's new fragment set becomes live.
func (m *Manager) finishFragments(line *TextLine, fresh *LineFragmentStore, lineStart, lineLength int, text string, atts []attachment.Entry) {
	ctx := render.PrepareContext{
		LineID:      line.ID,
		Range:       textstore.Range{Location: lineStart, Length: lineLength},
		Text:        text,
		Attachments: atts,
	}
	m.delegate.PrepareForDisplay(ctx, fresh)
	line.Fragments = fresh
}

func (m *Manager) lineHeight(ascent, descent float32) float32 {
	return (ascent + descent) * m.lineHeightMultiplier
}

// lineEndSplit finds, in code units, where a line's content ends
// (contentLen), how much trailing horizontal whitespace follows it
// before the terminator (trailingSpaceLen), and how long the
// terminator itself is (terminatorLen) — skia/paragraph's
// textExcludingSpaces/text/textIncludingNewlines split, computed over
// one already-decoded line (which, per splitLines, carries its own
// line-ending sequence at its end, if any).
func lineEndSplit(runes []rune, cum []int) (contentLen, trailingSpaceLen, terminatorLen int) {
	n := len(runes)
	end := n
	switch {
	case n >= 2 && runes[n-2] == '\r' && runes[n-1] == '\n':
		end = n - 2
	case n >= 1 && (runes[n-1] == '\n' || runes[n-1] == '\r'):
		end = n - 1
	}
	terminatorLen = cum[n] - cum[end]

	contentEnd := end
	for contentEnd > 0 && unicode.IsSpace(runes[contentEnd-1]) {
		contentEnd--
	}
	trailingSpaceLen = cum[end] - cum[contentEnd]
	contentLen = cum[contentEnd]
	return contentLen, trailingSpaceLen, terminatorLen
}
