package layout

import (
	"log"

	"github.com/halfmoon-text/lineengine/attachment"
	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/linestorage"
	"github.com/halfmoon-text/lineengine/render"
	"github.com/halfmoon-text/lineengine/textstore"
	"github.com/halfmoon-text/lineengine/typeset"
	"github.com/halfmoon-text/lineengine/unicodeprop"
)

// measureWidth stands in for "no width constraint" when the manager
// re-invokes the Typesetter purely to measure a prefix's glyph width for
// a geometry query (RectForOffset, RectsFor, TextOffsetAtPoint) rather
// than to find a break.
const measureWidth = base.Scalar(1 << 20)

// Config are the per-document settings a LayoutManager needs at
// construction: the wrap width, the line-break policy, the estimated
// line height used before a line is ever typeset, and an optional
// RenderDelegate.
type Config struct {
	ConstrainingWidth    base.Scalar
	Policy               typeset.Policy
	LineHeightMultiplier base.Scalar
	BaseLineHeight       base.Scalar
	Delegate             render.Delegate

	// Properties backs the Word policy's line-break boundary search.
	// Defaults to unicodeprop.NewDefault() when nil.
	Properties unicodeprop.Properties
}

// Manager is the LayoutManager: it owns a LineStorage keyed by
// TextLine, reacts to TextStore edits by patching that tree, and
// lazily typesets only the lines a supplied viewport needs.
//
// Grounded on skia/paragraph/paragraph_impl.go's ownership of lines and
// runs, but re-architected so Manager is the single owner other
// collaborators borrow from for the duration of a call, rather than
// holding back-references to them.
type Manager struct {
	store       *textstore.Store
	typesetter  typeset.Typesetter
	attachments *attachment.Index
	delegate    render.Delegate

	policy               typeset.Policy
	props                unicodeprop.Properties
	constrainingWidth    base.Scalar
	lineHeightMultiplier base.Scalar
	baseLineHeight       base.Scalar

	lines      *linestorage.Tree[*TextLine]
	nextLineID uint64
	dirtyCount int

	owner debugOwnerGoroutine
}

// NewManager seeds the line tree from store's current content and
// subscribes for future edits.
func NewManager(store *textstore.Store, ts typeset.Typesetter, attachments *attachment.Index, cfg Config) *Manager {
	if cfg.LineHeightMultiplier == 0 {
		cfg.LineHeightMultiplier = 1
	}
	delegate := cfg.Delegate
	if delegate == nil {
		delegate = render.NoOp{}
	}
	props := cfg.Properties
	if props == nil {
		props = unicodeprop.NewDefault()
	}
	m := &Manager{
		store:                store,
		typesetter:           ts,
		attachments:          attachments,
		delegate:             delegate,
		policy:               cfg.Policy,
		props:                props,
		constrainingWidth:    cfg.ConstrainingWidth,
		lineHeightMultiplier: cfg.LineHeightMultiplier,
		baseLineHeight:       cfg.BaseLineHeight,
		lines:                linestorage.NewEmpty[*TextLine](),
		owner:                newDebugOwnerGoroutine(),
	}
	for _, tok := range splitLines(store.String()) {
		line := m.newTextLine()
		m.lines.Insert(m.lines.Count(), line, textstore.UTF16Len(tok), 0)
		m.dirtyCount++
	}
	store.Subscribe(m)
	return m
}

func (m *Manager) newTextLine() *TextLine {
	m.nextLineID++
	return &TextLine{ID: m.nextLineID, Fragments: NewLineFragmentStore(), NeedsLayout: true}
}

func (m *Manager) lineIndexAtOffset(offset int) (int, error) {
	e, err := m.lines.AtOffset(offset)
	if err != nil {
		return 0, err
	}
	return e.Index, nil
}

// Changed implements textstore.Observer: it locates the old lines the
// edit touched, re-tokenizes the corresponding (now post-edit) span of
// text, and replaces them, preserving IDs positionally so a split's
// earlier half and a merge's surviving line keep the original line's
// ID.
func (m *Manager) Changed(delta textstore.EditDelta) {
	m.owner.assert()
	firstIdx, err := m.lineIndexAtOffset(delta.Range.Location)
	if err != nil {
		log.Printf("layout: edit at out-of-range offset %d ignored", delta.Range.Location)
		return
	}
	lastIdx := firstIdx
	if delta.Range.Length > 0 {
		if li, err := m.lineIndexAtOffset(delta.Range.End() - 1); err == nil {
			lastIdx = li
		}
	}

	first, err := m.lines.AtIndex(firstIdx)
	if err != nil {
		return
	}
	last, err := m.lines.AtIndex(lastIdx)
	if err != nil {
		return
	}

	spanStart := first.Offset
	spanNewLen := (last.Offset + last.Length - spanStart) + delta.Delta
	if spanNewLen < 0 {
		spanNewLen = 0
	}
	tokens := splitLines(m.store.AttributedSubstring(textstore.Range{Location: spanStart, Length: spanNewLen}))
	// A span short of the terminal line ends in a terminator, so its empty
	// trailing token is dropped; if the edit removed that terminator, the
	// following line merges into the span and is re-tokenized with it.
	for lastIdx < m.lines.Count()-1 {
		if tokens[len(tokens)-1] == "" {
			tokens = tokens[:len(tokens)-1]
			break
		}
		lastIdx++
		next, _ := m.lines.AtIndex(lastIdx)
		spanNewLen += next.Length
		tokens = splitLines(m.store.AttributedSubstring(textstore.Range{Location: spanStart, Length: spanNewLen}))
	}

	oldIDs := make([]uint64, lastIdx-firstIdx+1)
	for i := range oldIDs {
		e, _ := m.lines.AtIndex(firstIdx + i)
		oldIDs[i] = e.Payload.ID
		if e.Payload.NeedsLayout {
			m.dirtyCount--
		}
	}

	if _, err := m.lines.DeleteAt(firstIdx, lastIdx+1); err != nil {
		log.Printf("layout: edit handling failed to delete touched lines: %v", err)
		return
	}

	for i, tok := range tokens {
		var id uint64
		if i < len(oldIDs) {
			id = oldIDs[i]
		} else {
			m.nextLineID++
			id = m.nextLineID
		}
		line := &TextLine{ID: id, Fragments: NewLineFragmentStore(), NeedsLayout: true}
		if _, err := m.lines.Insert(firstIdx+i, line, textstore.UTF16Len(tok), 0); err != nil {
			log.Printf("layout: edit handling failed to insert line %d: %v", i, err)
			continue
		}
		m.dirtyCount++
	}

	m.attachments.HandleEdit(delta.Range, delta.Delta)

	if err := m.checkInvariants(); err != nil {
		m.handleInvariantViolation(err)
	}
}

// InvalidateLayoutForRange marks every line overlapping rng dirty
// without retypesetting, preserving heights until the next
// LayoutLines call.
func (m *Manager) InvalidateLayoutForRange(rng textstore.Range) {
	m.owner.assert()
	start, err := m.lineIndexAtOffset(rng.Location)
	if err != nil {
		return
	}
	end := start
	if rng.Length > 0 {
		if li, err := m.lineIndexAtOffset(rng.End() - 1); err == nil {
			end = li
		}
	}
	for i := start; i <= end; i++ {
		e, err := m.lines.AtIndex(i)
		if err != nil {
			break
		}
		if !e.Payload.NeedsLayout {
			e.Payload.NeedsLayout = true
			m.dirtyCount++
		}
	}
}

// InvalidateLayoutForRect marks every line overlapping rect dirty.
func (m *Manager) InvalidateLayoutForRect(rect base.Rect) {
	m.owner.assert()
	m.lines.StartingAt(rect.Top, rect.Bottom, func(e linestorage.Entry[*TextLine]) bool {
		if !e.Payload.NeedsLayout {
			e.Payload.NeedsLayout = true
			m.dirtyCount++
		}
		return true
	})
}

// LayoutLines retypesets every dirty line overlapping rect; its new
// height is folded into the tree via UpdateAt. Idempotent when nothing
// is dirty.
func (m *Manager) LayoutLines(rect base.Rect) []uint64 {
	m.owner.assert()
	var retypeset []uint64
	m.lines.StartingAt(rect.Top, rect.Bottom, func(e linestorage.Entry[*TextLine]) bool {
		line := e.Payload
		if !line.NeedsLayout {
			return true
		}
		before := line.Fragments.TotalHeight()
		m.produceFragments(line, e.Offset, e.Length)
		after := line.Fragments.TotalHeight()
		if d := after - before; d != 0 {
			if err := m.lines.UpdateAt(e.Index, 0, d); err != nil {
				log.Printf("layout: height update for line %d failed: %v", line.ID, err)
			}
		}
		line.NeedsLayout = false
		m.dirtyCount--
		retypeset = append(retypeset, line.ID)
		return true
	})
	return retypeset
}

// LineCount returns the number of lines, including the terminal line.
func (m *Manager) LineCount() int { m.owner.assert(); return m.lines.Count() }

// NeedsLayout reports whether any line is currently dirty.
func (m *Manager) NeedsLayout() bool { m.owner.assert(); return m.dirtyCount > 0 }

// LineStorage exposes the underlying tree for read-only geometry
// inspection; callers must not mutate it directly.
func (m *Manager) LineStorage() *linestorage.Tree[*TextLine] { m.owner.assert(); return m.lines }

// EstimateLineHeight returns the render delegate's override, if any,
// else the configured baseline.
func (m *Manager) EstimateLineHeight() base.Scalar {
	m.owner.assert()
	if h, ok := m.delegate.EstimatedLineHeight(); ok {
		return h
	}
	return m.baseLineHeight
}

// EstimatedHeight sums actual heights for laid-out lines and the
// estimate for dirty ones, without forcing layout.
func (m *Manager) EstimatedHeight() base.Scalar {
	m.owner.assert()
	var total base.Scalar
	m.lines.Each(func(e linestorage.Entry[*TextLine]) bool {
		if e.Payload.NeedsLayout {
			total += m.EstimateLineHeight()
		} else {
			total += e.Height
		}
		return true
	})
	return total
}
