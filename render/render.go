// Package render defines the RenderDelegate capability: an optional
// override that lets a host customize line-fragment preparation and
// estimated line height without subclassing LayoutManager.
//
// Modeled as a capability trait the way ParagraphPainter is modeled
// (skia/paragraph/paragraph_painter.go) — a narrow interface a host
// implements, with a test double recording calls and forcing heights.
package render

import (
	"github.com/halfmoon-text/lineengine/attachment"
	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/textstore"
)

// PrepareContext is the information a Delegate receives about a line
// about to be typeset.
type PrepareContext struct {
	LineID       uint64
	Range        textstore.Range
	Text         string
	MarkedRanges []textstore.Range
	Attachments  []attachment.Entry
}

// FragmentHeights lets a Delegate override produced fragment heights by
// calling back into the owning LineFragmentStore. A delegate may adjust
// heights but must leave fragment ranges intact.
type FragmentHeights interface {
	// FragmentCount returns the number of fragments currently produced
	// for the line being prepared.
	FragmentCount() int
	// Height returns the fragment's current height, so a delegate that
	// wants to force an absolute value can compute the right delta.
	Height(index int) (base.Scalar, error)
	// UpdateHeight adjusts the height of the fragment at index i by
	// deltaHeight, leaving its range untouched.
	UpdateHeight(index int, deltaHeight base.Scalar) error
}

// Delegate is the RenderDelegate capability.
type Delegate interface {
	// PrepareForDisplay is invoked once a line's fragments have been
	// produced but before they are considered final; it may adjust
	// fragment heights via fragments.
	PrepareForDisplay(ctx PrepareContext, fragments FragmentHeights)

	// EstimatedLineHeight returns a custom baseline height for
	// never-typeset lines, or ok == false to defer to the engine's
	// default (base font) line height.
	EstimatedLineHeight() (height base.Scalar, ok bool)
}

// NoOp is a Delegate that does nothing, used when a host registers no
// delegate.
type NoOp struct{}

func (NoOp) PrepareForDisplay(PrepareContext, FragmentHeights) {}
func (NoOp) EstimatedLineHeight() (base.Scalar, bool)          { return 0, false }

var _ Delegate = NoOp{}
