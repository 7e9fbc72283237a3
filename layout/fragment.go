// Package layout implements TextLine, LineFragment, LineFragmentStore
// and LayoutManager: the component that reacts to TextStore edits,
// keeps the line tree's lengths and heights correct, and lazily
// typesets only the fragments a viewport actually needs.
//
// Grounded on the TextLine/TextWrapper pairing (skia/paragraph/text_line.go,
// skia/paragraph/text_wrapper.go): a TextLine there is a finished,
// immutable slice of Clusters; here it is a live, re-typesettable unit
// whose fragments are rebuilt on demand.
package layout

import (
	"github.com/halfmoon-text/lineengine/base"
	"github.com/halfmoon-text/lineengine/linestorage"
	"github.com/halfmoon-text/lineengine/render"
	"github.com/halfmoon-text/lineengine/textstore"
)

// LineFragment is one visible row within a line, produced by
// soft-wrapping. GlyphRun is an opaque handle owned exclusively by the
// fragment; this module never inspects it.
type LineFragment struct {
	Range        textstore.Range
	Width        base.Scalar
	Height       base.Scalar
	ScaledHeight base.Scalar
	Descent      base.Scalar
	GlyphRun     any
}

// LineFragmentStore is a line's ordered sequence of fragments, backed by
// the same balanced tree as LineStorage but keyed by fragment index
// within the line.
type LineFragmentStore struct {
	tree *linestorage.Tree[LineFragment]
}

// NewLineFragmentStore returns an empty store, the state of a line
// before its first typeset pass.
func NewLineFragmentStore() *LineFragmentStore {
	return &LineFragmentStore{tree: linestorage.NewEmpty[LineFragment]()}
}

// Append adds f as the new last fragment.
func (s *LineFragmentStore) Append(f LineFragment) {
	s.tree.Insert(s.tree.Count(), f, f.Range.Length, f.Height)
}

// Count returns the number of fragments.
func (s *LineFragmentStore) Count() int { return s.tree.Count() }

// TotalHeight returns the sum of all fragment heights — the line's
// height.
func (s *LineFragmentStore) TotalHeight() base.Scalar { return s.tree.TotalHeight() }

// At returns the i-th fragment.
func (s *LineFragmentStore) At(i int) (linestorage.Entry[LineFragment], error) {
	return s.tree.AtIndex(i)
}

// AtOffset returns the fragment whose within-line character range
// contains the code-unit offset within (relative to the line's start).
func (s *LineFragmentStore) AtOffset(within int) (linestorage.Entry[LineFragment], error) {
	return s.tree.AtOffset(within)
}

// AtPosition returns the fragment whose within-line y-interval contains
// y (relative to the line's own top).
func (s *LineFragmentStore) AtPosition(y base.Scalar) (linestorage.Entry[LineFragment], error) {
	return s.tree.AtPosition(y)
}

// Each iterates fragments in order.
func (s *LineFragmentStore) Each(fn func(linestorage.Entry[LineFragment]) bool) {
	s.tree.Each(fn)
}

// FragmentCount implements render.FragmentHeights.
func (s *LineFragmentStore) FragmentCount() int { return s.tree.Count() }

// Height implements render.FragmentHeights.
func (s *LineFragmentStore) Height(index int) (base.Scalar, error) {
	e, err := s.tree.AtIndex(index)
	if err != nil {
		return 0, err
	}
	return e.Height, nil
}

// UpdateHeight implements render.FragmentHeights: a delegate overriding
// a fragment's height post-typesetting.
func (s *LineFragmentStore) UpdateHeight(index int, deltaHeight base.Scalar) error {
	return s.tree.UpdateAt(index, 0, deltaHeight)
}

var _ render.FragmentHeights = (*LineFragmentStore)(nil)
