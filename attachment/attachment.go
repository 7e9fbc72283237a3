// Package attachment implements AttachmentIndex: a secondary store
// mapping non-overlapping character ranges to opaque attachment
// descriptors (inline images, widgets) and answering overlap queries
// for the typesetter.
//
// Grounded on Placeholder (skia/paragraph/placeholder.go),
// which is exactly "a character range with width/height/alignment that
// participates in layout", and on Range.Intersects/Contains
// (skia/paragraph/range.go) for the overlap arithmetic.
package attachment

import (
	"errors"
	"sort"

	"github.com/halfmoon-text/lineengine/textstore"
)

// ErrOverlapsExisting is returned by Insert when the new range overlaps
// an already-registered attachment.
var ErrOverlapsExisting = errors.New("attachment: range overlaps an existing attachment")

// Descriptor carries an attachment's intrinsic size and whether its
// character range is itself a placeholder substitution (e.g. a single
// object-replacement character standing in for an image).
type Descriptor struct {
	Width        float32
	Height       float32
	IsSubstitute bool
}

// Entry pairs a character range with its descriptor.
type Entry struct {
	Range      textstore.Range
	Descriptor Descriptor
}

func (e Entry) end() int { return e.Range.End() }

// Index is the AttachmentIndex. Entries are kept sorted by start offset
// and are non-overlapping by construction, so an overlap
// query can binary-search to the first candidate and scan only the k
// entries that actually intersect the query range.
type Index struct {
	entries []Entry
}

// New returns an empty Index.
func New() *Index { return &Index{} }

func (idx *Index) searchStart(at int) int {
	return sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].end() > at
	})
}

// Insert registers a new attachment over rng. Fails with
// ErrOverlapsExisting if rng overlaps any existing entry.
func (idx *Index) Insert(rng textstore.Range, d Descriptor) error {
	if rng.Length <= 0 {
		return errors.New("attachment: range must be non-empty")
	}
	i := idx.searchStart(rng.Location)
	if i < len(idx.entries) && idx.entries[i].Range.Location < rng.End() {
		return ErrOverlapsExisting
	}
	idx.entries = append(idx.entries, Entry{})
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = Entry{Range: rng, Descriptor: d}
	return nil
}

// Remove deletes the attachment whose range exactly equals rng, if any.
func (idx *Index) Remove(rng textstore.Range) {
	i := idx.searchStart(rng.Location)
	if i < len(idx.entries) && idx.entries[i].Range == rng {
		idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
	}
}

// Attachments returns every entry whose range intersects rng, in
// document order. O(log n + k).
func (idx *Index) Attachments(rng textstore.Range) []Entry {
	i := idx.searchStart(rng.Location)
	var out []Entry
	for ; i < len(idx.entries); i++ {
		e := idx.entries[i]
		if e.Range.Location >= rng.End() {
			break
		}
		out = append(out, e)
	}
	return out
}

// Len returns the number of registered attachments.
func (idx *Index) Len() int { return len(idx.entries) }

// HandleEdit adjusts attachment ranges for a TextStore edit: an edit
// fully inside an attachment destroys it, an edit overlapping its
// boundary deletes it, and an edit entirely before an attachment
// shifts its location by delta.
func (idx *Index) HandleEdit(edited textstore.Range, delta int) {
	out := idx.entries[:0]
	for _, e := range idx.entries {
		switch {
		case edited.End() <= e.Range.Location:
			// Edit entirely before: shift.
			e.Range.Location += delta
			out = append(out, e)
		case edited.Location >= e.Range.End():
			// Edit entirely after: untouched.
			out = append(out, e)
		default:
			// Overlaps the attachment's range (fully inside, or
			// crossing a boundary): destroy it.
		}
	}
	idx.entries = out
}
