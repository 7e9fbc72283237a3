package unicodeprop

import "testing"

func TestGraphemeBoundariesASCII(t *testing.T) {
	d := NewDefault()
	text := []rune("hello")
	bounds := d.GraphemeBoundaries(text)
	if bounds[0] != 0 || bounds[len(bounds)-1] != len(text) {
		t.Fatalf("GraphemeBoundaries(%q) = %v, want to start at 0 and end at %d", string(text), bounds, len(text))
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			t.Fatalf("GraphemeBoundaries(%q) not strictly increasing: %v", string(text), bounds)
		}
	}
}

func TestLineBreakOpportunitiesIncludesEnd(t *testing.T) {
	d := NewDefault()
	text := []rune("hello world")
	bounds := d.LineBreakOpportunities(text)
	if len(bounds) == 0 {
		t.Fatalf("LineBreakOpportunities(%q) returned none", string(text))
	}
	if bounds[len(bounds)-1] != len(text) {
		t.Fatalf("LineBreakOpportunities(%q) = %v, want last entry %d", string(text), bounds, len(text))
	}
}

func TestIsWideASCIIFalse(t *testing.T) {
	d := NewDefault()
	if d.IsWide('a') {
		t.Fatalf("IsWide('a') = true, want false")
	}
}

func TestIsWideFullwidthTrue(t *testing.T) {
	d := NewDefault()
	// U+FF21 FULLWIDTH LATIN CAPITAL LETTER A
	if !d.IsWide(0xFF21) {
		t.Fatalf("IsWide(FULLWIDTH A) = false, want true")
	}
}
