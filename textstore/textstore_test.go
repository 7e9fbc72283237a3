package textstore

import "testing"

type recorder struct {
	deltas []EditDelta
}

func (r *recorder) Changed(d EditDelta) { r.deltas = append(r.deltas, d) }

func TestReplaceCharactersNotifiesDelta(t *testing.T) {
	s := New("A\nB\nC\nD")
	rec := &recorder{}
	s.Subscribe(rec)

	if err := s.ReplaceCharacters(Range{Location: 6, Length: 0}, "\nE"); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}
	if s.String() != "A\nB\nC\n\nED" {
		t.Fatalf("String() = %q", s.String())
	}
	if len(rec.deltas) != 1 {
		t.Fatalf("got %d notifications, want 1", len(rec.deltas))
	}
	if rec.deltas[0].Delta != 2 {
		t.Fatalf("delta = %d, want 2", rec.deltas[0].Delta)
	}
}

func TestAttributeLookupAndShift(t *testing.T) {
	s := New("hello world")
	s.SetAttribute(Range{Location: 0, Length: 5}, "bold", true)

	if v, ok := s.Attribute("bold", 2); !ok || v != true {
		t.Fatalf("Attribute(bold, 2) = %v, %v", v, ok)
	}
	if _, ok := s.Attribute("bold", 6); ok {
		t.Fatalf("Attribute(bold, 6) unexpectedly found")
	}

	// insert 3 chars before the span: span should shift right by 3.
	if err := s.ReplaceCharacters(Range{Location: 0, Length: 0}, "XXX"); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}
	if _, ok := s.Attribute("bold", 2); ok {
		t.Fatalf("Attribute(bold, 2) should no longer be covered after shift")
	}
	if v, ok := s.Attribute("bold", 5); !ok || v != true {
		t.Fatalf("Attribute(bold, 5) after shift = %v, %v", v, ok)
	}
}

func TestAttributedSubstringClamps(t *testing.T) {
	s := New("abc")
	if got := s.AttributedSubstring(Range{Location: 1, Length: 100}); got != "bc" {
		t.Fatalf("AttributedSubstring clamped = %q, want %q", got, "bc")
	}
}
