package text

import "testing"

func TestSpanValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		span    Span
		wantErr bool
	}{
		{"valid", Span{Start: 1, End: 3}, false},
		{"empty", Span{Start: 2, End: 2}, false},
		{"inverted", Span{Start: 3, End: 2}, true},
		{"negative start", Span{Start: -1, End: 2}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.span.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	t.Parallel()

	s := Span{Start: 2, End: 5}
	if !s.Contains(2) {
		t.Fatal("start offset should be contained")
	}
	if s.Contains(5) {
		t.Fatal("end offset should not be contained (half-open)")
	}
	if s.Contains(1) {
		t.Fatal("offset before start should not be contained")
	}
}

func TestSpanIntersects(t *testing.T) {
	t.Parallel()

	a := Span{Start: 0, End: 3}
	if !a.Intersects(Span{Start: 2, End: 4}) {
		t.Fatal("overlapping spans should intersect")
	}
	if a.Intersects(Span{Start: 3, End: 5}) {
		t.Fatal("touching spans should not intersect")
	}
}
