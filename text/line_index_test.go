package text

import "testing"

func TestLineIndexPointFor(t *testing.T) {
	t.Parallel()

	li := NewLineIndex([]byte("ab\ncd\n\nx"))
	cases := []struct {
		off  ByteOffset
		want Point
	}{
		{0, Point{Line: 0, Column: 0}},
		{2, Point{Line: 0, Column: 2}},
		{3, Point{Line: 1, Column: 0}},
		{6, Point{Line: 2, Column: 0}},
		{7, Point{Line: 3, Column: 0}},
		{8, Point{Line: 3, Column: 1}}, // end of input
	}
	for _, tc := range cases {
		got, err := li.PointFor(tc.off)
		if err != nil {
			t.Fatalf("PointFor(%d) error = %v", tc.off, err)
		}
		if got != tc.want {
			t.Fatalf("PointFor(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}

	if _, err := li.PointFor(9); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestLineIndexRoundTrip(t *testing.T) {
	t.Parallel()

	src := []byte("one\ntwo\nthree")
	li := NewLineIndex(src)
	for off := ByteOffset(0); off <= ByteOffset(len(src)); off++ {
		p, err := li.PointFor(off)
		if err != nil {
			t.Fatalf("PointFor(%d) error = %v", off, err)
		}
		back, err := li.OffsetFor(p)
		if err != nil {
			t.Fatalf("OffsetFor(%+v) error = %v", p, err)
		}
		if back != off {
			t.Fatalf("round trip %d -> %+v -> %d", off, p, back)
		}
	}
}

func TestLineIndexEmptySource(t *testing.T) {
	t.Parallel()

	li := NewLineIndex(nil)
	if li.LineCount() != 1 {
		t.Fatalf("LineCount() = %d, want 1", li.LineCount())
	}
	p, err := li.PointFor(0)
	if err != nil {
		t.Fatalf("PointFor(0) error = %v", err)
	}
	if p != (Point{}) {
		t.Fatalf("PointFor(0) = %+v, want origin", p)
	}
}

func TestCountNewlines(t *testing.T) {
	t.Parallel()

	if n := CountNewlines([]byte("a\nb\n")); n != 2 {
		t.Fatalf("CountNewlines = %d, want 2", n)
	}
	if n := CountNewlines(nil); n != 0 {
		t.Fatalf("CountNewlines(nil) = %d, want 0", n)
	}
}
