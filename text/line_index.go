package text

import (
	"errors"
	"fmt"
	"slices"
)

// LineIndex maps byte offsets to line/column locations over a UTF-8 source
// buffer. Line numbers are 0-based; columns are byte columns.
type LineIndex struct {
	srcLen     ByteOffset
	lineStarts []ByteOffset
}

var errNilLineIndex = errors.New("nil LineIndex")

// NewLineIndex builds an index over src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []ByteOffset{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return &LineIndex{
		srcLen:     ByteOffset(len(src)),
		lineStarts: starts,
	}
}

// SourceLen returns the source length in bytes.
func (li *LineIndex) SourceLen() ByteOffset {
	if li == nil {
		return 0
	}
	return li.srcLen
}

// LineCount returns the number of logical lines in the source.
func (li *LineIndex) LineCount() int {
	if li == nil {
		return 0
	}
	return len(li.lineStarts)
}

// PointFor converts a byte offset to a line/byte-column point.
func (li *LineIndex) PointFor(off ByteOffset) (Point, error) {
	if li == nil {
		return Point{}, errNilLineIndex
	}
	if !off.IsValid() || off > li.srcLen {
		return Point{}, fmt.Errorf("offset out of range: %d", off)
	}

	line := li.lineForOffset(off)
	return Point{
		Line:   line,
		Column: int(off - li.lineStarts[line]),
	}, nil
}

// OffsetFor converts a line/byte-column point back to a byte offset.
func (li *LineIndex) OffsetFor(p Point) (ByteOffset, error) {
	if li == nil {
		return 0, errNilLineIndex
	}
	if p.Line < 0 || p.Line >= li.LineCount() {
		return 0, fmt.Errorf("line out of range: %d", p.Line)
	}
	if p.Column < 0 {
		return 0, fmt.Errorf("column out of range: %d", p.Column)
	}

	start := li.lineStarts[p.Line]
	end := li.srcLen
	if p.Line+1 < len(li.lineStarts) {
		end = li.lineStarts[p.Line+1]
	}
	off := start + ByteOffset(p.Column)
	if off > end {
		return 0, fmt.Errorf("column out of range: line=%d column=%d", p.Line, p.Column)
	}
	return off, nil
}

// RangeFor converts a span to a point range.
func (li *LineIndex) RangeFor(sp Span) (Range, error) {
	start, err := li.PointFor(sp.Start)
	if err != nil {
		return Range{}, err
	}
	end, err := li.PointFor(sp.End)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

func (li *LineIndex) lineForOffset(off ByteOffset) int {
	// largest i such that lineStarts[i] <= off
	i, found := slices.BinarySearch(li.lineStarts, off)
	if found {
		return i
	}
	return i - 1
}

// CountNewlines returns the number of line feeds in b.
func CountNewlines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
