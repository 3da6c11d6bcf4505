package text

import "fmt"

// Edit describes a single contiguous replacement: the bytes in
// [Start, OldEnd) of the old source were replaced by the bytes in
// [Start, NewEnd) of the new source.
type Edit struct {
	Start  ByteOffset
	OldEnd ByteOffset
	NewEnd ByteOffset
}

// Validate checks the descriptor's internal consistency.
func (e Edit) Validate() error {
	if !e.Start.IsValid() {
		return fmt.Errorf("invalid edit start: %d", e.Start)
	}
	if e.OldEnd < e.Start {
		return fmt.Errorf("invalid edit bounds: old end (%d) < start (%d)", e.OldEnd, e.Start)
	}
	if e.NewEnd < e.Start {
		return fmt.Errorf("invalid edit bounds: new end (%d) < start (%d)", e.NewEnd, e.Start)
	}
	return nil
}

// ValidateFor checks the descriptor against old and new source lengths.
func (e Edit) ValidateFor(oldLen, newLen int) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if int(e.OldEnd) > oldLen {
		return fmt.Errorf("edit old end %d exceeds old source length %d", e.OldEnd, oldLen)
	}
	if int(e.NewEnd) > newLen {
		return fmt.Errorf("edit new end %d exceeds new source length %d", e.NewEnd, newLen)
	}
	return nil
}

// IsNoop reports whether the edit touches zero bytes.
func (e Edit) IsNoop() bool {
	return e.Start == e.OldEnd && e.OldEnd == e.NewEnd
}

// Delta returns the signed byte-length change the edit introduces.
func (e Edit) Delta() ByteOffset {
	return e.NewEnd - e.OldEnd
}

// OldSpan returns the replaced range in old-source coordinates.
func (e Edit) OldSpan() Span {
	return Span{Start: e.Start, End: e.OldEnd}
}

// NewSpan returns the replacement range in new-source coordinates.
func (e Edit) NewSpan() Span {
	return Span{Start: e.Start, End: e.NewEnd}
}

// MapOffset translates an old-source offset into new-source coordinates.
// Offsets inside the replaced range clamp to the edit start.
func (e Edit) MapOffset(off ByteOffset) ByteOffset {
	switch {
	case off <= e.Start:
		return off
	case off < e.OldEnd:
		return e.Start
	default:
		return off + e.Delta()
	}
}

// Apply replaces [Start, OldEnd) in src with replacement and returns the new
// buffer. The replacement must be NewEnd-Start bytes long.
func (e Edit) Apply(src, replacement []byte) ([]byte, error) {
	if err := e.ValidateFor(len(src), int(e.Start)+len(replacement)); err != nil {
		return nil, err
	}
	if ByteOffset(len(replacement)) != e.NewEnd-e.Start {
		return nil, fmt.Errorf("replacement length %d does not match edit span %s", len(replacement), e.NewSpan())
	}
	out := make([]byte, 0, len(src)+len(replacement)-int(e.OldEnd-e.Start))
	out = append(out, src[:e.Start]...)
	out = append(out, replacement...)
	out = append(out, src[e.OldEnd:]...)
	return out, nil
}

func (e Edit) String() string {
	return fmt.Sprintf("edit{start=%d oldEnd=%d newEnd=%d}", e.Start, e.OldEnd, e.NewEnd)
}
