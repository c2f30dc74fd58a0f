package source

import (
	"fmt"
)

// Span is a byte range inside one file of a FileSet.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Slice returns the n bytes that start off bytes into s, clipped to s.
// Used to point at one digit inside a number line.
func (s Span) Slice(off, n int) Span {
	size := int(s.Len())
	off = min(max(off, 0), size)
	n = min(max(n, 0), size-off)
	return Span{
		File:  s.File,
		Start: s.Start + uint32(off),   //nolint:gosec // G115: clipped to s
		End:   s.Start + uint32(off+n), //nolint:gosec // G115: clipped to s
	}
}
