package buffer

import (
	"bytes"
	"fmt"
)

// gapGrowth is the slack added on top of the requested size whenever the
// gap has to grow.
const gapGrowth = 256

func (b *Buffer) gapSize() int {
	return b.gapEnd - b.gapStart
}

// Size returns the logical size of the content in bytes.
func (b *Buffer) Size() int {
	return len(b.contents) - b.gapSize()
}

func (b *Buffer) userToGap(pos int) int {
	if pos <= b.gapStart {
		return pos
	}
	return pos + b.gapSize()
}

func (b *Buffer) gapToUser(gpos int) (int, error) {
	switch {
	case gpos < 0 || gpos > len(b.contents):
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, gpos)
	case gpos <= b.gapStart:
		return gpos, nil
	case gpos >= b.gapEnd:
		return gpos - b.gapSize(), nil
	default:
		return 0, fmt.Errorf("%w: %d is in the gap", ErrOutOfRange, gpos)
	}
}

// adjustGap moves the gap to the logical offset pos and makes sure it can
// hold at least minSize bytes. It is the only place content bytes move.
func (b *Buffer) adjustGap(minSize, pos int) {
	switch {
	case pos > b.gapStart:
		n := pos - b.gapStart
		copy(b.contents[b.gapStart:], b.contents[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	case pos < b.gapStart:
		n := b.gapStart - pos
		copy(b.contents[b.gapEnd-n:b.gapEnd], b.contents[pos:b.gapStart])
		b.gapStart -= n
		b.gapEnd -= n
	}
	if b.gapSize() < minSize {
		extra := minSize + gapGrowth
		grown := make([]byte, len(b.contents)+extra)
		copy(grown, b.contents[:b.gapEnd])
		copy(grown[b.gapEnd+extra:], b.contents[b.gapEnd:])
		b.contents = grown
		b.gapEnd += extra
	}
}

// byteAt returns the byte following the logical offset pos.
func (b *Buffer) byteAt(pos int) byte {
	if pos < b.gapStart {
		return b.contents[pos]
	}
	return b.contents[pos+b.gapSize()]
}

// substring assumes 0 <= s <= e <= Size().
func (b *Buffer) substring(s, e int) string {
	if s > b.gapStart || e <= b.gapStart {
		return string(b.contents[b.userToGap(s):b.userToGap(e)])
	}
	n := b.gapStart - s
	return string(b.contents[s:b.gapStart]) + string(b.contents[b.gapEnd:b.gapEnd+e-s-n])
}

// Substring returns the content between the logical offsets s and e.
func (b *Buffer) Substring(s, e int) (string, error) {
	if s < 0 || e > b.Size() || s > e {
		return "", fmt.Errorf("%w: [%d, %d)", ErrOutOfRange, s, e)
	}
	return b.substring(s, e), nil
}

// indexByte returns the logical offset of the first c at or after pos, or
// -1.
func (b *Buffer) indexByte(pos int, c byte) int {
	if pos < b.gapStart {
		if i := bytes.IndexByte(b.contents[pos:b.gapStart], c); i >= 0 {
			return pos + i
		}
		pos = b.gapStart
	}
	if i := bytes.IndexByte(b.contents[pos+b.gapSize():], c); i >= 0 {
		return pos + i
	}
	return -1
}

// lastIndexByte returns the logical offset of the last c before pos, or -1.
func (b *Buffer) lastIndexByte(pos int, c byte) int {
	if pos > b.gapStart {
		if i := bytes.LastIndexByte(b.contents[b.gapEnd:b.userToGap(pos)], c); i >= 0 {
			return b.gapStart + i
		}
		pos = b.gapStart
	}
	return bytes.LastIndexByte(b.contents[:pos], c)
}

func (b *Buffer) countByte(s, e int, c byte) int {
	sep := []byte{c}
	if e <= b.gapStart || s > b.gapStart {
		return bytes.Count(b.contents[b.userToGap(s):b.userToGap(e)], sep)
	}
	return bytes.Count(b.contents[s:b.gapStart], sep) +
		bytes.Count(b.contents[b.gapEnd:b.userToGap(e)], sep)
}
