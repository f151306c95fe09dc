package buffer

import (
	"fmt"
	"unicode/utf8"
)

// utf8CharLen maps a leading byte to the length of its UTF-8 sequence.
var utf8CharLen = func() (t [256]int) {
	for i := range t {
		switch {
		case i >= 0xf0 && i <= 0xf4:
			t[i] = 4
		case i >= 0xe0 && i <= 0xef:
			t[i] = 3
		case i >= 0xc0 && i <= 0xdf:
			t[i] = 2
		default:
			t[i] = 1
		}
	}
	return t
}()

func isContinuation(c byte) bool {
	return c >= 0x80 && c <= 0xbf
}

// getPos steps offset characters from pos, backwards when offset is
// negative.
func (b *Buffer) getPos(pos, offset int) (int, error) {
	size := b.Size()
	if b.binary {
		result := pos + offset
		if result < 0 || result > size {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, result)
		}
		return result, nil
	}
	if offset >= 0 {
		for i := 0; i < offset; i++ {
			if pos >= size {
				return 0, fmt.Errorf("%w: end of buffer", ErrOutOfRange)
			}
			pos += utf8CharLen[b.byteAt(pos)]
			if pos > size {
				return 0, fmt.Errorf("%w: end of buffer", ErrOutOfRange)
			}
		}
		return pos, nil
	}
	for i := 0; i < -offset; i++ {
		pos--
		if pos < 0 {
			return 0, fmt.Errorf("%w: beginning of buffer", ErrOutOfRange)
		}
		for isContinuation(b.byteAt(pos)) {
			pos--
			if pos < 0 {
				return 0, fmt.Errorf("%w: beginning of buffer", ErrOutOfRange)
			}
		}
	}
	return pos, nil
}

// checkBoundary reports whether pos is a valid place for point.
func (b *Buffer) checkBoundary(pos int) error {
	if pos < 0 || pos > b.Size() {
		return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	if !b.binary && pos < b.Size() && isContinuation(b.byteAt(pos)) {
		return fmt.Errorf("%w: %d", ErrMidCharacter, pos)
	}
	return nil
}

// snapBoundary clamps pos into the buffer and backs it off to the start of
// the character it falls in.
func (b *Buffer) snapBoundary(pos int) int {
	pos = max(0, min(pos, b.Size()))
	if b.binary {
		return pos
	}
	for pos > 0 && pos < b.Size() && isContinuation(b.byteAt(pos)) {
		pos--
	}
	return pos
}

// CharAfter returns the character following pos, or "" at the end of the
// buffer. Binary buffers return single bytes.
func (b *Buffer) CharAfter(pos int) string {
	if pos < 0 || pos >= b.Size() {
		return ""
	}
	e, err := b.getPos(pos, 1)
	if err != nil {
		return ""
	}
	return b.substring(pos, e)
}

// CharBefore returns the character preceding pos, or "" at the beginning of
// the buffer.
func (b *Buffer) CharBefore(pos int) string {
	if pos <= 0 || pos > b.Size() {
		return ""
	}
	s, err := b.getPos(pos, -1)
	if err != nil {
		return ""
	}
	return b.substring(s, pos)
}

// ByteAfter returns the raw byte following pos.
func (b *Buffer) ByteAfter(pos int) (byte, bool) {
	if pos < 0 || pos >= b.Size() {
		return 0, false
	}
	return b.byteAt(pos), true
}

func (b *Buffer) ByteBefore(pos int) (byte, bool) {
	if pos <= 0 || pos > b.Size() {
		return 0, false
	}
	return b.byteAt(pos - 1), true
}

func (b *Buffer) runeAfter(pos int) rune {
	s := b.CharAfter(pos)
	if s == "" {
		return utf8.RuneError
	}
	if b.binary {
		return rune(s[0])
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func (b *Buffer) runeBefore(pos int) rune {
	s := b.CharBefore(pos)
	if s == "" {
		return utf8.RuneError
	}
	if b.binary {
		return rune(s[0])
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
