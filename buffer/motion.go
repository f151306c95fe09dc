package buffer

import (
	"fmt"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// GotoChar moves point to pos, which must lie on a character boundary.
func (b *Buffer) GotoChar(pos int) error {
	if err := b.checkBoundary(pos); err != nil {
		return err
	}
	b.point = pos
	b.goalColumn = -1
	return nil
}

// ForwardChar moves point n characters forward, or backward when n is
// negative. Point is unchanged on error.
func (b *Buffer) ForwardChar(n int) error {
	pos, err := b.getPos(b.point, n)
	if err != nil {
		return err
	}
	b.point = pos
	b.goalColumn = -1
	return nil
}

func (b *Buffer) BackwardChar(n int) error {
	return b.ForwardChar(-n)
}

func (b *Buffer) lineStart(pos int) int {
	return b.lastIndexByte(pos, '\n') + 1
}

func (b *Buffer) lineEnd(pos int) int {
	if i := b.indexByte(pos, '\n'); i >= 0 {
		return i
	}
	return b.Size()
}

func (b *Buffer) BeginningOfLine() {
	b.point = b.lineStart(b.point)
	b.goalColumn = -1
}

func (b *Buffer) EndOfLine() {
	b.point = b.lineEnd(b.point)
	b.goalColumn = -1
}

func (b *Buffer) BeginningOfBuffer() {
	b.point = 0
	b.goalColumn = -1
}

func (b *Buffer) EndOfBuffer() {
	b.point = b.Size()
	b.goalColumn = -1
}

func (b *Buffer) BeginningOfLineP() bool   { return b.point == b.lineStart(b.point) }
func (b *Buffer) EndOfLineP() bool         { return b.point == b.lineEnd(b.point) }
func (b *Buffer) BeginningOfBufferP() bool { return b.point == 0 }
func (b *Buffer) EndOfBufferP() bool       { return b.point == b.Size() }

// CurrentLine returns the 1-based line number of point.
func (b *Buffer) CurrentLine() int {
	return b.countByte(0, b.point, '\n') + 1
}

// CurrentColumn returns the display width of the text between the start of
// the line and point.
func (b *Buffer) CurrentColumn() int {
	return b.columnAt(b.point)
}

func (b *Buffer) columnAt(pos int) int {
	bol := b.lineStart(pos)
	if b.binary {
		return pos - bol
	}
	return runewidth.StringWidth(b.substring(bol, pos))
}

// columnPos returns the offset on the line starting at bol whose display
// column is closest to col without passing it.
func (b *Buffer) columnPos(bol, col int) int {
	pos, width := bol, 0
	for pos < b.Size() {
		r := b.runeAfter(pos)
		if r == '\n' {
			break
		}
		w := runewidth.RuneWidth(r)
		if b.binary {
			w = 1
		}
		if width+w > col {
			break
		}
		width += w
		next, err := b.getPos(pos, 1)
		if err != nil {
			break
		}
		pos = next
	}
	return pos
}

func (b *Buffer) goal() int {
	if b.goalColumn < 0 {
		return b.CurrentColumn()
	}
	return b.goalColumn
}

// NextLine moves point n lines down, keeping the display column of the
// first vertical motion in a run.
func (b *Buffer) NextLine(n int) error {
	if n < 0 {
		return b.PreviousLine(-n)
	}
	col := b.goal()
	pos := b.point
	for i := 0; i < n; i++ {
		e := b.indexByte(pos, '\n')
		if e < 0 {
			return fmt.Errorf("%w: end of buffer", ErrOutOfRange)
		}
		pos = e + 1
	}
	if n > 0 {
		b.point = b.columnPos(pos, col)
	}
	b.goalColumn = col
	return nil
}

func (b *Buffer) PreviousLine(n int) error {
	if n < 0 {
		return b.NextLine(-n)
	}
	col := b.goal()
	pos := b.lineStart(b.point)
	for i := 0; i < n; i++ {
		if pos == 0 {
			return fmt.Errorf("%w: beginning of buffer", ErrOutOfRange)
		}
		pos = b.lineStart(pos - 1)
	}
	if n > 0 {
		b.point = b.columnPos(pos, col)
	}
	b.goalColumn = col
	return nil
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func (b *Buffer) forwardWordPos(pos, n int) int {
	size := b.Size()
	step := func(p int) int {
		next, err := b.getPos(p, 1)
		if err != nil {
			return size
		}
		return next
	}
	for i := 0; i < n; i++ {
		for pos < size && !isWordRune(b.runeAfter(pos)) {
			pos = step(pos)
		}
		for pos < size && isWordRune(b.runeAfter(pos)) {
			pos = step(pos)
		}
	}
	return pos
}

func (b *Buffer) backwardWordPos(pos, n int) int {
	step := func(p int) int {
		prev, err := b.getPos(p, -1)
		if err != nil {
			return 0
		}
		return prev
	}
	for i := 0; i < n; i++ {
		for pos > 0 && !isWordRune(b.runeBefore(pos)) {
			pos = step(pos)
		}
		for pos > 0 && isWordRune(b.runeBefore(pos)) {
			pos = step(pos)
		}
	}
	return pos
}

// ForwardWord moves point to the end of the nth word after it.
func (b *Buffer) ForwardWord(n int) {
	if n < 0 {
		b.BackwardWord(-n)
		return
	}
	b.point = b.forwardWordPos(b.point, n)
	b.goalColumn = -1
}

// BackwardWord moves point to the start of the nth word before it.
func (b *Buffer) BackwardWord(n int) {
	if n < 0 {
		b.ForwardWord(-n)
		return
	}
	b.point = b.backwardWordPos(b.point, n)
	b.goalColumn = -1
}
