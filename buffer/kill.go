package buffer

import (
	"fmt"

	"textcore/killring"
)

// KillRing returns the ring used by kill and yank commands.
func (b *Buffer) KillRing() *killring.Ring {
	if b.killRing == nil {
		b.killRing = killring.Default()
	}
	return b.killRing
}

// CopyRegion saves the text between s and e on the kill ring. With
// appendKill the text extends the current entry instead.
func (b *Buffer) CopyRegion(s, e int, appendKill bool) error {
	r := NewRegion(s, e)
	str, err := b.Substring(r.Start, r.End)
	if err != nil {
		return err
	}
	ring := b.KillRing()
	if appendKill && ring.Len() > 0 {
		return ring.AppendCurrent(str)
	}
	ring.Push(str)
	return nil
}

// KillRegion copies the text between s and e to the kill ring and deletes
// it.
func (b *Buffer) KillRegion(s, e int, appendKill bool) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	r := NewRegion(s, e)
	if err := b.checkBoundary(r.Start); err != nil {
		return err
	}
	if err := b.checkBoundary(r.End); err != nil {
		return err
	}
	if err := b.CopyRegion(r.Start, r.End, appendKill); err != nil {
		return err
	}
	return b.DeleteRegion(r.Start, r.End)
}

// KillLine kills the rest of the current line, or the newline itself when
// point is already at the end of a line.
func (b *Buffer) KillLine(appendKill bool) error {
	if b.EndOfBufferP() {
		return fmt.Errorf("%w: end of buffer", ErrOutOfRange)
	}
	e := b.lineEnd(b.point)
	if e == b.point {
		e++
	}
	return b.KillRegion(b.point, e, appendKill)
}

// KillWord kills up to the end of the nth word after point.
func (b *Buffer) KillWord(n int, appendKill bool) error {
	var e int
	if n < 0 {
		e = b.backwardWordPos(b.point, -n)
	} else {
		e = b.forwardWordPos(b.point, n)
	}
	return b.KillRegion(b.point, e, appendKill)
}

// Yank inserts the current kill at point and sets the mark at the start of
// the inserted text.
func (b *Buffer) Yank() error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	ring := b.KillRing()
	ring.Sync()
	s, err := ring.Current(0)
	if err != nil {
		return err
	}
	if err := b.SetMark(b.point); err != nil {
		return err
	}
	if err := b.Insert(s); err != nil {
		return err
	}
	b.yankSeq = b.editSeq
	return nil
}

// YankPop replaces the text inserted by the preceding Yank or YankPop with
// the previous kill. Both edits undo as one step.
func (b *Buffer) YankPop() error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if b.yankSeq < 0 || b.yankSeq != b.editSeq || b.mark == nil {
		return ErrNotYank
	}
	s, err := b.KillRing().Current(1)
	if err != nil {
		return err
	}
	start := b.mark.location
	err = b.CompositeEdit(func() error {
		if err := b.DeleteRegion(start, b.point); err != nil {
			return err
		}
		return b.Insert(s)
	})
	if err != nil {
		return err
	}
	b.yankSeq = b.editSeq
	return nil
}
