package buffer

import (
	"fmt"
	"slices"
)

// A Mark is a logical offset that follows the text around it as the buffer
// is edited. Marks stay attached to their buffer until Delete is called.
type Mark struct {
	buffer   *Buffer
	location int
	deleted  bool
}

// NewMark attaches a mark at point.
func (b *Buffer) NewMark() *Mark {
	m := &Mark{buffer: b, location: b.point}
	b.marks = append(b.marks, m)
	return m
}

// NewMarkAt attaches a mark at pos.
func (b *Buffer) NewMarkAt(pos int) (*Mark, error) {
	if err := b.checkBoundary(pos); err != nil {
		return nil, err
	}
	m := b.NewMark()
	m.location = pos
	return m, nil
}

// Location returns the mark's offset. It panics on a deleted mark.
func (m *Mark) Location() int {
	m.mustBeLive()
	return m.location
}

func (m *Mark) SetLocation(pos int) error {
	m.mustBeLive()
	if err := m.buffer.checkBoundary(pos); err != nil {
		return err
	}
	m.location = pos
	return nil
}

func (m *Mark) Buffer() *Buffer { return m.buffer }
func (m *Mark) Deleted() bool   { return m.deleted }

// Delete detaches the mark from its buffer. Deleting twice is a no-op.
func (m *Mark) Delete() {
	if m.deleted {
		return
	}
	b := m.buffer
	if i := slices.Index(b.marks, m); i >= 0 {
		b.marks = slices.Delete(b.marks, i, i+1)
	}
	if b.mark == m {
		b.mark = nil
	}
	m.deleted = true
}

func (m *Mark) mustBeLive() {
	if m.deleted {
		panic(fmt.Sprintf("buffer: use of deleted mark (last at %d)", m.location))
	}
}

// A mark sitting exactly at pos stays before the inserted text.
func (b *Buffer) adjustMarksForInsert(pos, n int) {
	for _, m := range b.marks {
		if m.location > pos {
			m.location += n
		}
	}
}

func (b *Buffer) adjustMarksForDelete(s, e int) {
	for _, m := range b.marks {
		m.location = adjustForDelete(m.location, s, e)
	}
}

// adjustForDelete maps loc across the deletion of [s, e).
func adjustForDelete(loc, s, e int) int {
	if loc <= s {
		return loc
	}
	return max(s, loc-(e-s))
}

// SetMark sets the buffer's mark, the other end of the region, at pos.
func (b *Buffer) SetMark(pos int) error {
	if err := b.checkBoundary(pos); err != nil {
		return err
	}
	if b.mark == nil {
		b.mark = b.NewMark()
	}
	b.mark.location = pos
	return nil
}

// Mark returns the location of the buffer's mark.
func (b *Buffer) Mark() (int, error) {
	if b.mark == nil {
		return 0, ErrMarkNotSet
	}
	return b.mark.location, nil
}

func (b *Buffer) ExchangePointAndMark() error {
	if b.mark == nil {
		return ErrMarkNotSet
	}
	b.point, b.mark.location = b.mark.location, b.point
	b.goalColumn = -1
	return nil
}

// locationIn returns the mark's offset. It panics unless the mark is live
// and owned by b.
func (m *Mark) locationIn(b *Buffer) int {
	m.mustBeLive()
	if m.buffer != b {
		panic(fmt.Sprintf("buffer: mark belongs to buffer %q, not %q", m.buffer.Name, b.Name))
	}
	return m.location
}

func (b *Buffer) PointToMark(m *Mark) {
	b.point = m.locationIn(b)
	b.goalColumn = -1
}

func (b *Buffer) MarkToPoint(m *Mark) {
	m.locationIn(b)
	m.location = b.point
}

func (b *Buffer) PointAtMark(m *Mark) bool     { return b.point == m.locationIn(b) }
func (b *Buffer) PointBeforeMark(m *Mark) bool { return b.point < m.locationIn(b) }
func (b *Buffer) PointAfterMark(m *Mark) bool  { return b.point > m.locationIn(b) }

// SavePoint runs fn and then restores point, following any edits fn makes
// around it.
func (b *Buffer) SavePoint(fn func() error) error {
	saved := b.NewMark()
	defer func() {
		b.PointToMark(saved)
		saved.Delete()
	}()
	return fn()
}
