package buffer

// Region is a span of logical offsets with Start <= End.
type Region struct {
	Start, End int
}

// NewRegion orders a and b into a Region.
func NewRegion(a, b int) Region {
	if a <= b {
		return Region{Start: a, End: b}
	}
	return Region{Start: b, End: a}
}

func (r Region) Contains(pos int) bool {
	return r.Start <= pos && pos <= r.End
}

func (r Region) Empty() bool {
	return r.Start == r.End
}

func (r Region) Len() int {
	return r.End - r.Start
}

// Region returns the span between point and the mark.
func (b *Buffer) Region() (Region, error) {
	m, err := b.Mark()
	if err != nil {
		return Region{}, err
	}
	return NewRegion(b.point, m), nil
}
