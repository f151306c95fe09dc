package buffer

import (
	"fmt"
	"regexp"
)

// searchPattern holds a pattern compiled twice with the pattern as group
// 1: once on its own, and once behind one character of left context so
// that ^, \b and \B see the text before the search start.
type searchPattern struct {
	plain   *regexp.Regexp
	context *regexp.Regexp
}

func compileSearch(pattern string) (*searchPattern, error) {
	return compilePattern(pattern, "")
}

func compileAnchored(pattern string) (*searchPattern, error) {
	return compilePattern(pattern, `\A`)
}

func compilePattern(pattern, prefix string) (*searchPattern, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	plain, err := regexp.Compile(`(?m)` + prefix + `(` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	context, err := regexp.Compile(`(?m)` + prefix + `(?s:.)(` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	return &searchPattern{plain: plain, context: context}, nil
}

// find matches text, whose first character is context for the search
// when withContext is set, and returns the offsets of the pattern's
// groups within text, whole match first.
func (p *searchPattern) find(text []byte, withContext bool) []int {
	re := p.plain
	if withContext {
		re = p.context
	}
	loc := re.FindSubmatchIndex(text)
	if loc == nil {
		return nil
	}
	return loc[2:]
}

// contextStart returns the start of the character before pos, or pos at
// the beginning of the buffer. Binary buffers get no context: a byte of
// a valid UTF-8 sequence would be read together with its neighbours.
func (b *Buffer) contextStart(pos int) int {
	if pos == 0 || b.binary {
		return pos
	}
	s, err := b.getPos(pos, -1)
	if err != nil {
		return pos
	}
	return s
}

// ReSearchForward searches for pattern from point and moves point to the
// end of the match. Point is unchanged when nothing matches.
func (b *Buffer) ReSearchForward(pattern string) error {
	p, err := compileSearch(pattern)
	if err != nil {
		return err
	}
	m, err := b.searchForward(p, b.point)
	if err != nil {
		return err
	}
	b.match = m
	b.point = m[1]
	b.goalColumn = -1
	return nil
}

// searchForward moves the gap in front of the character before pos and
// runs p over the storage after the gap, so the regexp only ever sees
// buffer content.
func (b *Buffer) searchForward(p *searchPattern, pos int) ([]int, error) {
	cs := b.contextStart(pos)
	b.adjustGap(0, cs)
	loc := p.find(b.contents[b.gapEnd:], cs < pos)
	if loc == nil {
		return nil, ErrSearchFailed
	}
	m, err := b.toLogical(loc, b.gapEnd)
	if err != nil {
		return nil, err
	}
	if c, ok := b.ByteAfter(m[1]); ok && !b.binary && isContinuation(c) {
		return nil, ErrSearchFailed
	}
	return m, nil
}

func (b *Buffer) toLogical(loc []int, base int) ([]int, error) {
	m := make([]int, len(loc))
	for i, g := range loc {
		if g < 0 {
			m[i] = -1
			continue
		}
		u, err := b.gapToUser(base + g)
		if err != nil {
			return nil, err
		}
		m[i] = u
	}
	return m, nil
}

// ReSearchBackward moves point to the start of the last match of pattern
// that begins before point.
func (b *Buffer) ReSearchBackward(pattern string) error {
	p, err := compileAnchored(pattern)
	if err != nil {
		return err
	}
	b.adjustGap(0, b.Size())
	text := b.contents[:b.gapStart]
	for s := b.point - 1; s >= 0; s-- {
		if !b.binary && isContinuation(text[s]) {
			continue
		}
		cs := b.contextStart(s)
		loc := p.find(text[cs:], cs < s)
		if loc == nil {
			continue
		}
		if e := cs + loc[1]; !b.binary && e < len(text) && isContinuation(text[e]) {
			continue
		}
		m, err := b.toLogical(loc, cs)
		if err != nil {
			return err
		}
		b.match = m
		b.point = m[0]
		b.goalColumn = -1
		return nil
	}
	return ErrSearchFailed
}

// LookingAt reports whether the text after point matches pattern and
// records the match.
func (b *Buffer) LookingAt(pattern string) (bool, error) {
	p, err := compileAnchored(pattern)
	if err != nil {
		return false, err
	}
	cs := b.contextStart(b.point)
	b.adjustGap(0, cs)
	loc := p.find(b.contents[b.gapEnd:], cs < b.point)
	if loc == nil {
		return false, nil
	}
	m, err := b.toLogical(loc, b.gapEnd)
	if err != nil {
		return false, err
	}
	b.match = m
	return true, nil
}

func (b *Buffer) matchGroup(n int) (int, int, error) {
	if b.match == nil {
		return 0, 0, ErrNoMatch
	}
	if n < 0 || 2*n+1 >= len(b.match) || b.match[2*n] < 0 {
		return 0, 0, fmt.Errorf("%w: group %d", ErrNoMatch, n)
	}
	return b.match[2*n], b.match[2*n+1], nil
}

// MatchBeginning returns the start of group n of the last match.
func (b *Buffer) MatchBeginning(n int) (int, error) {
	s, _, err := b.matchGroup(n)
	return s, err
}

func (b *Buffer) MatchEnd(n int) (int, error) {
	_, e, err := b.matchGroup(n)
	return e, err
}

func (b *Buffer) MatchString(n int) (string, error) {
	s, e, err := b.matchGroup(n)
	if err != nil {
		return "", err
	}
	return b.Substring(s, e)
}

// ReplaceMatch replaces the whole of the last match with s.
func (b *Buffer) ReplaceMatch(s string) error {
	ms, me, err := b.matchGroup(0)
	if err != nil {
		return err
	}
	if err := b.ReplaceRegion(ms, me, s); err != nil {
		return err
	}
	b.match = nil
	return nil
}
