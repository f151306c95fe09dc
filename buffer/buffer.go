package buffer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"textcore/killring"
)

// FileFormat is the line-ending convention of the visited file. Content is
// always held with bare "\n" line endings.
type FileFormat int

const (
	FormatUnix FileFormat = iota
	FormatDOS
	FormatMac
)

func (f FileFormat) String() string {
	switch f {
	case FormatDOS:
		return "dos"
	case FormatMac:
		return "mac"
	default:
		return "unix"
	}
}

func (f FileFormat) newline() string {
	switch f {
	case FormatDOS:
		return "\r\n"
	case FormatMac:
		return "\r"
	default:
		return "\n"
	}
}

const (
	EncodingUTF8   = "UTF-8"
	EncodingBinary = "ASCII-8BIT"

	DefaultUndoLimit = 1000
)

// Buffer is a gap buffer holding UTF-8 text (or raw bytes when binary).
// A Buffer, its marks and its undo log must be used from one goroutine at
// a time.
type Buffer struct {
	Name               string
	FileName           string
	FileEncoding       string
	FileFormat         FileFormat
	Language           string
	ReadOnly           bool
	ExternallyModified bool      // visited file changed on disk while the buffer had unsaved changes
	LastSaveTime       time.Time // modification time of the visited file as last read or written

	contents []byte
	gapStart int
	gapEnd   int
	point    int
	binary   bool

	marks []*Mark
	mark  *Mark

	undo     undoLog
	modified bool
	version  int

	goalColumn int
	match      []int

	killRing  *killring.Ring
	encodings []string
	editSeq   int
	yankSeq   int
}

// Option configures a Buffer built by New or Open.
type Option func(*Buffer)

func WithName(name string) Option {
	return func(b *Buffer) { b.Name = name }
}

func WithFileName(name string) Option {
	return func(b *Buffer) { b.FileName = name }
}

// WithFileEncoding sets the encoding used when saving. EncodingBinary makes
// the buffer byte-oriented.
func WithFileEncoding(enc string) Option {
	return func(b *Buffer) { b.FileEncoding = enc }
}

// WithFileEncodings sets the candidate encodings Open probes, in priority
// order.
func WithFileEncodings(encs []string) Option {
	return func(b *Buffer) { b.encodings = encs }
}

// WithUndoLimit bounds the undo stack. Zero disables undo recording.
func WithUndoLimit(n int) Option {
	return func(b *Buffer) { b.undo.limit = n }
}

// WithKillRing makes kill and yank commands use r instead of
// killring.Default().
func WithKillRing(r *killring.Ring) Option {
	return func(b *Buffer) { b.killRing = r }
}

func newBuffer(opts []Option) *Buffer {
	b := &Buffer{
		FileEncoding: EncodingUTF8,
		undo:         undoLog{limit: DefaultUndoLimit},
		goalColumn:   -1,
		yankSeq:      -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.Name == "" && b.FileName != "" {
		b.Name = filepath.Base(b.FileName)
	}
	return b
}

// New builds a buffer holding text. The line-ending convention of text is
// detected and recorded in FileFormat, and the content is normalized to
// bare "\n".
func New(text string, opts ...Option) (*Buffer, error) {
	b := newBuffer(opts)
	if err := b.setText(text); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Buffer) setText(text string) error {
	b.binary = b.FileEncoding == EncodingBinary
	if b.binary {
		b.FileFormat = FormatUnix
	} else {
		if !utf8.ValidString(text) {
			return fmt.Errorf("%w for %s", ErrInvalidEncoding, b.FileEncoding)
		}
		b.FileFormat = detectFileFormat(text)
		text = normalizeNewlines(text, b.FileFormat)
	}
	b.contents = []byte(text)
	b.gapStart = 0
	b.gapEnd = 0
	b.point = 0
	return nil
}

func detectFileFormat(s string) FileFormat {
	bareCR, crlf := false, false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			if i == 0 || s[i-1] != '\r' {
				return FormatUnix
			}
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				crlf = true
			} else {
				bareCR = true
			}
		}
	}
	switch {
	case bareCR:
		return FormatMac
	case crlf:
		return FormatDOS
	default:
		return FormatUnix
	}
}

func normalizeNewlines(s string, f FileFormat) string {
	switch f {
	case FormatDOS:
		return strings.ReplaceAll(s, "\r\n", "\n")
	case FormatMac:
		return strings.ReplaceAll(s, "\r", "\n")
	default:
		return s
	}
}

func (b *Buffer) Point() int     { return b.point }
func (b *Buffer) Binary() bool   { return b.binary }
func (b *Buffer) Modified() bool { return b.modified }
func (b *Buffer) Version() int   { return b.version }
func (b *Buffer) String() string { return b.substring(0, b.Size()) }
func (b *Buffer) Empty() bool    { return b.Size() == 0 }

// LiveMarks reports how many marks are attached to the buffer.
func (b *Buffer) LiveMarks() int { return len(b.marks) }

func (b *Buffer) checkWritable() error {
	if b.ReadOnly {
		return ErrReadOnly
	}
	return nil
}

// Insert inserts s at point and leaves point after it.
func (b *Buffer) Insert(s string) error {
	return b.insertChecked(s, false)
}

// InsertMerge is Insert, but appends to the previous insert's undo entry
// when it ends where s begins. Typing uses it so a run of characters undoes
// as one step.
func (b *Buffer) InsertMerge(s string) error {
	return b.insertChecked(s, true)
}

func (b *Buffer) insertChecked(s string, merge bool) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if !b.binary && !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
	}
	b.insertText(s, merge)
	return nil
}

func (b *Buffer) insertText(s string, merge bool) {
	if s == "" {
		return
	}
	pos := b.point
	size := len(s)
	b.adjustGap(size, pos)
	copy(b.contents[b.gapStart:], s)
	b.adjustMarksForInsert(pos, size)
	b.gapStart += size
	b.point = b.gapStart
	if merge {
		b.mergeInsert(pos, s)
	} else {
		b.recordAction(&InsertAction{Location: pos, Text: s})
	}
	b.modified = true
	b.goalColumn = -1
	b.editSeq++
}

// DeleteChar deletes n characters after point, or -n characters before it
// when n is negative.
func (b *Buffer) DeleteChar(n int) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	pos, err := b.getPos(b.point, n)
	if err != nil {
		return err
	}
	switch {
	case n > 0:
		b.deleteSpan(b.point, pos, b.point)
	case n < 0:
		b.deleteSpan(pos, b.point, b.point)
	}
	return nil
}

// DeleteRegion deletes the text between s and e in either order. Point
// moves the way a mark would.
func (b *Buffer) DeleteRegion(s, e int) error {
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
	b.deleteSpan(r.Start, r.End, b.point)
	return nil
}

// ReplaceRegion replaces the text between s and e with text as a single
// undo step and leaves point after the new text.
func (b *Buffer) ReplaceRegion(s, e int, text string) error {
	r := NewRegion(s, e)
	return b.CompositeEdit(func() error {
		if err := b.DeleteRegion(r.Start, r.End); err != nil {
			return err
		}
		b.point = r.Start
		return b.Insert(text)
	})
}

// deleteSpan removes [s, e). Undoing it restores the text and puts point
// back at location.
func (b *Buffer) deleteSpan(s, e, location int) {
	if s == e {
		return
	}
	text := b.substring(s, e)
	b.adjustGap(0, s)
	n := e - s
	clear(b.contents[b.gapEnd : b.gapEnd+n])
	b.gapEnd += n
	b.point = adjustForDelete(b.point, s, e)
	b.adjustMarksForDelete(s, e)
	b.recordAction(&DeleteAction{Location: location, ReinsertLocation: s, Text: text})
	b.modified = true
	b.goalColumn = -1
	b.editSeq++
}

// Newline inserts a line break followed by the indentation of the current
// line.
func (b *Buffer) Newline() error {
	bol := b.lineStart(b.point)
	end := bol
	for end < b.point {
		c := b.byteAt(end)
		if c != ' ' && c != '\t' {
			break
		}
		end++
	}
	return b.Insert("\n" + b.substring(bol, end))
}
