package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
)

// DefaultFileEncodings is the probe order used by Open.
var DefaultFileEncodings = []string{"UTF-8", "EUC-JP", "Windows-31J"}

// Open visits path. The raw bytes are decoded with the first candidate
// encoding that round-trips them; when none does the buffer is binary. A
// missing file gives an empty buffer visiting path.
func Open(path string, opts ...Option) (*Buffer, error) {
	b := newBuffer(append([]Option{WithFileName(path)}, opts...))
	b.Language = DetectLanguage(path)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := b.setText(""); err != nil {
			return nil, err
		}
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	if err := b.load(info); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Buffer) load(info fs.FileInfo) error {
	data, err := os.ReadFile(b.FileName)
	if err != nil {
		return err
	}
	text, enc := decodeFile(data, b.fileEncodings())
	b.FileEncoding = enc
	if err := b.setText(text); err != nil {
		return err
	}
	b.LastSaveTime = info.ModTime()
	return nil
}

func (b *Buffer) fileEncodings() []string {
	if len(b.encodings) == 0 {
		return DefaultFileEncodings
	}
	return b.encodings
}

func decodeFile(data []byte, candidates []string) (string, string) {
	for _, name := range candidates {
		if text, ok := decodeAs(data, name); ok {
			return text, name
		}
	}
	return string(data), EncodingBinary
}

func isUTF8Name(name string) bool {
	return strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8")
}

func decodeAs(data []byte, name string) (string, bool) {
	if isUTF8Name(name) {
		return string(data), utf8.Valid(data)
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", false
	}
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	// Decoders substitute U+FFFD for bad input instead of failing, so only
	// a lossless round trip proves the bytes were in this encoding.
	back, err := enc.NewEncoder().Bytes(text)
	if err != nil || !bytes.Equal(back, data) {
		return "", false
	}
	return string(text), true
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(name) {
	case "EUC-JP":
		return japanese.EUCJP, nil
	case "WINDOWS-31J", "SHIFT_JIS", "CP932":
		return japanese.ShiftJIS, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// encodeForSave expands line endings and converts to FileEncoding.
func (b *Buffer) encodeForSave() ([]byte, error) {
	s := b.String()
	if !b.binary && b.FileFormat != FormatUnix {
		s = strings.ReplaceAll(s, "\n", b.FileFormat.newline())
	}
	if b.binary || isUTF8Name(b.FileEncoding) {
		return []byte(s), nil
	}
	enc, err := lookupEncoding(b.FileEncoding)
	if err != nil {
		return nil, err
	}
	data, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrInvalidEncoding, b.FileEncoding, err)
	}
	return data, nil
}

// Save writes the buffer to its file and makes the current state the
// clean one.
func (b *Buffer) Save() error {
	if b.FileName == "" {
		return ErrNoFileName
	}
	data, err := b.encodeForSave()
	if err != nil {
		return err
	}
	perm := fs.FileMode(0644)
	if info, err := os.Stat(b.FileName); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(b.FileName, data, perm); err != nil {
		return err
	}
	b.version++
	b.modified = false
	b.ExternallyModified = false
	b.LastSaveTime = time.Now()
	if info, err := os.Stat(b.FileName); err == nil {
		b.LastSaveTime = info.ModTime()
	}
	return nil
}

// Revert rereads the visited file, dropping unsaved changes and undo
// history. Point and marks are kept where the new text allows.
func (b *Buffer) Revert() error {
	if b.FileName == "" {
		return ErrNoFileName
	}
	info, err := os.Stat(b.FileName)
	if err != nil {
		return err
	}
	point := b.point
	if err := b.load(info); err != nil {
		return err
	}
	b.point = b.snapBoundary(point)
	for _, m := range b.marks {
		m.location = b.snapBoundary(m.location)
	}
	b.undo.reset()
	b.modified = false
	b.ExternallyModified = false
	b.match = nil
	b.goalColumn = -1
	b.yankSeq = -1
	return nil
}
