package buffer

import (
	"errors"
	"testing"
)

func TestCharLenTable(t *testing.T) {
	tests := []struct {
		b    byte
		want int
	}{
		{'a', 1}, {0x7f, 1}, {0x80, 1}, {0xbf, 1},
		{0xc0, 2}, {0xdf, 2},
		{0xe0, 3}, {0xef, 3},
		{0xf0, 4}, {0xf4, 4},
		{0xf5, 1}, {0xff, 1},
	}
	for _, tt := range tests {
		if got := utf8CharLen[tt.b]; got != tt.want {
			t.Errorf("utf8CharLen[%#x] = %d, want %d", tt.b, got, tt.want)
		}
	}
}

func TestForwardBackwardCharMultibyte(t *testing.T) {
	b := newTestBuffer(t, "aé日🎉b")
	offsets := []int{0, 1, 3, 6, 10, 11}
	for i := 1; i < len(offsets); i++ {
		if err := b.ForwardChar(1); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if b.Point() != offsets[i] {
			t.Fatalf("step %d: point %d, want %d", i, b.Point(), offsets[i])
		}
	}
	if err := b.ForwardChar(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range at end, got %v", err)
	}
	if b.Point() != 11 {
		t.Fatalf("failed motion moved point to %d", b.Point())
	}
	for i := len(offsets) - 2; i >= 0; i-- {
		if err := b.BackwardChar(1); err != nil {
			t.Fatal(err)
		}
		if b.Point() != offsets[i] {
			t.Fatalf("backward: point %d, want %d", b.Point(), offsets[i])
		}
	}
	if err := b.BackwardChar(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range at start, got %v", err)
	}
}

func TestForwardThenBackwardRestoresPoint(t *testing.T) {
	text := "héllo wörld 日本語"
	total := 15
	for start := 0; start <= total; start++ {
		for n := 0; start+n <= total; n++ {
			b := newTestBuffer(t, text)
			if err := b.ForwardChar(start); err != nil {
				t.Fatal(err)
			}
			// Put the gap somewhere unrelated.
			b.adjustGap(0, 2)
			p := b.Point()
			if err := b.ForwardChar(n); err != nil {
				t.Fatalf("forward %d from %d: %v", n, start, err)
			}
			if err := b.BackwardChar(n); err != nil {
				t.Fatalf("backward %d: %v", n, err)
			}
			if b.Point() != p {
				t.Fatalf("start=%d n=%d: point %d, want %d", start, n, b.Point(), p)
			}
		}
	}
}

func TestGotoCharRejectsMidCharacter(t *testing.T) {
	b := newTestBuffer(t, "日本")
	if err := b.GotoChar(1); !errors.Is(err, ErrMidCharacter) {
		t.Fatalf("expected ErrMidCharacter, got %v", err)
	}
	if err := b.GotoChar(7); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := b.GotoChar(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCharAfterAndBefore(t *testing.T) {
	b := newTestBuffer(t, "xé")
	b.adjustGap(0, 1)
	if got := b.CharAfter(1); got != "é" {
		t.Fatalf("CharAfter(1) = %q", got)
	}
	if got := b.CharAfter(3); got != "" {
		t.Fatalf("expected no character at end, got %q", got)
	}
	if got := b.CharBefore(3); got != "é" {
		t.Fatalf("CharBefore(3) = %q", got)
	}
	if c, ok := b.ByteAfter(1); !ok || c != 0xc3 {
		t.Fatalf("ByteAfter(1) = %#x, %v", c, ok)
	}
	if _, ok := b.ByteAfter(3); ok {
		t.Fatal("expected no byte at end")
	}
}

func TestBinaryBufferStepsBytes(t *testing.T) {
	b := newTestBuffer(t, "é\xff", WithFileEncoding(EncodingBinary))
	if err := b.ForwardChar(1); err != nil {
		t.Fatal(err)
	}
	if b.Point() != 1 {
		t.Fatalf("expected byte step to 1, got %d", b.Point())
	}
	if got := b.CharAfter(1); got != "\xa9" {
		t.Fatalf("expected raw byte, got %q", got)
	}
	if err := b.ForwardChar(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := b.BackwardChar(2); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestLineMotion(t *testing.T) {
	b := newTestBuffer(t, "one\ntwo two\n\nlast")
	b.GotoChar(6)
	b.BeginningOfLine()
	if b.Point() != 4 || !b.BeginningOfLineP() {
		t.Fatalf("expected beginning of line at 4, got %d", b.Point())
	}
	b.EndOfLine()
	if b.Point() != 11 || !b.EndOfLineP() {
		t.Fatalf("expected end of line at 11, got %d", b.Point())
	}
	if b.CurrentLine() != 2 {
		t.Fatalf("expected line 2, got %d", b.CurrentLine())
	}
	b.EndOfBuffer()
	if !b.EndOfBufferP() || b.CurrentLine() != 4 {
		t.Fatalf("expected end of buffer on line 4, got point %d line %d", b.Point(), b.CurrentLine())
	}
	b.BeginningOfBuffer()
	if !b.BeginningOfBufferP() {
		t.Fatal("expected beginning of buffer")
	}
}

func TestNextLineKeepsGoalColumn(t *testing.T) {
	b := newTestBuffer(t, "abcdef\nab\nabcdef\n")
	b.GotoChar(5)
	if err := b.NextLine(1); err != nil {
		t.Fatal(err)
	}
	if b.Point() != 9 {
		t.Fatalf("expected short line to clamp at 9, got %d", b.Point())
	}
	if err := b.NextLine(1); err != nil {
		t.Fatal(err)
	}
	if b.Point() != 15 {
		t.Fatalf("expected goal column 5 restored at 15, got %d", b.Point())
	}
	if err := b.PreviousLine(2); err != nil {
		t.Fatal(err)
	}
	if b.Point() != 5 {
		t.Fatalf("expected back at 5, got %d", b.Point())
	}
	if err := b.PreviousLine(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range on first line, got %v", err)
	}
}

func TestCurrentColumnUsesDisplayWidth(t *testing.T) {
	b := newTestBuffer(t, "日本a\nx")
	b.GotoChar(6)
	if got := b.CurrentColumn(); got != 4 {
		t.Fatalf("expected wide characters to count 2 columns, got %d", got)
	}
	if err := b.NextLine(1); err != nil {
		t.Fatal(err)
	}
	if b.CurrentColumn() != 1 {
		t.Fatalf("expected clamped column 1, got %d", b.CurrentColumn())
	}
}

func TestWordMotion(t *testing.T) {
	b := newTestBuffer(t, "  foo_bar, baz qux")
	b.ForwardWord(1)
	if b.Point() != 9 {
		t.Fatalf("expected end of foo_bar at 9, got %d", b.Point())
	}
	b.ForwardWord(2)
	if b.Point() != 18 {
		t.Fatalf("expected end of buffer at 18, got %d", b.Point())
	}
	b.BackwardWord(1)
	if b.Point() != 15 {
		t.Fatalf("expected start of qux at 15, got %d", b.Point())
	}
	b.BackwardWord(5)
	if b.Point() != 0 {
		t.Fatalf("expected beginning of buffer, got %d", b.Point())
	}
}
