package filewatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"textcore/buffer"
)

func openTemp(t *testing.T, content string) (*buffer.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := buffer.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return b, path
}

// rewrite changes the file and pushes its mtime past anything the buffer
// has seen, so coarse filesystem clocks cannot hide the change.
func rewrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
}

func TestApplyReloadsCleanBuffer(t *testing.T) {
	b, path := openTemp(t, "old\n")
	rewrite(t, path, "new text\n")

	res, err := Apply(b, Event{Path: path, Op: fsnotify.Write})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if res != Reloaded {
		t.Fatalf("expected reloaded, got %v", res)
	}
	if got := b.String(); got != "new text\n" {
		t.Fatalf("expected reloaded content, got %q", got)
	}
	if b.Modified() || b.CanUndo() {
		t.Fatal("expected a clean buffer without undo history after reload")
	}
}

func TestApplyFlagsConflictOnModifiedBuffer(t *testing.T) {
	b, path := openTemp(t, "old\n")
	if err := b.Insert("mine "); err != nil {
		t.Fatal(err)
	}
	rewrite(t, path, "theirs\n")

	res, err := Apply(b, Event{Path: path, Op: fsnotify.Write})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if res != Conflict {
		t.Fatalf("expected conflict, got %v", res)
	}
	if !b.ExternallyModified {
		t.Fatal("expected ExternallyModified to be set")
	}
	if got := b.String(); got != "mine old\n" {
		t.Fatalf("buffer content should be untouched, got %q", got)
	}
}

func TestApplyIgnoresOwnSave(t *testing.T) {
	b, path := openTemp(t, "old\n")
	if err := b.Insert("x"); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(); err != nil {
		t.Fatal(err)
	}
	res, err := Apply(b, Event{Path: path, Op: fsnotify.Write})
	if err != nil || res != Ignored {
		t.Fatalf("expected own save to be ignored, got %v (%v)", res, err)
	}
}

func TestApplyDeletedAndUnrelated(t *testing.T) {
	b, path := openTemp(t, "old\n")

	res, _ := Apply(b, Event{Path: path + ".other", Op: fsnotify.Write})
	if res != Ignored {
		t.Fatalf("expected unrelated path to be ignored, got %v", res)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	res, err := Apply(b, Event{Path: path, Op: fsnotify.Remove})
	if err != nil || res != Deleted {
		t.Fatalf("expected deleted, got %v (%v)", res, err)
	}
}

func TestWatcherDeliversDebouncedEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}

	abs, _ := filepath.Abs(path)
	select {
	case ev := <-w.Events():
		if ev.Path != abs {
			t.Fatalf("expected event for %s, got %s", abs, ev.Path)
		}
		if ev.Op&fsnotify.Write == 0 && ev.Op&fsnotify.Create == 0 {
			t.Fatalf("expected a write, got %v", ev.Op)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestResultString(t *testing.T) {
	tests := map[Result]string{
		Ignored:  "ignored",
		Reloaded: "reloaded",
		Conflict: "conflict",
		Deleted:  "deleted",
	}
	for r, want := range tests {
		if r.String() != want {
			t.Errorf("%d.String() = %q, want %q", r, r.String(), want)
		}
	}
}
