package session

import (
	"os"
	"path/filepath"
	"testing"

	"textcore/buffer"
)

func TestSaveBackupsSkipsCleanBuffers(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd := t.TempDir()

	edited := filepath.Join(wd, "edited.txt")
	clean := filepath.Join(wd, "clean.txt")
	writeFile(t, edited, "one")
	writeFile(t, clean, "two")
	a := openBuffer(t, edited)
	a.Insert("zero ")
	b := openBuffer(t, clean)

	if err := SaveBackups(wd, []*buffer.Buffer{a, b}); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	found := Backups(wd)
	if len(found) != 1 || found[0].OriginalPath != edited || found[0].Encoding != "UTF-8" {
		t.Fatalf("unexpected backups: %+v", found)
	}
	if got := Backups(t.TempDir()); len(got) != 0 {
		t.Fatalf("expected backups of another directory to be hidden, got %+v", got)
	}
}

func TestRecoverBackup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd := t.TempDir()

	path := filepath.Join(wd, "notes.txt")
	writeFile(t, path, "original\n")
	edited := openBuffer(t, path)
	edited.EndOfBuffer()
	edited.Insert("unsaved work\n")
	if err := SaveBackups(wd, []*buffer.Buffer{edited}); err != nil {
		t.Fatal(err)
	}

	b := openBuffer(t, path)
	ok, err := RecoverBackup(b)
	if err != nil || !ok {
		t.Fatalf("expected a recovered backup, got %v %v", ok, err)
	}
	if b.String() != "original\nunsaved work\n" || !b.Modified() {
		t.Fatalf("unexpected recovered buffer %q", b.String())
	}
	if err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "original\n" || b.Modified() {
		t.Fatalf("expected recovery to undo in one step, got %q", b.String())
	}
	b.Redo()

	if err := b.Save(); err != nil {
		t.Fatal(err)
	}
	CleanBackup(path)
	if got := Backups(wd); len(got) != 0 {
		t.Fatalf("expected backup to be cleaned, got %+v", got)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "original\nunsaved work\n" {
		t.Fatalf("unexpected file contents %q", data)
	}
}

func TestRecoverWithoutBackup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, path, "text")
	b := openBuffer(t, path)
	ok, err := RecoverBackup(b)
	if err != nil || ok {
		t.Fatalf("expected no backup, got %v %v", ok, err)
	}
	if b.Modified() {
		t.Fatal("buffer must stay clean")
	}
}
