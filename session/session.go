// Package session remembers which files were open, and keeps backups of
// unsaved buffers for crash recovery.
package session

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"textcore/buffer"
)

type Data struct {
	WorkingDir string      `json:"working_dir"`
	Files      []FileState `json:"files"`
}

type FileState struct {
	Path  string `json:"path"`
	Point int    `json:"point"`
	Mark  int    `json:"mark"` // -1 when the buffer had no mark
}

func sessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "textcore", "sessions")
}

func sessionPath(workDir string) string {
	hash := sha256.Sum256([]byte(workDir))
	return filepath.Join(sessionDir(), fmt.Sprintf("%x.json", hash[:8]))
}

// Save records the file-visiting buffers open in workDir along with their
// point and mark.
func Save(workDir string, buffers []*buffer.Buffer) error {
	path := sessionPath(workDir)
	session := Data{WorkingDir: workDir}

	for _, b := range buffers {
		if b.FileName == "" {
			continue
		}
		st := FileState{Path: absPath(b.FileName), Point: b.Point(), Mark: -1}
		if m, err := b.Mark(); err == nil {
			st.Mark = m
		}
		session.Files = append(session.Files, st)
	}

	if len(session.Files) == 0 {
		// Nothing to restore: drop any stale session so closed files don't return.
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(sessionDir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Restore reopens the files recorded for workDir that still exist. Point
// and mark go back to their recorded offsets when those are still valid
// in the file's current text.
func Restore(workDir string, opts ...buffer.Option) ([]*buffer.Buffer, error) {
	data, err := os.ReadFile(sessionPath(workDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session Data
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.WorkingDir != workDir {
		return nil, nil
	}

	var buffers []*buffer.Buffer
	for _, st := range session.Files {
		if _, err := os.Stat(st.Path); err != nil {
			continue
		}
		b, err := buffer.Open(st.Path, opts...)
		if err != nil {
			return buffers, err
		}
		// Offsets that no longer fall on a character boundary of the
		// current text are skipped: point stays at 0 and the mark unset.
		if st.Mark >= 0 {
			_ = b.SetMark(st.Mark)
		}
		_ = b.GotoChar(st.Point)
		buffers = append(buffers, b)
	}
	return buffers, nil
}
