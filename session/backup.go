package session

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"textcore/buffer"
)

const BackupInterval = 30 * time.Second

type BackupInfo struct {
	OriginalPath string `json:"original_path"`
	WorkDir      string `json:"work_dir"`
	Timestamp    string `json:"timestamp"`
	Encoding     string `json:"encoding"`
}

func backupDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "textcore", "backups")
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func backupPathForFile(originalPath string) string {
	h := sha256.Sum256([]byte(absPath(originalPath)))
	name := fmt.Sprintf("%x.bak", h[:8])
	return filepath.Join(backupDir(), name)
}

func backupMetaPath(backupPath string) string {
	return backupPath + ".json"
}

// SaveBackups snapshots every modified buffer that visits a file. The
// snapshot holds the buffer text as it is in memory, with "\n" line
// endings.
func SaveBackups(workDir string, buffers []*buffer.Buffer) error {
	if err := os.MkdirAll(backupDir(), 0755); err != nil {
		return err
	}
	for _, b := range buffers {
		if !b.Modified() || b.FileName == "" {
			continue
		}
		bpath := backupPathForFile(b.FileName)
		if err := os.WriteFile(bpath, []byte(b.String()), 0644); err != nil {
			return err
		}
		meta := BackupInfo{
			OriginalPath: absPath(b.FileName),
			WorkDir:      workDir,
			Timestamp:    time.Now().Format(time.RFC3339),
			Encoding:     b.FileEncoding,
		}
		metaData, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := os.WriteFile(backupMetaPath(bpath), metaData, 0644); err != nil {
			return err
		}
	}
	return nil
}

func CleanBackup(path string) {
	if path == "" {
		return
	}
	bpath := backupPathForFile(path)
	os.Remove(bpath)
	os.Remove(backupMetaPath(bpath))
}

// Backups lists the backups taken from workDir whose snapshot still exists.
func Backups(workDir string) []BackupInfo {
	dir := backupDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var found []BackupInfo
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		metaPath := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var info BackupInfo
		if json.Unmarshal(data, &info) != nil {
			continue
		}
		if info.WorkDir != workDir {
			continue
		}
		if _, err := os.Stat(strings.TrimSuffix(metaPath, ".json")); err == nil {
			found = append(found, info)
		}
	}
	return found
}

// RecoverBackup replaces the text of b with its backup as one undoable
// edit. It reports false when b has no backup. The backup is kept until
// the caller saves b and calls CleanBackup.
func RecoverBackup(b *buffer.Buffer) (bool, error) {
	if b.FileName == "" {
		return false, nil
	}
	data, err := os.ReadFile(backupPathForFile(b.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := b.ReplaceRegion(0, b.Size(), string(data)); err != nil {
		return false, err
	}
	b.BeginningOfBuffer()
	return true, nil
}
