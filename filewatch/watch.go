// Package filewatch notices when visited files change on disk.
package filewatch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"textcore/buffer"
)

const DefaultDebounce = 100 * time.Millisecond

// Event reports the operations seen on one file during a debounce window.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher watches the directories of added files and delivers debounced
// events for those files only. Events arrive on a channel; buffers must be
// updated on their owner's goroutine with Apply.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	events   chan Event
	errors   chan error
	done     chan struct{}
	once     sync.Once

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fw:       fw,
		debounce: debounce,
		events:   make(chan Event, 16),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}
	go w.loop()
	return w, nil
}

// Add starts watching path. The file does not need to exist yet.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.fw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

func (w *Watcher) Events() <-chan Event { return w.events }
func (w *Watcher) Errors() <-chan error { return w.errors }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}

func (w *Watcher) watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}

func (w *Watcher) loop() {
	defer close(w.events)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var order []string
	pending := make(map[string]fsnotify.Op)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.watching(ev.Name) {
				continue
			}
			if _, seen := pending[ev.Name]; !seen {
				order = append(order, ev.Name)
			}
			pending[ev.Name] |= ev.Op
			timer.Reset(w.debounce)

		case <-timer.C:
			for _, path := range order {
				select {
				case w.events <- Event{Path: path, Op: pending[path]}:
				case <-w.done:
					return
				}
			}
			order = nil
			clear(pending)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}

// Result says what Apply did with an event.
type Result int

const (
	Ignored  Result = iota
	Reloaded        // the buffer was clean and now holds the new file
	Conflict        // the buffer has unsaved changes; ExternallyModified is set
	Deleted         // the visited file is gone
)

func (r Result) String() string {
	switch r {
	case Reloaded:
		return "reloaded"
	case Conflict:
		return "conflict"
	case Deleted:
		return "deleted"
	default:
		return "ignored"
	}
}

// Apply reconciles b with ev. Clean buffers are reverted to the new file
// contents; modified ones are flagged instead. Writes that are not newer
// than the buffer's own last save or read are ignored.
func Apply(b *buffer.Buffer, ev Event) (Result, error) {
	if b.FileName == "" {
		return Ignored, nil
	}
	abs, err := filepath.Abs(b.FileName)
	if err != nil {
		return Ignored, err
	}
	if abs != ev.Path {
		return Ignored, nil
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return Deleted, nil
	}
	if err != nil {
		return Ignored, err
	}
	if !info.ModTime().After(b.LastSaveTime) {
		return Ignored, nil
	}
	if b.Modified() {
		b.ExternallyModified = true
		return Conflict, nil
	}
	if err := b.Revert(); err != nil {
		return Ignored, err
	}
	return Reloaded, nil
}
