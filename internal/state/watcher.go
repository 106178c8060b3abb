package state

import (
	"errors"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/marginalia-app/marginalia/internal/store"
)

// NotesChangedMsg is emitted when the notes file for the watched paper
// folder changes on disk.
type NotesChangedMsg struct {
	Folder string
}

type WatcherErrMsg struct {
	Err error
}

// NotesWatcher observes a single paper folder so an open editor can
// notice external edits to its notes file.
type NotesWatcher struct {
	watcher *fsnotify.Watcher
	folder  string
	done    chan struct{}
	once    sync.Once
}

func NewNotesWatcher(folder string) (*NotesWatcher, error) {
	if folder == "" {
		return nil, errors.New("notes folder cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &NotesWatcher{
		watcher: w,
		folder:  folder,
		done:    make(chan struct{}),
	}

	if err := w.Add(folder); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start returns a command that blocks until the next relevant change.
// The caller re-arms it after each message, bubbletea style.
func (w *NotesWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.isRelevant(event) {
					continue
				}
				return NotesChangedMsg{Folder: w.folder}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return WatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *NotesWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
	})

	return closeErr
}

func (w *NotesWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == store.NotesFile
}
