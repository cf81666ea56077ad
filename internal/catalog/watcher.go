package catalog

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumescreen/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when its backing file changes on disk.
type Watcher struct {
	mu sync.Mutex

	store    *Store
	file     string
	lastHash [sha256.Size]byte

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(error)
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a watcher for store's backing file. onReload, when set,
// is called after every reload attempt with its result.
func NewWatcher(store *Store, debounceDelay time.Duration, onReload func(error), logger *errors.Logger) (*Watcher, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("catalog store has no backing file to watch")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	return &Watcher{
		store:         store,
		file:          store.Path(),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}, nil
}

// Start begins watching the catalog file
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("catalog watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = watcher

	if sum, err := w.fileHash(); err == nil {
		w.lastHash = sum
	}

	// The directory is watched so editors that replace the file atomically
	// (write temp, rename) are still seen.
	dir := filepath.Dir(w.file)
	if err := w.fsWatcher.Add(dir); err != nil {
		_ = w.fsWatcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.running = true
	go w.watchLoop()

	w.logger.Info("Catalog file watcher started", "file", w.file, "debounce_delay", w.debounceDelay)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		w.logger.LogError(err, "Failed to close catalog file watcher")
		return err
	}

	w.logger.Info("Catalog file watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Catalog watcher error")

		case <-w.reloadChan:
			if w.hasFileChanged() {
				w.reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) reload() {
	err := w.store.Reload()
	if err != nil {
		w.logger.LogError(err, "Catalog reload failed, keeping previous tables", "file", w.file)
	} else {
		w.logger.Info("Catalog reloaded", "file", w.file, "skills", len(w.store.Current().Skills))
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged compares content, not mtimes, so two writes within the
// filesystem's timestamp granularity are still told apart.
func (w *Watcher) hasFileChanged() bool {
	sum, err := w.fileHash()
	if err != nil {
		return false
	}
	if sum == w.lastHash {
		return false
	}
	w.lastHash = sum
	return true
}

func (w *Watcher) fileHash() ([sha256.Size]byte, error) {
	data, err := os.ReadFile(w.file)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
