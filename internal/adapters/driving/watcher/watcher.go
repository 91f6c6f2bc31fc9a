// Package watcher observes a drop directory and feeds new files into
// the ingestor as they settle.
package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
	"github.com/shashanksh04/RAG-Assistant/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is
// submitted. Copies into the drop directory arrive as a burst of write
// events; submitting early would upload a half-written file.
const DefaultDebounce = 500 * time.Millisecond

// Config holds configuration for the drop directory watcher.
type Config struct {
	// Dir is the directory to observe.
	Dir string

	// Debounce is the quiet period before a changed file is submitted
	// (default: 500ms).
	Debounce time.Duration
}

// Watcher submits files dropped into a directory. Non-PDF files pass
// through to the ingestor, which applies the intake rules.
type Watcher struct {
	ingestor driving.Ingestor
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a new drop directory watcher.
func New(ingestor driving.Ingestor, cfg Config) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ingestor: ingestor,
		dir:      cfg.Dir,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches the drop directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("drop directory error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("drop directory error: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent schedules a submission once the file stops changing.
// Repeated writes to the same path reset its timer.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(w.debounce)
		return
	}

	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.submit(ctx, path)
	})
}

// submit hands a settled file to the ingestor.
func (w *Watcher) submit(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	input, err := domain.RawInputFromPath(path)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return
	}

	if _, err := w.ingestor.Submit(ctx, []domain.RawInput{input}); err != nil {
		logger.Warn("Could not submit %s: %v", path, err)
	}
}

// cancelPending stops every outstanding debounce timer.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
