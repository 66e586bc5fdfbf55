// Package watch pushes edited JSON documents to the remote API.
//
// The watched directory is laid out as <dir>/<doctype>/<name>.json. Each time
// such a file is written, and after a short debounce, its contents are sent
// with a single update-by-name call. Failures are logged and never retried.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/docship/pkg/log"
)

const docExt = ".json"

// Updater is the part of the document client the watcher needs.
// *client.Client satisfies it.
type Updater interface {
	Update(ctx context.Context, doctype, name string, v any) error
}

// Config holds configuration options for a Watcher.
type Config struct {
	// Dir is the root directory holding one subdirectory per doctype.
	Dir string

	// Debounce is the delay to wait after a file change before sending.
	// Default: 200 milliseconds
	Debounce time.Duration

	// Logger receives push results. Default: no-op.
	Logger log.Logger
}

// Watcher monitors a document directory and pushes changed files.
type Watcher struct {
	dir      string
	debounce time.Duration
	updater  Updater
	logger   log.Logger

	ready chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a Watcher for cfg.Dir that sends updates through u.
func New(cfg Config, u Updater) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}
	return &Watcher{
		dir:      filepath.Clean(cfg.Dir),
		debounce: cfg.Debounce,
		updater:  u,
		logger:   cfg.Logger,
		ready:    make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}
}

// Ready is closed once the initial directories are being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. Pending pushes that have not started
// are dropped; pushes in flight are waited for. Run must only be called once.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			if err := fw.Add(filepath.Join(w.dir, e.Name())); err != nil {
				return fmt.Errorf("watch %s: %w", e.Name(), err)
			}
		}
	}

	w.logger.Info("watching documents", log.String("dir", w.dir))
	close(w.ready)
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == w.dir {
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() || hidden(info.Name()) {
			return
		}
		w.addDoctype(ctx, fw, event.Name)
		return
	}

	if _, _, ok := w.docRef(event.Name); ok {
		w.schedule(ctx, event.Name)
	}
}

// addDoctype watches a new doctype directory and schedules the documents it
// already holds, since they may have been written before the watch started.
func (w *Watcher) addDoctype(ctx context.Context, fw *fsnotify.Watcher, dir string) {
	if err := fw.Add(dir); err != nil {
		w.logger.Error("watch doctype directory", log.String("dir", dir), log.Err(err))
		return
	}
	w.logger.Debug("watching doctype directory", log.String("dir", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("read doctype directory", log.String("dir", dir), log.Err(err))
		return
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if _, _, ok := w.docRef(path); ok && !e.IsDir() {
			w.schedule(ctx, path)
		}
	}
}

// docRef maps <dir>/<doctype>/<name>.json to its doctype and name.
func (w *Watcher) docRef(path string) (doctype, name string, ok bool) {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || hidden(parts[0]) || hidden(parts[1]) {
		return "", "", false
	}
	if filepath.Ext(parts[1]) != docExt {
		return "", "", false
	}
	name = strings.TrimSuffix(parts[1], docExt)
	if name == "" {
		return "", "", false
	}
	return parts[0], name, true
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok && t.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.push(ctx, path)
	})
	w.pending[path] = t
}

func (w *Watcher) push(ctx context.Context, path string) {
	doctype, name, _ := w.docRef(path)

	b, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("read document", log.String("path", path), log.Err(err))
		return
	}
	if !json.Valid(b) {
		w.logger.Warn("skipping invalid JSON document", log.String("path", path))
		return
	}

	if err := w.updater.Update(ctx, doctype, name, json.RawMessage(b)); err != nil {
		w.logger.Error("push document",
			log.String("doctype", doctype),
			log.String("name", name),
			log.Err(err),
		)
		return
	}
	w.logger.Info("pushed document", log.String("doctype", doctype), log.String("name", name))
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
