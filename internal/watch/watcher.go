package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must be quiet before it is imported.
const DefaultDebounce = 250 * time.Millisecond

// Importer imports the recipes in one JSON file.
type Importer interface {
	ImportRecipeFile(ctx context.Context, path string) (int, error)
}

// RecipeWatcher imports *.json files dropped into a directory.
type RecipeWatcher struct {
	dir      string
	importer Importer
	logger   *zap.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewRecipeWatcher starts watching dir, creating it if needed.
func NewRecipeWatcher(dir string, importer Importer, logger *zap.Logger) (*RecipeWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create import directory %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &RecipeWatcher{
		dir:      dir,
		importer: importer,
		logger:   logger,
		debounce: DefaultDebounce,
		watcher:  w,
	}, nil
}

// SetDebounce changes the quiet period before a file is imported.
func (rw *RecipeWatcher) SetDebounce(d time.Duration) {
	rw.debounce = d
}

// Run imports the files already present, then every created or written
// file, until ctx is done. The watcher is closed when Run returns.
func (rw *RecipeWatcher) Run(ctx context.Context) error {
	defer rw.watcher.Close()

	if err := rw.scan(ctx); err != nil {
		return err
	}

	deb := newDebouncer(rw.debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isRecipeFile(event.Name) {
				continue
			}
			deb.touch(event.Name)
		case f := <-deb.out:
			deb.done(f)
			rw.importFile(ctx, f.path)
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return nil
			}
			rw.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// firing is a quiet period that ended for path. seq tells apart the timers
// scheduled for the same path.
type firing struct {
	path string
	seq  uint64
}

type pendingTimer struct {
	timer *time.Timer
	seq   uint64
}

// debouncer delivers a path on out once no touch for it arrived for delay.
type debouncer struct {
	delay time.Duration
	out   chan firing
	quit  chan struct{}

	mu      sync.Mutex
	seq     uint64
	pending map[string]pendingTimer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		out:     make(chan firing),
		quit:    make(chan struct{}),
		pending: make(map[string]pendingTimer),
	}
}

// touch restarts the quiet period of path. A timer that already fired is
// left to deliver and a new one is scheduled behind it.
func (d *debouncer) touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(d.delay)
		return
	}
	d.seq++
	f := firing{path: path, seq: d.seq}
	timer := time.AfterFunc(d.delay, func() {
		select {
		case d.out <- f:
		case <-d.quit:
		}
	})
	d.pending[path] = pendingTimer{timer: timer, seq: f.seq}
}

// done forgets path once its latest timer has been received.
func (d *debouncer) done(f firing) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[f.path]; ok && p.seq == f.seq {
		delete(d.pending, f.path)
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.pending {
		p.timer.Stop()
	}
	close(d.quit)
}

func (rw *RecipeWatcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(rw.dir)
	if err != nil {
		return fmt.Errorf("failed to read import directory %s: %w", rw.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isRecipeFile(e.Name()) {
			continue
		}
		rw.importFile(ctx, filepath.Join(rw.dir, e.Name()))
	}
	return nil
}

func (rw *RecipeWatcher) importFile(ctx context.Context, path string) {
	n, err := rw.importer.ImportRecipeFile(ctx, path)
	if err != nil {
		rw.logger.Warn("failed to import recipe file", zap.String("path", path), zap.Error(err))
		return
	}
	rw.logger.Info("imported recipe file", zap.String("path", path), zap.Int("recipes", n))
}

func isRecipeFile(name string) bool {
	base := filepath.Base(name)
	return strings.EqualFold(filepath.Ext(base), ".json") && !strings.HasPrefix(base, ".")
}
