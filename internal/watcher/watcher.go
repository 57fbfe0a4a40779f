// Package watcher keeps the candidate pool in sync with resume directories using fsnotify.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/pkg/utils"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Sink receives resume changes. *ingest.Ingester implements it.
type Sink interface {
	IngestFile(ctx context.Context, path string, allowedExts []string) (*models.Candidate, error)
	DeletePath(ctx context.Context, path string) (int, error)
}

// Stats counts the work done by a watcher since it was created.
type Stats struct {
	Ingested int64 `json:"ingested"`
	Removed  int64 `json:"removed"`
	Failed   int64 `json:"failed"`
}

// Watcher watches resume directories and forwards changes to a Sink.
type Watcher struct {
	sink       Sink
	extensions []string
	recursive  bool
	debounce   time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	ctx       context.Context
	fsw       *fsnotify.Watcher
	roots     []string
	rootPaths map[string][]string // root -> watched directories beneath it
	pending   map[string]*time.Timer
	done      chan struct{}
	stopOnce  sync.Once

	ingested atomic.Int64
	removed  atomic.Int64
	failed   atomic.Int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long a file must be quiet before it is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for roots. extensions filters resume files (empty accepts all).
func New(sink Sink, roots, extensions []string, recursive bool, opts ...Option) *Watcher {
	w := &Watcher{
		sink:       sink,
		extensions: append([]string(nil), extensions...),
		recursive:  recursive,
		debounce:   defaultDebounce,
		roots:      cleanRoots(roots),
		rootPaths:  make(map[string][]string),
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = utils.OrNop(w.logger)
	return w
}

func cleanRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			out = append(out, filepath.Clean(abs))
		}
	}
	return out
}

// Start begins watching. It returns once the roots are registered; events are
// handled in the background until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.fsw != nil {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	w.ctx = ctx
	for _, root := range w.roots {
		if err := w.watchRootLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	w.logger.Debug("resume watcher started",
		zap.Strings("roots", w.Directories()), zap.Strings("extensions", w.extensions), zap.Bool("recursive", w.recursive))
	go w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("resume watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if !w.watched(path) {
		return
	}
	w.logger.Debug("resume watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if ev.Has(fsnotify.Create) {
				w.watchNewDirectory(path)
			}
			return
		}
		if w.accepts(path) {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(path)
		// A removed directory takes every resume beneath it along.
		if w.forgetDirectory(path) || w.accepts(path) || filepath.Ext(path) == "" {
			w.remove(path)
		}
	}
}

// forgetDirectory drops path and the directories beneath it from the watched set.
// It reports whether path was a watched directory.
func (w *Watcher) forgetDirectory(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	found := false
	for root, paths := range w.rootPaths {
		kept := paths[:0]
		for _, p := range paths {
			if p == path || within(path, p) {
				found = found || p == path
				continue
			}
			kept = append(kept, p)
		}
		w.rootPaths[root] = kept
	}
	return found
}

// rootOfLocked returns the watched root containing path.
func (w *Watcher) rootOfLocked(path string) (string, bool) {
	for _, root := range w.roots {
		if root == path || within(root, path) {
			return root, true
		}
	}
	return "", false
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.rootOfLocked(path)
	return ok
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) accepts(path string) bool {
	return acceptsExtension(path, w.extensions)
}

func acceptsExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return context.Background()
	}
	return w.ctx
}

func (w *Watcher) ingest(path string) {
	c, err := w.sink.IngestFile(w.context(), path, w.extensions)
	if err != nil {
		w.failed.Add(1)
		w.logger.Warn("failed to ingest resume", zap.String("path", path), zap.Error(err))
		return
	}
	w.ingested.Add(1)
	w.logger.Debug("resume ingested", zap.String("path", path), zap.String("candidate_id", c.ID))
}

func (w *Watcher) remove(path string) {
	n, err := w.sink.DeletePath(w.context(), path)
	if err != nil {
		w.failed.Add(1)
		w.logger.Warn("failed to remove candidates", zap.String("path", path), zap.Error(err))
		return
	}
	w.removed.Add(int64(n))
	if n > 0 {
		w.logger.Debug("candidates removed", zap.String("path", path), zap.Int("count", n))
	}
}

// watchNewDirectory registers a directory created under a root and ingests its files.
func (w *Watcher) watchNewDirectory(dir string) {
	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	added := []string{dir}
	if w.recursive {
		added = added[:0]
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if addErr := fsw.Add(path); addErr != nil {
				w.logger.Debug("failed to watch directory", zap.String("path", path), zap.Error(addErr))
				return nil
			}
			added = append(added, path)
			return nil
		})
	}
	w.mu.Lock()
	if root, ok := w.rootOfLocked(dir); ok {
		w.rootPaths[root] = append(w.rootPaths[root], added...)
	}
	w.mu.Unlock()
	w.sync(dir)
}

func (w *Watcher) watchRootLocked(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if !w.recursive {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		w.rootPaths[root] = []string{root}
		return nil
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}
	w.rootPaths[root] = paths
	return nil
}

// sync ingests every accepted file under dir.
func (w *Watcher) sync(dir string) {
	w.logger.Debug("syncing resume directory", zap.String("dir", dir))
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && !w.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if w.accepts(path) {
			w.ingest(path)
		}
		return nil
	})
}

// AddDirectory starts watching root. When syncExisting is set, resumes already in
// root are ingested in the background.
func (w *Watcher) AddDirectory(root string, syncExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	for _, r := range w.roots {
		if r == abs {
			w.mu.Unlock()
			return nil
		}
	}
	if w.fsw != nil {
		if err := w.watchRootLocked(abs); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	w.roots = append(w.roots, abs)
	w.mu.Unlock()
	w.logger.Debug("resume directory added", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if syncExisting {
		go w.sync(abs)
	}
	return nil
}

// RemoveDirectory stops watching root. Candidates already ingested from it are kept.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, r := range w.roots {
		if r != abs {
			continue
		}
		if w.fsw != nil {
			for _, p := range w.rootPaths[abs] {
				_ = w.fsw.Remove(p)
			}
		}
		delete(w.rootPaths, abs)
		w.roots = append(w.roots[:i], w.roots[i+1:]...)
		w.logger.Debug("resume directory removed", zap.String("path", abs))
		return nil
	}
	return nil
}

// Directories returns the watched root directories.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// SyncExisting ingests resumes already present in every root.
func (w *Watcher) SyncExisting() {
	for _, root := range w.Directories() {
		w.sync(root)
	}
}

// Stats returns counters for ingested, removed and failed operations.
func (w *Watcher) Stats() Stats {
	return Stats{
		Ingested: w.ingested.Load(),
		Removed:  w.removed.Load(),
		Failed:   w.failed.Load(),
	}
}

// Stop stops watching and cancels pending ingestions.
func (w *Watcher) Stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()
	if fsw != nil {
		_ = fsw.Close()
	}
	w.stopOnce.Do(func() { close(w.done) })
}
