package langservice

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// scriptExtensions are the file extensions the service treats as DSL
// source. A config file is distinguished later by isConfigURI in
// astcache; the scanner only needs to know what to pick up at all.
var scriptExtensions = map[string]bool{".wfl": true, ".config": true}

// scanWorkspace walks root, returning every matching file's URI whose
// path (relative to root) does not match any glob in excludes. Grounded
// on internal/indexing/watcher.go's addWatches walk plus
// shouldIgnoreDirectory's pattern matching, replacing filepath.Match
// (single-segment) with doublestar.Match so a `**/build/**`-style
// exclude works the way editors' workspace excludes normally do.
func scanWorkspace(root string, excludes []string) ([]lsptypes.URI, error) {
	var out []lsptypes.URI
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && matchesAny(excludes, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(excludes, rel) {
			return nil
		}
		if !scriptExtensions[filepath.Ext(path)] {
			return nil
		}
		out = append(out, lsptypes.URI(path))
		return nil
	})
	return out, err
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Watcher observes on-disk changes under a root directory (edits made
// outside the editor) and reports them through onChange. Grounded on
// internal/indexing/watcher.go's FileWatcher: an fsnotify.Watcher over
// every non-excluded directory, recursively re-armed as directories are
// created, with symlink-cycle protection via filepath.EvalSymlinks.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	excludes []string
	onChange func(uri lsptypes.URI)
	onRemove func(uri lsptypes.URI)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a Watcher rooted at root, ignoring any relative
// path matching excludes.
func NewWatcher(root string, excludes []string, onChange, onRemove func(uri lsptypes.URI)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{fsw: fsw, root: root, excludes: excludes, onChange: onChange, onRemove: onRemove, ctx: ctx, cancel: cancel}
	return w, nil
}

// Start arms watches on every non-excluded directory under root and
// begins processing events in a background goroutine.
func (w *Watcher) Start() error {
	visited := make(map[string]bool)
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		real, rerr := filepath.EvalSymlinks(path)
		if rerr != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		rel, _ := filepath.Rel(w.root, path)
		if rel != "." && matchesAny(w.excludes, filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		_ = w.fsw.Add(path)
		return nil
	})
	if err != nil {
		return err
	}
	w.wg.Add(1)
	go w.run()
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			_ = w.fsw.Add(ev.Name)
		}
		return
	}
	if !scriptExtensions[filepath.Ext(ev.Name)] {
		return
	}
	rel, _ := filepath.Rel(w.root, ev.Name)
	if matchesAny(w.excludes, filepath.ToSlash(rel)) {
		return
	}
	uri := lsptypes.URI(ev.Name)
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if w.onRemove != nil {
			w.onRemove(uri)
		}
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		if w.onChange != nil {
			w.onChange(uri)
		}
	}
}

// Stop tears down the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.fsw.Close()
	w.wg.Wait()
}
