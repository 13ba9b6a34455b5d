// Package langservice implements the LanguageService update coordinator
// (spec.md §4.8): the component that owns the debounce window between an
// editor event and the next full analysis pass, and that feature
// providers call through to get a consistent snapshot of the cache.
// Grounded on internal/server/server.go's top-level coordinator struct
// (holds its collaborators, exposes lifecycle methods under a
// sync.RWMutex, tracks a running/active flag) generalized from
// indexing-server lifecycle state to the monitor-style
// initialized/suppressFutureWarnings/awaitingUpdate state spec.md calls
// for, plus a sync.Cond in place of the teacher's plain mutex since
// awaitUpdate needs to block a caller until a concurrent update
// completes.
package langservice

import (
	"context"
	"sync"
	"time"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/debounce"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/logging"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// debounceKey is the single debounce-window key every document update
// shares: spec.md §4.8 debounces the whole workspace's pending edits
// together, not per-document (a later per-document variant would just
// change this to the changed URI).
const debounceKey = "workspace"

const defaultDebounce = 1000 * time.Millisecond

// PublishFunc is called with the diagnostics-affecting URIs after an
// update completes, so the host (an LSP server loop, a CLI driver) can
// push fresh diagnostics.
type PublishFunc func(changed []lsptypes.URI)

// Service is the LanguageService update coordinator.
type Service struct {
	mu   sync.Mutex
	cond *sync.Cond

	initialized            bool
	suppressFutureWarnings bool
	awaitingUpdate         bool

	root     string
	excludes []string

	files     *filecache.Cache
	cache     *astcache.Cache
	debouncer *debounce.Debouncer
	watcher   *Watcher
	publish   PublishFunc
	log       *logging.Logger
}

// New creates a Service over files/cache with the given debounce window
// (0 selects the spec's 1000ms default).
func New(files *filecache.Cache, cache *astcache.Cache, debounceWindow time.Duration, publish PublishFunc, log *logging.Logger) *Service {
	if debounceWindow <= 0 {
		debounceWindow = defaultDebounce
	}
	if log == nil {
		log = logging.Discard
	}
	s := &Service{
		files:     files,
		cache:     cache,
		debouncer: debounce.New(debounceWindow),
		publish:   publish,
		log:       log,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Initialize walks rootUri collecting every matching file, clears any
// prior state, and analyzes the whole workspace once, publishing
// diagnostics for every discovered URI (spec.md §4.8).
func (s *Service) Initialize(ctx context.Context, rootUri string, excludes []string, suppressFutureWarnings bool) error {
	s.mu.Lock()
	s.root = rootUri
	s.excludes = excludes
	s.suppressFutureWarnings = suppressFutureWarnings
	s.initialized = true
	s.mu.Unlock()

	uris, err := scanWorkspace(rootUri, excludes)
	if err != nil {
		return err
	}

	watcher, err := NewWatcher(rootUri, excludes, s.onDiskChange, s.onDiskRemove)
	if err == nil {
		if err := watcher.Start(); err != nil {
			s.log.Warn("workspace watch disabled: %v", err)
		} else {
			s.mu.Lock()
			s.watcher = watcher
			s.mu.Unlock()
		}
	} else {
		s.log.Warn("workspace watch unavailable: %v", err)
	}

	for _, uri := range uris {
		if !s.files.HasText(uri) {
			if _, err := s.files.ReadText(uri); err != nil {
				s.log.Warn("failed to read %s during workspace scan: %v", uri, err)
			}
		}
	}

	for _, uri := range s.cache.URIs() {
		s.cache.Remove(uri)
	}
	changed, err := s.cache.Analyze(ctx, uris)
	if err != nil {
		return err
	}
	s.log.Info("initialized workspace at %s: %d files", rootUri, len(uris))
	if s.publish != nil {
		s.publish(changed)
	}
	return nil
}

func (s *Service) onDiskChange(uri lsptypes.URI) {
	if s.files.HasText(uri) {
		return // editor owns this file's content; ignore the on-disk echo of its own save
	}
	s.markDirty(uri)
}

func (s *Service) onDiskRemove(uri lsptypes.URI) {
	s.files.Remove(uri)
	s.cache.Remove(uri)
}

func (s *Service) markDirty(uri lsptypes.URI) {
	s.mu.Lock()
	s.awaitingUpdate = true
	s.mu.Unlock()
	s.debouncer.Schedule(debounceKey, func() { _ = s.update(context.Background()) })
}

// DidOpen forwards to FileCache and schedules an update.
func (s *Service) DidOpen(uri lsptypes.URI, text string) {
	s.files.DidOpen(uri, text)
	s.markDirty(uri)
}

// DidChange forwards to FileCache and schedules an update.
func (s *Service) DidChange(uri lsptypes.URI, text string) {
	s.files.DidChange(uri, text)
	s.markDirty(uri)
}

// DidClose forwards to FileCache and schedules an update. The closed
// file is not marked dirty, so that update does not re-analyze it: its
// SourceUnit and diagnostics are retained as they were, and no empty
// diagnostic list is published for it.
func (s *Service) DidClose(uri lsptypes.URI) {
	s.files.DidClose(uri)
	s.markDirty(uri)
}

// UpdateLater schedules an update after the debounce window, resetting
// it if one is already pending.
func (s *Service) UpdateLater() {
	s.mu.Lock()
	s.awaitingUpdate = true
	s.mu.Unlock()
	s.debouncer.Schedule(debounceKey, func() { _ = s.update(context.Background()) })
}

// UpdateNow cancels any pending timer and runs the update immediately.
func (s *Service) UpdateNow(ctx context.Context) error {
	s.debouncer.Cancel(debounceKey)
	return s.update(ctx)
}

// AwaitUpdate blocks until an in-flight update completes, or until twice
// the debounce window has elapsed, whichever comes first; it returns
// regardless of which (spec.md §4.8: "return regardless of outcome").
func (s *Service) AwaitUpdate() {
	s.mu.Lock()
	if !s.awaitingUpdate {
		s.mu.Unlock()
		return
	}
	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		for s.awaitingUpdate {
			s.cond.Wait()
		}
		s.mu.Unlock()
		close(done)
	}()
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * s.debouncer.Delay()):
	}
}

// update drains dirty URIs, analyzes them, publishes diagnostics for the
// affected set, clears awaitingUpdate, and wakes any AwaitUpdate waiters.
// Runs under the monitor so concurrent feature queries for a given URI
// never observe a torn state (spec.md §4.8).
func (s *Service) update(ctx context.Context) error {
	s.mu.Lock()
	defer func() {
		s.awaitingUpdate = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}()

	dirty := s.files.TakeDirty()
	if len(dirty) == 0 {
		return nil
	}
	changed, err := s.cache.Analyze(ctx, dirty)
	if err != nil {
		s.log.Error("analyze failed: %v", err)
		return err
	}
	if s.publish != nil {
		s.publish(changed)
	}
	return nil
}

// Shutdown stops the workspace watcher and the debouncer.
func (s *Service) Shutdown() {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()
	if w != nil {
		w.Stop()
	}
	s.debouncer.Shutdown()
}
