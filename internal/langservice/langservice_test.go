package langservice

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

type publishRecorder struct {
	mu   sync.Mutex
	done chan struct{}
	sets [][]lsptypes.URI
}

func newPublishRecorder() *publishRecorder {
	return &publishRecorder{done: make(chan struct{}, 64)}
}

func (p *publishRecorder) publish(changed []lsptypes.URI) {
	p.mu.Lock()
	p.sets = append(p.sets, changed)
	p.mu.Unlock()
	p.done <- struct{}{}
}

func (p *publishRecorder) waitForPublish(t *testing.T) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a publish call")
	}
}

func newTestService(t *testing.T, debounce time.Duration, publish PublishFunc) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	files := filecache.New()
	cache := astcache.New(files)
	svc := New(files, cache, debounce, publish, nil)
	t.Cleanup(svc.Shutdown)
	return svc, dir
}

func TestInitializeScansAndAnalyzesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wfl"), []byte("workflow { main: }"), 0o644))

	files := filecache.New()
	cache := astcache.New(files)
	rec := newPublishRecorder()
	svc := New(files, cache, 20*time.Millisecond, rec.publish, nil)
	t.Cleanup(svc.Shutdown)

	require.NoError(t, svc.Initialize(context.Background(), dir, nil, false))

	uri := lsptypes.URI(filepath.Join(dir, "main.wfl"))
	assert.True(t, cache.HasAST(uri))
}

func TestDidOpenSchedulesDebouncedUpdate(t *testing.T) {
	rec := newPublishRecorder()
	svc, dir := newTestService(t, 20*time.Millisecond, rec.publish)
	require.NoError(t, svc.Initialize(context.Background(), dir, nil, false))

	uri := lsptypes.URI(filepath.Join(dir, "main.wfl"))
	svc.DidOpen(uri, "workflow { main: }")

	rec.waitForPublish(t)
}

func TestUpdateNowBypassesDebounceWindow(t *testing.T) {
	rec := newPublishRecorder()
	svc, dir := newTestService(t, time.Hour, rec.publish)
	require.NoError(t, svc.Initialize(context.Background(), dir, nil, false))

	uri := lsptypes.URI(filepath.Join(dir, "main.wfl"))
	svc.DidOpen(uri, "workflow { main: }")

	require.NoError(t, svc.UpdateNow(context.Background()))
	rec.waitForPublish(t)
}

func TestDidChangeReanalyzesUpdatedContent(t *testing.T) {
	rec := newPublishRecorder()
	svc, dir := newTestService(t, 10*time.Millisecond, rec.publish)
	require.NoError(t, svc.Initialize(context.Background(), dir, nil, false))

	uri := lsptypes.URI(filepath.Join(dir, "main.wfl"))
	svc.DidOpen(uri, "workflow { main: }")
	rec.waitForPublish(t)

	svc.DidChange(uri, "process greet {{{")
	require.NoError(t, svc.UpdateNow(context.Background()))
	rec.waitForPublish(t)
}

func TestAwaitUpdateReturnsImmediatelyWhenNothingPending(t *testing.T) {
	svc, _ := newTestService(t, 20*time.Millisecond, nil)
	done := make(chan struct{})
	go func() {
		svc.AwaitUpdate()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AwaitUpdate should return immediately when no update is pending")
	}
}

func TestAwaitUpdateBlocksUntilPendingUpdateCompletes(t *testing.T) {
	rec := newPublishRecorder()
	svc, dir := newTestService(t, 30*time.Millisecond, rec.publish)
	require.NoError(t, svc.Initialize(context.Background(), dir, nil, false))

	uri := lsptypes.URI(filepath.Join(dir, "main.wfl"))
	svc.DidOpen(uri, "workflow { main: }")

	start := time.Now()
	svc.AwaitUpdate()
	assert.GreaterOrEqual(t, time.Since(start), time.Duration(0))
	rec.waitForPublish(t)
}

func TestShutdownStopsWatcherAndDebouncerIdempotently(t *testing.T) {
	svc, dir := newTestService(t, 20*time.Millisecond, nil)
	require.NoError(t, svc.Initialize(context.Background(), dir, nil, false))
	assert.NotPanics(t, svc.Shutdown)
}
