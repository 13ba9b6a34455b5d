package langservice

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

func TestScanWorkspaceFindsScriptAndConfigFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wfl"), []byte("workflow { main: }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nextflow.config"), []byte("docker.enabled = true"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a script"), 0o644))

	uris, err := scanWorkspace(dir, nil)
	require.NoError(t, err)
	assert.Len(t, uris, 2)
}

func TestScanWorkspaceHonorsExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "gen.wfl"), []byte("workflow { main: }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wfl"), []byte("workflow { main: }"), 0o644))

	uris, err := scanWorkspace(dir, []string{"**/build/**"})
	require.NoError(t, err)
	require.Len(t, uris, 1)
	assert.Equal(t, filepath.Join(dir, "main.wfl"), string(uris[0]))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny([]string{"**/build/**"}, "build/gen.wfl"))
	assert.False(t, matchesAny([]string{"**/build/**"}, "src/main.wfl"))
	assert.True(t, matchesAny([]string{"*.config"}, "nextflow.config"))
}

func TestWatcherReportsCreateAndWrite(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan lsptypes.URI, 8)
	w, err := NewWatcher(dir, nil, func(uri lsptypes.URI) { changed <- uri }, func(uri lsptypes.URI) {})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	target := filepath.Join(dir, "new.wfl")
	require.NoError(t, os.WriteFile(target, []byte("workflow { main: }"), 0o644))

	select {
	case uri := <-changed:
		assert.Equal(t, target, string(uri))
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification for the new file")
	}
}

func TestWatcherReportsRemove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "gone.wfl")
	require.NoError(t, os.WriteFile(target, []byte("workflow { main: }"), 0o644))

	removed := make(chan lsptypes.URI, 8)
	w, err := NewWatcher(dir, nil, func(uri lsptypes.URI) {}, func(uri lsptypes.URI) { removed <- uri })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.Remove(target))

	select {
	case uri := <-removed:
		assert.Equal(t, target, string(uri))
	case <-time.After(3 * time.Second):
		t.Fatal("expected a remove notification for the deleted file")
	}
}

func TestWatcherIgnoresNonScriptFiles(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan lsptypes.URI, 8)
	w, err := NewWatcher(dir, nil, func(uri lsptypes.URI) { changed <- uri }, func(uri lsptypes.URI) {})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	select {
	case uri := <-changed:
		t.Fatalf("did not expect a notification for a non-script file, got %s", uri)
	case <-time.After(300 * time.Millisecond):
	}
}
