package startup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCurrentDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	got, err := ResolveLaunchPath(".")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}

func TestResolveRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "notes"), 0o755))
	chdir(t, dir)

	got, err := ResolveLaunchPath("notes")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(dir, "notes"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	got, err := ResolveLaunchPath(link)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveMissingPath(t *testing.T) {
	_, err := ResolveLaunchPath(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestAnnounceEmitsOpenFolder(t *testing.T) {
	rec := events.NewRecorder()
	dir := t.TempDir()

	path, ok := Announce(context.Background(), dir, rec, nil)
	require.True(t, ok)

	got := rec.Named(events.OpenFolder)
	require.Len(t, got, 1)
	assert.Equal(t, path, got[0].Payload)
}

func TestAnnounceIgnoresFailures(t *testing.T) {
	rec := events.NewRecorder()

	_, ok := Announce(context.Background(), filepath.Join(t.TempDir(), "gone"), rec, nil)
	assert.False(t, ok)

	_, ok = Announce(context.Background(), "", rec, nil)
	assert.False(t, ok)

	assert.Empty(t, rec.Events())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory, sets PWD, and restores both when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", abs)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
