package workers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/TikFlow/config"
)

func newTestWorker(t *testing.T, maxAge time.Duration) *CleanupWorker {
	t.Helper()

	return NewCleanupWorker(&config.StorageConfig{
		Dir:           t.TempDir(),
		SweepInterval: time.Hour,
		MaxAge:        maxAge,
	}, zerolog.Nop())
}

func writeFileAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	return path
}

func TestCleanupWorker_Sweep_RemovesOnlyStaleFiles(t *testing.T) {
	worker := newTestWorker(t, 30*time.Minute)

	stale := writeFileAged(t, worker.dir, "stale.mp4", time.Hour)
	fresh := writeFileAged(t, worker.dir, "fresh.mp4", time.Minute)

	worker.Sweep()

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err), "stale file should be removed")

	_, err = os.Stat(fresh)
	require.NoError(t, err, "fresh file should survive the sweep")
}

func TestCleanupWorker_Sweep_SkipsDirectories(t *testing.T) {
	worker := newTestWorker(t, time.Nanosecond)

	sub := filepath.Join(worker.dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	worker.Sweep()

	_, err := os.Stat(sub)
	require.NoError(t, err)
}

func TestCleanupWorker_Sweep_MissingDirDoesNotPanic(t *testing.T) {
	worker := NewCleanupWorker(&config.StorageConfig{
		Dir:           filepath.Join(t.TempDir(), "does-not-exist"),
		SweepInterval: time.Hour,
		MaxAge:        time.Minute,
	}, zerolog.Nop())

	worker.Sweep()
}

func TestCleanupWorker_Drain_RemovesEverything(t *testing.T) {
	worker := newTestWorker(t, time.Hour)

	writeFileAged(t, worker.dir, "a.mp4", time.Minute)
	writeFileAged(t, worker.dir, "b.mp4", time.Second)

	worker.Drain()

	entries, err := os.ReadDir(worker.dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCleanupWorker_StartStop(t *testing.T) {
	worker := NewCleanupWorker(&config.StorageConfig{
		Dir:           t.TempDir(),
		SweepInterval: 10 * time.Millisecond,
		MaxAge:        time.Nanosecond,
	}, zerolog.Nop())

	writeFileAged(t, worker.dir, "stale.mp4", time.Minute)

	worker.Start()

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(worker.dir)
		return err == nil && len(entries) == 0
	}, time.Second, 5*time.Millisecond)

	worker.Stop()
}
