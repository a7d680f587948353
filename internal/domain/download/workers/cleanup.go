package workers

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/config"
)

// CleanupWorker periodically removes stale files from the scratch directory.
// Files survive at most maxAge; delivered assets are normally removed much
// earlier by the download pipeline itself.
type CleanupWorker struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
	logger   zerolog.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

func NewCleanupWorker(cfg *config.StorageConfig, logger zerolog.Logger) *CleanupWorker {
	return &CleanupWorker{
		dir:      cfg.Dir,
		interval: cfg.SweepInterval,
		maxAge:   cfg.MaxAge,
		logger:   logger.With().Str("component", "cleanup_worker").Logger(),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a background goroutine
func (w *CleanupWorker) Start() {
	w.wg.Add(1)
	go w.run()

	w.logger.Info().
		Str("dir", w.dir).
		Dur("interval", w.interval).
		Dur("max_age", w.maxAge).
		Msg("Cleanup worker started")
}

// Stop signals the worker to stop and waits for the current sweep to finish
func (w *CleanupWorker) Stop() {
	close(w.done)
	w.wg.Wait()

	w.logger.Info().Msg("Cleanup worker stopped")
}

func (w *CleanupWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep removes every regular file in the scratch directory older than maxAge.
// Errors on individual entries are logged and do not abort the sweep.
func (w *CleanupWorker) Sweep() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Error().Err(err).Str("dir", w.dir).Msg("Failed to read scratch directory")
		return
	}

	cutoff := time.Now().Add(-w.maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to stat scratch file")
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			w.logger.Warn().Err(err).Str("file", path).Msg("Failed to remove stale file")
			continue
		}

		removed++
	}

	if removed > 0 {
		w.logger.Info().Int("removed", removed).Msg("Swept stale files from scratch directory")
	}
}

// Drain removes every remaining regular file regardless of age.
// Called once on shutdown so the scratch directory does not accumulate
// leftovers across restarts.
func (w *CleanupWorker) Drain() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Error().Err(err).Str("dir", w.dir).Msg("Failed to read scratch directory")
		return
	}

	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			w.logger.Warn().Err(err).Str("file", path).Msg("Failed to remove file on drain")
			continue
		}

		removed++
	}

	w.logger.Info().Int("removed", removed).Msg("Scratch directory drained")
}
