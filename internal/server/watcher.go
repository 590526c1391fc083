package server

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/druidlabs/sampleserve/internal/config"
)

const watchDebounce = 300 * time.Millisecond

// watcher re-announces the file inventory when files appear in or
// vanish from the serving root, so the printed URLs stay current while
// an operator is copying sample files around. Serving itself never
// consults it.
type watcher struct {
	fsw *fsnotify.Watcher
	wg  sync.WaitGroup

	files afero.Fs
	cfg   *config.Config
	out   io.Writer

	mu   sync.Mutex
	seen []string
}

func startWatcher(dir string, files afero.Fs, cfg *config.Config, out io.Writer) *watcher {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("Failed to create file watcher", "error", err)
		return nil
	}
	if err := fsw.Add(dir); err != nil {
		slog.Warn("Failed to watch directory", "dir", dir, "error", err)
		if cerr := fsw.Close(); cerr != nil {
			slog.Warn("Failed to close file watcher", "error", cerr)
		}
		return nil
	}

	w := &watcher{fsw: fsw, files: files, cfg: cfg, out: out}
	// The banner already announced the startup inventory.
	w.seen = inventoryNames(files)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		var debounceTimer *time.Timer
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Chmod != 0 {
					continue
				}

				// Debounce bursts, e.g. a multi-file copy.
				if debounceTimer != nil {
					debounceTimer.Reset(watchDebounce)
				} else {
					debounceTimer = time.AfterFunc(watchDebounce, w.announce)
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Warn("Watcher error", "error", err)
			}
		}
	}()
	return w
}

func stopWatcher(w *watcher) {
	if w == nil {
		return
	}
	if err := w.fsw.Close(); err != nil {
		slog.Warn("Failed to close file watcher", "error", err)
	}
	w.wg.Wait()
}

// announce prints the inventory if the set of served files differs from
// the last announced one. Content rewrites of an existing file change
// no URL, so they stay quiet.
func (w *watcher) announce() {
	entries, err := listFiles(w.files)
	if err != nil {
		slog.Warn("Failed to list sample data files", "error", err)
		return
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	w.mu.Lock()
	changed := !slices.Equal(names, w.seen)
	if changed {
		w.seen = names
	}
	w.mu.Unlock()
	if !changed {
		return
	}

	fmt.Fprintf(w.out, "\n📄 Sample data updated (%d files):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(w.out, "   - %s (%d bytes)\n", w.cfg.URL(e.Name), e.Size)
	}
}

func inventoryNames(files afero.Fs) []string {
	entries, err := listFiles(files)
	if err != nil {
		return nil
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
