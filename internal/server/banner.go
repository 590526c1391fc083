package server

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"

	"github.com/druidlabs/sampleserve/internal/config"
)

type fileEntry struct {
	Name   string
	Size   int64
	Digest string
}

// listFiles enumerates the regular files directly under the serving
// root, sorted by name. Subdirectories are skipped; they are still
// reachable over HTTP, just not advertised.
func listFiles(files afero.Fs) ([]fileEntry, error) {
	infos, err := afero.ReadDir(files, "/")
	if err != nil {
		return nil, fmt.Errorf("list sample data: %w", err)
	}

	var entries []fileEntry
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, fileEntry{
			Name:   info.Name(),
			Size:   info.Size(),
			Digest: digestFile(files, info.Name()),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// digestFile returns a short blake3 digest so operators can spot-check
// what an ingestion job actually pulled. Best-effort.
func digestFile(files afero.Fs, name string) string {
	f, err := files.Open(path.Join("/", name))
	if err != nil {
		return ""
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close sample file", "path", name, "error", cerr)
		}
	}()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))[:8]
}

func printBanner(w io.Writer, files afero.Fs, cfg *config.Config) {
	divider := strings.Repeat("=", 70)
	title := color.New(color.Bold, color.FgCyan)

	fmt.Fprintln(w, divider)
	title.Fprintln(w, "🚀 Sample Data HTTP Server")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "📁 Serving directory: %s\n", cfg.Dir)
	fmt.Fprintf(w, "🌐 Server running at: http://localhost:%d/\n", cfg.Port)
	fmt.Fprintf(w, "🌐 Network address:   http://%s:%d/\n", cfg.Host, cfg.Port)
	fmt.Fprintln(w, divider)

	entries, err := listFiles(files)
	if err != nil {
		slog.Warn("Failed to list sample data files", "error", err)
	}
	fmt.Fprintf(w, "📄 Available files (%d):\n", len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("   - %s (%d bytes", cfg.URL(e.Name), e.Size)
		if e.Digest != "" {
			line += ", blake3 " + e.Digest
		}
		fmt.Fprintln(w, line+")")
	}
	fmt.Fprintln(w, divider)

	fmt.Fprintln(w, "\n💡 Usage in Druid:")
	fmt.Fprintln(w, "   1. Open Druid Console: http://localhost:31888")
	fmt.Fprintln(w, "   2. Load data → HTTP")
	fmt.Fprintf(w, "   3. URI: http://localhost:%d/<filename>\n", cfg.Port)
	if len(entries) > 0 {
		fmt.Fprintf(w, "   Example: %s\n", cfg.URL(entries[0].Name))
	}
	fmt.Fprintln(w, "\n⚠️  Press Ctrl+C to stop the server")
	fmt.Fprintln(w, divider)
}
