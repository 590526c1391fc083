package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/druidlabs/sampleserve/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Run starts the sample data server and serves until ctx is cancelled,
// then shuts down gracefully. The serving root is bound into the
// handler as a rooted filesystem; the working directory is untouched.
func Run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Common ingestion formats that the platform mime table may miss.
	_ = mime.AddExtensionType(".csv", "text/csv")
	_ = mime.AddExtensionType(".ndjson", "application/x-ndjson")

	files := afero.NewBasePathFs(afero.NewOsFs(), cfg.Dir)

	printBanner(os.Stdout, files, cfg)

	w := startWatcher(cfg.Dir, files, cfg, os.Stdout)
	defer stopWatcher(w)

	requestLog := log.New(os.Stdout, "", 0)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: NewHandler(files, requestLog, cfg.Gzip),
	}

	go func() {
		<-ctx.Done()
		fmt.Println("\n🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	fmt.Println("✅ Server stopped.")
	return nil
}
