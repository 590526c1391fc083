package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// NewHandler builds the request handler chain over a serving root
// bound as a plain filesystem value: file serving, optional gzip,
// CORS decoration, and request logging. The handler never sees paths
// outside the root because the filesystem itself is rooted there.
func NewHandler(files afero.Fs, logger *log.Logger, gzipEnabled bool) http.Handler {
	fileServer := http.FileServer(afero.NewHttpFs(files).Dir("/"))

	h := serveFiles(fileServer)
	if gzipEnabled {
		h = gzipHandler(h)
	}
	return logHandler(logger, corsHandler(h))
}

func serveFiles(fileServer http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			// FileServer would answer 400 here; a plain 404 leaks
			// nothing about what exists above the root.
			if containsDotDot(r.URL.Path) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("404 - Not Found"))
				return
			}
			fileServer.ServeHTTP(w, r)
		case http.MethodOptions:
			// Pre-flight: empty body, headers already decorated.
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write([]byte("405 - Method Not Allowed"))
		}
	}
}

// corsHandler sets the cross-origin headers before the response is
// written so every status code carries them.
func corsHandler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

// gzipResponseWriter wraps the underlying ResponseWriter to enable Gzip
// compression. The decision is made at WriteHeader time: only 200
// responses are compressed, so error bodies (and http.Error's header
// stripping) stay plain text.
type gzipResponseWriter struct {
	gz *gzip.Writer
	http.ResponseWriter
	compressing bool
	wroteHeader bool
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.compressing {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if code == http.StatusOK {
		w.compressing = true
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}

func gzipHandler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(w, r)
			return
		}
		gzw := &gzipResponseWriter{gz: gzip.NewWriter(w), ResponseWriter: w}
		defer func() {
			// An unused gzip.Writer must not be closed: Close would
			// emit the gzip header into a plain response.
			if gzw.compressing {
				_ = gzw.gz.Close()
			}
		}()
		next(gzw, r)
	}
}

// logResponseWriter records status and body size for the request log.
type logResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *logResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *logResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// logHandler emits one tagged line per handled request. Logging is
// best-effort and never affects the response.
func logHandler(logger *log.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lw := &logResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next(lw, r)
		if logger != nil {
			logger.Printf("[HTTP] %s - %q %d %d",
				r.RemoteAddr,
				r.Method+" "+r.RequestURI+" "+r.Proto,
				lw.status, lw.bytes)
		}
	}
}
