// Package server previews a built site locally: it serves the output
// directory, reports file changes to the browser over /events and sends
// the search index and wasm bundle with the right headers.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/Kush-Singh-26/kosh-client/client/config"
)

// Server is the preview server.
type Server struct {
	dir      string
	prefix   string
	addr     string
	debounce time.Duration
	shutdown time.Duration
	logger   *slog.Logger
	hub      *hub
}

func New(cfg config.ServerConfig, prefix string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dir:      cfg.Dir,
		prefix:   prefix,
		addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		debounce: cfg.DebounceDuration,
		shutdown: cfg.ShutdownTimeout,
		logger:   logger,
		hub:      newHub(),
	}
}

// Addr is the host:port the server listens on.
func (s *Server) Addr() string { return s.addr }

// Handler routes /events to the reload stream and everything else to the
// gzip-compressed file handler.
func (s *Server) Handler() http.Handler {
	_ = mime.AddExtensionType(".wasm", "application/wasm")

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.hub.handleSSE)
	mux.Handle("/", gzhttp.GzipHandler(http.HandlerFunc(s.serveFile)))
	return mux
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	normalizedPath := normalizeRequestPath(r.URL.Path, s.prefix)

	fullPath, err := validatePath(s.dir, normalizedPath)
	if err != nil {
		http.Error(w, "403 - Forbidden: Invalid path", http.StatusForbidden)
		return
	}

	fileInfo, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.notFound(w)
			return
		}
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}
	if fileInfo.IsDir() {
		fullPath = filepath.Join(fullPath, "index.html")
		if _, err := os.Stat(fullPath); err != nil {
			s.notFound(w)
			return
		}
	}

	filename := filepath.Base(fullPath)
	switch {
	case isHashedAsset(filename):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case strings.HasSuffix(filename, ".html"), strings.HasSuffix(filename, ".json"):
		// Pages and the search index must be revalidated after every build.
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	default:
		w.Header().Set("Cache-Control", "public, max-age=60")
	}

	http.ServeFile(w, r, fullPath)
}

func (s *Server) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if content, err := os.ReadFile(filepath.Join(s.dir, "404.html")); err == nil {
		_, _ = w.Write(content)
		return
	}
	_, _ = w.Write([]byte("404 - Page Not Found"))
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("serve directory: %w", err)
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := s.watch(watchCtx); err != nil {
			s.logger.Warn("Auto-reload disabled", "dir", s.dir, "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		fmt.Println("\n🛑 Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	fmt.Printf("🌐 Serving %s on http://%s\n", s.dir, s.addr)
	if strings.HasPrefix(s.addr, "0.0.0.0:") {
		fmt.Println("   (Accessible on your local network)")
	}
	fmt.Println("   (Auto-reload enabled via /events)")

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	fmt.Println("✅ Server stopped.")
	return nil
}
