package infra

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server to provide graceful startup and shutdown helpers.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer creates a configured HTTP server instance. Every request
// context derives from ctx; cancelling it cancels in-flight job polls. The
// write timeout must outlast a full image-to-video poll cycle.
func NewHTTPServer(ctx context.Context, cfg *Config, handler http.Handler) *HTTPServer {
	if ctx == nil {
		ctx = context.Background()
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return &HTTPServer{server: srv}
}

// Addr reports the listen address.
func (s *HTTPServer) Addr() string {
	if s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start runs the HTTP server in the current goroutine. A graceful shutdown is
// not reported as an error.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return ignoreClosed(s.server.ListenAndServe())
}

// Serve accepts connections on l until the server is shut down.
func (s *HTTPServer) Serve(l net.Listener) error {
	if s.server == nil {
		return nil
	}
	return ignoreClosed(s.server.Serve(l))
}

// Shutdown gracefully stops the HTTP server. Connections still open when ctx
// expires are closed forcibly.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if err != nil {
		_ = s.server.Close()
	}
	return err
}

func ignoreClosed(err error) error {
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
