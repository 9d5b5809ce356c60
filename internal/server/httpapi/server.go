package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/logging"
)

// HTTPServer serves the bookstore API until its context is cancelled.
type HTTPServer struct {
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          logging.Logger
}

func NewHTTPServer(a string, h http.Handler, shutdownTimeout time.Duration, l logging.Logger) *HTTPServer {
	return &HTTPServer{
		address:         a,
		handler:         h,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// in-flight requests keep running while Shutdown drains them
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		// ctx is already done, shutdown needs its own deadline
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
