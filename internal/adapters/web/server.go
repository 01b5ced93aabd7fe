package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"medequip-admin/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may run after ctx ends.
const shutdownTimeout = 10 * time.Second

// Serve listens on addr until ctx is cancelled, then drains open requests.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	log := logger.WithComponent("server")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
