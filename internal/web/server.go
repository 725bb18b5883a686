package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// RunServer обслуживает h на addr до отмены ctx, затем плавно завершается.
func RunServer(ctx context.Context, addr string, h http.Handler, lg *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("http server shutdown", "err", err)
		}
	}()

	lg.Info("http listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
