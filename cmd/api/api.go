package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type Api struct {
	config *Config
	log    *zap.Logger
}

type Config struct {
	addr            string
	shutdownTimeout time.Duration
}

func NewApi(addr string, log *zap.Logger) *Api {
	return &Api{
		config: &Config{
			addr:            addr,
			shutdownTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves r until SIGINT or SIGTERM, then drains in-flight requests.
func (a *Api) Run(r http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.serve(ctx, r)
}

func (a *Api) serve(ctx context.Context, r http.Handler) error {
	server := &http.Server{
		Addr:              a.config.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", a.config.addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
