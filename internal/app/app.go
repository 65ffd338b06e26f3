// Package app encapsulates server assembly and lifecycle: open the
// store, wire the components, serve HTTP, and shut down cleanly on
// signal.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"councild/pkg/config"
	"councild/pkg/convo"
	"councild/pkg/logger"
	"councild/pkg/msglog"
	"councild/pkg/seats"
	"councild/pkg/store"
)

// App holds the server components and lifecycle state.
type App struct {
	cfg     *config.Config
	addr    string
	version string

	kv  *store.Pebble
	srv *http.Server
}

// New validates the configuration and opens the store. It does not start
// the HTTP server; call Run to serve and block until shutdown.
func New(cfg *config.Config, addr, dbPath, version string) (*App, error) {
	if cfg.Security.Secret == "" {
		return nil, fmt.Errorf("no signing secret configured; set security.secret or COUNCILD_SECRET")
	}
	kv, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", dbPath, err)
	}

	dir := convo.NewDirectory(kv)
	a := &App{cfg: cfg, addr: addr, version: version, kv: kv}
	a.srv = &http.Server{
		Addr: addr,
		Handler: buildHandler(cfg,
			seats.NewRegistry(kv, cfg.Security.Secret),
			dir,
			msglog.New(kv, dir),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return a, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then drains in-flight requests
// and closes the store.
func (a *App) Run() error {
	errc := make(chan error, 1)
	go func() {
		var err error
		cert, key := a.cfg.Server.TLS.CertFile, a.cfg.Server.TLS.KeyFile
		if cert != "" && key != "" {
			err = a.srv.ListenAndServeTLS(cert, key)
		} else {
			err = a.srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		_ = a.kv.Close()
		return err
	case s := <-sigc:
		logger.Info("signal_received", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	if err := a.kv.Close(); err != nil {
		logger.Error("store_close_failed", "error", err)
		return err
	}
	logger.Info("shutdown_complete")
	return nil
}
