// Package main serves the task store over HTTP as a JSON API.
// It opens the same config and storage as the desktop app, so both
// surfaces share one task collection.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MihkelHunter/mkPlanner/internal/app"
	"github.com/MihkelHunter/mkPlanner/internal/web"
)

func main() {
	configPath := flag.String("config", "", "config file")
	addr := flag.String("addr", "", "listen address (overrides web.addr)")
	flag.Parse()

	a, err := app.Open(*configPath)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if *addr == "" {
		*addr = a.Config.Web.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           web.New(a.Store, a.Log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.Log.Info("web API listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
