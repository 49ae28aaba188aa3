// Package app assembles config, logging, storage and the task store for the
// desktop, web and CLI entry points.
package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/MihkelHunter/mkPlanner/internal/config"
	"github.com/MihkelHunter/mkPlanner/internal/logging"
	"github.com/MihkelHunter/mkPlanner/internal/store"
	"github.com/MihkelHunter/mkPlanner/internal/todo"
)

// App holds the long-lived dependencies of one process.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Store  *todo.Store

	logCloser io.Closer
}

// Open loads configPath (or the default location) and opens the store it names.
func Open(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// New wires an App from an already loaded config.
func New(cfg *config.Config) (*App, error) {
	logger, closer, err := logging.Init(cfg.Log)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.Storage)
	if err != nil {
		closer.Close()
		return nil, err
	}

	st, err := todo.Open(kv, todo.WithKey(cfg.Storage.Key), todo.WithLogger(logger))
	if err != nil {
		kv.Close()
		closer.Close()
		return nil, err
	}

	logger.Info("app started", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "tasks", st.Len())
	return &App{Config: cfg, Log: logger, Store: st, logCloser: closer}, nil
}

func (a *App) Close() error {
	return errors.Join(a.Store.Close(), a.logCloser.Close())
}
