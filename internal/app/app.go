// Package app wires the client-side services together for the lifetime of a
// command invocation.
package app

import (
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/session"
)

// App is the dependency container handed to commands and TUI models.
type App struct {
	Config  *config.Config
	Client  *api.Client
	Cache   *cache.Cache
	Session *session.Service

	store *session.Store
}

// New builds the application services from configuration.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := session.OpenStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	sess := session.NewService(store)
	client := api.NewClient(cfg.APIBaseURL, sess.Token)
	sess.UseClient(client)

	return &App{
		Config:  cfg,
		Client:  client,
		Cache:   cache.New(),
		Session: sess,
		store:   store,
	}, nil
}

// Close releases the local session store.
func (a *App) Close() error {
	return a.store.Close()
}
