package app

import (
	"context"
	"errors"
	"sync"

	"github.com/bassista/paddock/internal/config"
	"github.com/bassista/paddock/internal/fetch"
	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/lookup"
	"github.com/bassista/paddock/internal/store"
	"github.com/bassista/paddock/internal/widget"
)

// Watcher keeps the lookup table in sync with its source. *lookup.FileSource implements it.
type Watcher interface {
	StartWatcher(ctx context.Context, table *lookup.Table) error
}

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config  *config.Config
	Service *widget.Service
	Lookup  *lookup.Table
	Store   store.Store
	// Fetcher is warmed in the background when Config.Feeds.WarmInterval is set.
	Fetcher fetch.SlotObtainer
	// LookupSource is nil when no override file is configured.
	LookupSource Watcher

	BaseCtx context.Context
	Cancel  context.CancelFunc

	warmerDone <-chan struct{}
	stopOnce   sync.Once
}

func New(cfg *config.Config, svc *widget.Service, table *lookup.Table, st store.Store, f fetch.SlotObtainer, src Watcher) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if svc == nil {
		return nil, errors.New("service is nil")
	}
	if table == nil {
		return nil, errors.New("lookup table is nil")
	}
	if st == nil {
		return nil, errors.New("cache store is nil")
	}
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:       cfg,
		Service:      svc,
		Lookup:       table,
		Store:        st,
		Fetcher:      f,
		LookupSource: src,
		BaseCtx:      ctx,
		Cancel:       cancel,
	}, nil
}

// Shutdown stops the background goroutines and closes the cache store once the
// warmer has returned. Later calls are no-ops.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.stopOnce.Do(func() {
		a.Cancel()
		if a.warmerDone != nil {
			<-a.warmerDone
		}
		if a.Store != nil {
			if err := a.Store.Close(); err != nil {
				logger.WithComponent("app").Warnf("closing cache store: %v", err)
			}
		}
	})
}

// StartWatchers starts the lookup file watcher and the cache warmer.
func (a *App) StartWatchers() error {
	if a.LookupSource != nil {
		if err := a.LookupSource.StartWatcher(a.BaseCtx, a.Lookup); err != nil {
			return err
		}
	}

	if interval := a.Config.Feeds.WarmInterval; interval > 0 {
		slots := a.Service.Slots()
		a.warmerDone = fetch.StartWarmer(a.BaseCtx, a.Fetcher, []fetch.Slot{
			slots.Schedule,
			slots.DriverStandings,
			slots.ConstructorStandings,
		}, interval)
	} else {
		logger.WithComponent("app").Debug("cache warmer disabled")
	}
	return nil
}
