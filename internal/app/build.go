package app

import (
	"errors"
	"fmt"

	"github.com/bassista/paddock/internal/clock"
	"github.com/bassista/paddock/internal/config"
	"github.com/bassista/paddock/internal/feed"
	"github.com/bassista/paddock/internal/fetch"
	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/lookup"
	"github.com/bassista/paddock/internal/store"
	"github.com/bassista/paddock/internal/widget"
)

// Build wires the cache store, fetcher, lookup table and widget service described by cfg.
func Build(cfg *config.Config, clk clock.Clock) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if clk == nil {
		clk = clock.System{}
	}

	st, err := store.NewStoreFromConfig(cfg.Cache.Backend, cfg.Cache.Dir, clk)
	if err != nil {
		return nil, fmt.Errorf("cannot init cache store: %w", err)
	}

	f, err := fetch.New(st,
		fetch.WithClock(clk),
		fetch.WithTimeout(cfg.Feeds.FetchTimeout),
		fetch.WithUserAgent(cfg.Feeds.UserAgent),
	)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	table := lookup.NewTable()
	var src Watcher
	if cfg.Lookup.FilePath != "" {
		fs, err := lookup.NewFileSource(cfg.Lookup.FilePath)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		if doc, err := fs.Load(); err != nil {
			logger.WithComponent("app").Warnf("lookup file not loaded, using built-in table: %v", err)
		} else {
			table.Replace(*doc)
		}
		src = fs
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	svc := widget.NewService(f, table, clk, Slots(cfg.Feeds), widget.Display{
		Location:    loc,
		Assets:      widget.Assets{BaseURL: cfg.Display.AssetsBaseURL},
		IncludeFlag: cfg.Display.IncludeFlag,
	})

	return New(cfg, svc, table, st, f, src)
}

// Slots maps the feed configuration to fetch slots with their payload validators.
func Slots(feeds config.FeedsConfig) widget.Slots {
	slot := func(fc config.FeedConfig, validate func([]byte) error) fetch.Slot {
		return fetch.Slot{Name: fc.Slot, Resource: fc.URL, Expiry: fc.Expiry, Validate: validate}
	}
	return widget.Slots{
		Schedule:             slot(feeds.Schedule, feed.ValidateSchedule),
		DriverStandings:      slot(feeds.DriverStandings, feed.ValidateDriverStandings),
		ConstructorStandings: slot(feeds.ConstructorStandings, feed.ValidateConstructorStandings),
	}
}
