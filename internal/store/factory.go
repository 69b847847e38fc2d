package store

import (
	"fmt"

	"github.com/bassista/paddock/internal/clock"
)

const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// NewStoreFromConfig creates the Store for the configured backend.
// An empty backend means "file".
func NewStoreFromConfig(backend, dir string, clk clock.Clock) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir)
	case BackendBadger:
		return OpenBadgerStore(dir, clk)
	case BackendMemory:
		return NewMemoryStore(clk), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: %s, %s, %s)", backend, BackendFile, BackendBadger, BackendMemory)
	}
}
