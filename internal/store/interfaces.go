// Package store holds the cache slots behind the fetcher. A slot holds one payload;
// every write replaces the previous payload and refreshes its last-write time.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a slot has never been written.
var ErrNotFound = errors.New("cache slot not found")

// Reader is the read side of a cache store.
type Reader interface {
	// Exists reports whether slot holds a payload.
	Exists(slot string) (bool, error)
	// Read returns the payload of slot or ErrNotFound.
	Read(slot string) ([]byte, error)
	// LastModified returns the last write time of slot or ErrNotFound.
	LastModified(slot string) (time.Time, error)
}

// Writer is the write side of a cache store.
type Writer interface {
	// Write fully replaces the payload of slot.
	Write(slot string, data []byte) error
}

// Store is the cache contract the fetcher depends on.
type Store interface {
	Reader
	Writer
	Close() error
}
