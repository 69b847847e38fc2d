// Package fetch implements the cache-backed refresh policy: serve a fresh cache slot without
// touching the network, otherwise fetch once and fall back to the stale slot on failure.
//
// Concurrent Obtain calls on the same slot are not synchronized. Two callers that both find
// the slot stale will both fetch and both write; the last write wins.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bassista/paddock/internal/clock"
	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/store"
)

var (
	// ErrNetworkFailure covers transport errors and non-200 responses.
	ErrNetworkFailure = errors.New("network failure")
	// ErrMalformedPayload covers empty bodies and bodies rejected by the slot validator.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNoDataAvailable is returned when the fetch failed and the slot was never written.
	ErrNoDataAvailable = errors.New("no data available")
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "paddock/1.0"
	maxBodySize      = 8 << 20
)

// Slot is the immutable configuration of one cached resource.
type Slot struct {
	// Name identifies the cache slot in the store.
	Name string
	// Resource is the remote URL.
	Resource string
	Expiry   time.Duration
	// Validate rejects malformed payloads. Nil accepts any non-empty body.
	Validate func([]byte) error
}

// Source tells where a Result came from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
	SourceStale   Source = "stale"
)

// Result is a payload with its provenance. FetchedAt is the slot's last-write time for
// cached and stale results.
type Result struct {
	Data      []byte
	Source    Source
	FetchedAt time.Time
}

// Fetcher obtains payloads for slots.
type Fetcher struct {
	store     store.Store
	http      *http.Client
	clock     clock.Clock
	userAgent string
	timeout   time.Duration
}

type Option func(*Fetcher)

func WithHTTPClient(h *http.Client) Option {
	return func(f *Fetcher) { f.http = h }
}

func WithClock(c clock.Clock) Option {
	return func(f *Fetcher) { f.clock = c }
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithTimeout bounds each network attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// New returns a Fetcher backed by s.
func New(s store.Store, opts ...Option) (*Fetcher, error) {
	if s == nil {
		return nil, errors.New("fetch: store is required")
	}
	f := &Fetcher{
		store:     s,
		http:      http.DefaultClient,
		clock:     clock.System{},
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Obtain returns the payload of slot. The only error it returns wraps ErrNoDataAvailable.
func (f *Fetcher) Obtain(ctx context.Context, slot Slot) (*Result, error) {
	log := logger.WithComponent("fetch").WithField("slot", slot.Name)
	now := f.clock.Now()

	cached, writtenAt, ok := f.readCached(slot)
	if ok {
		age := now.Sub(writtenAt)
		if age < slot.Expiry {
			log.Debugf("cache hit (age %s)", age.Round(time.Second))
			return &Result{Data: cached, Source: SourceCache, FetchedAt: writtenAt}, nil
		}
		log.Debugf("cache stale (age %s, expiry %s)", age.Round(time.Second), slot.Expiry)
	} else {
		log.Debug("cache absent")
	}

	data, err := f.download(ctx, slot)
	if err == nil {
		if werr := f.store.Write(slot.Name, data); werr != nil {
			log.Warnf("fetched but could not cache: %v", werr)
		} else {
			log.Infof("fetched and cached %d bytes", len(data))
		}
		return &Result{Data: data, Source: SourceNetwork, FetchedAt: now}, nil
	}

	if ok {
		log.Warnf("serving stale cache: %v", err)
		return &Result{Data: cached, Source: SourceStale, FetchedAt: writtenAt}, nil
	}
	log.Errorf("no data: %v", err)
	return nil, fmt.Errorf("%w: %s: %w", ErrNoDataAvailable, slot.Name, err)
}

// readCached returns the slot payload when it is present and well formed.
func (f *Fetcher) readCached(slot Slot) ([]byte, time.Time, bool) {
	log := logger.WithComponent("fetch").WithField("slot", slot.Name)
	exists, err := f.store.Exists(slot.Name)
	if err != nil {
		log.Warnf("cache exists check failed: %v", err)
		return nil, time.Time{}, false
	}
	if !exists {
		return nil, time.Time{}, false
	}
	data, err := f.store.Read(slot.Name)
	if err != nil {
		log.Warnf("cache read failed: %v", err)
		return nil, time.Time{}, false
	}
	writtenAt, err := f.store.LastModified(slot.Name)
	if err != nil {
		log.Warnf("cache mtime failed: %v", err)
		return nil, time.Time{}, false
	}
	if err := check(slot, data); err != nil {
		log.Warnf("ignoring cached payload: %v", err)
		return nil, time.Time{}, false
	}
	return data, writtenAt, true
}

func (f *Fetcher) download(ctx context.Context, slot Slot) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, slot.Resource, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("%w: %s returned %d", ErrNetworkFailure, slot.Resource, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrNetworkFailure, err)
	}
	if err := check(slot, body); err != nil {
		return nil, err
	}
	return body, nil
}

func check(slot Slot, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	if slot.Validate != nil {
		if err := slot.Validate(data); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
	}
	return nil
}
