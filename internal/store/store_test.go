package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassista/paddock/internal/clock"
)

func newInMemoryBadger(t *testing.T, clk clock.Clock) *BadgerStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db, clk)
}

// storeContract exercises the behaviour every backend must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()

	exists, err := s.Exists("driver_standings_cache.json")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Read("driver_standings_cache.json")
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

	_, err = s.LastModified("driver_standings_cache.json")
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

	require.NoError(t, s.Write("driver_standings_cache.json", []byte(`{"v":1}`)))

	exists, err = s.Exists("driver_standings_cache.json")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := s.Read("driver_standings_cache.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))

	// full overwrite, no merge
	require.NoError(t, s.Write("driver_standings_cache.json", []byte(`{"v":2}`)))
	data, err = s.Read("driver_standings_cache.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	// slots are independent
	exists, err = s.Exists("constructor_standings_cache.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStore_Contract(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, s)
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore(nil))
}

func TestBadgerStore_Contract(t *testing.T) {
	storeContract(t, newInMemoryBadger(t, nil))
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestNewFileStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_LastModifiedIsFileMtime(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Write("schedule", []byte(`{}`)))

	old := time.Now().Add(-6 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(s.dir, "schedule"), old, old))

	got, err := s.LastModified("schedule")
	require.NoError(t, err)
	assert.True(t, got.Equal(old), "expected %v, got %v", old, got)
}

func TestFileStore_WriteLeavesNoTempFiles(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Write("schedule", []byte(`{"races":[]}`)))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "schedule", entries[0].Name())
}

func TestSanitizeSlot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"driver_standings_cache.json", "driver_standings_cache.json"},
		{"https://api.example/f1?x=1", "https___api.example_f1_x_1"},
		{"a b|c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := sanitizeSlot(tt.in); got != tt.want {
			t.Errorf("sanitizeSlot(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}
	if got := sanitizeSlot(string(long)); len(got) != len("hash_")+32 {
		t.Errorf("expected hashed name for long slot, got %q", got)
	}
}

func TestMemoryStore_UsesClockForLastModified(t *testing.T) {
	at := time.Date(2025, 4, 4, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(at)
	s := NewMemoryStore(clk)

	require.NoError(t, s.Write("schedule", []byte(`{}`)))
	got, err := s.LastModified("schedule")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	clk.Advance(time.Hour)
	require.NoError(t, s.Write("schedule", []byte(`{}`)))
	got, err = s.LastModified("schedule")
	require.NoError(t, err)
	assert.True(t, got.Equal(at.Add(time.Hour)))
}

func TestMemoryStore_ReadReturnsCopy(t *testing.T) {
	s := NewMemoryStore(nil)
	require.NoError(t, s.Write("slot", []byte("abc")))

	data, err := s.Read("slot")
	require.NoError(t, err)
	data[0] = 'z'

	again, err := s.Read("slot")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestBadgerStore_LastModifiedFromEnvelope(t *testing.T) {
	at := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	s := newInMemoryBadger(t, clock.NewFixed(at))

	require.NoError(t, s.Write("schedule", []byte(`{"races":[]}`)))
	got, err := s.LastModified("schedule")
	require.NoError(t, err)
	assert.True(t, got.Equal(at), "expected %v, got %v", at, got)
}

func TestBadgerStore_CloseDoesNotCloseBorrowedDB(t *testing.T) {
	s := newInMemoryBadger(t, nil)
	require.NoError(t, s.Close())
	// db still usable
	require.NoError(t, s.Write("slot", []byte("x")))
}

func TestNewStoreFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
		check   func(t *testing.T, s Store)
	}{
		{"file", BackendFile, false, func(t *testing.T, s Store) { assert.IsType(t, &FileStore{}, s) }},
		{"empty defaults to file", "", false, func(t *testing.T, s Store) { assert.IsType(t, &FileStore{}, s) }},
		{"memory", BackendMemory, false, func(t *testing.T, s Store) { assert.IsType(t, &MemoryStore{}, s) }},
		{"badger", BackendBadger, false, func(t *testing.T, s Store) { assert.IsType(t, &BadgerStore{}, s) }},
		{"unknown", "redis", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStoreFromConfig(tt.backend, t.TempDir(), nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			tt.check(t, s)
		})
	}
}
