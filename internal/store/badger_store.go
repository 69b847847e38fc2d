package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bassista/paddock/internal/clock"
)

const badgerPrefix = "slot"

// envelope is the msgpack value stored per slot. Badger has no per-key mtime,
// so the write time travels with the payload.
type envelope struct {
	WrittenAt int64  `msgpack:"written_at"`
	Payload   []byte `msgpack:"payload"`
}

// BadgerStore keeps slots in an embedded badger database.
type BadgerStore struct {
	db    *badger.DB
	clock clock.Clock
	owned bool
}

// OpenBadgerStore opens (or creates) a badger database in dir and owns it.
func OpenBadgerStore(dir string, clk clock.Clock) (*BadgerStore, error) {
	if dir == "" {
		return nil, errors.New("badger dir is required")
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := NewBadgerStore(db, clk)
	s.owned = true
	return s, nil
}

// NewBadgerStore wraps an already opened database; Close leaves it open.
func NewBadgerStore(db *badger.DB, clk clock.Clock) *BadgerStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &BadgerStore{db: db, clock: clk}
}

func (b *BadgerStore) buildKey(slot string) []byte {
	return []byte(fmt.Sprintf("%s/%s", badgerPrefix, slot))
}

func (b *BadgerStore) get(slot string) (*envelope, error) {
	var env envelope
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.buildKey(slot))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &env)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return &env, nil
}

func (b *BadgerStore) Exists(slot string) (bool, error) {
	_, err := b.get(slot)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *BadgerStore) Read(slot string) ([]byte, error) {
	env, err := b.get(slot)
	if err != nil {
		return nil, err
	}
	return env.Payload, nil
}

func (b *BadgerStore) LastModified(slot string) (time.Time, error) {
	env, err := b.get(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(env.WrittenAt), nil
}

func (b *BadgerStore) Write(slot string, data []byte) error {
	buf, err := msgpack.Marshal(envelope{WrittenAt: b.clock.Now().UnixMilli(), Payload: data})
	if err != nil {
		return fmt.Errorf("marshal slot %s: %w", slot, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.buildKey(slot), buf)
	})
}

func (b *BadgerStore) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}
