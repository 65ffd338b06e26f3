// Package store provides the durable key-value collaborator. Components
// above it depend only on the KV interface: get, put, and prefix-ordered
// list. No transactions, no compare-and-set — multi-step writes at higher
// layers are sequences of independent calls and must tolerate partial
// completion.
package store

import (
	"bytes"
	"errors"

	"github.com/cockroachdb/pebble"

	"councild/pkg/logger"
)

// KV is the storage contract the rest of the system is written against.
// List must return keys in ascending lexicographic order; the message log
// relies on that for chronological reads.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	// Put writes key to value, overwriting any previous value.
	Put(key, value string) error
	// List returns all keys with the given prefix in ascending order.
	List(prefix string) ([]string, error)
}

// Pebble is the production KV backed by an embedded Pebble database.
// Pebble iterators yield keys in ascending byte order, which satisfies
// the sorted-prefix contract of KV.List.
type Pebble struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at path.
func Open(path string) (*Pebble, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("pebble_opened", "path", path)
	return &Pebble{db: db}, nil
}

// Close closes the underlying database.
func (p *Pebble) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	logger.Info("pebble_closed")
	return err
}

// Ready reports whether the store is opened and usable.
func (p *Pebble) Ready() bool { return p != nil && p.db != nil }

// Get returns the value stored under key, if any.
func (p *Pebble) Get(key string) (string, bool, error) {
	v, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		observeOp("get", "miss")
		return "", false, nil
	}
	if err != nil {
		observeOp("get", "error")
		logger.Error("get_key_failed", "key", key, "error", err)
		return "", false, err
	}
	out := string(v)
	if closer != nil {
		_ = closer.Close()
	}
	observeOp("get", "ok")
	return out, true, nil
}

// Put writes value under key. Writes are synced so an acknowledged claim
// or message survives a crash.
func (p *Pebble) Put(key, value string) error {
	if err := p.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		observeOp("put", "error")
		logger.Error("put_key_failed", "key", key, "error", err)
		return err
	}
	observeOp("put", "ok")
	logger.Debug("put_key_ok", "key", key, "len", len(value))
	return nil
}

// List returns all keys starting with prefix in ascending lexicographic
// order.
func (p *Pebble) List(prefix string) ([]string, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		observeOp("list", "error")
		return nil, err
	}
	defer iter.Close()
	pfx := []byte(prefix)
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		out = append(out, string(k))
	}
	if err := iter.Error(); err != nil {
		observeOp("list", "error")
		return nil, err
	}
	observeOp("list", "ok")
	return out, nil
}
