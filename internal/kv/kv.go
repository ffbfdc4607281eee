package kv

import (
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// ErrReadOnly is returned when a write operation is attempted against a
// read-only transaction (§4.2, §7 Precondition errors).
var ErrReadOnly = errors.New("kv: write attempted on a read-only transaction")

// Database is a durable, ordered byte-keyed store providing one
// writer / many readers snapshot semantics (§4.2).
type Database struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt-backed database at path.
func Open(path string) (*Database, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", path, err)
	}
	return &Database{db: db}, nil
}

// Close releases the underlying file handle.
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("kv: close: %w", err)
	}
	return nil
}

// View runs fn within a read-only snapshot transaction. Any number of
// View calls may run concurrently with each other and with an in-flight
// Update (§4.2 concurrency contract).
func (d *Database) View(fn func(*Tx) error) error {
	err := d.db.View(func(btx *bolt.Tx) error {
		return fn(&Tx{tx: btx, writable: false})
	})
	if err != nil {
		return fmt.Errorf("kv: view: %w", err)
	}
	return nil
}

// Update runs fn within a single write transaction. Opening a writer
// while one is already live blocks until it commits or aborts (§4.2).
// fn's writes become visible to readers only if fn returns nil; any
// returned error aborts the transaction, discarding all writes
// atomically (§5 Cancellation & timeouts).
func (d *Database) Update(fn func(*Tx) error) error {
	err := d.db.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{tx: btx, writable: true})
	})
	if err != nil {
		return fmt.Errorf("kv: update: %w", err)
	}
	return nil
}

// Tx is a single read or write transaction. A transaction's own
// uncommitted writes are visible to its subsequent reads (§4.2); bbolt
// provides this natively since both read and write go through the same
// in-flight bolt.Tx.
type Tx struct {
	tx       *bolt.Tx
	writable bool
}

// Writable reports whether t permits Put/CreateBucket.
func (t *Tx) Writable() bool { return t.writable }

// Bucket opens the nested bucket addressed by path (each element one
// level deeper), creating intermediate buckets on a write transaction if
// they do not yet exist. On a read transaction, a missing bucket yields
// (nil, nil): callers should treat a nil Bucket as "empty keyspace"
// rather than an error, matching §4.4's "absence = empty" convention.
func (t *Tx) Bucket(path ...string) (*Bucket, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("kv: bucket path must be non-empty")
	}

	if t.writable {
		b, err := t.tx.CreateBucketIfNotExists([]byte(path[0]))
		if err != nil {
			return nil, fmt.Errorf("kv: create bucket %q: %w", path[0], err)
		}
		for _, name := range path[1:] {
			b, err = b.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return nil, fmt.Errorf("kv: create bucket %q: %w", name, err)
			}
		}
		return &Bucket{b: b, writable: true}, nil
	}

	b := t.tx.Bucket([]byte(path[0]))
	for _, name := range path[1:] {
		if b == nil {
			return nil, nil
		}
		b = b.Bucket([]byte(name))
	}
	if b == nil {
		return nil, nil
	}
	return &Bucket{b: b, writable: false}, nil
}

// Bucket is a namespaced ordered byte-key map within a transaction.
type Bucket struct {
	b        *bolt.Bucket
	writable bool
}

// Get returns the value for key, or nil if absent (§4.2 get(key) → slice | ∅).
func (b *Bucket) Get(key []byte) []byte {
	if b == nil {
		return nil
	}
	return b.b.Get(key)
}

// Put writes value under key. value == nil deletes the key, matching
// §4.2's "put(key, value_or_none)".
func (b *Bucket) Put(key, value []byte) error {
	if !b.writable {
		return ErrReadOnly
	}
	if value == nil {
		if err := b.b.Delete(key); err != nil {
			return fmt.Errorf("kv: delete: %w", err)
		}
		return nil
	}
	if err := b.b.Put(key, value); err != nil {
		return fmt.Errorf("kv: put: %w", err)
	}
	return nil
}

// PrefixScan calls fn for every (key, value) pair whose key has the
// given prefix, in ascending lexicographic order, over this
// transaction's snapshot (§4.2). Iteration stops early if fn returns
// false.
func (b *Bucket) PrefixScan(prefix []byte, fn func(key, value []byte) bool) {
	if b == nil {
		return
	}
	c := b.b.Cursor()
	for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
		if !fn(k, v) {
			return
		}
	}
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
