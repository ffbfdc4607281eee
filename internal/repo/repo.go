package repo

import (
	"fmt"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/kv"
)

// Repository is the transactional API over a single repository's
// keyspace within a shared kv.Database (§4.4).
type Repository struct {
	db  *kv.Database
	rid ids.RepositoryId
}

// Open binds a Repository to rid within db. Multiple repositories may
// share the same underlying Database.
func Open(db *kv.Database, rid ids.RepositoryId) *Repository {
	return &Repository{db: db, rid: rid}
}

// ID returns the bound RepositoryId.
func (r *Repository) ID() ids.RepositoryId { return r.rid }

// ReadTx exposes the read-only subset of the repository API (§4.4):
// change/changes/heads/existing_lines lookups over a snapshot.
type ReadTx struct {
	tx  *kv.Tx
	rid ids.RepositoryId
}

// WriteTx additionally allows Apply and Unapply.
type WriteTx struct {
	ReadTx
}

// View runs fn within a read-only snapshot transaction (§4.2, §4.4).
func (r *Repository) View(fn func(*ReadTx) error) error {
	return r.db.View(func(tx *kv.Tx) error {
		return fn(&ReadTx{tx: tx, rid: r.rid})
	})
}

// Update runs fn within the single live write transaction (§4.2, §4.4).
func (r *Repository) Update(fn func(*WriteTx) error) error {
	return r.db.Update(func(tx *kv.Tx) error {
		return fn(&WriteTx{ReadTx{tx: tx, rid: r.rid}})
	})
}

// Change looks up a single applied change by hash (§4.4 change(h)).
func (rt *ReadTx) Change(h ids.ChangeHash) (change.Change, bool, error) {
	b, err := changesBucket(rt.tx, rt.rid)
	if err != nil {
		return change.Change{}, false, fmt.Errorf("repo: changes bucket: %w", err)
	}
	raw := b.Get(h[:])
	if raw == nil {
		return change.Change{}, false, nil
	}
	c, err := change.Decode(raw)
	if err != nil {
		return change.Change{}, false, fmt.Errorf("repo: decode change %s: %w", h, err)
	}
	return c, true, nil
}

// Changes returns every applied change in the repository (§4.4
// changes() → iterator<(ChangeHash, Change)>). Malformed stored records
// are a per-record fatal condition (§7): they are collected and
// returned alongside the successfully decoded changes rather than
// aborting the whole scan.
func (rt *ReadTx) Changes() (map[ids.ChangeHash]change.Change, []error) {
	b, err := changesBucket(rt.tx, rt.rid)
	if err != nil {
		return nil, []error{fmt.Errorf("repo: changes bucket: %w", err)}
	}
	out := make(map[ids.ChangeHash]change.Change)
	var errs []error
	b.PrefixScan(nil, func(key, value []byte) bool {
		var h ids.ChangeHash
		copy(h[:], key)
		c, err := change.Decode(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("repo: decode change %s: %w", h, err))
			return true
		}
		out[h] = c
		return true
	})
	return out, errs
}

// Heads returns the head set for sid, defaulting to empty (§4.4
// heads(single_id)).
func (rt *ReadTx) Heads(sid ids.SingleId) ([]ids.ChangeHash, error) {
	b, err := headsBucket(rt.tx, rt.rid)
	if err != nil {
		return nil, fmt.Errorf("repo: heads bucket: %w", err)
	}
	raw := b.Get(sid.Bytes())
	set, err := decodeHashSet(raw)
	if err != nil {
		return nil, fmt.Errorf("repo: decode heads for %s: %w", sid, err)
	}
	return set, nil
}

// ExistingLines returns the set of LineId that currently resolve to
// Existence=true (or existence-conflicted) for file (§4.4
// existing_lines(file_id)).
func (rt *ReadTx) ExistingLines(file ids.FileId) ([]ids.LineId, error) {
	b, err := linesBucket(rt.tx, rt.rid, file)
	if err != nil {
		return nil, fmt.Errorf("repo: lines bucket: %w", err)
	}
	var out []ids.LineId
	b.PrefixScan(nil, func(key, value []byte) bool {
		var l ids.LineId
		copy(l[:], key)
		out = append(out, l)
		return true
	})
	return out, nil
}

func (rt *ReadTx) reverseHeads(h ids.ChangeHash) ([]ids.ChangeHash, error) {
	b, err := reverseHeadsBucket(rt.tx, rt.rid)
	if err != nil {
		return nil, fmt.Errorf("repo: reverse_heads bucket: %w", err)
	}
	set, err := decodeHashSet(b.Get(h[:]))
	if err != nil {
		return nil, fmt.Errorf("repo: decode reverse_heads for %s: %w", h, err)
	}
	return set, nil
}
