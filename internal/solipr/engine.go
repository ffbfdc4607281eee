package solipr

import (
	"errors"
	"log/slog"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/kv"
	"github.com/solipr/engine/internal/linear"
	"github.com/solipr/engine/internal/ovg"
	"github.com/solipr/engine/internal/registry"
	"github.com/solipr/engine/internal/repo"
)

// Engine is the facade a host program or the CLI drives: one open
// key/value store and content registry, plus the per-repository
// operations built on top of them (§4.4, §4.5, §4.6).
type Engine struct {
	db  *kv.Database
	reg *registry.Registry
}

// Open opens (creating if necessary) the storage backing cfg describes.
func Open(cfg Config) (*Engine, error) {
	db, err := kv.Open(cfg.KVPath)
	if err != nil {
		return nil, NewStorageError("open kv store", err)
	}
	reg, err := registry.Open(cfg.RegistryDir)
	if err != nil {
		db.Close()
		return nil, NewStorageError("open content registry", err)
	}
	return &Engine{db: db, reg: reg}, nil
}

// Close releases the underlying storage handles.
func (e *Engine) Close() error {
	return NewStorageError("close kv store", e.db.Close())
}

// Repository returns the facade for a single repository's Changes and
// head state (§4.4). Repositories share the underlying KV database
// (distinguished by a top-level bucket keyed by id) and the registry
// (content is deduplicated globally by hash).
func (e *Engine) Repository(id ids.RepositoryId) *repo.Repository {
	return repo.Open(e.db, id)
}

// Apply installs a batch of Changes into r, logging each hash at debug
// level and returning the resolved hashes in application order (§4.4.1,
// §8 invariant 3).
func (e *Engine) Apply(r *repo.Repository, changes []change.Change) ([]ids.ChangeHash, error) {
	hashes := make([]ids.ChangeHash, 0, len(changes))
	err := r.Update(func(wt *repo.WriteTx) error {
		for _, c := range changes {
			h, err := wt.Apply(c)
			if err != nil {
				return err
			}
			slog.Debug("applied change", "hash", h, "single_id", c.SingleId())
			hashes = append(hashes, h)
		}
		return nil
	})
	if err != nil {
		return nil, NewStorageError("apply changes", err)
	}
	return hashes, nil
}

// WriteContent stores data in the content registry, returning its
// address (§4.1).
func (e *Engine) WriteContent(data []byte) (ids.ContentHash, error) {
	h, err := e.reg.WriteBytes(data)
	if err != nil {
		return ids.ContentHash{}, NewStorageError("write content", err)
	}
	return h, nil
}

// Render produces the linear byte stream for file's current resolved
// state (§4.5, §4.5.1).
func (e *Engine) Render(r *repo.Repository, file ids.FileId) ([]byte, error) {
	var out []byte
	err := r.View(func(rt *repo.ReadTx) error {
		g, err := ovg.Build(rt, file)
		if err != nil {
			return err
		}
		slots := ovg.Linearize(ovg.Condense(g))
		rendered, err := ovg.Render(slots, e.reg)
		if err != nil {
			return err
		}
		out = rendered
		return nil
	})
	if err != nil {
		return nil, NewStorageError("render file", err)
	}
	return out, nil
}

// Diff computes the Changes that transform file's currently rendered
// state into newText, against r's current heads (§4.6.3). It returns
// CycleUnresolvedError if newText still contains an unresolved cycle
// region.
func (e *Engine) Diff(r *repo.Repository, file ids.FileId, newText []byte) ([]change.Change, error) {
	var out []change.Change
	err := r.View(func(rt *repo.ReadTx) error {
		g, err := ovg.Build(rt, file)
		if err != nil {
			return err
		}
		slots := ovg.Linearize(ovg.Condense(g))
		old, err := linear.BuildOldEntries(slots, e.reg)
		if err != nil {
			return err
		}
		changes, err := linear.Diff(rt, e.reg, file, old, newText)
		if err != nil {
			return err
		}
		out = changes
		return nil
	})
	if err != nil {
		if errors.Is(err, linear.ErrCycleUnresolved) {
			return nil, &CycleUnresolvedError{File: file.String()}
		}
		return nil, NewStorageError("diff file", err)
	}
	return out, nil
}
