// Package registry implements the content-addressed blob store (§4.1):
// immutable, idempotent-write, random-access-read storage keyed by
// ContentHash.
//
// This is the one core component built directly on the standard library
// rather than a third-party dependency (documented in DESIGN.md): atomic
// visibility via temp-file-plus-rename is an operating-system primitive,
// and nothing in the example corpus wraps it as a library - the corpus's
// storage dependencies (bbolt, sqlite) address keyed/transactional access,
// not raw sharded content-addressed file layout.
package registry

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/solipr/engine/internal/ids"
)

// ErrNotFound is returned by Read and Size when the requested hash is
// absent from the registry (§4.1 Fails with: NotFound).
var ErrNotFound = errors.New("registry: content not found")

// Registry is a directory-backed content-addressed blob store.
type Registry struct {
	root string
}

// Open returns a Registry rooted at dir, creating it if necessary.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", dir, err)
	}
	return &Registry{root: dir}, nil
}

// shardPath returns the two-level sharded path for h: <root>/<xx>/<rest>,
// where xx is the first two characters of h's base58 textual form (§6).
func (r *Registry) shardPath(h ids.ContentHash) string {
	text := h.String()[1:] // strip the "C" prefix
	shard := text
	if len(shard) > 2 {
		shard = text[:2]
	}
	return filepath.Join(r.root, shard, text)
}

// Write streams src through SHA-256, writes the bytes to a temporary
// file, and renames it into its sharded path keyed by the digest.
// Writing identical bytes twice is idempotent: it returns the same hash
// and does not duplicate storage (§4.1); a pre-existing target at the
// destination path is accepted without error.
func (r *Registry) Write(src io.Reader) (ids.ContentHash, error) {
	tmp, err := os.CreateTemp(r.root, "write-*.tmp")
	if err != nil {
		return ids.ContentHash{}, fmt.Errorf("registry: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed away

	hasher := sha256.New()
	if _, err := io.Copy(tmp, io.TeeReader(src, hasher)); err != nil {
		tmp.Close()
		return ids.ContentHash{}, fmt.Errorf("registry: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ids.ContentHash{}, fmt.Errorf("registry: close temp file: %w", err)
	}

	var hash ids.ContentHash
	copy(hash[:], hasher.Sum(nil))

	dest := r.shardPath(hash)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ids.ContentHash{}, fmt.Errorf("registry: mkdir shard: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		// A pre-existing target is acceptable (idempotent write): verify
		// it exists and treat the rename failure as a non-error in that
		// case only.
		if _, statErr := os.Stat(dest); statErr == nil {
			return hash, nil
		}
		return ids.ContentHash{}, fmt.Errorf("registry: rename into place: %w", err)
	}
	return hash, nil
}

// WriteBytes is a convenience wrapper around Write for in-memory blobs.
func (r *Registry) WriteBytes(data []byte) (ids.ContentHash, error) {
	return r.Write(bytes.NewReader(data))
}

// Read opens a random-access reader for the blob named by hash, or
// ErrNotFound if it is absent.
func (r *Registry) Read(hash ids.ContentHash) (io.ReadCloser, error) {
	f, err := os.Open(r.shardPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("registry: open %s: %w", hash, err)
	}
	return f, nil
}

// ReadAll reads the entire blob named by hash into memory.
func (r *Registry) ReadAll(hash ids.ContentHash) ([]byte, error) {
	f, err := r.Read(hash)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Size returns the byte length of the blob named by hash, or ErrNotFound
// if it is absent.
func (r *Registry) Size(hash ids.ContentHash) (uint64, error) {
	info, err := os.Stat(r.shardPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("registry: stat %s: %w", hash, err)
	}
	return uint64(info.Size()), nil
}
