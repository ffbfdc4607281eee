package repo

import (
	"fmt"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
)

// Apply installs c, following §4.4.1 exactly. It is idempotent: applying
// an already-applied change leaves state unchanged (§8 invariant 3).
func (wt *WriteTx) Apply(c change.Change) (ids.ChangeHash, error) {
	h := c.Hash()
	sid := c.SingleId()

	// LineIdUnknown is parser scratch state and is never persisted, neither
	// as the edited line nor as a parent or child target.
	reserved := sid.Line == ids.LineIdUnknown
	if lp, ok := c.Content.(change.LineParent); ok && lp.Parent == ids.LineIdUnknown {
		reserved = true
	}
	if lc, ok := c.Content.(change.LineChild); ok && lc.Child == ids.LineIdUnknown {
		reserved = true
	}
	if reserved {
		return h, fmt.Errorf("repo: apply %s: %w", h, ids.ErrReservedLineID)
	}

	changes, err := changesBucket(wt.tx, wt.rid)
	if err != nil {
		return h, fmt.Errorf("repo: apply %s: %w", h, err)
	}
	// Step 1: insert into changes/ (overwrite is a no-op for an
	// already-applied change, since the encoding is a pure function of
	// the change's content).
	if err := changes.Put(h[:], c.Encode()); err != nil {
		return h, fmt.Errorf("repo: apply %s: insert change: %w", h, err)
	}

	reverse, err := reverseHeadsBucket(wt.tx, wt.rid)
	if err != nil {
		return h, fmt.Errorf("repo: apply %s: %w", h, err)
	}
	// Step 2: for each replaced hash, record that h supersedes it, even
	// if that hash has not been seen locally yet (§4.4.1 rationale).
	for _, r := range c.Replace.Hashes() {
		set, err := decodeHashSet(reverse.Get(r[:]))
		if err != nil {
			return h, fmt.Errorf("repo: apply %s: decode reverse_heads[%s]: %w", h, r, err)
		}
		set = hashSetAdd(set, h)
		if err := reverse.Put(r[:], encodeHashSet(set)); err != nil {
			return h, fmt.Errorf("repo: apply %s: write reverse_heads[%s]: %w", h, r, err)
		}
	}

	heads, err := headsBucket(wt.tx, wt.rid)
	if err != nil {
		return h, fmt.Errorf("repo: apply %s: %w", h, err)
	}
	// Step 3: remove every replaced hash from the head set; add h unless
	// some already-applied change already supersedes it.
	headSet, err := decodeHashSet(heads.Get(sid.Bytes()))
	if err != nil {
		return h, fmt.Errorf("repo: apply %s: decode heads[%s]: %w", h, sid, err)
	}
	for _, r := range c.Replace.Hashes() {
		headSet = hashSetRemove(headSet, r)
	}
	hReverse, err := wt.reverseHeads(h)
	if err != nil {
		return h, fmt.Errorf("repo: apply %s: %w", h, err)
	}
	if len(hReverse) == 0 {
		headSet = hashSetAdd(headSet, h)
	}
	if err := putHeadSet(heads, sid, headSet); err != nil {
		return h, fmt.Errorf("repo: apply %s: write heads[%s]: %w", h, sid, err)
	}

	// Step 4: refresh the lines/ marker if this change affects existence.
	if le, ok := c.Content.(change.LineExistence); ok {
		if err := wt.refreshLinesMarker(le.File, le.Line); err != nil {
			return h, fmt.Errorf("repo: apply %s: refresh lines marker: %w", h, err)
		}
	}

	return h, nil
}

func putHeadSet(b interface {
	Put(key, value []byte) error
}, sid ids.SingleId, set []ids.ChangeHash) error {
	if len(set) == 0 {
		return b.Put(sid.Bytes(), nil)
	}
	return b.Put(sid.Bytes(), encodeHashSet(set))
}

// refreshLinesMarker recomputes resolved existence for (file, line) and
// updates the lines/ marker accordingly: present iff existence is true
// or existence-conflicted, so conflicted lines still participate in
// rendering (§4.4.1 step 4, §4.4.3).
func (rt *ReadTx) refreshLinesMarker(file ids.FileId, line ids.LineId) error {
	ex, err := rt.Existence(file, line)
	if err != nil {
		return err
	}
	b, err := linesBucket(rt.tx, rt.rid, file)
	if err != nil {
		return err
	}
	present := ex.Conflict || ex.Value
	if present {
		return b.Put(line.Bytes(), []byte{})
	}
	return b.Put(line.Bytes(), nil)
}
