package repo

import (
	"fmt"

	"github.com/solipr/engine/internal/change"
	"github.com/solipr/engine/internal/ids"
)

// Unapply removes h, following §4.4.2 exactly. It is idempotent if h is
// unknown (§4.4 unapply(hash) → ()).
func (wt *WriteTx) Unapply(h ids.ChangeHash) error {
	changes, err := changesBucket(wt.tx, wt.rid)
	if err != nil {
		return fmt.Errorf("repo: unapply %s: %w", h, err)
	}

	// Step 1: take the change; if absent, return.
	raw := changes.Get(h[:])
	if raw == nil {
		return nil
	}
	c, err := change.Decode(raw)
	if err != nil {
		return fmt.Errorf("repo: unapply %s: decode: %w", h, err)
	}
	if err := changes.Put(h[:], nil); err != nil {
		return fmt.Errorf("repo: unapply %s: remove change: %w", h, err)
	}

	sid := c.SingleId()
	heads, err := headsBucket(wt.tx, wt.rid)
	if err != nil {
		return fmt.Errorf("repo: unapply %s: %w", h, err)
	}
	// Step 2: remove h from heads/<single_id>.
	headSet, err := decodeHashSet(heads.Get(sid.Bytes()))
	if err != nil {
		return fmt.Errorf("repo: unapply %s: decode heads[%s]: %w", h, sid, err)
	}
	headSet = hashSetRemove(headSet, h)

	reverse, err := reverseHeadsBucket(wt.tx, wt.rid)
	if err != nil {
		return fmt.Errorf("repo: unapply %s: %w", h, err)
	}
	// Step 3: for each replaced hash, remove h from its reverse set; if
	// the set becomes empty, h was the sole entry and r must be
	// reinstated as a head.
	for _, r := range c.Replace.Hashes() {
		set, err := decodeHashSet(reverse.Get(r[:]))
		if err != nil {
			return fmt.Errorf("repo: unapply %s: decode reverse_heads[%s]: %w", h, r, err)
		}
		set = hashSetRemove(set, h)
		if len(set) == 0 {
			if err := reverse.Put(r[:], nil); err != nil {
				return fmt.Errorf("repo: unapply %s: clear reverse_heads[%s]: %w", h, r, err)
			}
			headSet = hashSetAdd(headSet, r)
		} else {
			if err := reverse.Put(r[:], encodeHashSet(set)); err != nil {
				return fmt.Errorf("repo: unapply %s: write reverse_heads[%s]: %w", h, r, err)
			}
		}
	}

	// Step 4: write the head set back.
	if err := putHeadSet(heads, sid, headSet); err != nil {
		return fmt.Errorf("repo: unapply %s: write heads[%s]: %w", h, sid, err)
	}

	// Step 5: refresh the lines/ marker if this change affected existence.
	if le, ok := c.Content.(change.LineExistence); ok {
		if err := wt.refreshLinesMarker(le.File, le.Line); err != nil {
			return fmt.Errorf("repo: unapply %s: refresh lines marker: %w", h, err)
		}
	}

	return nil
}
