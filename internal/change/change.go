// Package change implements the change algebra (§4.3): the Change and
// ChangeContent value types, their canonical serialization, hashing, and
// the bounded replace-set collection each Change carries.
package change

import (
	"fmt"

	"github.com/solipr/engine/internal/canon"
	"github.com/solipr/engine/internal/ids"
)

// hashDomain separates ChangeHash computation from every other use of
// SHA-256 in this module (ContentHash, conflict/cycle marker uuids).
const hashDomain = "solipr/change/v1"

// Change is a pair (replace, content): replace is the bounded set of
// prior heads this change supersedes, content is the single facet
// mutation it applies (§3).
type Change struct {
	Replace ReplaceSet
	Content ChangeContent
}

// New validates change.single_id == content.single_id implicitly (there
// is only one SingleId derivable from content) and returns a Change.
// replace is canonicalized (deduplicated, sorted) by NewReplaceSet.
func New(content ChangeContent, replace ...ids.ChangeHash) (Change, error) {
	rs, err := NewReplaceSet(replace...)
	if err != nil {
		return Change{}, err
	}
	return Change{Replace: rs, Content: content}, nil
}

// SingleId returns the atomic edit target this change mutates (§3).
func (c Change) SingleId() ids.SingleId { return c.Content.SingleId() }

// Encode produces the canonical binary serialization of c: a
// length-prefixed list of replace hashes (already ascending-sorted) then
// a tagged encoding of content (§4.3, §6). This is positional and
// independent of host byte order.
func (c Change) Encode() []byte {
	w := canon.NewWriter()
	hashes := c.Replace.Hashes()
	w.Uint8(uint8(len(hashes)))
	for _, h := range hashes {
		w.Raw(h[:])
	}
	encodeContent(w, c.Content)
	return w.Finish()
}

func encodeContent(w *canon.Writer, content ChangeContent) {
	switch v := content.(type) {
	case LineExistence:
		w.Uint8(tagLineExistence)
		w.Raw(v.File.Bytes())
		w.Raw(v.Line.Bytes())
		w.Bool(v.Existence)
	case LineContent:
		w.Uint8(tagLineContent)
		w.Raw(v.File.Bytes())
		w.Raw(v.Line.Bytes())
		w.Raw(v.Content[:])
	case LineParent:
		w.Uint8(tagLineParent)
		w.Raw(v.File.Bytes())
		w.Raw(v.Line.Bytes())
		w.Raw(v.Parent.Bytes())
	case LineChild:
		w.Uint8(tagLineChild)
		w.Raw(v.File.Bytes())
		w.Raw(v.Line.Bytes())
		w.Raw(v.Child.Bytes())
	default:
		panic(fmt.Sprintf("change: unknown ChangeContent implementation %T", content))
	}
}

// Hash computes the content-addressed ChangeHash of c (§4.3, invariant 1
// in §8): identical (replace, content) pairs always hash identically,
// regardless of the order replace was originally supplied in, because
// ReplaceSet canonicalizes before Encode ever runs.
func (c Change) Hash() ids.ChangeHash {
	sum := canon.HashWithDomain(hashDomain, c.Encode())
	return ids.ChangeHash(sum)
}

// Decode parses the canonical binary serialization produced by Encode.
// Serialization errors here are per-record fatal (§7): callers should
// skip or report the offending record without aborting unrelated ones.
func Decode(buf []byte) (Change, error) {
	r := canon.NewReader(buf)

	n, err := r.Uint8()
	if err != nil {
		return Change{}, fmt.Errorf("change: decode replace length: %w", err)
	}
	if int(n) > MaxReplace {
		return Change{}, fmt.Errorf("change: decode: replace length %d exceeds max %d", n, MaxReplace)
	}
	hashes := make([]ids.ChangeHash, n)
	for i := range hashes {
		raw, err := r.Raw(32)
		if err != nil {
			return Change{}, fmt.Errorf("change: decode replace[%d]: %w", i, err)
		}
		copy(hashes[i][:], raw)
	}
	rs, err := NewReplaceSet(hashes...)
	if err != nil {
		return Change{}, fmt.Errorf("change: decode: %w", err)
	}

	content, err := decodeContent(r)
	if err != nil {
		return Change{}, fmt.Errorf("change: decode content: %w", err)
	}

	if !r.Done() {
		return Change{}, fmt.Errorf("change: decode: trailing bytes after content")
	}

	return Change{Replace: rs, Content: content}, nil
}

func decodeContent(r *canon.Reader) (ChangeContent, error) {
	tag, err := r.Uint8()
	if err != nil {
		return nil, err
	}

	fileBytes, err := r.Raw(16)
	if err != nil {
		return nil, err
	}
	var file ids.FileId
	copy(file[:], fileBytes)

	lineBytes, err := r.Raw(16)
	if err != nil {
		return nil, err
	}
	var line ids.LineId
	copy(line[:], lineBytes)

	switch tag {
	case tagLineExistence:
		b, err := r.Bool()
		if err != nil {
			return nil, err
		}
		return LineExistence{File: file, Line: line, Existence: b}, nil
	case tagLineContent:
		raw, err := r.Raw(32)
		if err != nil {
			return nil, err
		}
		var h ids.ContentHash
		copy(h[:], raw)
		return LineContent{File: file, Line: line, Content: h}, nil
	case tagLineParent:
		raw, err := r.Raw(16)
		if err != nil {
			return nil, err
		}
		var parent ids.LineId
		copy(parent[:], raw)
		return LineParent{File: file, Line: line, Parent: parent}, nil
	case tagLineChild:
		raw, err := r.Raw(16)
		if err != nil {
			return nil, err
		}
		var child ids.LineId
		copy(child[:], raw)
		return LineChild{File: file, Line: line, Child: child}, nil
	default:
		return nil, fmt.Errorf("unknown ChangeContent tag %d", tag)
	}
}
