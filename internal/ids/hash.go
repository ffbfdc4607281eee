package ids

import (
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"
)

// ContentHash is the 32-byte SHA-256 digest of a blob stored in the
// content registry (§4.1).
type ContentHash [32]byte

// ChangeHash is the 32-byte SHA-256 digest of a change's canonical
// serialization (§4.3). It shares the same byte shape as ContentHash but
// lives in a distinct textual-prefix space and is never interchangeable
// with one: a ChangeHash is hashed under its own domain string (see
// internal/change.hashDomain), while a ContentHash is the plain SHA-256
// of the blob bytes.
type ChangeHash [32]byte

const (
	contentHashPrefix = "C"
	changeHashPrefix  = "C"
)

// String renders the canonical textual form: prefix + base58(bytes).
func (h ContentHash) String() string {
	return contentHashPrefix + base58.Encode(h[:])
}

// String renders the canonical textual form: prefix + base58(bytes).
func (h ChangeHash) String() string {
	return changeHashPrefix + base58.Encode(h[:])
}

// IsZero reports whether h is the zero-value digest.
func (h ContentHash) IsZero() bool { return h == ContentHash{} }

// IsZero reports whether h is the zero-value digest.
func (h ChangeHash) IsZero() bool { return h == ChangeHash{} }

// MarshalText implements encoding.TextMarshaler.
func (h ContentHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (h ChangeHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *ContentHash) UnmarshalText(text []byte) error {
	b, err := decodeDigestText(string(text), contentHashPrefix)
	if err != nil {
		return fmt.Errorf("ContentHash: %w", err)
	}
	copy(h[:], b)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *ChangeHash) UnmarshalText(text []byte) error {
	b, err := decodeDigestText(string(text), changeHashPrefix)
	if err != nil {
		return fmt.Errorf("ChangeHash: %w", err)
	}
	copy(h[:], b)
	return nil
}

// ParseContentHash decodes a textual content hash, with or without its
// "C" prefix. It accepts both base58 (current) and base64url-no-pad
// (legacy) encodings per §6.
func ParseContentHash(s string) (ContentHash, error) {
	var h ContentHash
	b, err := decodeDigestText(s, contentHashPrefix)
	if err != nil {
		return h, fmt.Errorf("ContentHash: %w", err)
	}
	copy(h[:], b)
	return h, nil
}

// ParseChangeHash decodes a textual change hash, with or without its "C"
// prefix. It accepts both base58 (current) and base64url-no-pad (legacy)
// encodings per §6.
func ParseChangeHash(s string) (ChangeHash, error) {
	var h ChangeHash
	b, err := decodeDigestText(s, changeHashPrefix)
	if err != nil {
		return h, fmt.Errorf("ChangeHash: %w", err)
	}
	copy(h[:], b)
	return h, nil
}

// decodeDigestText strips a known prefix if present, then tries base58 and
// falls back to base64url-no-pad, requiring exactly 32 decoded bytes.
func decodeDigestText(s, prefix string) ([]byte, error) {
	trimmed := s
	if len(s) > 0 && s[:1] == prefix {
		trimmed = s[1:]
	}

	if b, err := base58.Decode(trimmed); err == nil && len(b) == 32 {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(trimmed); err == nil && len(b) == 32 {
		return b, nil
	}
	return nil, fmt.Errorf("malformed digest %q", s)
}

// CompareContentHash orders two content hashes by byte value.
func CompareContentHash(a, b ContentHash) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// CompareChangeHash orders two change hashes by byte value, used to
// canonicalize a Change's replace set before hashing (§4.3, §9).
func CompareChangeHash(a, b ChangeHash) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
