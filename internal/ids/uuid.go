package ids

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// FileId identifies a file within a repository. Time-ordered (uuid v7),
// textual form is the bare hyphenated uuid string (§3, §6).
type FileId uuid.UUID

// LineId identifies a line within a file. Time-ordered (uuid v7) for
// freshly authored lines, plus three reserved sentinels (§3).
type LineId uuid.UUID

// RepositoryId identifies a repository sharing a single KV store (§4.4).
// Textual form is an "R"-prefixed base58 encoding (§6).
type RepositoryId uuid.UUID

var (
	// LineIdFirst is the all-zero sentinel: the implicit parent of every
	// root line. It never has parents (§3, §8 boundary behaviors).
	LineIdFirst = LineId(uuid.Nil)

	// LineIdLast is the all-ones sentinel: the implicit child of every
	// leaf line. It never has children (§3, §8 boundary behaviors).
	LineIdLast = LineId(uuid.UUID{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})

	// LineIdUnknown is the parser's scratch placeholder (§4.6.2, §9). It
	// must never be stored as the id of a real line outside parser state.
	LineIdUnknown = LineId(uuid.UUID{
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	})
)

// ErrReservedLineID is returned when LineIdUnknown would be used as an
// ordinary line identifier (§9): by NewLineId if a freshly minted id
// equals it, and by repo.WriteTx.Apply for a Change that names it as a
// line, parent or child. ParseLineId and UnmarshalText accept it.
var ErrReservedLineID = errors.New("LineIdUnknown is reserved for parser scratch state")

// NewFileId mints a fresh, time-ordered file identifier.
func NewFileId() (FileId, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return FileId{}, fmt.Errorf("NewFileId: %w", err)
	}
	return FileId(u), nil
}

// NewLineId mints a fresh, time-ordered line identifier. The only other
// source of LineId values is LineIdFirst/LineIdLast/LineIdUnknown, or a
// value copied forward from a prior rendering by the patience-diff id
// population pass (§4.6.2, §9).
func NewLineId() (LineId, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return LineId{}, fmt.Errorf("NewLineId: %w", err)
	}
	id := LineId(u)
	if id == LineIdUnknown {
		return LineId{}, ErrReservedLineID
	}
	return id, nil
}

// NewRepositoryId mints a fresh, time-ordered repository identifier.
func NewRepositoryId() (RepositoryId, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return RepositoryId{}, fmt.Errorf("NewRepositoryId: %w", err)
	}
	return RepositoryId(u), nil
}

func (id FileId) String() string { return uuid.UUID(id).String() }
func (id LineId) String() string { return uuid.UUID(id).String() }

// String renders the canonical "R"-prefixed base58 textual form.
func (id RepositoryId) String() string {
	u := uuid.UUID(id)
	return "R" + base58.Encode(u[:])
}

func (id FileId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id LineId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id RepositoryId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *FileId) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("FileId: %w", err)
	}
	*id = FileId(u)
	return nil
}

func (id *LineId) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("LineId: %w", err)
	}
	*id = LineId(u)
	return nil
}

func (id *RepositoryId) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) > 0 && s[:1] == "R" {
		s = s[1:]
	}
	if b, err := base58.Decode(s); err == nil && len(b) == 16 {
		var u uuid.UUID
		copy(u[:], b)
		*id = RepositoryId(u)
		return nil
	}
	u, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("RepositoryId: malformed %q", text)
	}
	*id = RepositoryId(u)
	return nil
}

// ParseFileId parses the bare hyphenated uuid textual form.
func ParseFileId(s string) (FileId, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return FileId{}, fmt.Errorf("FileId: %w", err)
	}
	return FileId(u), nil
}

// ParseLineId parses the bare hyphenated uuid textual form.
func ParseLineId(s string) (LineId, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return LineId{}, fmt.Errorf("LineId: %w", err)
	}
	return LineId(u), nil
}

// ParseRepositoryId parses the "R"-prefixed base58 textual form (prefix
// optional on input).
func ParseRepositoryId(s string) (RepositoryId, error) {
	var id RepositoryId
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// Bytes returns the raw 16-byte representation, used as a KV bucket key
// component (§4.4).
func (id FileId) Bytes() []byte       { u := uuid.UUID(id); return u[:] }
func (id LineId) Bytes() []byte       { u := uuid.UUID(id); return u[:] }
func (id RepositoryId) Bytes() []byte { u := uuid.UUID(id); return u[:] }

// CompareLineId orders two line identifiers by byte value.
func CompareLineId(a, b LineId) int {
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
