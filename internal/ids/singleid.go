package ids

import "fmt"

// Facet distinguishes which of the four independent properties of a line a
// SingleId targets (§3). The ordering below is the stable discriminant
// ordering referenced by §4.3's canonical serialization.
type Facet uint8

const (
	FacetExistence Facet = iota
	FacetContent
	FacetParent
	FacetChild
)

func (f Facet) String() string {
	switch f {
	case FacetExistence:
		return "existence"
	case FacetContent:
		return "content"
	case FacetParent:
		return "parent"
	case FacetChild:
		return "child"
	default:
		return fmt.Sprintf("Facet(%d)", uint8(f))
	}
}

// SingleId is the atomic edit target (§3): a (File, Line) pair scoped to
// exactly one facet. Every Change targets exactly one SingleId; head
// tracking and conflict detection are scoped per SingleId.
type SingleId struct {
	File  FileId
	Line  LineId
	Facet Facet
}

func (s SingleId) String() string {
	return fmt.Sprintf("%s/%s/%s", s.File, s.Line, s.Facet)
}

// Bytes returns a stable byte-key encoding of s suitable as a KV key
// component: 16 bytes file, 16 bytes line, 1 byte facet discriminant.
func (s SingleId) Bytes() []byte {
	b := make([]byte, 0, 33)
	b = append(b, s.File.Bytes()...)
	b = append(b, s.Line.Bytes()...)
	b = append(b, byte(s.Facet))
	return b
}
