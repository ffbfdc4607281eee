package change

import "github.com/solipr/engine/internal/ids"

// ChangeContent is a tagged union mirroring SingleId (§3): every
// concrete type below sets exactly one of the four facets. The
// changeContent marker method seals the interface to this package's
// four implementations.
type ChangeContent interface {
	changeContent()

	// SingleId returns the atomic edit target this content mutates.
	SingleId() ids.SingleId
}

// discriminant values fix the tagged-enum ordering used by the binary
// canonical encoding (§4.3) and must never be reordered once persisted
// data exists under them.
const (
	tagLineExistence uint8 = iota
	tagLineContent
	tagLineParent
	tagLineChild
)

// LineExistence asserts whether (File, Line) exists in the file.
type LineExistence struct {
	File      ids.FileId
	Line      ids.LineId
	Existence bool
}

func (LineExistence) changeContent() {}

func (c LineExistence) SingleId() ids.SingleId {
	return ids.SingleId{File: c.File, Line: c.Line, Facet: ids.FacetExistence}
}

// LineContent asserts one ContentHash value for (File, Line).
type LineContent struct {
	File    ids.FileId
	Line    ids.LineId
	Content ids.ContentHash
}

func (LineContent) changeContent() {}

func (c LineContent) SingleId() ids.SingleId {
	return ids.SingleId{File: c.File, Line: c.Line, Facet: ids.FacetContent}
}

// LineParent asserts one parent LineId for (File, Line).
type LineParent struct {
	File   ids.FileId
	Line   ids.LineId
	Parent ids.LineId
}

func (LineParent) changeContent() {}

func (c LineParent) SingleId() ids.SingleId {
	return ids.SingleId{File: c.File, Line: c.Line, Facet: ids.FacetParent}
}

// LineChild asserts one child LineId for (File, Line).
type LineChild struct {
	File  ids.FileId
	Line  ids.LineId
	Child ids.LineId
}

func (LineChild) changeContent() {}

func (c LineChild) SingleId() ids.SingleId {
	return ids.SingleId{File: c.File, Line: c.Line, Facet: ids.FacetChild}
}
