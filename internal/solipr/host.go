package solipr

// HostServices documents the boundary an embedding program would
// implement to receive repository change notifications (§6.B). It has
// no implementation in this module: plugin dispatch, transport, and
// authentication for a hosted service are explicitly out of scope (see
// spec Non-goals), but the seam is named here so a future host package
// has an agreed interface to satisfy rather than reverse-engineering one
// from Engine's internals.
type HostServices interface {
	// OnChangesApplied is invoked after a batch of Changes commits
	// successfully, naming every file whose existing-lines index
	// changed as a result.
	OnChangesApplied(repositoryID string, touchedFiles []string)
}
