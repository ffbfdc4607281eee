package solipr

// Config holds everything an Engine needs to open a repository: no
// package-level globals, so a single process can host more than one
// repository with independent storage roots (§4.1, §4.2, §4.4).
type Config struct {
	// KVPath is the bbolt database file backing the transactional
	// key/value store.
	KVPath string

	// RegistryDir is the root directory of the content-addressed blob
	// store.
	RegistryDir string
}
