package cli

import (
	"github.com/spf13/cobra"

	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/solipr"
)

// storageFlags holds the flags shared by every command that opens an
// Engine against on-disk storage.
type storageFlags struct {
	kvPath      string
	registryDir string
	repository  string
}

func addStorageFlags(cmd *cobra.Command, f *storageFlags) {
	cmd.Flags().StringVar(&f.kvPath, "db", "", "path to the bbolt database file (required)")
	cmd.Flags().StringVar(&f.registryDir, "registry", "", "path to the content registry directory (required)")
	cmd.Flags().StringVar(&f.repository, "repo", "", "repository id (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("registry")
	_ = cmd.MarkFlagRequired("repo")
}

func (f *storageFlags) open() (*solipr.Engine, ids.RepositoryId, error) {
	rid, err := ids.ParseRepositoryId(f.repository)
	if err != nil {
		return nil, ids.RepositoryId{}, WrapExitError(ExitCommandError, "invalid --repo", err)
	}
	e, err := solipr.Open(solipr.Config{KVPath: f.kvPath, RegistryDir: f.registryDir})
	if err != nil {
		return nil, ids.RepositoryId{}, WrapExitError(ExitCommandError, "failed to open storage", err)
	}
	return e, rid, nil
}
