package cli

import (
	"github.com/spf13/cobra"

	"github.com/solipr/engine/internal/ids"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	storageFlags
	file string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <edited-file>",
		Short: "Diff a hand-edited rendering against the repository and apply the resulting Changes",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	addStorageFlags(cmd, &opts.storageFlags)
	cmd.Flags().StringVar(&opts.file, "file", "", "file id (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runApply(opts *ApplyOptions, path string, cmd *cobra.Command) error {
	file, err := ids.ParseFileId(opts.file)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --file", err)
	}
	edited, err := readEditedFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading edited file", err)
	}

	e, rid, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	r := e.Repository(rid)
	changes, err := e.Diff(r, file, edited)
	if err != nil {
		return WrapExitError(ExitFailure, "diff failed", err)
	}

	hashes, err := e.Apply(r, changes)
	if err != nil {
		return WrapExitError(ExitFailure, "apply failed", err)
	}

	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = h.String()
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	return formatter.Success(out)
}
