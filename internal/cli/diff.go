package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/solipr/engine/internal/ids"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	storageFlags
	file string
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <edited-file>",
		Short: "Compute the Changes that would reproduce a hand-edited rendering, without applying them",
		Long: `Reads the named file (or stdin if "-") as an edited linear rendering and
computes the minimal set of Changes that would bring the repository's
resolved state to match it. Nothing is written to storage.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], cmd)
		},
	}

	addStorageFlags(cmd, &opts.storageFlags)
	cmd.Flags().StringVar(&opts.file, "file", "", "file id (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readEditedFile(path string) ([]byte, error) {
	if path == "-" {
		return os.ReadFile("/dev/stdin")
	}
	return os.ReadFile(path)
}

func runDiff(opts *DiffOptions, path string, cmd *cobra.Command) error {
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

	changes, err := e.Diff(e.Repository(rid), file, edited)
	if err != nil {
		return WrapExitError(ExitFailure, "diff failed", err)
	}

	summaries := make([]changeSummary, len(changes))
	for i, c := range changes {
		summaries[i] = summarize(c)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	return formatter.Success(summaries)
}
