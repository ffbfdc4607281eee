package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/solipr/engine/internal/repo"
)

// ChangesOptions holds flags for the changes command.
type ChangesOptions struct {
	*RootOptions
	storageFlags
}

// NewChangesCommand creates the changes command.
func NewChangesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChangesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "changes",
		Short:         "List every applied change in a repository",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChanges(opts, cmd)
		},
	}

	addStorageFlags(cmd, &opts.storageFlags)
	return cmd
}

func runChanges(opts *ChangesOptions, cmd *cobra.Command) error {
	e, rid, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	var summaries []changeSummary
	viewErr := e.Repository(rid).View(func(rt *repo.ReadTx) error {
		all, decodeErrs := rt.Changes()
		for _, decodeErr := range decodeErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", decodeErr)
		}
		for _, c := range all {
			summaries = append(summaries, summarize(c))
		}
		return nil
	})
	if viewErr != nil {
		return WrapExitError(ExitFailure, "listing changes failed", viewErr)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Hash < summaries[j].Hash })

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	return formatter.Success(summaries)
}
