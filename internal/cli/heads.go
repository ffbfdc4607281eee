package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/repo"
)

// HeadsOptions holds flags for the heads command.
type HeadsOptions struct {
	*RootOptions
	storageFlags
	file  string
	line  string
	facet string
}

// NewHeadsCommand creates the heads command.
func NewHeadsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HeadsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "heads",
		Short:         "Show the current head set for one facet of one line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeads(opts, cmd)
		},
	}

	addStorageFlags(cmd, &opts.storageFlags)
	cmd.Flags().StringVar(&opts.file, "file", "", "file id (required)")
	cmd.Flags().StringVar(&opts.line, "line", "", "line id (required)")
	cmd.Flags().StringVar(&opts.facet, "facet", "existence", "facet: existence|content|parent|child")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("line")

	return cmd
}

func parseFacet(s string) (ids.Facet, error) {
	switch s {
	case "existence":
		return ids.FacetExistence, nil
	case "content":
		return ids.FacetContent, nil
	case "parent":
		return ids.FacetParent, nil
	case "child":
		return ids.FacetChild, nil
	default:
		return 0, fmt.Errorf("unknown facet %q", s)
	}
}

func runHeads(opts *HeadsOptions, cmd *cobra.Command) error {
	file, err := ids.ParseFileId(opts.file)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --file", err)
	}
	line, err := ids.ParseLineId(opts.line)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --line", err)
	}
	facet, err := parseFacet(opts.facet)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --facet", err)
	}

	e, rid, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	sid := ids.SingleId{File: file, Line: line, Facet: facet}

	var out []string
	viewErr := e.Repository(rid).View(func(rt *repo.ReadTx) error {
		heads, err := rt.Heads(sid)
		if err != nil {
			return err
		}
		for _, h := range heads {
			out = append(out, h.String())
		}
		return nil
	})
	if viewErr != nil {
		return WrapExitError(ExitFailure, "reading heads failed", viewErr)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	return formatter.Success(out)
}
