package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solipr/engine/internal/ids"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	storageFlags
	file string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "render",
		Short:         "Render a file's current resolved state to the linear conflict-marker format",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd)
		},
	}

	addStorageFlags(cmd, &opts.storageFlags)
	cmd.Flags().StringVar(&opts.file, "file", "", "file id (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command) error {
	file, err := ids.ParseFileId(opts.file)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --file", err)
	}

	e, rid, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	out, err := e.Render(e.Repository(rid), file)
	if err != nil {
		return WrapExitError(ExitFailure, "render failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"text": string(out)})
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
