package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Example: `
todo delete 42
`,
		Args: options.IDArgs(io),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			output.Out = cmd.OutOrStdout()
			return output.Validate()
		},
		ValidArgsFunction: completeIDs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(cmd.ErrOrStderr(), func(s *session) error {
				r := remove.Remove{
					ID:      io.ID,
					Output:  output.Format,
					Out:     cmd.OutOrStdout(),
					Service: s.Service,
				}
				return r.Do(cmd.Context())
			})
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
