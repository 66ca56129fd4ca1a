package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/toggle"
)

func addToggle(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done", "complete"},
		Short:   "Flip the completion state of a task",
		Example: `
todo toggle 42
todo done 42
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
				t := toggle.Toggle{
					ID:      io.ID,
					Output:  output.Format,
					Out:     cmd.OutOrStdout(),
					Service: s.Service,
				}
				return t.Do(cmd.Context())
			})
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
