package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	ao := &options.AddOptions{}
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Example: `
todo add buy milk
`,
		Args: options.TextArgs(ao),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			output.Out = cmd.OutOrStdout()
			return output.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(cmd.ErrOrStderr(), func(s *session) error {
				a := add.Add{
					Text:    ao.Text,
					ShowID:  io.ShowID,
					Output:  output.Format,
					Out:     cmd.OutOrStdout(),
					Service: s.Service,
				}
				return a.Do(cmd.Context())
			})
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
