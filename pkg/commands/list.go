package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, optionally filtered by a search query.",
		Example: `
todo list
todo list --query milk
todo list -o json
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			output.Out = cmd.OutOrStdout()
			return output.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(cmd.ErrOrStderr(), func(s *session) error {
				l := list.List{
					Query:   qo.Query,
					ShowID:  io.ShowID,
					Output:  output.Format,
					Out:     cmd.OutOrStdout(),
					Service: s.Service,
				}
				return l.Do(cmd.Context())
			})
			return output.HandleError(err)
		},
	}

	options.AddQueryArgs(cmd, qo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
