package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configured backend and the tasks it holds.",
		Example: `
todo info
`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			output.Out = cmd.OutOrStdout()
			return output.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(cmd.ErrOrStderr(), func(s *session) error {
				i := info.Info{
					Config:  s.Config,
					Output:  output.Format,
					Out:     cmd.OutOrStdout(),
					Service: s.Service,
				}
				return i.Do(cmd.Context())
			})
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
