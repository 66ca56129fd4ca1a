package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/clear"
)

func addClear(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Long: `Delete every task in the collection.

Asks for confirmation when run from a terminal. Pass --yes to skip the
question, which is required when stdin is not a terminal.`,
		Example: `
todo clear
todo clear --yes
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			output.Out = cmd.OutOrStdout()
			return output.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			confirm, err := confirmer(co.Yes)
			if err != nil {
				return output.HandleError(err)
			}
			err = withSession(cmd.ErrOrStderr(), func(s *session) error {
				c := clear.Clear{
					Confirm: confirm,
					Output:  output.Format,
					Out:     cmd.OutOrStdout(),
					Service: s.Service,
				}
				return c.Do(cmd.Context())
			})
			return output.HandleError(err)
		},
	}

	options.AddConfirmArgs(cmd, co)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func confirmer(yes bool) (app.Confirmer, error) {
	if yes {
		return app.Yes, nil
	}
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil, errors.New("refusing to delete all tasks: stdin is not a terminal, pass --yes")
	}
	return clear.Prompt{Stdin: os.Stdin, Stdout: os.Stdout}, nil
}
