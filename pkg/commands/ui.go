package commands

import (
	"io"

	"github.com/spf13/cobra"

	teaui "tableflip.dev/todo/pkg/runner/tea"
	"tableflip.dev/todo/pkg/viewmodel"
)

func addUI(topLevel *cobra.Command) {
	var path string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
todo ui
todo ui --path /tasks/42
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			// The screen belongs to the UI; only log.file receives logs.
			return withSession(io.Discard, func(s *session) error {
				return teaui.Run(cmd.Context(), viewmodel.New(s.Service), teaui.Options{StartPath: path})
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "View to open first, such as / or /tasks/<id>.")
	topLevel.AddCommand(cmd)
}
