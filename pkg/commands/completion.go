package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/task"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(todo completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(todo completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			case "powershell":
				return topLevel.GenPowerShellCompletionWithDesc(out)
			default:
				return topLevel.GenBashCompletion(out)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

// completeIDs offers the ids of the current tasks, described by their text.
func completeIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	_ = withSession(io.Discard, func(s *session) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Service.FetchAll(ctx); err != nil {
			return err
		}
		out = idCompletions(s.Service.Tasks())
		return nil
	})
	return out, cobra.ShellCompDirectiveNoFileComp
}

func idCompletions(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, fmt.Sprintf("%s\t%s", t.ID, t.Text))
	}
	return out
}
