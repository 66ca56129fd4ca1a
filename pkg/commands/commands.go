package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "todo",
		Short: base.Wrap80("Keep a task list in sync with a remote service or a local store."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
	}

	addGlobalFlags(cmd)
	AddCommands(cmd)
	return cmd
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("backend", "", "Task backend, one of 'remote' or 'local'.")
	flags.String("log-level", "", "Log level: debug, info, warn or error.")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address, for example :9090.")

	_ = viper.BindPFlag("backend", flags.Lookup("backend"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addAdd(topLevel)
	addGet(topLevel)
	addToggle(topLevel)
	addDelete(topLevel)
	addClear(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
