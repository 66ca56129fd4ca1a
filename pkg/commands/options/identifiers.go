package options

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each task.")
}

// IDArgs reads the task id from the single positional argument.
func IDArgs(o *IDOptions) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("requires exactly one task id")
		}
		o.ID = strings.TrimSpace(args[0])
		if o.ID == "" {
			return errors.New("task id must not be empty")
		}
		return nil
	}
}
