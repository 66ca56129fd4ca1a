package options

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	Text string
}

// TextArgs joins every argument into the task text.
func TextArgs(o *AddOptions) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New("requires the task text")
		}
		o.Text = strings.Join(args, " ")
		return nil
	}
}
