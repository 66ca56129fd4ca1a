package options

import (
	"github.com/spf13/cobra"
)

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		`Skip the confirmation prompt.`)
}

// QueryOptions
type QueryOptions struct {
	Query string
}

func AddQueryArgs(cmd *cobra.Command, o *QueryOptions) {
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		`Only show tasks whose text contains this, ignoring case.`)
}
