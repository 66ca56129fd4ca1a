package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/printers"
)

// ErrReported is returned once an error has already been written as
// structured output. The caller only needs to set the exit status.
var ErrReported = errors.New("error already reported")

// OutputOptions
type OutputOptions struct {
	Format string
	// Out receives structured errors. Defaults to color.Output.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Format, "output", "o", printers.FormatText,
		"Output format. One of 'text', 'json' or 'yaml'.")
}

// Validate rejects unknown formats.
func (o *OutputOptions) Validate() error {
	return printers.ValidFormat(o.Format)
}

// JSON reports whether errors should be written as a JSON object.
func (o *OutputOptions) JSON() bool {
	return o.Format == printers.FormatJSON
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON() && err != nil {
		body := map[string]string{
			"error":  app.Message(err),
			"detail": err.Error(),
		}
		b, merr := json.Marshal(body)
		if merr != nil {
			return merr
		}
		w := o.Out
		if w == nil {
			w = color.Output
		}
		_, _ = fmt.Fprintln(w, string(b))
		return ErrReported
	}
	return err
}
