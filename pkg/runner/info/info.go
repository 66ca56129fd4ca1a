// Package info provides the runner logic for describing the configuration.
package info

import (
	"context"
	"errors"
	"io"
	"os"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/config"
	"tableflip.dev/todo/pkg/printers"
)

// Info prints where tasks are stored and how many there are.
type Info struct {
	Config  *config.Config
	Output  string
	Out     io.Writer
	Service *app.Service
}

// Summary is the structured form of the info output.
type Summary struct {
	ConfigFile string     `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	ConfigEnv  string     `json:"configEnv,omitempty" yaml:"configEnv,omitempty"`
	Backend    string     `json:"backend" yaml:"backend"`
	Location   string     `json:"location" yaml:"location"`
	Tasks      app.Report `json:"tasks" yaml:"tasks"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Do executes the runner. A backend that cannot be reached is reported, not
// returned as an error.
func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		return errors.New("can not describe, no config")
	}
	if n.Service == nil {
		return errors.New("can not describe, no task service")
	}

	s := Summary{
		ConfigFile: n.Config.File,
		ConfigEnv:  os.Getenv("TODO_CONFIG_PATH"),
		Backend:    string(n.Config.Backend),
		Location:   location(n.Config),
	}
	if err := n.Service.FetchAll(ctx); err != nil {
		s.Error = app.Message(err)
	} else {
		s.Tasks = n.Service.Report()
	}

	if n.Output != "" && n.Output != printers.FormatText {
		return printers.Structured(n.Out, n.Output, s)
	}

	rows := [][2]string{
		{"Config", orNone(s.ConfigFile)},
		{"TODO_CONFIG_PATH", orNone(s.ConfigEnv)},
		{"Backend", s.Backend},
		{"Location", s.Location},
	}
	if s.Error != "" {
		rows = append(rows, [2]string{"Error", s.Error})
	} else {
		rows = append(rows, [2]string{"Tasks", s.Tasks.String()})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Pairs(rows)
	return nil
}

func location(cfg *config.Config) string {
	if cfg.Backend == config.BackendLocal {
		return cfg.Local.Path
	}
	return cfg.Remote.URL
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
