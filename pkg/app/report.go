package app

import (
	"fmt"

	"tableflip.dev/todo/pkg/task"
)

// Report summarises the collection for status lines and the info command.
type Report struct {
	Total int `json:"total" yaml:"total"`
	Done  int `json:"done" yaml:"done"`
	Open  int `json:"open" yaml:"open"`
}

// NewReport counts tasks.
func NewReport(tasks []task.Task) Report {
	done := task.CountDone(tasks)
	return Report{Total: len(tasks), Done: done, Open: len(tasks) - done}
}

// String renders the stats line shown under the list.
func (r Report) String() string {
	return fmt.Sprintf("Done %d from %d", r.Done, r.Total)
}

// Report counts the current collection.
func (s *Service) Report() Report {
	return NewReport(s.store.Tasks())
}
