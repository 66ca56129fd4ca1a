// Package state owns the task collection. The collection only changes through
// the actions defined here, applied by Reduce.
package state

import (
	"fmt"

	"tableflip.dev/todo/pkg/task"
)

// Action is one of the closed set of collection transitions.
type Action interface {
	isAction()
	// Describe renders the action for logs.
	Describe() string
}

// ReplaceAll swaps in a full snapshot from the backend. A nil Tasks is treated
// as a malformed payload and ignored.
type ReplaceAll struct {
	Tasks []task.Task
}

// AddOne appends a task.
type AddOne struct {
	Task task.Task
}

// SetCompletion sets the done flag of one task.
type SetCompletion struct {
	ID     string
	IsDone bool
}

// RemoveOne drops one task.
type RemoveOne struct {
	ID string
}

// RemoveAll empties the collection.
type RemoveAll struct{}

func (ReplaceAll) isAction()    {}
func (AddOne) isAction()        {}
func (SetCompletion) isAction() {}
func (RemoveOne) isAction()     {}
func (RemoveAll) isAction()     {}

func (a ReplaceAll) Describe() string {
	if a.Tasks == nil {
		return "replace-all malformed"
	}
	return fmt.Sprintf("replace-all count:%d", len(a.Tasks))
}

func (a AddOne) Describe() string {
	return fmt.Sprintf("add-one id:%q", a.Task.ID)
}

func (a SetCompletion) Describe() string {
	return fmt.Sprintf("set-completion id:%q done:%t", a.ID, a.IsDone)
}

func (a RemoveOne) Describe() string {
	return fmt.Sprintf("remove-one id:%q", a.ID)
}

func (RemoveAll) Describe() string { return "remove-all" }
