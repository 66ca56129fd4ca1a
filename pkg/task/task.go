// Package task holds the task model shared by the gateway, the store and the
// views.
package task

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do entry. ID and Text are fixed once created; only the
// completion flag changes.
type Task struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	IsDone bool   `json:"isDone" yaml:"isDone"`
}

// Draft is a task that has not been persisted yet.
type Draft struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewDraft validates text and wraps it in a draft with a client-generated id.
func NewDraft(text string) (Draft, error) {
	clean, err := Validate(text)
	if err != nil {
		return Draft{}, err
	}
	return Draft{ID: NewID(), Text: clean}, nil
}

// Task converts the draft into the not-yet-done task sent to a backend.
func (d Draft) Task() Task {
	return Task{ID: d.ID, Text: d.Text}
}

// NewID returns a random identifier, falling back to a timestamp when the
// random source is unavailable.
func NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return id.String()
}

// String renders the task as a single checkbox line.
func (t Task) String() string {
	mark := " "
	if t.IsDone {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s", mark, t.Text)
}

// Clone returns a copy of tasks that shares no backing array with the input.
// A nil input stays nil.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Find returns the task with id and whether it was present.
func Find(tasks []Task, id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// IDs lists the ids of tasks in order.
func IDs(tasks []Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
