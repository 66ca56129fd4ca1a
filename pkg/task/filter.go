package task

import "strings"

// Filter returns the tasks whose text contains query, ignoring case. A blank
// query returns tasks unchanged. Matches keep their original order.
func Filter(tasks []Task, query string) []Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Text), q) {
			out = append(out, t)
		}
	}
	return out
}

// CountDone counts completed tasks.
func CountDone(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.IsDone {
			n++
		}
	}
	return n
}
