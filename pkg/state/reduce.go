package state

import "tableflip.dev/todo/pkg/task"

// Reduce returns the collection after applying a. It never modifies tasks; a
// change always yields a fresh slice. Actions that do not apply return tasks
// as given.
func Reduce(tasks []task.Task, a Action) []task.Task {
	switch a := a.(type) {
	case ReplaceAll:
		if a.Tasks == nil {
			return tasks
		}
		return dedupe(a.Tasks)
	case AddOne:
		if _, ok := task.Find(tasks, a.Task.ID); ok {
			return tasks
		}
		out := make([]task.Task, 0, len(tasks)+1)
		out = append(out, tasks...)
		return append(out, a.Task)
	case SetCompletion:
		for i, t := range tasks {
			if t.ID != a.ID {
				continue
			}
			if t.IsDone == a.IsDone {
				return tasks
			}
			out := task.Clone(tasks)
			out[i].IsDone = a.IsDone
			return out
		}
		return tasks
	case RemoveOne:
		for i, t := range tasks {
			if t.ID == a.ID {
				out := make([]task.Task, 0, len(tasks)-1)
				out = append(out, tasks[:i]...)
				return append(out, tasks[i+1:]...)
			}
		}
		return tasks
	case RemoveAll:
		if len(tasks) == 0 {
			return tasks
		}
		return []task.Task{}
	default:
		return tasks
	}
}

// dedupe copies tasks keeping the first occurrence of each id.
func dedupe(tasks []task.Task) []task.Task {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
