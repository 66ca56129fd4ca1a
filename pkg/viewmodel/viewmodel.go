// Package viewmodel gives views one integration point over the task service.
package viewmodel

import (
	"context"
	"sync"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/task"
)

// Model is everything a view renders. A Model is never modified once
// returned; treat it as read-only.
type Model struct {
	Query        string
	Tasks        []task.Task
	Filtered     []task.Task
	Report       app.Report
	Selected     *task.Task
	Loading      bool
	Err          error
	Appearing    string
	Disappearing string

	version uint64
}

// DoneCount is the number of completed tasks.
func (m *Model) DoneCount() int { return m.Report.Done }

// Total is the number of tasks in the collection.
func (m *Model) Total() int { return m.Report.Total }

// IsAppearing reports whether id carries the appearing marker.
func (m *Model) IsAppearing(id string) bool { return id != "" && m.Appearing == id }

// IsDisappearing reports whether id carries the disappearing marker.
func (m *Model) IsDisappearing(id string) bool { return id != "" && m.Disappearing == id }

// Adapter memoizes the Model of a Service.
type Adapter struct {
	svc *app.Service

	mu    sync.Mutex
	model *Model
}

// New wraps svc.
func New(svc *app.Service) *Adapter {
	return &Adapter{svc: svc}
}

// Service returns the wrapped service.
func (a *Adapter) Service() *app.Service { return a.svc }

// Model returns the current model. The same pointer is returned until the
// service state changes.
func (a *Adapter) Model() *Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil && a.model.version == a.svc.Version() {
		return a.model
	}
	st := a.svc.State()
	a.model = &Model{
		Query:        st.Query,
		Tasks:        st.Tasks,
		Filtered:     task.Filter(st.Tasks, st.Query),
		Report:       app.NewReport(st.Tasks),
		Selected:     st.Selected,
		Loading:      st.Loading,
		Err:          st.Err,
		Appearing:    st.Appearing,
		Disappearing: st.Disappearing,
		version:      st.Version,
	}
	return a.model
}

// Changed forwards the service change notifications.
func (a *Adapter) Changed() <-chan struct{} { return a.svc.Changed() }

func (a *Adapter) SetQuery(q string) { a.svc.SetQuery(q) }

func (a *Adapter) FetchAll(ctx context.Context) error { return a.svc.FetchAll(ctx) }

func (a *Adapter) FetchOne(ctx context.Context, id string) (task.Task, error) {
	return a.svc.FetchOne(ctx, id)
}

func (a *Adapter) Add(ctx context.Context, text string, onDone func()) (task.Task, error) {
	return a.svc.Add(ctx, text, onDone)
}

func (a *Adapter) Toggle(ctx context.Context, id string) (task.Task, error) {
	return a.svc.Toggle(ctx, id)
}

func (a *Adapter) Delete(ctx context.Context, id string) error { return a.svc.Delete(ctx, id) }

func (a *Adapter) DeleteAll(ctx context.Context, c app.Confirmer) error {
	return a.svc.DeleteAll(ctx, c)
}

// Watch starts refetching on external changes. See app.Service.Watch.
func (a *Adapter) Watch(ctx context.Context) error { return a.svc.Watch(ctx) }
