package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/todo/pkg/task"
)

// todoServer is a minimal /todos service in the shape the remote gateway
// expects.
type todoServer struct {
	mu       sync.Mutex
	tasks    []task.Task
	failIDs  map[string]int
	requests []string
}

func newTodoServer(tasks ...task.Task) *todoServer {
	return &todoServer{tasks: tasks, failIDs: map[string]int{}}
}

func (s *todoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/todos"), "/")
	if code, ok := s.failIDs[id]; ok {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && id == "":
		_ = json.NewEncoder(w).Encode(s.tasks)
	case r.Method == http.MethodPost && id == "":
		var t task.Task
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		t.ID = "srv-" + t.ID
		s.tasks = append(s.tasks, t)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(t)
	default:
		idx := -1
		for i, t := range s.tasks {
			if t.ID == id {
				idx = i
			}
		}
		if idx < 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("{}"))
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(s.tasks[idx])
		case http.MethodPatch:
			var patch struct {
				IsDone *bool `json:"isDone"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch.IsDone == nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			s.tasks[idx].IsDone = *patch.IsDone
			_ = json.NewEncoder(w).Encode(s.tasks[idx])
		case http.MethodDelete:
			s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
			_, _ = w.Write([]byte("{}"))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func newRemote(t *testing.T, srv http.Handler) *Remote {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return NewRemote(ts.URL + "/todos/")
}

func TestRemoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newTodoServer(task.Task{ID: "1", Text: "buy milk"})
	r := newRemote(t, srv)

	all, err := r.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Task{{ID: "1", Text: "buy milk"}}, all)

	created, err := r.Create(ctx, task.Draft{ID: "2", Text: "walk dog"})
	require.NoError(t, err)
	assert.Equal(t, task.Task{ID: "srv-2", Text: "walk dog"}, created, "server id is authoritative")

	require.NoError(t, r.SetDone(ctx, "srv-2", true))
	got, err := r.FetchOne(ctx, "srv-2")
	require.NoError(t, err)
	assert.True(t, got.IsDone)

	require.NoError(t, r.Remove(ctx, "1"))
	all, err = r.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"srv-2"}, task.IDs(all))

	assert.Contains(t, srv.requests, "PATCH /todos/srv-2")
	assert.Contains(t, srv.requests, "DELETE /todos/1")
}

func TestRemoteNotFound(t *testing.T) {
	r := newRemote(t, newTodoServer())

	_, err := r.FetchOne(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = r.Remove(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemoteCreateNotFoundIsTransportError(t *testing.T) {
	r := newRemote(t, http.NotFoundHandler())

	_, err := r.Create(context.Background(), task.Draft{ID: "1", Text: "buy milk"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrTransport))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.Status)
	assert.Equal(t, OpCreate, te.Op)
}

func TestRemoteServerErrorIsTransportError(t *testing.T) {
	srv := newTodoServer(task.Task{ID: "1", Text: "a"})
	srv.failIDs["1"] = http.StatusInternalServerError
	r := newRemote(t, srv)

	err := r.SetDone(context.Background(), "1", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Equal(t, OpSetDone, te.Op)
	assert.Equal(t, "HTTP 500: network problems", Message(err))
}

func TestRemoteFetchAllFailures(t *testing.T) {
	tests := map[string]struct {
		status  int
		body    string
		wantNil bool
		wantErr bool
	}{
		"server error": {status: http.StatusBadGateway, body: "", wantErr: true},
		"object body":  {status: http.StatusOK, body: `{"id":"1"}`, wantNil: true},
		"wrapped list": {status: http.StatusOK, body: `{"todos":[]}`, wantNil: true},
		"null body":    {status: http.StatusOK, body: `null`, wantNil: true},
		"garbage body": {status: http.StatusOK, body: `<html>`, wantErr: true},
		"bad array":    {status: http.StatusOK, body: `[{"id":1}]`, wantErr: true},
		"empty array":  {status: http.StatusOK, body: `[]`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			got, err := r.FetchAll(context.Background())
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrTransport))
				return
			}
			require.NoError(t, err)
			if tc.wantNil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Empty(t, got)
			}
		})
	}
}

func TestRemoteNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewRemote(url + "/todos").FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, "network problems", Message(err))
}

func TestRemoteRemoveAllReportsPerID(t *testing.T) {
	srv := newTodoServer(
		task.Task{ID: "1", Text: "a"},
		task.Task{ID: "2", Text: "b"},
		task.Task{ID: "3", Text: "c"},
	)
	srv.failIDs["2"] = http.StatusServiceUnavailable
	r := newRemote(t, srv)

	results := r.RemoveAll(context.Background(), []string{"1", "2", "3"})
	require.Len(t, results, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{results[0].ID, results[1].ID, results[2].ID})
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "2", failed[0].ID)
}
