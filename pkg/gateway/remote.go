package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/todo/pkg/task"
)

// removeAllParallelism bounds concurrent DELETEs issued by RemoveAll.
const removeAllParallelism = 4

// Remote talks to a REST service exposing the collection at a base URL such
// as http://localhost:3000/todos.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// RemoteOption customizes a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithRemoteLogger sets the logger used for request tracing.
func WithRemoteLogger(l *slog.Logger) RemoteOption {
	return func(r *Remote) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRemote creates a gateway for the service at baseURL. Deadlines come from
// the caller's context (see WithTimeout), so the client has none of its own.
func NewRemote(baseURL string, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Remote) itemURL(id string) string {
	return r.baseURL + "/" + url.PathEscape(id)
}

func (r *Remote) FetchAll(ctx context.Context) ([]task.Task, error) {
	body, err := r.do(ctx, OpFetchAll, "", http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, err
	}
	// Anything but an array, null included, leaves the collection alone.
	if trimmed := bytes.TrimSpace(body); json.Valid(trimmed) && !bytes.HasPrefix(trimmed, []byte("[")) {
		r.logger.Warn("ignoring non-array collection", slog.Int("bytes", len(trimmed)))
		return nil, nil
	}
	var tasks []task.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, &TransportError{Op: OpFetchAll, Err: fmt.Errorf("decode collection: %w", err)}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func (r *Remote) FetchOne(ctx context.Context, id string) (task.Task, error) {
	body, err := r.do(ctx, OpFetchOne, id, http.MethodGet, r.itemURL(id), nil)
	if err != nil {
		return task.Task{}, err
	}
	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return task.Task{}, &TransportError{Op: OpFetchOne, ID: id, Err: fmt.Errorf("decode task: %w", err)}
	}
	return t, nil
}

func (r *Remote) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	body, err := r.do(ctx, OpCreate, draft.ID, http.MethodPost, r.baseURL, draft.Task())
	if err != nil {
		return task.Task{}, err
	}
	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return task.Task{}, &TransportError{Op: OpCreate, ID: draft.ID, Err: fmt.Errorf("decode task: %w", err)}
	}
	// Some services answer 201 with a partial body; fill the gaps from the
	// draft but keep whatever id the service chose.
	if t.ID == "" {
		t.ID = draft.ID
	}
	if t.Text == "" {
		t.Text = draft.Text
	}
	return t, nil
}

func (r *Remote) SetDone(ctx context.Context, id string, isDone bool) error {
	payload := struct {
		IsDone bool `json:"isDone"`
	}{IsDone: isDone}
	_, err := r.do(ctx, OpSetDone, id, http.MethodPatch, r.itemURL(id), payload)
	return err
}

func (r *Remote) Remove(ctx context.Context, id string) error {
	_, err := r.do(ctx, OpRemove, id, http.MethodDelete, r.itemURL(id), nil)
	return err
}

// RemoveAll issues one DELETE per id since the service has no bulk endpoint.
func (r *Remote) RemoveAll(ctx context.Context, ids []string) []Result {
	results := make([]Result, len(ids))
	var g errgroup.Group
	g.SetLimit(removeAllParallelism)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = Result{ID: id, Err: r.Remove(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// itemOp reports whether op addresses an existing task by its URL.
func itemOp(op string) bool {
	switch op {
	case OpFetchOne, OpSetDone, OpRemove:
		return true
	}
	return false
}

func (r *Remote) do(ctx context.Context, op, id, method, target string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &TransportError{Op: op, ID: id, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, ID: id, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, ID: id, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, ID: id, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	r.logger.Debug("gateway request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound && itemOp(op):
		return nil, &NotFoundError{ID: id}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &TransportError{Op: op, ID: id, Status: resp.StatusCode}
	}
	return body, nil
}
