package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tableflip.dev/todo/pkg/task"
)

// Metrics holds the gateway collectors.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "todo",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Gateway calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "todo",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Gateway call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Outcome classifies err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// Instrument records every call on g into m.
func Instrument(g Gateway, m *Metrics) Gateway {
	if m == nil {
		return g
	}
	return &instrumented{next: g, m: m}
}

type instrumented struct {
	next Gateway
	m    *Metrics
}

func (i *instrumented) Unwrap() Gateway { return i.next }

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	i.m.Requests.WithLabelValues(op, Outcome(err)).Inc()
}

func (i *instrumented) FetchAll(ctx context.Context) ([]task.Task, error) {
	start := time.Now()
	tasks, err := i.next.FetchAll(ctx)
	i.observe(OpFetchAll, start, err)
	return tasks, err
}

func (i *instrumented) FetchOne(ctx context.Context, id string) (task.Task, error) {
	start := time.Now()
	t, err := i.next.FetchOne(ctx, id)
	i.observe(OpFetchOne, start, err)
	return t, err
}

func (i *instrumented) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	start := time.Now()
	t, err := i.next.Create(ctx, draft)
	i.observe(OpCreate, start, err)
	return t, err
}

func (i *instrumented) SetDone(ctx context.Context, id string, isDone bool) error {
	start := time.Now()
	err := i.next.SetDone(ctx, id, isDone)
	i.observe(OpSetDone, start, err)
	return err
}

func (i *instrumented) Remove(ctx context.Context, id string) error {
	start := time.Now()
	err := i.next.Remove(ctx, id)
	i.observe(OpRemove, start, err)
	return err
}

// RemoveAll records the batch latency once and one request per id.
func (i *instrumented) RemoveAll(ctx context.Context, ids []string) []Result {
	start := time.Now()
	results := i.next.RemoveAll(ctx, ids)
	i.m.Duration.WithLabelValues(OpRemoveAll).Observe(time.Since(start).Seconds())
	for _, r := range results {
		i.m.Requests.WithLabelValues(OpRemove, Outcome(r.Err)).Inc()
	}
	return results
}
