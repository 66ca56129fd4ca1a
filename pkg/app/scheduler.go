package app

import (
	"sort"
	"sync"
	"time"
)

// scheduler runs delayed state transitions. Each scheduled func runs exactly
// once: either when its timer fires or when the scheduler is closed.
type scheduler struct {
	mu      sync.Mutex
	idle    *sync.Cond
	next    uint64
	pending map[uint64]*time.Timer
	funcs   map[uint64]func()
	running int
	closed  bool
}

func newScheduler() *scheduler {
	s := &scheduler{
		pending: map[uint64]*time.Timer{},
		funcs:   map[uint64]func(){},
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// After schedules fn to run once d has elapsed. After Close, fn runs
// immediately on the caller's goroutine.
func (s *scheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	id := s.next
	s.next++
	s.funcs[id] = fn
	s.pending[id] = time.AfterFunc(d, func() { s.fire(id) })
	s.mu.Unlock()
}

// take removes id from the pending set. Only the caller that gets ok runs it.
func (s *scheduler) take(id uint64) (func(), bool) {
	fn, ok := s.funcs[id]
	if !ok {
		return nil, false
	}
	delete(s.funcs, id)
	if t := s.pending[id]; t != nil {
		t.Stop()
	}
	delete(s.pending, id)
	s.running++
	return fn, true
}

func (s *scheduler) done() {
	s.mu.Lock()
	s.running--
	s.idle.Broadcast()
	s.mu.Unlock()
}

func (s *scheduler) fire(id uint64) {
	s.mu.Lock()
	fn, ok := s.take(id)
	s.mu.Unlock()
	if !ok {
		return
	}
	defer s.done()
	fn()
}

// Pending counts transitions that have not run yet.
func (s *scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.funcs) + s.running
}

// Wait blocks until every scheduled transition has run.
func (s *scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.funcs) > 0 || s.running > 0 {
		s.idle.Wait()
	}
}

// Close runs every pending transition now, in scheduling order, and waits
// for any already running.
func (s *scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	ids := make([]uint64, 0, len(s.funcs))
	for id := range s.funcs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		if fn, ok := s.take(id); ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
		s.done()
	}
	s.Wait()
}
