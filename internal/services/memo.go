package services

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memo caches one computed value for ttl. Concurrent misses share a single
// compute call; the last successful compute wins.
type Memo[T any] struct {
	mu     sync.Mutex
	value  T
	origin string
	stamp  time.Time
	valid  bool
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group
}

// Lookup is the outcome of GetOrCompute.
type Lookup[T any] struct {
	Value T
	At    time.Time
	// Hit is set when the value was already memoized.
	Hit bool
	// Origin is the label the filling compute call returned.
	Origin string
	// Shared is set when one compute call served several waiting callers.
	Shared bool
}

func NewMemo[T any](ttl time.Duration, now func() time.Time) *Memo[T] {
	if now == nil {
		now = time.Now
	}
	return &Memo[T]{ttl: ttl, now: now}
}

// Peek returns the cached value if it is still fresh.
func (m *Memo[T]) Peek() (T, time.Time, bool) {
	l, ok := m.peek()
	return l.Value, l.At, ok
}

func (m *Memo[T]) peek() (Lookup[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.now().Sub(m.stamp) < m.ttl {
		return Lookup[T]{Value: m.value, At: m.stamp, Hit: true, Origin: m.origin}, true
	}
	return Lookup[T]{}, false
}

// Store records v as computed now.
func (m *Memo[T]) Store(v T) time.Time {
	return m.store(v, "")
}

func (m *Memo[T]) store(v T, origin string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.origin = origin
	m.stamp = m.now()
	m.valid = true
	return m.stamp
}

// GetOrCompute returns the cached value when fresh, otherwise runs compute and
// stores its result together with the origin label compute reports. Callers
// that wait on an in-flight compute receive the same Lookup. Errors are not
// cached.
func (m *Memo[T]) GetOrCompute(compute func() (T, string, error)) (Lookup[T], error) {
	if l, ok := m.peek(); ok {
		return l, nil
	}

	res, err, shared := m.group.Do("compute", func() (interface{}, error) {
		if l, ok := m.peek(); ok {
			return l, nil
		}
		v, origin, err := compute()
		if err != nil {
			return nil, err
		}
		return Lookup[T]{Value: v, At: m.store(v, origin), Origin: origin}, nil
	})
	if err != nil {
		return Lookup[T]{}, err
	}
	l := res.(Lookup[T])
	l.Shared = shared
	return l, nil
}

// Invalidate drops the cached value.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.value = zero
	m.origin = ""
	m.valid = false
}
