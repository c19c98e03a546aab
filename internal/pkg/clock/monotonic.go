package clock

import (
	"sync/atomic"
	"time"
)

// Monotonic hands out Unix millisecond stamps that strictly increase across
// the process, even when several calls land in the same millisecond or the
// wall clock steps backwards.
type Monotonic struct {
	last   atomic.Int64
	source func() int64
}

func New() *Monotonic {
	return NewWithSource(func() int64 { return time.Now().UnixMilli() })
}

func NewWithSource(source func() int64) *Monotonic {
	return &Monotonic{source: source}
}

// Next returns max(now, last+1).
func (m *Monotonic) Next() int64 {
	for {
		last := m.last.Load()
		next := m.source()
		if next <= last {
			next = last + 1
		}
		if m.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// NextTime is Next as a UTC time.
func (m *Monotonic) NextTime() time.Time {
	return time.UnixMilli(m.Next()).UTC()
}
