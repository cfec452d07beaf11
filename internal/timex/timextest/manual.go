// Package timextest provides a virtual-time timex.Scheduler for tests.
package timextest

import (
	"sync"
	"time"

	"github.com/voatnetwork/voat/internal/timex"
)

// Manual is a scheduler whose clock only moves on Advance. Due callbacks
// run synchronously on the goroutine calling Advance, in due-time order.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

var _ timex.Scheduler = (*Manual)(nil)

type manualTimer struct {
	m      *Manual
	id     int
	due    time.Duration
	period time.Duration
	f      func()
	active bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) timex.Timer {
	return m.add(d, 0, f)
}

func (m *Manual) Every(d time.Duration, f func()) timex.Timer {
	return m.add(d, d, f)
}

func (m *Manual) add(d, period time.Duration, f func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, id: m.seq, due: m.now + d, period: period, f: f, active: true}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that becomes due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.active = false
		}
		f := next.f
		m.mu.Unlock()

		f()
	}
}

// Elapsed returns the virtual time passed since creation.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of active timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if t.active {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	var next *manualTimer
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.active {
			continue
		}
		live = append(live, t)
		if t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
			next = t
		}
	}
	m.timers = live
	return next
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	was := t.active
	t.active = false
	return was
}
