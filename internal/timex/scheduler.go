package timex

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback. Stop reports whether the
// callback was still pending (or, for repeating timers, still active).
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay or on a fixed period.
// Callbacks run on their own goroutine; callers synchronize state themselves.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// RealScheduler is backed by the runtime timers.
type RealScheduler struct{}

func NewRealScheduler() RealScheduler {
	return RealScheduler{}
}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (RealScheduler) Every(d time.Duration, f func()) Timer {
	t := &ticker{t: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.t.C:
				f()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.t.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
