package attendance

import (
	"sync"
	"time"
)

// Ticker drives the once-per-second elapsed-time updates while an
// employee is checked in. It owns its goroutine; Stop is idempotent and
// must be called on transition out of the checked-in state or on
// teardown so no timer outlives its consumer.
type Ticker struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StartTicker invokes fn with the current instant every interval until
// Stop is called. clock is injectable for tests; pass time.Now in
// production code.
func StartTicker(interval time.Duration, clock func() time.Time, fn func(now time.Time)) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Ticker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tick.C:
				fn(clock())
			}
		}
	}()

	return t
}

// Stop cancels the ticker and waits for its goroutine to exit.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}
