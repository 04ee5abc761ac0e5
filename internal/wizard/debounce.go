package wizard

import (
	"sync"
	"time"
)

// Debouncer runs fn once after delay has passed without a new Trigger. It
// holds a single pending slot: every Trigger restarts the wait.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool
	running int
	idle    *sync.Cond
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	d := &Debouncer{delay: delay, fn: fn}
	d.idle = sync.NewCond(&d.mu)
	return d
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	gen := d.gen
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire ignores timers superseded by a later Trigger, Cancel or Stop.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running--
		if d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.fn()
}

// Wait blocks until no fired run is in progress and reports whether it had to wait.
func (d *Debouncer) Wait() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	waited := false
	for d.running > 0 {
		waited = true
		d.idle.Wait()
	}
	return waited
}

// Cancel drops the pending run and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.pending
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	return was
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending run and ignores later Triggers.
func (d *Debouncer) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
