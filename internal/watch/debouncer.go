package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer delays a callback until a quiet period has passed without new
// events. Rapid bursts (editors often emit several writes per save)
// collapse into a single invocation carrying the newest path.
type Debouncer struct {
	quiet  time.Duration
	notify func(path string)

	mu      sync.Mutex
	pending string
	timer   *time.Timer
}

// NewDebouncer returns a debouncer that invokes notify once per burst,
// after quiet has elapsed since the burst's last event.
func NewDebouncer(quiet time.Duration, notify func(path string)) *Debouncer {
	return &Debouncer{quiet: quiet, notify: notify}
}

// Trigger records an event. The callback fires once no further events
// arrive for the quiet period, with the path of the newest event.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = path

	if d.timer == nil {
		d.timer = time.AfterFunc(d.quiet, d.fire)
		return
	}

	d.timer.Stop()
	d.timer.Reset(d.quiet)
}

// Stop discards any pending callback. The debouncer stays usable; the
// next Trigger arms a fresh timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return
	}

	d.timer.Stop()
	d.timer = nil
}

// fire runs on the timer goroutine; a panicking callback must not take
// the process down with it.
func (d *Debouncer) fire() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("debounce callback panicked", slog.Any("error", r))
		}
	}()

	d.mu.Lock()
	path := d.pending
	d.mu.Unlock()

	d.notify(path)
}
