package list

import (
	"sync"
	"time"
)

// DefaultQuiescence is the debounce window used by the price slider and
// free-text search inputs.
const DefaultQuiescence = 500 * time.Millisecond

// Debouncer coalesces a burst of input events into a single action,
// fired once the input has been quiet for the configured window. Each
// trigger cancels the previously scheduled action.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer constructs a debouncer; window <= 0 uses the default.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultQuiescence
	}
	return &Debouncer{window: window}
}

// Trigger schedules fn after the quiescence window, replacing any
// previously scheduled call. Only the last scheduled fn fires.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels any pending action.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
