package tracker

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the window a skills-autocomplete query waits before
// the lookup fires.
const DefaultDebounce = 250 * time.Millisecond

// SuggestFunc performs the actual suggestion lookup.
type SuggestFunc func(ctx context.Context, prefix string) ([]string, error)

// DeliverFunc receives the results for the query that produced them.
type DeliverFunc func(query string, results []string)

// Debouncer coalesces rapid-fire autocomplete queries: each new query
// restarts the window and cancels the pending lookup, so only the final
// query within a burst reaches the store. This is the only explicit
// cancellation in the system.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	lookup  SuggestFunc
	deliver DeliverFunc
	timer   *time.Timer
	gen     uint64
}

// NewDebouncer creates a debouncer. A non-positive delay uses
// DefaultDebounce.
func NewDebouncer(delay time.Duration, lookup SuggestFunc, deliver DeliverFunc) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, lookup: lookup, deliver: deliver}
}

// Query schedules a lookup for the given prefix after the debounce window.
// A newer query supersedes a pending or in-flight one; superseded results
// are dropped, not delivered.
func (d *Debouncer) Query(ctx context.Context, prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(ctx, gen, prefix)
	})
}

// Cancel drops any pending lookup without replacing it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(ctx context.Context, gen uint64, prefix string) {
	d.mu.Lock()
	stale := gen != d.gen
	d.mu.Unlock()
	if stale {
		return
	}

	results, err := d.lookup(ctx, prefix)
	if err != nil {
		return
	}

	d.mu.Lock()
	stale = gen != d.gen
	d.mu.Unlock()
	if stale {
		return
	}

	d.deliver(prefix, results)
}
