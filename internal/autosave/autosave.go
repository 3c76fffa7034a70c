// internal/autosave/autosave.go
package autosave

import (
	"context"
	"log"
	"sync"
	"time"

	"homeforge/internal/selection"
)

// DefaultWindow is the quiet period after the last change before a draft is
// persisted. Any change inside the window resets the timer, so only settled
// state ever reaches the store.
const DefaultWindow = 2 * time.Second

// Saver persists a draft snapshot. Implementations are network-bound; the
// controller guarantees at most one call is in flight at a time.
type Saver interface {
	SaveDraft(ctx context.Context, snap selection.Snapshot, complete bool) error
}

// Authorizer reports whether the current session may persist at all.
type Authorizer interface {
	Authorized() bool
}

// Controller debounces draft persistence of the selection model. Saves are
// best-effort: failures are logged and swallowed, never surfaced, and the
// next debounce cycle retries naturally with fresher state.
type Controller struct {
	saver  Saver
	auth   Authorizer
	clock  Clock
	window time.Duration

	mu          sync.Mutex
	timer       Timer
	latest      selection.Snapshot
	dirty       bool
	saving      bool
	pending     bool
	closed      bool
	lastSavedAt time.Time
}

// NewController creates an autosave controller. A zero window falls back to
// DefaultWindow; a nil clock falls back to the wall clock.
func NewController(saver Saver, auth Authorizer, clock Clock, window time.Duration) *Controller {
	if clock == nil {
		clock = SystemClock()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Controller{saver: saver, auth: auth, clock: clock, window: window}
}

// Notify records the latest selection state and (re)arms the debounce timer.
// Skipped entirely when the session is unauthorized or the plan context is
// absent: nothing is queued and nothing fires later.
func (c *Controller) Notify(snap selection.Snapshot) {
	if !c.auth.Authorized() || snap.PlanID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.latest = snap
	c.dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(c.window, c.fire)
}

// fire runs when the debounce window settles.
func (c *Controller) fire() {
	c.mu.Lock()
	c.timer = nil
	if c.closed || !c.dirty {
		c.mu.Unlock()
		return
	}
	if c.saving {
		// One follow-up at most, however many windows settle meanwhile.
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.saving = true
	snap := c.latest
	c.dirty = false
	c.mu.Unlock()

	go c.run(snap)
}

// run performs the in-flight save and at most one queued follow-up carrying
// whatever snapshot is latest by the time it starts.
func (c *Controller) run(snap selection.Snapshot) {
	for {
		err := c.saver.SaveDraft(context.Background(), snap, false)

		c.mu.Lock()
		if err != nil {
			log.Printf("autosave: draft save failed for plan %s: %v", snap.PlanID, err)
		} else {
			c.lastSavedAt = c.clock.Now()
		}
		if c.pending && !c.closed {
			c.pending = false
			snap = c.latest
			c.dirty = false
			c.mu.Unlock()
			continue
		}
		c.saving = false
		c.mu.Unlock()
		return
	}
}

// Flush persists the latest state immediately, bypassing the debounce window.
// If a save is already in flight the follow-up slot is used instead.
func (c *Controller) Flush(ctx context.Context) error {
	if !c.auth.Authorized() {
		return nil
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.closed || c.latest.PlanID == "" {
		c.mu.Unlock()
		return nil
	}
	if c.saving {
		c.pending = true
		c.mu.Unlock()
		return nil
	}
	c.saving = true
	snap := c.latest
	c.dirty = false
	c.mu.Unlock()

	err := c.saver.SaveDraft(ctx, snap, false)

	c.mu.Lock()
	if err == nil {
		c.lastSavedAt = c.clock.Now()
	}
	pending := c.pending
	c.pending = false
	c.saving = false
	c.mu.Unlock()

	if pending {
		return c.Flush(ctx)
	}
	return err
}

// Discard drops any pending debounce without tearing the controller down. A
// save already in flight finishes, but its queued follow-up is dropped with
// the window. Later notifies arm a fresh window as usual.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = false
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Cancel tears the controller down. Any pending debounce is stopped, never
// fired; subsequent notifies are ignored.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Saving reports whether a draft save is currently in flight.
func (c *Controller) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// LastSavedAt returns the completion time of the most recent successful save,
// or the zero time when nothing has been persisted yet.
func (c *Controller) LastSavedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSavedAt
}
