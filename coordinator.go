package got

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pendingSlot is the cancellation handle registered for one named
// in-flight request. The id token ties a release back to the acquire
// that created the slot, so a late-finishing superseded request can
// never evict its successor's slot.
type pendingSlot struct {
	id     string
	cancel context.CancelCauseFunc
}

// coordinator tracks at most one pending slot per logical request
// name. Acquiring a name that already has a slot cancels the previous
// in-flight request with ErrSuperseded before registering the new one.
type coordinator struct {
	mu     sync.Mutex
	slots  map[string]*pendingSlot
	logger zerolog.Logger
	debug  bool
}

func newCoordinator(logger zerolog.Logger, debug bool) *coordinator {
	return &coordinator{
		slots:  make(map[string]*pendingSlot),
		logger: logger,
		debug:  debug,
	}
}

// acquire registers a fresh slot for name and returns a context that
// is cancelled when the request is superseded. Empty names are never
// tracked: the original context is returned with a nil slot.
func (co *coordinator) acquire(ctx context.Context, name string) (context.Context, *pendingSlot) {
	if name == "" {
		return ctx, nil
	}

	slotCtx, cancel := context.WithCancelCause(ctx)
	sl := &pendingSlot{id: uuid.NewString(), cancel: cancel}

	co.mu.Lock()
	prev := co.slots[name]
	co.slots[name] = sl
	co.mu.Unlock()

	if prev != nil {
		prev.cancel(ErrSuperseded)
		if co.debug {
			logSuperseded(co.logger, name)
		}
	}
	return slotCtx, sl
}

// release removes the slot for name if it is still the one returned by
// the matching acquire. Safe and a no-op when the slot is absent or
// was already replaced by a successor.
func (co *coordinator) release(name string, sl *pendingSlot) {
	if name == "" || sl == nil {
		return
	}

	co.mu.Lock()
	if cur, ok := co.slots[name]; ok && cur.id == sl.id {
		delete(co.slots, name)
	}
	co.mu.Unlock()

	// Free the slot context's resources. Cause is already set if the
	// slot was superseded.
	sl.cancel(nil)
}

// active reports whether a slot is registered for name.
func (co *coordinator) active(name string) bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	_, ok := co.slots[name]
	return ok
}

// size returns the number of registered slots.
func (co *coordinator) size() int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return len(co.slots)
}
