package engine

import (
	"fmt"
	"sync"
	"time"
)

// SystemActor is the dedup key used for batches not scoped to a user,
// i.e. scheduled runs and the webhook trigger.
const SystemActor = "system"

// ActorKey returns the batch dedup key for an owner scope. A nil owner
// means a system-wide batch.
func ActorKey(ownerID *int64) string {
	if ownerID == nil {
		return SystemActor
	}
	return fmt.Sprintf("user:%d", *ownerID)
}

// RunTracker records which actors currently have a batch in flight. It is
// advisory process-local state: it does not survive restarts and is not
// shared across instances. Its only job is rejecting a duplicate batch
// trigger from the same actor while one is still running.
type RunTracker struct {
	mu      sync.Mutex
	running map[string]time.Time
}

// NewRunTracker creates an empty tracker.
func NewRunTracker() *RunTracker {
	return &RunTracker{
		running: make(map[string]time.Time),
	}
}

// TryStart marks the actor as running. It returns false without changing
// state when the actor already has a batch in flight.
func (t *RunTracker) TryStart(actor string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.running[actor]; ok {
		return false
	}
	t.running[actor] = time.Now().UTC()
	return true
}

// Finish clears the actor's running mark. Safe to call for an actor that
// is not marked.
func (t *RunTracker) Finish(actor string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.running, actor)
}

// Running reports whether the actor has a batch in flight and, if so,
// when it started.
func (t *RunTracker) Running(actor string) (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	started, ok := t.running[actor]
	return ok, started
}
