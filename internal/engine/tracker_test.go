package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "system", ActorKey(nil))

	id := int64(42)
	assert.Equal(t, "user:42", ActorKey(&id))
}

func TestRunTracker_Lifecycle(t *testing.T) {
	t.Parallel()

	tr := NewRunTracker()

	running, _ := tr.Running("user:1")
	assert.False(t, running)

	assert.True(t, tr.TryStart("user:1"))
	assert.False(t, tr.TryStart("user:1"), "no running -> running transition")

	running, since := tr.Running("user:1")
	assert.True(t, running)
	assert.False(t, since.IsZero())

	tr.Finish("user:1")
	running, _ = tr.Running("user:1")
	assert.False(t, running)

	assert.True(t, tr.TryStart("user:1"), "idle again after finish")
}

func TestRunTracker_ActorsAreIndependent(t *testing.T) {
	t.Parallel()

	tr := NewRunTracker()
	assert.True(t, tr.TryStart("system"))
	assert.True(t, tr.TryStart("user:1"))
	assert.False(t, tr.TryStart("system"))

	tr.Finish("user:1")
	running, _ := tr.Running("system")
	assert.True(t, running)
}

func TestRunTracker_FinishUnknownActorIsNoOp(t *testing.T) {
	t.Parallel()

	tr := NewRunTracker()
	tr.Finish("user:99")
	assert.True(t, tr.TryStart("user:99"))
}

func TestRunTracker_ConcurrentTryStart(t *testing.T) {
	t.Parallel()

	tr := NewRunTracker()

	const goroutines = 32
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.TryStart("user:1") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins, "exactly one concurrent trigger may win")
}
