package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(fs *fakeStore) *Runner {
	c := NewChecker(fs, fixedSource(stockRecords(1), nil), &fakeNotifier{},
		WithLogger(quietLogger()))
	return NewRunner(c, NewRunTracker())
}

func TestNewScheduler_RegistersBatchEntry(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(newTestRunner(newFakeStore()), 30*time.Minute, quietLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(newTestRunner(newFakeStore()), time.Hour, quietLogger())
	require.NoError(t, err)

	s.Start()
	ctx := s.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestScheduler_RunBatchChecksActiveItems(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.addItem(testItem(1))
	fs.addItem(testItem(2))

	s, err := NewScheduler(newTestRunner(fs), time.Hour, quietLogger())
	require.NoError(t, err)

	// Invoke the scheduled job directly rather than waiting on cron.
	s.runBatch()

	assert.Len(t, fs.snapshotsFor(1), 1)
	assert.Len(t, fs.snapshotsFor(2), 1)
}

func TestScheduler_RunBatchSkipsWhenInFlight(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.addItem(testItem(1))

	r := newTestRunner(fs)
	require.True(t, r.tracker.TryStart(SystemActor))
	defer r.tracker.Finish(SystemActor)

	s, err := NewScheduler(r, time.Hour, quietLogger())
	require.NoError(t, err)

	s.runBatch()
	assert.Empty(t, fs.snapshotsFor(1), "tick skipped while previous run is marked in flight")
}
