package export

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingDeleter records every delete call and fails the identities listed
// in failIDs.
type recordingDeleter struct {
	mu      sync.Mutex
	calls   []Deletion
	failIDs map[string]struct{}
}

func newRecordingDeleter(failIDs ...string) *recordingDeleter {
	d := &recordingDeleter{failIDs: make(map[string]struct{})}
	for _, id := range failIDs {
		d.failIDs[id] = struct{}{}
	}
	return d
}

func (d *recordingDeleter) DeleteEntity(ctx context.Context, entityType, externalID, scope string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Deletion{EntityType: entityType, ExternalID: externalID, Scope: scope})
	if _, fail := d.failIDs[externalID]; fail {
		return fmt.Errorf("entity %s is still referenced", externalID)
	}
	return nil
}

func TestDeletionQueue_DrainExecutesEverything(t *testing.T) {
	queue := NewDeletionQueue()
	queue.Add(
		Deletion{EntityType: "table", ExternalID: "t-1", Scope: "prod", RecordID: 1},
		Deletion{EntityType: "column", ExternalID: "c-1", Scope: "prod", RecordID: 2},
	)
	require.Equal(t, 2, queue.Len())

	deleter := newRecordingDeleter()
	res := queue.Drain(context.Background(), deleter, zap.NewNop())

	assert.Equal(t, 2, res.Deleted)
	assert.Len(t, res.Succeeded, 2)
	assert.Empty(t, res.Failed)
	assert.Len(t, deleter.calls, 2)
	assert.Zero(t, queue.Len(), "drain empties the queue")
}

// TestDeletionQueue_FailureDoesNotStopDrain checks best-effort semantics: a
// failed deletion is reported but the remaining items still run.
func TestDeletionQueue_FailureDoesNotStopDrain(t *testing.T) {
	queue := NewDeletionQueue()
	queue.Add(
		Deletion{EntityType: "table", ExternalID: "t-1", Scope: "prod"},
		Deletion{EntityType: "table", ExternalID: "t-2", Scope: "prod"},
		Deletion{EntityType: "table", ExternalID: "t-3", Scope: "prod"},
	)

	deleter := newRecordingDeleter("t-2")
	res := queue.Drain(context.Background(), deleter, zap.NewNop())

	assert.Equal(t, 2, res.Deleted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "t-2", res.Failed[0].Deletion.ExternalID)
	assert.Contains(t, res.Failed[0].Error, "still referenced")
	assert.Len(t, deleter.calls, 3, "one failure must not stop the rest")
}

// TestDeletionQueue_ConcurrentAdd exercises the queue the way concurrent type
// exports use it: many goroutines appending while no drain is running.
func TestDeletionQueue_ConcurrentAdd(t *testing.T) {
	queue := NewDeletionQueue()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				queue.Add(Deletion{
					EntityType: "table",
					ExternalID: fmt.Sprintf("t-%d-%d", g, i),
					Scope:      "prod",
				})
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 200, queue.Len())

	deleter := newRecordingDeleter()
	res := queue.Drain(context.Background(), deleter, zap.NewNop())
	assert.Equal(t, 200, res.Deleted)
}

func TestDeletionQueue_DrainEmptyQueue(t *testing.T) {
	queue := NewDeletionQueue()
	deleter := newRecordingDeleter()

	res := queue.Drain(context.Background(), deleter, zap.NewNop())

	assert.Zero(t, res.Deleted)
	assert.Empty(t, res.Failed)
	assert.Empty(t, deleter.calls)
}
