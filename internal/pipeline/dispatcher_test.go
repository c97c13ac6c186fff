package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypie-oracle/precomputer/internal/enumerate"
)

func newTestWorkers(n int) []*Worker {
	workers := make([]*Worker, n)
	for i := range workers {
		workers[i] = &Worker{ID: i}
	}
	return workers
}

func TestDispatchRoutesRoundRobinAndBroadcastsTombstone(t *testing.T) {
	gen := enumerate.NewGenerator(3, 1, 1, 1)
	workers := newTestWorkers(2)
	var routed []int
	tombstones := 0

	failures := Dispatch(gen, workers, func(w *Worker, b enumerate.Batch) error {
		if b.Tombstone {
			tombstones++
			return nil
		}
		routed = append(routed, w.ID)
		return nil
	})

	assert.Empty(t, failures)
	assert.Equal(t, 2, tombstones)
	require.NotEmpty(t, routed)
}

func TestDispatchIsolatesFailingWorkerAndKeepsDrivingPeers(t *testing.T) {
	gen := enumerate.NewGenerator(4, 1, 1, 1)
	workers := newTestWorkers(2)
	boom := errors.New("sink write failed")
	peerTicks := 0

	failures := Dispatch(gen, workers, func(w *Worker, b enumerate.Batch) error {
		if b.Tombstone {
			return nil
		}
		if w.ID == 0 {
			return boom
		}
		peerTicks++
		return nil
	})

	require.Len(t, failures, 1)
	assert.Equal(t, 0, failures[0].WorkerID)
	assert.ErrorIs(t, failures[0].Err, boom)
	assert.Greater(t, peerTicks, 0, "the non-failing worker must keep receiving batches")
}

func TestDispatchAllWorkersFailReturnsAllFailures(t *testing.T) {
	gen := enumerate.NewGenerator(2, 1, 1, 1)
	workers := newTestWorkers(2)
	boom := errors.New("disk full")

	failures := Dispatch(gen, workers, func(w *Worker, b enumerate.Batch) error {
		if b.Tombstone {
			return nil
		}
		return boom
	})

	assert.Len(t, failures, 2)
}

func TestNextLiveSkipsDeadWorkers(t *testing.T) {
	live := []bool{true, false, true}
	assert.Equal(t, 0, nextLive(0, live))
	assert.Equal(t, 2, nextLive(1, live))
	assert.Equal(t, -1, nextLive(0, []bool{false, false, false}))
}
