package pipeline

import "github.com/skypie-oracle/precomputer/internal/enumerate"

// WorkerFailure pairs a worker id with the error that took it out of
// rotation, so the caller can log each failure and decide the process's
// aggregate exit code without Dispatch itself calling os.Exit.
type WorkerFailure struct {
	WorkerID int
	Err      error
}

// Dispatch drains generator and routes each non-tombstone batch round-robin
// across the still-live workers by tick index, then delivers the tombstone
// batch to every worker still alive once the enumerator is exhausted, per
// spec.md §4.5. It is the single enumerator driver; the K redundancy-
// elimination workers it feeds may run on independent OS threads, but
// Dispatch itself is sequential and single-threaded, matching the
// "write-choice enumerator is a single driver" rule in §5.
//
// Any I/O error surfaced by processBatch is fatal only to the worker that
// produced it, per §4.6's failure semantics: that worker is excluded from
// further routing and recorded in the returned slice, while its peers keep
// running. A Coordinator receives a done report from each worker that
// finishes its tombstone batch; failed workers are not reported to it, so a
// failure never ends delivery to the workers still live. Dispatch returns
// once the tombstone has been handed to every live worker, or once no live
// worker remains.
func Dispatch(generator enumerate.Source, workers []*Worker, processBatch func(w *Worker, b enumerate.Batch) error) []WorkerFailure {
	coord := NewCoordinator(len(workers))
	live := make([]bool, len(workers))
	liveCount := len(workers)
	var failures []WorkerFailure

	fail := func(i int, err error) {
		if !live[i] {
			return
		}
		live[i] = false
		liveCount--
		failures = append(failures, WorkerFailure{WorkerID: workers[i].ID, Err: err})
	}
	for i := range workers {
		live[i] = true
	}

	tick := 0
	for {
		if coord.Stopped() || liveCount == 0 {
			return failures
		}

		b := generator.Next()
		if b.Tombstone {
			for i, w := range workers {
				if !live[i] {
					continue
				}
				if err := processBatch(w, b); err != nil {
					fail(i, err)
					continue
				}
				coord.ReportDone(w.ID)
			}
			return failures
		}

		i := nextLive(tick, live)
		if i < 0 {
			return failures
		}
		if err := processBatch(workers[i], b); err != nil {
			fail(i, err)
		}
		tick++
	}
}

// nextLive finds the next live worker index for tick, starting from the
// same round-robin slot enumerate.Route would pick and scanning forward so
// failed workers drop out of rotation without disturbing the relative
// routing order of the workers that remain.
func nextLive(tick int, live []bool) int {
	n := len(live)
	start := enumerate.Route(tick, n)
	for offset := 0; offset < n; offset++ {
		i := (start + offset) % n
		if live[i] {
			return i
		}
	}
	return -1
}
