// Package pipeline implements the candidate+reduce pipeline (C6): per
// worker, cooperatively scheduled, turning write-id batches from the
// enumerator into persisted candidate and optimal Decision streams.
//
// The scheduling model is grounded on internal/swarm/engine.go's worker
// pool, but reshaped from that engine's AIMD-driven, goroutine-per-task
// pool into the spec's fixed-K, single-event-loop-per-worker cooperative
// scheduler: each Worker's ProcessBatch call is one tick, processing
// everything currently available on its input and nothing more, with no
// preemption and no shared mutable state between workers.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/skypie-oracle/precomputer/internal/assignment"
	"github.com/skypie-oracle/precomputer/internal/catalog"
	"github.com/skypie-oracle/precomputer/internal/decision"
	"github.com/skypie-oracle/precomputer/internal/enumerate"
	"github.com/skypie-oracle/precomputer/internal/merge"
	"github.com/skypie-oracle/precomputer/internal/redundancy"
)

// Sink receives one Decision at a time and an end-of-stream Close. Real
// implementations live in internal/persist; tests use an in-memory stub.
type Sink interface {
	Write(d decision.Decision) error
	Close() error
}

// TickRecorder is the narrow interface Worker uses to report per-stage
// timing, implemented by internal/metrics.Accumulator. Declared here rather
// than imported from internal/metrics to avoid a pipeline<->metrics import
// cycle, since metrics.Accumulator also reports pipeline-level rollups.
type TickRecorder interface {
	RecordTick(stage string, d time.Duration, items int)
}

type noopRecorder struct{}

func (noopRecorder) RecordTick(string, time.Duration, int) {}

// Worker is one cooperative event loop sitting between the enumerator and
// the persistence sinks, per spec.md §4.6/§5.
type Worker struct {
	ID int

	Catalog     *catalog.Catalog
	AppRegions  []*catalog.ApplicationRegion
	Backend     redundancy.Backend
	BackendCfg  redundancy.Config
	BatchTarget int

	Candidates Sink
	Optimal    Sink

	Logger   *slog.Logger
	Recorder TickRecorder

	pending []decision.Decision
	done    bool
}

// NewWorker builds a Worker with safe defaults for any unset optional
// fields.
func NewWorker(id int, cat *catalog.Catalog, backend redundancy.Backend, cfg redundancy.Config, batchTarget int, candidates, optimal Sink, logger *slog.Logger, recorder TickRecorder) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if batchTarget < 1 {
		batchTarget = 1
	}
	appRegions := make([]*catalog.ApplicationRegion, len(cat.AppRegions))
	for i := range cat.AppRegions {
		appRegions[i] = &cat.AppRegions[i]
	}
	return &Worker{
		ID: id, Catalog: cat, AppRegions: appRegions, Backend: backend, BackendCfg: cfg,
		BatchTarget: batchTarget, Candidates: candidates, Optimal: optimal, Logger: logger, Recorder: recorder,
	}
}

// Done reports whether this worker has processed its tombstone and exited.
func (w *Worker) Done() bool { return w.done }

// ProcessBatch is one tick: every combination in b is turned into
// Decisions, written to the candidate sink, and folded into the pending
// redundancy-elimination batch. Receiving the tombstone batch flushes the
// pending batch, emits any residual optimal Decisions, closes both sinks,
// and marks the worker done. ProcessBatch is idempotent once done is true,
// per the tombstone-idempotence property.
func (w *Worker) ProcessBatch(ctx context.Context, b enumerate.Batch) error {
	if w.done {
		return nil
	}

	tickStart := time.Now()
	candidateCount := 0

	for _, combo := range b.Combinations {
		decisions, err := w.materialize(combo)
		if err != nil {
			return err
		}
		for _, d := range decisions {
			if err := w.Candidates.Write(d); err != nil {
				return err
			}
			w.pending = append(w.pending, d)
			candidateCount++
		}
		if len(w.pending) >= w.BatchTarget {
			if err := w.flush(ctx); err != nil {
				return err
			}
		}
	}
	w.Recorder.RecordTick("WriteChoiceGeneration", time.Since(tickStart), candidateCount)

	if b.Tombstone {
		if err := w.flush(ctx); err != nil {
			return err
		}
		if err := w.Candidates.Close(); err != nil {
			return err
		}
		if err := w.Optimal.Close(); err != nil {
			return err
		}
		w.done = true
	}
	return nil
}

// materialize turns a write-id combination into the Decisions §4.3/§4.4
// produce for it: build the WriteChoice, compute each region's compatible
// envelope, and merge.
func (w *Worker) materialize(combo enumerate.Combination) ([]decision.Decision, error) {
	stores := make([]catalog.ObjectStore, len(combo))
	for i, id := range combo {
		stores[i] = w.Catalog.Stores[id]
	}
	wc := decision.WriteChoice{Stores: stores}

	envelopes := make([]merge.RegionEnvelope, len(w.AppRegions))
	for i, a := range w.AppRegions {
		ptrs := make([]*catalog.ObjectStore, len(stores))
		for j := range stores {
			ptrs[j] = &stores[j]
		}
		compatible := assignment.Compatible(ptrs, a, w.Catalog.Compat)
		envelopes[i] = merge.RegionEnvelope{Region: a, Segments: assignment.Envelope(compatible, a)}
	}

	return merge.Merge(wc, envelopes), nil
}

// flush runs the redundancy-elim bridge over the pending batch and writes
// survivors to the optimal sink, per §4.6's "Batching" paragraph.
func (w *Worker) flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	start := time.Now()
	dim := decision.Dimension(len(w.AppRegions))
	survivors := redundancy.Bridge(ctx, w.Logger, w.Backend, w.pending, w.BackendCfg, dim)
	w.Recorder.RecordTick("RedundancyElimination", time.Since(start), len(survivors))

	for _, d := range survivors {
		if err := w.Optimal.Write(d); err != nil {
			return err
		}
	}
	w.pending = w.pending[:0]
	return nil
}
