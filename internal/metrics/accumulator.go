package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/skypie-oracle/precomputer/internal/persist"
)

// Stage names a tick's purpose, matching the strings internal/pipeline's
// Worker passes to RecordTick.
const (
	StageWriteChoiceGeneration = "WriteChoiceGeneration"
	StageRedundancyElimination = "RedundancyElimination"
)

// Accumulator implements internal/pipeline.TickRecorder: it rolls
// per-stage (duration, item count) ticks into the Total/
// RedundancyElimination/WriteChoiceGeneration timings and OptimalCount
// named in spec.md §4.10, and mirrors the same figures as OTel
// instruments. Safe for concurrent use by the K redundancy-elimination
// workers.
type Accumulator struct {
	mu             sync.Mutex
	writeChoiceGen time.Duration
	redundancyElim time.Duration
	optimalCount   int

	optimizerName  string
	optimizerStats persist.OptimizerStat

	tickDuration metric.Float64Histogram
	tickItems    metric.Int64Counter
}

// NewAccumulator builds an Accumulator reporting through meter. optimizer
// names the backend solver these ticks' RedundancyElimination duration is
// attributed to in the wrapper message's per-optimizer stats.
func NewAccumulator(meter metric.Meter, optimizer string) (*Accumulator, error) {
	tickDuration, err := meter.Float64Histogram(
		"skypie.pipeline.tick_duration_seconds",
		metric.WithDescription("duration of one pipeline stage tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	tickItems, err := meter.Int64Counter(
		"skypie.pipeline.tick_items_total",
		metric.WithDescription("items processed per pipeline stage tick"),
	)
	if err != nil {
		return nil, err
	}
	return &Accumulator{optimizerName: optimizer, tickDuration: tickDuration, tickItems: tickItems}, nil
}

// RecordTick folds one stage tick's duration and item count into the
// running totals. Cumulative totals only ever grow, satisfying §4.10's
// "never regress across ticks" rule.
func (a *Accumulator) RecordTick(stage string, d time.Duration, items int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch stage {
	case StageWriteChoiceGeneration:
		a.writeChoiceGen += d
	case StageRedundancyElimination:
		a.redundancyElim += d
		a.optimalCount += items
		a.optimizerStats.Observe(d)
	}

	attr := attribute.String("stage", stage)
	if a.tickDuration != nil {
		a.tickDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(attr))
	}
	if a.tickItems != nil {
		a.tickItems.Add(context.Background(), int64(items), metric.WithAttributes(attr))
	}
}

// Snapshot is a point-in-time, internally consistent read of the rolled-up
// figures.
type Snapshot struct {
	Total          time.Duration
	RedundancyElim time.Duration
	WriteChoiceGen time.Duration
	EnumeratorTime time.Duration
	OptimalCount   int
}

// Snapshot returns the current rolled-up figures. Total is the sum of
// every recorded tick; EnumeratorTime is inferred as Total minus
// RedundancyElimination, clamped to zero per §4.10 — the write-choice
// generation tick already includes the enumerator-driven materialize step,
// so this recovers exactly the WriteChoiceGeneration figure in the normal
// case and only differs from it if a future stage adds a third
// accumulator category.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := a.writeChoiceGen + a.redundancyElim
	enumerator := total - a.redundancyElim
	if enumerator < 0 {
		enumerator = 0
	}
	return Snapshot{
		Total:          total,
		RedundancyElim: a.redundancyElim,
		WriteChoiceGen: a.writeChoiceGen,
		EnumeratorTime: enumerator,
		OptimalCount:   a.optimalCount,
	}
}

// ToWrapperRecord folds the snapshot into the subset of fields
// internal/persist.WrapperRecord carries for run statistics. Callers fill
// in the remaining catalog/path fields themselves.
func (a *Accumulator) ToWrapperRecord() persist.WrapperRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := map[string]persist.OptimizerStat{}
	if a.optimizerStats.Calls > 0 {
		stats[a.optimizerName] = a.optimizerStats
	}

	total := a.writeChoiceGen + a.redundancyElim
	return persist.WrapperRecord{
		OptimizerStats: stats,
		Total:          total,
		RedundancyElim: a.redundancyElim,
		WriteChoiceGen: a.writeChoiceGen,
		OptimalCount:   a.optimalCount,
	}
}
