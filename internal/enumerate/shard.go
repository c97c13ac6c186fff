package enumerate

// Source is anything that produces the batch stream Dispatch drains;
// *Generator is the usual implementation, Shard composes one to carve out
// a --worker-id/--num-workers slice of it.
type Source interface {
	Next() Batch
}

// Shard filters an underlying Source down to the batches this worker-id
// owns, applying the same round-robin-by-tick-index rule Route uses
// in-process for the K redundancy-elimination workers, one level up: each
// of NumWorkers cooperating CLI processes claims every NumWorkers-th
// non-tombstone batch by global tick order. The tombstone batch still
// passes through to every shard, since each process runs its own
// in-process worker pool to completion independently.
type Shard struct {
	Source     Source
	WorkerID   int
	NumWorkers int

	tick int
}

func (s *Shard) Next() Batch {
	for {
		b := s.Source.Next()
		if b.Tombstone {
			return b
		}
		owner := Route(s.tick, s.NumWorkers)
		s.tick++
		if owner == s.WorkerID {
			return b
		}
	}
}
