// Package decision holds the WriteChoice/ReadChoice/Decision types and the
// halfplane cost-vector derivation consumed by redundancy elimination.
package decision

// Tombstoner is implemented by every value that can signal end-of-stream by
// being its own zero-valued sentinel, per spec.md's "tombstone as
// termination" design note: WriteChoice, ReadChoice and Decision all satisfy
// it without a side-channel close signal.
type Tombstoner interface {
	IsTombstone() bool
}
