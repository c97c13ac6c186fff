package decision

import "github.com/skypie-oracle/precomputer/internal/catalog"

type readSlot struct {
	region *catalog.ApplicationRegion
	store  *catalog.ObjectStore
}

// ReadChoice is a fixed-length array indexed by application-region dense
// id, mapping each region to the ObjectStore serving its reads. Grounded on
// spec.md §4.4's data model: construction allocates |regions| slots up
// front, insertion and lookup are O(1) by id, and the empty array is the
// tombstone sentinel.
type ReadChoice struct {
	slots []readSlot
}

// NewReadChoice allocates n empty slots, one per application region.
func NewReadChoice(n int) ReadChoice {
	return ReadChoice{slots: make([]readSlot, n)}
}

// TombstoneReadChoice returns the zero-length sentinel.
func TombstoneReadChoice() ReadChoice { return ReadChoice{} }

// IsTombstone reports whether r is the empty-array sentinel.
func (r ReadChoice) IsTombstone() bool { return len(r.slots) == 0 }

// Len returns the number of application-region slots.
func (r ReadChoice) Len() int { return len(r.slots) }

// Set assigns o to serve a's reads. Panics if a.Region.ID is out of range,
// mirroring the invariant that read_choice[a.id].region == a always holds
// after initialization.
func (r *ReadChoice) Set(a *catalog.ApplicationRegion, o *catalog.ObjectStore) {
	r.slots[a.Region.ID] = readSlot{region: a, store: o}
}

// Get returns the object store serving a's reads, or nil if unassigned.
func (r ReadChoice) Get(a *catalog.ApplicationRegion) *catalog.ObjectStore {
	slot := r.slots[a.Region.ID]
	if slot.region == nil {
		return nil
	}
	return slot.store
}

// Assignment exposes one (region, store) pair by ascending region id, the
// iteration order the halfplane layout depends on.
type Assignment struct {
	Region *catalog.ApplicationRegion
	Store  *catalog.ObjectStore
}

// Assignments returns every populated (region, store) pair in ascending
// region-id order. internal/persist uses this to encode a read choice by
// name without needing catalog lookups.
func (r ReadChoice) Assignments() []Assignment {
	out := make([]Assignment, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].region == nil {
			continue
		}
		out = append(out, Assignment{Region: r.slots[i].region, Store: r.slots[i].store})
	}
	return out
}
