package decision

import (
	"sort"
	"strings"

	"github.com/skypie-oracle/precomputer/internal/catalog"
)

// WriteChoice is an ordered sequence of ObjectStore: the set of replicas a
// candidate decision writes to. Grounded on
// original_source/skypie_lib/src/write_choice.rs, except for the tombstone
// representation: the Rust original uses a single-element vector holding a
// sentinel ObjectStore, but spec.md defines the tombstone as the empty
// sequence, which is what TombstoneWriteChoice and IsTombstone implement.
type WriteChoice struct {
	Stores []catalog.ObjectStore
}

// TombstoneWriteChoice returns the zero-length sentinel signalling
// end-of-stream.
func TombstoneWriteChoice() WriteChoice { return WriteChoice{} }

// IsTombstone reports whether w is the empty-sequence sentinel.
func (w WriteChoice) IsTombstone() bool { return len(w.Stores) == 0 }

// Key returns a canonical, order-independent identity string for w, equal
// for write choices holding the same stores in a different order.
func (w WriteChoice) Key() string {
	if len(w.Stores) == 0 {
		return ""
	}
	ids := make([]string, len(w.Stores))
	for i, o := range w.Stores {
		ids[i] = o.Key()
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// Contains reports whether o (by dense id) is one of w's stores.
func (w WriteChoice) Contains(o *catalog.ObjectStore) bool {
	for i := range w.Stores {
		if w.Stores[i].ID == o.ID {
			return true
		}
	}
	return false
}
