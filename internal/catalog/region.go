// Package catalog holds the immutable cost-model entities (regions, object
// stores, application regions) and the loader that builds them from raw
// price and network rows.
package catalog

// InvalidID marks a Region or ObjectStore whose dense id has not been
// assigned yet.
const InvalidID uint16 = 1<<16 - 1

// Region identifies a vendor-qualified geographic location, e.g.
// "aws-us-east-1". Dense ids are assigned by the loader in sorted-name
// order and index into every per-region array the catalog owns.
type Region struct {
	ID   uint16
	Name string
}

// Less orders regions by dense id.
func (r Region) Less(other Region) bool { return r.ID < other.ID }

// Equal compares regions by id only, per the data model's identity rule.
func (r Region) Equal(other Region) bool { return r.ID == other.ID }

func (r Region) String() string { return r.Name }
