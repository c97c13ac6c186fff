package catalog

// ObjectStore is a purchasable place to put objects: a region, a vendor
// tier name, and a Cost. Equality and hashing are by dense id only, per the
// data model.
type ObjectStore struct {
	ID     uint16
	Name   string
	Region Region
	Cost   Cost
}

// Equal compares stores by dense id.
func (o *ObjectStore) Equal(other *ObjectStore) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.ID == other.ID
}

// Key returns the "{vendor}-{region}-{name}-{tier}" style fully-qualified
// name used to merge duplicate price rows and to label output records.
func (o *ObjectStore) Key() string {
	return o.Region.Name + "-" + o.Name
}

// StoreRaw is one row of the object-store price CSV (§6), prior to
// dense-id assignment and region/price folding.
type StoreRaw struct {
	Vendor       string
	Region       string
	Name         string
	Tier         string
	Group        PriceGroup
	PricePerUnit float64
}

// RegionKey returns the "{vendor}-{region}" region identity this row
// belongs to.
func (r StoreRaw) RegionKey() string { return r.Vendor + "-" + r.Region }

// StoreKey returns the "{vendor}-{region}-{name}-{tier}" store identity
// this row contributes a price component to.
func (r StoreRaw) StoreKey() string { return r.RegionKey() + "-" + r.Name + "-" + r.Tier }

// storeName is the portion of StoreKey after the region, i.e. "{name}-{tier}".
func (r StoreRaw) storeName() string { return r.Name + "-" + r.Tier }
