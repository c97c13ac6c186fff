package catalog

// ApplicationRegion is a region from which an application issues reads and
// writes. EgressCost/IngressCost are keyed by destination/source region
// dense id. Per the resolved open question in spec.md §9, IngressCost is
// always zero in the "intercept absent" case; the loader still populates
// it for symmetry with EgressCost.
type ApplicationRegion struct {
	Region      Region
	EgressCost  map[uint16]float64
	IngressCost map[uint16]float64
}

// EgressPrice returns the price of data leaving this application region to
// dst.
func (a *ApplicationRegion) EgressPrice(dst Region) float64 {
	return a.EgressCost[dst.ID]
}

// IngressPrice returns the price of data entering this application region
// from src. Always zero under the intercept-absent policy.
func (a *ApplicationRegion) IngressPrice(src Region) float64 {
	return a.IngressCost[src.ID]
}

// NetworkRaw is one row of the network price CSV (§6).
type NetworkRaw struct {
	SrcVendor  string
	SrcRegion  string
	DestVendor string
	DestRegion string
	Cost       float64
}

func (r NetworkRaw) SrcKey() string  { return r.SrcVendor + "-" + r.SrcRegion }
func (r NetworkRaw) DestKey() string { return r.DestVendor + "-" + r.DestRegion }

// LatencyRaw is one row of the optional latency CSV (§6).
type LatencyRaw struct {
	SrcVendor  string
	SrcRegion  string
	DestVendor string
	DestRegion string
	Latency    float64
}

func (r LatencyRaw) SrcKey() string  { return r.SrcVendor + "-" + r.SrcRegion }
func (r LatencyRaw) DestKey() string { return r.DestVendor + "-" + r.DestRegion }
