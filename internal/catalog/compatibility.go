package catalog

// CompatibilityChecker decides whether an (ObjectStore, ApplicationRegion)
// pair may serve reads at all, independent of cost. Grounded on the
// original source's skypie_lib::compatibility_checker{,_network_slos}.rs,
// which kept the always-compatible default and the latency-SLO checker as
// two small interchangeable implementations rather than baking the SLO
// check into the loader.
type CompatibilityChecker interface {
	IsCompatible(o *ObjectStore, a *ApplicationRegion) bool
}

// AlwaysCompatible is used when no latency file/SLO is supplied.
type AlwaysCompatible struct{}

func (AlwaysCompatible) IsCompatible(*ObjectStore, *ApplicationRegion) bool { return true }

// NetworkSLOChecker drops any (o, a) pair whose measured latency exceeds
// the configured SLO, or for which no latency row exists at all.
type NetworkSLOChecker struct {
	// Latency maps a (store-region id, app-region id) pair to its measured
	// latency.
	Latency map[[2]uint16]float64
	SLO     float64
}

func NewNetworkSLOChecker(latency map[[2]uint16]float64, slo float64) *NetworkSLOChecker {
	return &NetworkSLOChecker{Latency: latency, SLO: slo}
}

func (c *NetworkSLOChecker) IsCompatible(o *ObjectStore, a *ApplicationRegion) bool {
	l, ok := c.Latency[[2]uint16{o.Region.ID, a.Region.ID}]
	if !ok {
		return false
	}
	return l <= c.SLO
}
