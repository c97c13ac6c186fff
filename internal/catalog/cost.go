package catalog

import "fmt"

// PriceGroup names the CSV "Group" column values recognized when folding a
// raw price row into a Cost.
type PriceGroup string

const (
	GroupGetRequest  PriceGroup = "get request"
	GroupGetTransfer PriceGroup = "get transfer"
	GroupPutRequest  PriceGroup = "put request"
	GroupPutTransfer PriceGroup = "put transfer"
	GroupStorage     PriceGroup = "storage"
)

// Cost bundles the per-store price components plus the region-keyed
// egress/ingress network price maps, already folded with the store's
// transfer prices per the §3 invariant (egress[a] == get_transfer +
// network egress price; ingress[a] == put_transfer + network ingress
// price).
type Cost struct {
	SizeCost    float64
	PutCost     float64
	PutTransfer float64
	GetCost     float64
	GetTransfer float64

	// Egress/Ingress are keyed by the destination/source application
	// region's dense id. They start out empty and are populated by
	// AddEgressCosts/AddIngressCosts once the loader knows the region set.
	Egress  map[uint16]float64
	Ingress map[uint16]float64
}

// NewCostFromPriceRow builds a single-field Cost from one raw price row.
// An unrecognized group leaves the Cost all-zero; the caller is expected to
// have already warned and skipped the row.
func NewCostFromPriceRow(pricePerUnit float64, group PriceGroup) Cost {
	c := Cost{Egress: map[uint16]float64{}, Ingress: map[uint16]float64{}}
	switch group {
	case GroupGetRequest:
		c.GetCost = pricePerUnit
	case GroupGetTransfer:
		c.GetTransfer = pricePerUnit
	case GroupPutRequest:
		c.PutCost = pricePerUnit
	case GroupPutTransfer:
		c.PutTransfer = pricePerUnit
	case GroupStorage:
		c.SizeCost = pricePerUnit
	}
	return c
}

// Merge folds other into c by element-wise maximum, per §4.2 step 1. The
// network maps are left untouched; they are populated later, once, by the
// loader's network-folding step.
func (c *Cost) Merge(other Cost) {
	c.SizeCost = max(c.SizeCost, other.SizeCost)
	c.PutCost = max(c.PutCost, other.PutCost)
	c.PutTransfer = max(c.PutTransfer, other.PutTransfer)
	c.GetCost = max(c.GetCost, other.GetCost)
	c.GetTransfer = max(c.GetTransfer, other.GetTransfer)
}

// AddEgressCosts materializes the egress map by adding the store's
// get-transfer price into every region's network egress price.
func (c *Cost) AddEgressCosts(networkEgress map[uint16]float64) {
	c.Egress = make(map[uint16]float64, len(networkEgress))
	for region, price := range networkEgress {
		c.Egress[region] = price + c.GetTransfer
	}
}

// AddIngressCosts materializes the ingress map by adding the store's
// put-transfer price into every region's network ingress price.
func (c *Cost) AddIngressCosts(networkIngress map[uint16]float64) {
	c.Ingress = make(map[uint16]float64, len(networkIngress))
	for region, price := range networkIngress {
		c.Ingress[region] = price + c.PutTransfer
	}
}

// Egress returns the network egress price from o.Region to a.Region,
// already folding in o's per-unit get-transfer price (§4.1).
func Egress(o *ObjectStore, a *ApplicationRegion) float64 {
	price, ok := o.Cost.Egress[a.Region.ID]
	if !ok {
		panic(fmt.Sprintf("catalog: missing egress price %s -> %s", o.Region.Name, a.Region.Name))
	}
	return price
}

// Ingress returns the network ingress price from a.Region to o.Region,
// already folding in o's per-unit put-transfer price. Per the spec's
// resolved open question, the application region's own ingress
// contribution is always zero and any correction lives in the network
// price, so it is not added here.
func Ingress(o *ObjectStore, a *ApplicationRegion) float64 {
	price, ok := o.Cost.Ingress[a.Region.ID]
	if !ok {
		panic(fmt.Sprintf("catalog: missing ingress price %s -> %s", a.Region.Name, o.Region.Name))
	}
	return price
}

// Transfer is the store-to-store migration network price: egress from o's
// region into dst's region, plus dst's ingress from o's region.
func Transfer(o, dst *ObjectStore) float64 {
	egressPrice, ok := o.Cost.Egress[dst.Region.ID]
	if !ok {
		panic(fmt.Sprintf("catalog: missing store egress price %s -> %s", o.Region.Name, dst.Region.Name))
	}
	ingressPrice, ok := dst.Cost.Ingress[o.Region.ID]
	if !ok {
		panic(fmt.Sprintf("catalog: missing store ingress price %s -> %s", o.Region.Name, dst.Region.Name))
	}
	return egressPrice + ingressPrice
}

// MigrationCost is the price of moving n objects of size s from o to dst.
func MigrationCost(o, dst *ObjectStore, n uint64, s float64) float64 {
	return Transfer(o, dst)*float64(n)*s + (dst.Cost.PutCost+o.Cost.GetCost)*float64(n)
}

// ReadCost is the price of gets requests and egressBytes of egress traffic
// served by o for application region a.
func ReadCost(o *ObjectStore, a *ApplicationRegion, gets, egressBytes float64) float64 {
	return o.Cost.GetCost*gets + Egress(o, a)*egressBytes
}

// CostDelta is the object size at which o and p's linear read-cost-vs-size
// lines for region a cross: get_cost(o) + egress(o,a)*s == get_cost(p) +
// egress(p,a)*s.
func CostDelta(o, p *ObjectStore, a *ApplicationRegion) float64 {
	oEgress, pEgress := Egress(o, a), Egress(p, a)
	return (o.Cost.GetCost - p.Cost.GetCost) / -(oEgress - pEgress)
}
