package catalog

import (
	"fmt"
	"log/slog"
	"sort"
)

// Selector decides whether a parsed name should be kept. Implementations
// live in internal/selector (regex or CEL); catalog only depends on this
// narrow interface so the loader stays testable without pulling in cel-go.
type Selector interface {
	Allow(name string) bool
}

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

// AllowAll is the default Selector used when the caller supplies none.
var AllowAll Selector = allowAll{}

// Catalog is the immutable result of loading: dense-id-assigned regions,
// object stores and application regions, plus the compatibility checker
// produced by any latency-SLO filtering.
type Catalog struct {
	Regions     []Region
	Stores      []ObjectStore
	AppRegions  []ApplicationRegion
	Compat      CompatibilityChecker
	regionByID  map[uint16]*ApplicationRegion
	storesByReg map[uint16][]*ObjectStore
}

// AppRegionByID returns the ApplicationRegion with the given dense id, or
// nil if no application region has that id.
func (c *Catalog) AppRegionByID(id uint16) *ApplicationRegion { return c.regionByID[id] }

// StoresIn returns the object stores located in region id, sorted by id.
func (c *Catalog) StoresIn(id uint16) []*ObjectStore { return c.storesByReg[id] }

func (c *Catalog) index() {
	c.regionByID = make(map[uint16]*ApplicationRegion, len(c.AppRegions))
	for i := range c.AppRegions {
		c.regionByID[c.AppRegions[i].Region.ID] = &c.AppRegions[i]
	}
	c.storesByReg = make(map[uint16][]*ObjectStore)
	for i := range c.Stores {
		rid := c.Stores[i].Region.ID
		c.storesByReg[rid] = append(c.storesByReg[rid], &c.Stores[i])
	}
}

// LoaderInput is the already-CSV-parsed input to Load; internal/ingest
// turns raw files into these row slices.
type LoaderInput struct {
	PriceRows      []StoreRaw
	NetworkRows    []NetworkRaw
	LatencyRows    []LatencyRaw // nil if no latency file was supplied
	LatencySLO     *float64     // nil if --latency-slo was not supplied
	RegionSelector Selector
	StoreSelector  Selector
	Logger         *slog.Logger
}

type foldedStore struct {
	regionKey string
	storeName string
	cost      Cost
}

// Load runs the six-step loading pipeline of spec.md §4.2.
func Load(in LoaderInput) (*Catalog, error) {
	if in.RegionSelector == nil {
		in.RegionSelector = AllowAll
	}
	if in.StoreSelector == nil {
		in.StoreSelector = AllowAll
	}
	if in.Logger == nil {
		in.Logger = slog.Default()
	}
	if in.LatencySLO != nil && len(in.LatencyRows) == 0 {
		return nil, newLoadError(ErrLatencyDataMissing, "latency file", nil)
	}

	pool := newStringPool()

	// Step 1: parse + fold by (region, store-name) maximum.
	stores := make(map[string]*foldedStore)
	for _, row := range in.PriceRows {
		if !validGroup(row.Group) {
			in.Logger.Warn("skipping price row with unknown group", "group", row.Group, "store", row.StoreKey())
			continue
		}
		key := pool.intern(row.StoreKey())
		contribution := NewCostFromPriceRow(row.PricePerUnit, row.Group)
		if existing, ok := stores[key]; ok {
			existing.cost.Merge(contribution)
		} else {
			stores[key] = &foldedStore{
				regionKey: pool.intern(row.RegionKey()),
				storeName: pool.intern(row.storeName()),
				cost:      contribution,
			}
		}
	}
	if len(stores) == 0 {
		return nil, newLoadError(ErrCatalogIncomplete, "object-store price file", nil)
	}

	network := make(map[[2]string]float64)
	for _, row := range in.NetworkRows {
		key := [2]string{pool.intern(row.SrcKey()), pool.intern(row.DestKey())}
		if existing, ok := network[key]; !ok || row.Cost > existing {
			network[key] = row.Cost
		}
	}
	if len(network) == 0 {
		return nil, newLoadError(ErrCatalogIncomplete, "network price file", nil)
	}

	latency := make(map[[2]string]float64)
	for _, row := range in.LatencyRows {
		key := [2]string{pool.intern(row.SrcKey()), pool.intern(row.DestKey())}
		if existing, ok := latency[key]; !ok || row.Latency > existing {
			latency[key] = row.Latency
		}
	}

	// Step 2: filter by selector and by appearing as both src and dst in
	// every required cost table. The region universe comes from the
	// network (and, if required, latency) tables alone — a region needs
	// no object store of its own to be a valid application region, per
	// §4.2's "keep only those regions that appear as both source and
	// destination in every required cost table".
	regionKeys := candidateRegions(network, latency, in.LatencySLO != nil, in.RegionSelector)
	if len(regionKeys) == 0 {
		return nil, newLoadError(ErrEmptyCatalog, "regions", nil)
	}

	// Step 3: latency-completeness filtering, fixed point.
	if in.LatencySLO != nil {
		regionKeys = filterLatencyComplete(regionKeys, latency)
		if len(regionKeys) == 0 {
			return nil, newLoadError(ErrEmptyCatalog, "regions after latency filtering", nil)
		}
	}

	regionSet := make(map[string]bool, len(regionKeys))
	for _, k := range regionKeys {
		regionSet[k] = true
	}

	storeKeys := make([]string, 0, len(stores))
	for key, s := range stores {
		if !regionSet[s.regionKey] {
			continue
		}
		if !in.StoreSelector.Allow(s.storeName) {
			continue
		}
		storeKeys = append(storeKeys, key)
	}
	if len(storeKeys) == 0 {
		return nil, newLoadError(ErrEmptyCatalog, "object stores", nil)
	}

	// Step 4: assign dense ids by sorted name.
	sort.Strings(regionKeys)
	regionIDs := make(map[string]uint16, len(regionKeys))
	regions := make([]Region, len(regionKeys))
	for i, key := range regionKeys {
		regionIDs[key] = uint16(i)
		regions[i] = Region{ID: uint16(i), Name: key}
	}

	sort.Strings(storeKeys)
	objectStores := make([]ObjectStore, len(storeKeys))
	for i, key := range storeKeys {
		s := stores[key]
		objectStores[i] = ObjectStore{
			ID:     uint16(i),
			Name:   s.storeName,
			Region: regions[regionIDs[s.regionKey]],
			Cost:   s.cost,
		}
	}

	// Step 5 + 6: network matrix with injected self-cost, folded into
	// per-store egress/ingress and per-app-region egress/ingress.
	networkEgress := make(map[uint16]map[uint16]float64, len(regions))
	for _, r := range regions {
		networkEgress[r.ID] = map[uint16]float64{r.ID: 0}
	}
	for pair, cost := range network {
		src, srcOK := regionIDs[pair[0]]
		dst, dstOK := regionIDs[pair[1]]
		if !srcOK || !dstOK {
			continue
		}
		networkEgress[src][dst] = cost
	}
	for _, r := range regions {
		for _, r2 := range regions {
			if _, ok := networkEgress[r.ID][r2.ID]; !ok {
				return nil, newLoadError(ErrMissingCostRow, fmt.Sprintf("%s -> %s", r.Name, r2.Name), nil)
			}
		}
	}
	networkIngress := make(map[uint16]map[uint16]float64, len(regions))
	for _, r := range regions {
		networkIngress[r.ID] = make(map[uint16]float64, len(regions))
		for _, r2 := range regions {
			networkIngress[r.ID][r2.ID] = 0
		}
	}

	for i := range objectStores {
		o := &objectStores[i]
		o.Cost.AddEgressCosts(networkEgress[o.Region.ID])
		o.Cost.AddIngressCosts(networkIngress[o.Region.ID])
	}

	appRegions := make([]ApplicationRegion, len(regions))
	for i, r := range regions {
		appRegions[i] = ApplicationRegion{
			Region:      r,
			EgressCost:  cloneMap(networkEgress[r.ID]),
			IngressCost: cloneMap(networkIngress[r.ID]),
		}
	}

	var compat CompatibilityChecker = AlwaysCompatible{}
	if in.LatencySLO != nil {
		byPair := make(map[[2]uint16]float64)
		for pair, l := range latency {
			src, srcOK := regionIDs[pair[0]]
			dst, dstOK := regionIDs[pair[1]]
			if srcOK && dstOK {
				byPair[[2]uint16{src, dst}] = l
			}
		}
		compat = NewNetworkSLOChecker(byPair, *in.LatencySLO)
	}

	cat := &Catalog{Regions: regions, Stores: objectStores, AppRegions: appRegions, Compat: compat}
	cat.index()
	return cat, nil
}

func validGroup(g PriceGroup) bool {
	switch g {
	case GroupGetRequest, GroupGetTransfer, GroupPutRequest, GroupPutTransfer, GroupStorage:
		return true
	default:
		return false
	}
}

// candidateRegions builds the region universe from the network price
// table alone (plus the latency table when a latency SLO is configured),
// not from which regions happen to host an object store: a region that
// appears only in the network CSV is still a valid application region.
// internal/catalog.Load filters the parsed stores down to this set
// afterward, never the other way around.
func candidateRegions(network, latency map[[2]string]float64, requireLatency bool, sel Selector) []string {
	srcSet, dstSet := make(map[string]bool), make(map[string]bool)
	for pair := range network {
		srcSet[pair[0]] = true
		dstSet[pair[1]] = true
	}
	latSrc, latDst := make(map[string]bool), make(map[string]bool)
	if requireLatency {
		for pair := range latency {
			latSrc[pair[0]] = true
			latDst[pair[1]] = true
		}
	}

	var out []string
	for region := range srcSet {
		if !dstSet[region] {
			continue
		}
		if !sel.Allow(region) {
			continue
		}
		if requireLatency && (!latSrc[region] || !latDst[region]) {
			continue
		}
		out = append(out, region)
	}
	return out
}

// filterLatencyComplete drops any region missing a latency row to or from
// another kept region, iterating to a fixed point since dropping one
// region can make another incomplete in turn.
func filterLatencyComplete(regions []string, latency map[[2]string]float64) []string {
	kept := make(map[string]bool, len(regions))
	for _, r := range regions {
		kept[r] = true
	}
	for {
		changed := false
		for r := range kept {
			for r2 := range kept {
				if _, ok := latency[[2]string{r, r2}]; !ok {
					delete(kept, r)
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}
	out := make([]string, 0, len(kept))
	for r := range kept {
		out = append(out, r)
	}
	return out
}

func cloneMap(m map[uint16]float64) map[uint16]float64 {
	out := make(map[uint16]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
