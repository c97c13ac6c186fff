// Package enumerate implements the write-choice enumerator (C5): the
// lexicographic stream of r-combinations of store ids, batched and routed
// to redundancy-elimination workers.
package enumerate

// Combination is one r-combination of store dense ids, in ascending order.
type Combination []uint16

// Batch is a unit of enumerator output. A Batch with Tombstone set (and no
// combinations) is the end-of-stream sentinel broadcast to every worker.
type Batch struct {
	Combinations []Combination
	Tombstone    bool
}

// Generator produces the lexicographic stream of r-combinations of
// {0, ..., numStores-1} for every r in [rMin, rMax], grouped into batches of
// at most batchSize combinations, with a final tombstone batch appended.
// Grounded on spec.md §4.5; the lexicographic combination walk itself
// follows the classic "next combination" algorithm used by
// original_source/src/combinations.rs.
type Generator struct {
	numStores int
	rMin      int
	rMax      int
	batchSize int

	r       int
	current []int
	done    bool
	emitted bool // tombstone already produced
}

// NewGenerator validates the replication-factor range against the store
// count and returns a Generator ready to produce batches via Next.
func NewGenerator(numStores, rMin, rMax, batchSize int) *Generator {
	if batchSize < 1 {
		batchSize = 1
	}
	g := &Generator{numStores: numStores, rMin: rMin, rMax: rMax, batchSize: batchSize, r: rMin}
	g.resetCombination()
	return g
}

func (g *Generator) resetCombination() {
	if g.r > g.rMax || g.r > g.numStores {
		g.done = true
		return
	}
	g.current = make([]int, g.r)
	for i := range g.current {
		g.current[i] = i
	}
}

// advance moves current to the lexicographically next r-combination,
// returning false when the current r is exhausted.
func (g *Generator) advance() bool {
	r := g.r
	i := r - 1
	for i >= 0 && g.current[i] == g.numStores-r+i {
		i--
	}
	if i < 0 {
		return false
	}
	g.current[i]++
	for j := i + 1; j < r; j++ {
		g.current[j] = g.current[j-1] + 1
	}
	return true
}

// Next returns the next batch of combinations, or the tombstone batch once
// every r in [rMin, rMax] has been exhausted. Calling Next again after the
// tombstone has been returned yields another (idempotent) tombstone batch,
// per the tombstone-idempotence property.
func (g *Generator) Next() Batch {
	if g.done {
		return Batch{Tombstone: true}
	}

	var out []Combination
	for len(out) < g.batchSize {
		if g.r > g.rMax || g.r > g.numStores {
			g.done = true
			break
		}
		combo := make(Combination, g.r)
		for i, v := range g.current {
			combo[i] = uint16(v)
		}
		out = append(out, combo)

		if !g.advance() {
			g.r++
			g.resetCombination()
			if g.r > g.rMax || g.r > g.numStores {
				g.done = true
				break
			}
		}
	}

	return Batch{Combinations: out}
}

// Route assigns batch to a worker index by tick, round-robin across k
// workers, per §4.5. The tombstone batch is not routed by this function;
// callers broadcast it to every worker directly.
func Route(tickIndex, k int) int {
	if k <= 0 {
		return 0
	}
	return tickIndex % k
}
