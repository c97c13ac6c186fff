package catalog

import "math"

// Range is the closed interval [Min, Max] on the real line. [-Inf, +Inf] is
// the identity under Intersect; a Range is non-empty iff Min < Max.
type Range struct {
	Min float64
	Max float64
}

// FullRange returns the identity range [-Inf, +Inf].
func FullRange() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

// EmptyRange returns a canonical empty range.
func EmptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Empty reports whether the range contains no points.
func (r Range) Empty() bool { return !(r.Min < r.Max) }

// Intersect returns the intersection of r and other.
func (r Range) Intersect(other Range) Range {
	return Range{Min: math.Max(r.Min, other.Min), Max: math.Min(r.Max, other.Max)}
}

// Contains reports whether s lies within the closed interval.
func (r Range) Contains(s float64) bool { return s >= r.Min && s <= r.Max }
