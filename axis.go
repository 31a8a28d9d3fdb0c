package parcels

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Axis is a monotonically increasing sequence of coordinate values along
// one dimension of a Grid (longitude, latitude, depth, or time). Axes are
// immutable once built; NewAxis copies its input.
//
// Bracket locates the two indices surrounding a query value by binary
// search (sort.Search), giving O(log n) lookups regardless of query
// order — unlike the teacher's Cell-neighbour indexing in popgrid.go,
// which assumes a fixed structured mesh built once at Init time, Field
// sampling here must support arbitrary, possibly non-monotonic particle
// trajectories querying the same Axis repeatedly.
type Axis struct {
	values []float64
}

// NewAxis validates that values has at least two strictly increasing
// points and returns an Axis holding a private copy of them.
func NewAxis(values []float64) (*Axis, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("parcels: axis must have at least 2 points, got %d", len(values))
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return nil, fmt.Errorf("parcels: axis values must be strictly increasing (values[%d]=%v <= values[%d]=%v)", i, values[i], i-1, values[i-1])
		}
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return &Axis{values: cp}, nil
}

// Len returns the number of points on the axis.
func (a *Axis) Len() int { return len(a.values) }

// At returns the i'th coordinate value.
func (a *Axis) At(i int) float64 { return a.values[i] }

// Min returns the lowest coordinate value.
func (a *Axis) Min() float64 { return floats.Min(a.values) }

// Max returns the highest coordinate value.
func (a *Axis) Max() float64 { return floats.Max(a.values) }

// Bracket returns the pair of indices lo, hi = lo+1 bracketing x and the
// fractional weight w in [0,1] such that
//
//	x == (1-w)*a.At(lo) + w*a.At(hi)
//
// Queries exactly at the outer edge are accepted (inclusive). x exactly on
// an interior grid node resolves to w=0 with the node as the lower
// bracket, per spec §4.1 "ties broken by using the lower-index bracket" —
// the one exception is the very last point, which has no node above it
// and so resolves to w=1 against the second-to-last bracket.
func (a *Axis) Bracket(x float64) (lo, hi int, w float64, err error) {
	if x < a.Min() || x > a.Max() {
		return 0, 0, 0, fmt.Errorf("%w: %v not in [%v,%v]", ErrOutOfBounds, x, a.Min(), a.Max())
	}
	n := len(a.values)
	// i is the first index with a.values[i] >= x.
	i := sort.Search(n, func(i int) bool { return a.values[i] >= x })
	switch {
	case i == 0:
		return 0, 1, 0, nil
	case i == n-1 && a.values[i] == x:
		return i - 1, i, 1, nil
	case a.values[i] == x:
		return i, i + 1, 0, nil
	default:
		lo, hi = i-1, i
		w = (x - a.values[lo]) / (a.values[hi] - a.values[lo])
		return lo, hi, w, nil
	}
}
