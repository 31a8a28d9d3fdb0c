package parcels

import "math"

// NewStommelGyre builds a Grid holding the analytic Stommel wind-driven
// double-gyre velocity field used by the original project's own test
// suite (original_source/tests/test_stommel.py) rather than a field
// loaded from a NetCDF file. It is restored here as a first-class
// constructor (SPEC_FULL.md §12) because it is the only field the
// original ships that needs no external data at all, which makes it the
// natural fixture for exercising AdvectionRK4 end to end (spec §8 seed
// test 4).
//
// Coordinates are plain metres on a square domain [0,xdim] x [0,ydim];
// nx, ny, nt set the resolution of the sampled U/V/P fields and tmax sets
// the outer edge of the (constant-in-time) time axis.
func NewStommelGyre(nx, ny, nt int, tmax float64) (*Grid, error) {
	const (
		xdim = 3.0e6 // m
		ydim = 3.0e6 // m
		day  = 86400.0
		// r, beta, a match original_source/tests/test_stommel.py.
		r    = 1.0 / (11.6 * day)
		beta = 2.0e-11
		a    = 2.0e6
	)
	es := r / (beta * a)

	lonVals := linspace(0, xdim, nx)
	latVals := linspace(0, ydim, ny)
	timeVals := linspace(0, tmax, nt)

	lon, err := NewAxis(lonVals)
	if err != nil {
		return nil, err
	}
	lat, err := NewAxis(latVals)
	if err != nil {
		return nil, err
	}
	tAxis, err := NewAxis(timeVals)
	if err != nil {
		return nil, err
	}

	u := make([]float32, nx*ny*nt)
	v := make([]float32, nx*ny*nt)
	p := make([]float32, nx*ny*nt)

	pi := math.Pi
	for ix, x := range lonVals {
		xNorm := x / a
		for iy, y := range latVals {
			yNorm := y / a

			// Stommel (1948) streamfunction and its derivatives, following
			// the closed-form solution reproduced in test_stommel.py.
			c1 := (-1 + math.Sqrt(1+(2*pi*es)*(2*pi*es))) / (2 * es)
			c2 := (-1 - math.Sqrt(1+(2*pi*es)*(2*pi*es))) / (2 * es)
			p1 := (1 - math.Exp(c2)) * math.Exp(c1*xNorm)
			p2 := (math.Exp(c1) - 1) * math.Exp(c2*xNorm)
			pNorm := (p1+p2)/(math.Exp(c1)-math.Exp(c2)) - 1

			psi := pi * math.Sin(pi*yNorm) * pNorm
			dPsiDy := pi * pi * math.Cos(pi*yNorm) * pNorm

			dp1 := c1 * (1 - math.Exp(c2)) * math.Exp(c1*xNorm)
			dp2 := c2 * (math.Exp(c1) - 1) * math.Exp(c2*xNorm)
			dPsiDx := pi * math.Sin(pi*yNorm) * (dp1 + dp2) / (math.Exp(c1) - math.Exp(c2))

			uVal := float32(-dPsiDy)
			vVal := float32(dPsiDx)
			pVal := float32(psi)
			for it := 0; it < nt; it++ {
				idx := (ix*ny+iy)*nt + it
				u[idx] = uVal
				v[idx] = vVal
				p[idx] = pVal
			}
		}
	}

	uField, err := NewField("U", lon, lat, tAxis, MetresTag{}, u)
	if err != nil {
		return nil, err
	}
	vField, err := NewField("V", lon, lat, tAxis, MetresTag{}, v)
	if err != nil {
		return nil, err
	}
	pField, err := NewField("P", lon, lat, tAxis, UnitlessTag{}, p)
	if err != nil {
		return nil, err
	}
	return NewGrid(uField, vField, pField)
}

// linspace returns n evenly spaced samples from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo, hi}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
