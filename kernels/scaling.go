// Package kernels provides the built-in numerical-method update rules
// (component C7): forward Euler, classic RK4, and adaptive RK45, each
// advecting a particle through a grid's "U"/"V" velocity fields.
package kernels

import (
	"math"

	"github.com/ctessum-labs/parcels"
	"github.com/ctessum-labs/parcels/ast"
)

// earthRadiusMeters is WGS84's mean radius, the same constant the
// teacher's science.go pulls in via github.com/ctessum/atmos for
// great-circle distance calculations.
const earthRadiusMeters = 6371008.8

// metersPerSecToDegPerSec converts an (u, v) velocity in metres/second
// into (dLon, dLat) in degrees/second at the given latitude, for grids
// whose coordinates are geographic (spec §4.7 "coordinate scaling").
// Planar (metre-projected) grids pass velocities straight through.
func metersPerSecToDegPerSec(u, v, latDeg float64, geographic bool) (dLonPerSec, dLatPerSec float64) {
	if !geographic {
		return u, v
	}
	latRad := latDeg * math.Pi / 180
	metersPerDegLat := earthRadiusMeters * math.Pi / 180
	metersPerDegLon := metersPerDegLat * math.Cos(latRad)
	return u / metersPerDegLon, v / metersPerDegLat
}

// sampleUVAt reads the particle's grid "U" and "V" fields at an arbitrary
// (lon, lat, time) and returns them converted to the grid's coordinate
// units per second.
func sampleUVAt(p parcels.Particle, lon, lat, time float64) (dLon, dLat float64, err error) {
	u, err := p.SampleAt("U", lon, lat, time)
	if err != nil {
		return 0, 0, err
	}
	v, err := p.SampleAt("V", lon, lat, time)
	if err != nil {
		return 0, 0, err
	}
	dLon, dLat = metersPerSecToDegPerSec(u, v, lat, p.Geographic())
	return dLon, dLat, nil
}

// sampleUV reads U/V at the particle's current position.
func sampleUV(p parcels.Particle) (dLon, dLat float64, err error) {
	return sampleUVAt(p, p.Lon(), p.Lat(), p.Time())
}

// metersPerDegLatConst is the metres-per-degree-of-latitude factor at
// the equator used by metersPerSecToDegPerSec; precomputed once so the
// generated AST embeds it as a literal rather than recomputing
// earthRadiusMeters*pi/180 on every kernel call.
const metersPerDegLatConst = earthRadiusMeters * math.Pi / 180

// uvAdvectionAST builds the statement sequence every native-compiled
// advection stage shares: sample U/V at (lonExpr, latExpr, timeExpr),
// bail out with ErrorOutOfBounds if either sample is NaN (mirroring
// classify's errors.Is(ErrOutOfBounds) check; a NaN read from a grid node
// inside the domain is also reported as ErrorOutOfBounds here, where the
// interpreted path's classify maps ErrNaN to Error), then scale to the
// grid's coordinate units via the runtime field->geographic flag
// (mirroring metersPerSecToDegPerSec). prefix namespaces the C locals it
// declares so a kernel with several stages (AdvectionRK4's four) can
// call this once per stage without colliding on variable names; it
// returns the names of the resulting (dLon, dLat) locals.
func uvAdvectionAST(prefix string, lonExpr, latExpr, timeExpr ast.Expr) (dLonVar, dLatVar string, stmts []ast.Stmt) {
	uVar := prefix + "u"
	vVar := prefix + "v"
	dLonVar = prefix + "dLon"
	dLatVar = prefix + "dLat"

	latRad := ast.Mul(latExpr, ast.Lit(math.Pi/180))
	metersPerDegLon := ast.Mul(ast.Lit(metersPerDegLatConst), ast.CallFn("cos", latRad))

	stmts = []ast.Stmt{
		ast.Let(uVar, ast.Sample("U", lonExpr, latExpr, timeExpr)),
		ast.Let(vVar, ast.Sample("V", lonExpr, latExpr, timeExpr)),
		ast.If{
			Cond: ast.CallFn("isnan", ast.Var{Name: uVar}),
			Then: []ast.Stmt{ast.Return{Code: ast.Lit(float64(parcels.ErrorOutOfBounds))}},
		},
		ast.If{
			Cond: ast.CallFn("isnan", ast.Var{Name: vVar}),
			Then: []ast.Stmt{ast.Return{Code: ast.Lit(float64(parcels.ErrorOutOfBounds))}},
		},
		ast.Let(dLonVar, ast.Var{Name: uVar}),
		ast.Let(dLatVar, ast.Var{Name: vVar}),
		ast.If{
			Cond: ast.Geographic(),
			Then: []ast.Stmt{
				ast.Let(dLonVar, ast.Div(ast.Var{Name: uVar}, metersPerDegLon)),
				ast.Let(dLatVar, ast.Div(ast.Var{Name: vVar}, ast.Lit(metersPerDegLatConst))),
			},
		},
	}
	return dLonVar, dLatVar, stmts
}
