package kernels

import (
	"errors"

	"github.com/ctessum-labs/parcels"
	"github.com/ctessum-labs/parcels/ast"
)

// AdvectionEE returns a forward-Euler advection kernel: one sample of
// U/V at the particle's current position and time, applied over dt
// (spec §4.7, component C7).
func AdvectionEE() *parcels.Kernel {
	fn := func(p parcels.Particle, dt float64) parcels.ErrorCode {
		dLon, dLat, err := sampleUV(p)
		if err != nil {
			return classify(err)
		}
		p.SetLon(p.Lon() + dLon*dt)
		p.SetLat(p.Lat() + dLat*dt)
		p.SetTime(p.Time() + dt)
		return parcels.Success
	}

	dLonVar, dLatVar, stmts := uvAdvectionAST("",
		ast.AttrOf(ast.Particle(), "lon"), ast.AttrOf(ast.Particle(), "lat"), ast.AttrOf(ast.Particle(), "time"))
	stmts = append(stmts,
		ast.Set(ast.Particle(), "lon", ast.Add(ast.AttrOf(ast.Particle(), "lon"), ast.Mul(ast.Var{Name: dLonVar}, ast.Var{Name: "dt"}))),
		ast.Set(ast.Particle(), "lat", ast.Add(ast.AttrOf(ast.Particle(), "lat"), ast.Mul(ast.Var{Name: dLatVar}, ast.Var{Name: "dt"}))),
		ast.Set(ast.Particle(), "time", ast.Add(ast.AttrOf(ast.Particle(), "time"), ast.Var{Name: "dt"})),
	)
	tree := ast.NewFunc("AdvectionEE", stmts...)
	return parcels.NewJIT("AdvectionEE", fn, tree)
}

// classify maps a Field.Sample error into the particle error code the
// executor's recovery state machine dispatches on (spec §7).
func classify(err error) parcels.ErrorCode {
	switch {
	case err == nil:
		return parcels.Success
	case errors.Is(err, parcels.ErrOutOfBounds):
		return parcels.ErrorOutOfBounds
	default:
		return parcels.Error
	}
}
