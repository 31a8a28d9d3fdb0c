package kernels

import (
	"github.com/ctessum-labs/parcels"
	"github.com/ctessum-labs/parcels/ast"
)

// AdvectionRK4 returns a classic fourth-order Runge-Kutta advection
// kernel, sampling U/V at four stages across the step (spec §4.7,
// component C7). Its AST mirrors the interpreted closure stage for
// stage, each stage namespaced ("s1".."s4") via uvAdvectionAST so the
// four sets of C locals don't collide in the generated function.
func AdvectionRK4() *parcels.Kernel {
	fn := func(p parcels.Particle, dt float64) parcels.ErrorCode {
		lon0, lat0, t0 := p.Lon(), p.Lat(), p.Time()

		u1, v1, err := sampleUVAt(p, lon0, lat0, t0)
		if err != nil {
			return classify(err)
		}
		u2, v2, err := sampleUVAt(p, lon0+0.5*dt*u1, lat0+0.5*dt*v1, t0+0.5*dt)
		if err != nil {
			return classify(err)
		}
		u3, v3, err := sampleUVAt(p, lon0+0.5*dt*u2, lat0+0.5*dt*v2, t0+0.5*dt)
		if err != nil {
			return classify(err)
		}
		u4, v4, err := sampleUVAt(p, lon0+dt*u3, lat0+dt*v3, t0+dt)
		if err != nil {
			return classify(err)
		}

		dLon := (u1 + 2*u2 + 2*u3 + u4) / 6
		dLat := (v1 + 2*v2 + 2*v3 + v4) / 6

		p.SetLon(lon0 + dLon*dt)
		p.SetLat(lat0 + dLat*dt)
		p.SetTime(t0 + dt)
		return parcels.Success
	}

	plon, plat, ptime := ast.AttrOf(ast.Particle(), "lon"), ast.AttrOf(ast.Particle(), "lat"), ast.AttrOf(ast.Particle(), "time")
	half := func(e ast.Expr) ast.Expr { return ast.Mul(ast.Lit(0.5), e) }
	dt := ast.Var{Name: "dt"}

	s1dLon, s1dLat, s1 := uvAdvectionAST("s1", plon, plat, ptime)
	s2dLon, s2dLat, s2 := uvAdvectionAST("s2",
		ast.Add(plon, ast.Mul(half(dt), ast.Var{Name: s1dLon})),
		ast.Add(plat, ast.Mul(half(dt), ast.Var{Name: s1dLat})),
		ast.Add(ptime, half(dt)))
	s3dLon, s3dLat, s3 := uvAdvectionAST("s3",
		ast.Add(plon, ast.Mul(half(dt), ast.Var{Name: s2dLon})),
		ast.Add(plat, ast.Mul(half(dt), ast.Var{Name: s2dLat})),
		ast.Add(ptime, half(dt)))
	s4dLon, s4dLat, s4 := uvAdvectionAST("s4",
		ast.Add(plon, ast.Mul(dt, ast.Var{Name: s3dLon})),
		ast.Add(plat, ast.Mul(dt, ast.Var{Name: s3dLat})),
		ast.Add(ptime, dt))

	weightedSum := func(k1, k2, k3, k4 string) ast.Expr {
		return ast.Div(
			ast.Add(ast.Add(ast.Add(ast.Var{Name: k1}, ast.Mul(ast.Lit(2), ast.Var{Name: k2})), ast.Mul(ast.Lit(2), ast.Var{Name: k3})), ast.Var{Name: k4}),
			ast.Lit(6))
	}

	stmts := append([]ast.Stmt{}, s1...)
	stmts = append(stmts, s2...)
	stmts = append(stmts, s3...)
	stmts = append(stmts, s4...)
	stmts = append(stmts,
		ast.Let("dLon", weightedSum(s1dLon, s2dLon, s3dLon, s4dLon)),
		ast.Let("dLat", weightedSum(s1dLat, s2dLat, s3dLat, s4dLat)),
		ast.Set(ast.Particle(), "lon", ast.Add(plon, ast.Mul(ast.Var{Name: "dLon"}, dt))),
		ast.Set(ast.Particle(), "lat", ast.Add(plat, ast.Mul(ast.Var{Name: "dLat"}, dt))),
		ast.Set(ast.Particle(), "time", ast.Add(ptime, dt)),
	)
	tree := ast.NewFunc("AdvectionRK4", stmts...)

	return parcels.NewJIT("AdvectionRK4", fn, tree)
}
