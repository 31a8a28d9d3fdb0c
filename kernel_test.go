package parcels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctessum-labs/parcels/ast"
)

func TestKernelConcatRunsBothInSequence(t *testing.T) {
	var order []string
	first := New("first", func(p Particle, dt float64) ErrorCode {
		order = append(order, "first")
		p.SetTime(p.Time() + dt)
		return Success
	})
	second := New("second", func(p Particle, dt float64) ErrorCode {
		order = append(order, "second")
		p.SetLon(p.Lon() + 1)
		return Success
	})

	combined := first.Concat(second)
	require.Equal(t, "first+second", combined.Name)

	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0}, Lat: []float64{0}})
	require.NoError(t, err)
	p := ps.Particle(0)

	code := combined.Func(p, 1)
	assert.Equal(t, Success, code)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1.0, p.Time())
	assert.Equal(t, 1.0, p.Lon())
}

func TestKernelConcatShortCircuitsOnNonSuccess(t *testing.T) {
	ranSecond := false
	first := New("first", func(p Particle, dt float64) ErrorCode {
		return ErrorOutOfBounds
	})
	second := New("second", func(p Particle, dt float64) ErrorCode {
		ranSecond = true
		return Success
	})

	combined := first.Concat(second)
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0}, Lat: []float64{0}})
	require.NoError(t, err)

	code := combined.Func(ps.Particle(0), 1)
	assert.Equal(t, ErrorOutOfBounds, code)
	assert.False(t, ranSecond, "second kernel must not run once the first returns a non-Success code")
}

func TestKernelConcatMergesASTWhenBothPresent(t *testing.T) {
	first := NewJIT("first", func(p Particle, dt float64) ErrorCode { return Success },
		ast.NewFunc("first", ast.Set(ast.Particle(), "lon", ast.Lit(1))))
	second := NewJIT("second", func(p Particle, dt float64) ErrorCode { return Success },
		ast.NewFunc("second", ast.Set(ast.Particle(), "lat", ast.Lit(2))))

	combined := first.Concat(second)
	require.NotNil(t, combined.AST)
	assert.Len(t, combined.AST.Body, 2)
}

func TestKernelConcatHasNoASTWhenEitherSideLacksOne(t *testing.T) {
	withAST := NewJIT("a", func(p Particle, dt float64) ErrorCode { return Success },
		ast.NewFunc("a", ast.Set(ast.Particle(), "lon", ast.Lit(1))))
	interpretedOnly := New("b", func(p Particle, dt float64) ErrorCode { return Success })

	combined := withAST.Concat(interpretedOnly)
	assert.Nil(t, combined.AST)
}
