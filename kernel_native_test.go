package parcels

import (
	"context"
	"math"
	"os/exec"
	"testing"

	"github.com/ctessum-labs/parcels/kernels"
)

// agreementGrid builds a non-trivial, spatially and temporally varying
// U/V field (unlike testGrid's all-zero fixture) so the interpreted and
// native paths actually exercise field_sample's interpolation rather
// than trivially agreeing on zero everywhere (spec §8's cross-path
// agreement requirement).
func agreementGrid(t *testing.T) *Grid {
	t.Helper()
	lon, err := NewAxis([]float64{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	lat, err := NewAxis([]float64{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	tm, err := NewAxis([]float64{0, 10})
	if err != nil {
		t.Fatal(err)
	}
	u := make([]float32, lon.Len()*lat.Len()*tm.Len())
	v := make([]float32, lon.Len()*lat.Len()*tm.Len())
	for i := 0; i < lon.Len(); i++ {
		for j := 0; j < lat.Len(); j++ {
			for k := 0; k < tm.Len(); k++ {
				idx := (i*lat.Len()+j)*tm.Len() + k
				u[idx] = float32(0.1*float64(i) - 0.05*float64(j) + 0.01*float64(k))
				v[idx] = float32(0.03*float64(i) + 0.07*float64(j) - 0.02*float64(k))
			}
		}
	}
	uf, err := NewField("U", lon, lat, tm, MetresTag{}, u)
	if err != nil {
		t.Fatal(err)
	}
	vf, err := NewField("V", lon, lat, tm, MetresTag{}, v)
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGrid(uf, vf)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func runInterpreted(t *testing.T, g *Grid, k *Kernel, endTime float64) *ParticleSet {
	t.Helper()
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0.6, 1.4, 2.2}, Lat: []float64{0.3, 1.7, 0.9}})
	if err != nil {
		t.Fatal(err)
	}
	exec := NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, k, ExecuteOptions{Dt: 0.5, EndTime: endTime}); err != nil {
		t.Fatal(err)
	}
	return ps
}

func runNative(t *testing.T, g *Grid, k *Kernel, endTime float64) *ParticleSet {
	t.Helper()
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0.6, 1.4, 2.2}, Lat: []float64{0.3, 1.7, 0.9}})
	if err != nil {
		t.Fatal(err)
	}
	cache, err := NewCache(t.TempDir(), NewCCCompiler())
	if err != nil {
		t.Fatal(err)
	}
	exec := NewExecutor(nil)
	if err := exec.ExecuteNative(context.Background(), ps, k, cache, ExecuteOptions{Dt: 0.5, EndTime: endTime}); err != nil {
		t.Fatal(err)
	}
	return ps
}

func assertParticleSetsAgree(t *testing.T, interpreted, native *ParticleSet, tol float64) {
	t.Helper()
	if interpreted.Len() != native.Len() {
		t.Fatalf("interpreted/native particle counts differ: %d vs %d", interpreted.Len(), native.Len())
	}
	for i := 0; i < interpreted.Len(); i++ {
		pi, pn := interpreted.Particle(i), native.Particle(i)
		if diff := math.Abs(pi.Lon() - pn.Lon()); diff > tol {
			t.Errorf("particle %d: lon differs: interpreted=%v native=%v diff=%v", i, pi.Lon(), pn.Lon(), diff)
		}
		if diff := math.Abs(pi.Lat() - pn.Lat()); diff > tol {
			t.Errorf("particle %d: lat differs: interpreted=%v native=%v diff=%v", i, pi.Lat(), pn.Lat(), diff)
		}
		if diff := math.Abs(pi.Time() - pn.Time()); diff > tol {
			t.Errorf("particle %d: time differs: interpreted=%v native=%v diff=%v", i, pi.Time(), pn.Time(), diff)
		}
	}
}

// TestNativePathAgreesWithInterpretedEE compiles AdvectionEE's AST to a
// native shared library via a real C compiler and checks its result
// against the interpreted closure path to within 1e-12 (spec §8).
func TestNativePathAgreesWithInterpretedEE(t *testing.T) {
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("no C compiler on PATH; skipping native/interpreted agreement test")
	}
	g := agreementGrid(t)
	k := kernels.AdvectionEE()
	interpreted := runInterpreted(t, g, k, 3)
	native := runNative(t, g, k, 3)
	assertParticleSetsAgree(t, interpreted, native, 1e-12)
}

// TestNativePathAgreesWithInterpretedRK4 does the same for AdvectionRK4,
// whose AST spans four namespaced sampling stages.
func TestNativePathAgreesWithInterpretedRK4(t *testing.T) {
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("no C compiler on PATH; skipping native/interpreted agreement test")
	}
	g := agreementGrid(t)
	k := kernels.AdvectionRK4()
	interpreted := runInterpreted(t, g, k, 3)
	native := runNative(t, g, k, 3)
	assertParticleSetsAgree(t, interpreted, native, 1e-12)
}
