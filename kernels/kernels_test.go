package kernels

import (
	"context"
	"testing"

	"github.com/ctessum-labs/parcels"
)

func TestAdvectionRK4OnStommelGyre(t *testing.T) {
	grid, err := parcels.NewStommelGyre(40, 40, 3, 10*86400)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := grid.ParticleSet(parcels.ParticleSetOptions{
		Lon: []float64{1.5e6},
		Lat: []float64{1.0e6},
	})
	if err != nil {
		t.Fatal(err)
	}

	exec := parcels.NewExecutor(nil)
	err = exec.Execute(context.Background(), ps, AdvectionRK4(), parcels.ExecuteOptions{
		Dt:      3600,
		EndTime: 10 * 86400,
	})
	if err != nil {
		t.Fatal(err)
	}

	if ps.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (particle should stay inside the gyre's domain)", ps.Len())
	}
	p := ps.Particle(0)
	if p.ErrorCode() != parcels.Success {
		t.Errorf("ErrorCode() = %v, want Success", p.ErrorCode())
	}
	if p.Time() != 10*86400 {
		t.Errorf("Time() = %v, want %v", p.Time(), 10*86400.0)
	}
}

func TestAdvectionEEOnZeroFlow(t *testing.T) {
	lon, err := parcels.NewAxis([]float64{0, 2e6})
	if err != nil {
		t.Fatal(err)
	}
	lat, err := parcels.NewAxis([]float64{0, 2e6})
	if err != nil {
		t.Fatal(err)
	}
	tm, err := parcels.NewAxis([]float64{0, 100})
	if err != nil {
		t.Fatal(err)
	}
	u, err := parcels.NewField("U", lon, lat, tm, parcels.MetresTag{}, make([]float32, 2*2*2))
	if err != nil {
		t.Fatal(err)
	}
	v, err := parcels.NewField("V", lon, lat, tm, parcels.MetresTag{}, make([]float32, 2*2*2))
	if err != nil {
		t.Fatal(err)
	}
	grid, err := parcels.NewGrid(u, v)
	if err != nil {
		t.Fatal(err)
	}

	ps, err := grid.ParticleSet(parcels.ParticleSetOptions{Lon: []float64{1e6}, Lat: []float64{1e6}})
	if err != nil {
		t.Fatal(err)
	}
	lon0, lat0 := ps.Particle(0).Lon(), ps.Particle(0).Lat()

	exec := parcels.NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, AdvectionEE(), parcels.ExecuteOptions{Dt: 10, EndTime: 100}); err != nil {
		t.Fatal(err)
	}
	p := ps.Particle(0)
	if p.Lon() != lon0 || p.Lat() != lat0 {
		t.Errorf("particle moved under a zero field: (%v,%v) -> (%v,%v)", lon0, lat0, p.Lon(), p.Lat())
	}
}

func TestAdvectionRK45AdaptsStepSize(t *testing.T) {
	grid, err := parcels.NewStommelGyre(30, 30, 3, 5*86400)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := grid.ParticleSet(parcels.ParticleSetOptions{Lon: []float64{1.5e6}, Lat: []float64{1.0e6}})
	if err != nil {
		t.Fatal(err)
	}
	k := NewAdvectionRK45(1e-4, 60, 7200)
	exec := parcels.NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, k, parcels.ExecuteOptions{Dt: 1800, EndTime: 5 * 86400}); err != nil {
		t.Fatal(err)
	}
	if ps.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ps.Len())
	}
	if ps.Particle(0).Time() != 5*86400 {
		t.Errorf("Time() = %v, want %v", ps.Particle(0).Time(), 5*86400.0)
	}
}
