package parcels

import (
	"context"
	"testing"
)

func TestExecuteZeroFlowHoldsPosition(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{1}, Lat: []float64{1}})
	if err != nil {
		t.Fatal(err)
	}
	k := New("identity", func(p Particle, dt float64) ErrorCode {
		p.SetTime(p.Time() + dt)
		return Success
	})
	exec := NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, k, ExecuteOptions{Dt: 1, EndTime: 5}); err != nil {
		t.Fatal(err)
	}
	p := ps.Particle(0)
	if p.Lon() != 1 || p.Lat() != 1 {
		t.Errorf("static kernel moved the particle: lon=%v lat=%v", p.Lon(), p.Lat())
	}
	if p.Time() != 5 {
		t.Errorf("Time() = %v, want 5", p.Time())
	}
}

func TestExecuteDeletesOnDeleteCode(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0, 1}, Lat: []float64{0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	k := New("deleteFirst", func(p Particle, dt float64) ErrorCode {
		p.SetTime(p.Time() + dt)
		if p.Lon() == 0 {
			return Delete
		}
		return Success
	})
	exec := NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, k, ExecuteOptions{Dt: 1, EndTime: 1}); err != nil {
		t.Fatal(err)
	}
	if ps.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ps.Len())
	}
	if ps.Particle(0).Lon() != 1 {
		t.Errorf("surviving particle has lon=%v, want 1", ps.Particle(0).Lon())
	}
}

func TestExecuteOutOfBoundsRecoveryOverride(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{1.9}, Lat: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	// a kernel that always samples off the edge of the grid.
	k := New("runOffTheEdge", func(p Particle, dt float64) ErrorCode {
		_, err := p.SampleAt("U", 5, 5, 0)
		if err != nil {
			return ErrorOutOfBounds
		}
		return Success
	})

	clamped := false
	exec := NewExecutor(map[ErrorCode]RecoveryKernel{
		ErrorOutOfBounds: func(p Particle) ErrorCode {
			clamped = true
			p.SetLon(1.0)
			p.SetTime(p.Time() + p.Dt())
			return Success
		},
	})
	if err := exec.Execute(context.Background(), ps, k, ExecuteOptions{Dt: 1, EndTime: 1}); err != nil {
		t.Fatal(err)
	}
	if !clamped {
		t.Error("expected the overridden recovery kernel to run")
	}
	if ps.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (override should not delete)", ps.Len())
	}
	if ps.Particle(0).Lon() != 1.0 {
		t.Errorf("Lon() = %v, want 1.0", ps.Particle(0).Lon())
	}
}

func TestExecuteDefaultRecoveryDeletesOutOfBounds(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{1.9}, Lat: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	k := New("runOffTheEdge", func(p Particle, dt float64) ErrorCode {
		_, err := p.SampleAt("U", 5, 5, 0)
		if err != nil {
			return ErrorOutOfBounds
		}
		return Success
	})
	exec := NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, k, ExecuteOptions{Dt: 1, EndTime: 1}); err != nil {
		t.Fatal(err)
	}
	if ps.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (default recovery deletes)", ps.Len())
	}
}

func TestExecuteFixedPointIsAnError(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0}, Lat: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	k := New("alwaysErrors", func(p Particle, dt float64) ErrorCode {
		return Error
	})
	exec := NewExecutor(map[ErrorCode]RecoveryKernel{
		Error: func(p Particle) ErrorCode { return Error }, // never resolves
	})
	if err := exec.Execute(context.Background(), ps, k, ExecuteOptions{Dt: 1, EndTime: 1}); err == nil {
		t.Error("expected a fixed-point error")
	}
}
