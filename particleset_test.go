package parcels

import "testing"

func testGrid(t *testing.T) *Grid {
	t.Helper()
	lon, _ := NewAxis([]float64{0, 1, 2})
	lat, _ := NewAxis([]float64{0, 1, 2})
	tm, _ := NewAxis([]float64{0, 10})
	u, err := NewField("U", lon, lat, tm, MetresTag{}, make([]float32, 3*3*2))
	if err != nil {
		t.Fatal(err)
	}
	v, err := NewField("V", lon, lat, tm, MetresTag{}, make([]float32, 3*3*2))
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGrid(u, v)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestParticleSetAddAndAttributes(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{
		Lon: []float64{0, 1},
		Lat: []float64{0, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ps.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ps.Len())
	}
	p0, p1 := ps.Particle(0), ps.Particle(1)
	if p0.ID() == p1.ID() {
		t.Error("expected distinct particle IDs")
	}
	if p0.Lon() != 0 || p1.Lon() != 1 {
		t.Errorf("unexpected lon values: %v, %v", p0.Lon(), p1.Lon())
	}
	if p0.ErrorCode() != Success {
		t.Errorf("new particle ErrorCode = %v, want Success", p0.ErrorCode())
	}
}

func TestParticleSetRemove(t *testing.T) {
	g := testGrid(t)
	ps, err := g.ParticleSet(ParticleSetOptions{
		Lon: []float64{0, 1, 2},
		Lat: []float64{0, 0, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	keepID := ps.Particle(2).ID()
	ps.Remove([]int{0, 1})
	if ps.Len() != 1 {
		t.Fatalf("Len() after Remove = %d, want 1", ps.Len())
	}
	if ps.Particle(0).ID() != keepID {
		t.Errorf("surviving particle has id %d, want %d", ps.Particle(0).ID(), keepID)
	}
}

func TestParticleSetAddSetMerge(t *testing.T) {
	g := testGrid(t)
	a, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0}, Lat: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{1, 2}, Lat: []float64{1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddSet(b); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() after AddSet = %d, want 3", a.Len())
	}
	if a.Particle(1).Lon() != 1 || a.Particle(2).Lon() != 2 {
		t.Errorf("merged particles have unexpected lon values: %v, %v", a.Particle(1).Lon(), a.Particle(2).Lon())
	}
}

func TestParticleSetAddSetSchemaMismatch(t *testing.T) {
	g := testGrid(t)
	extraPT, err := NewParticleType([]Attribute{{Name: "age", Type: Float64, ToWrite: true}})
	if err != nil {
		t.Fatal(err)
	}
	a, err := g.ParticleSet(ParticleSetOptions{Lon: []float64{0}, Lat: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.ParticleSet(ParticleSetOptions{ParticleType: extraPT, Lon: []float64{1}, Lat: []float64{1}})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddSet(b); err == nil {
		t.Error("expected a schema mismatch error merging sets with different ParticleTypes")
	}
}
