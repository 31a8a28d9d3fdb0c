package parcels

import (
	"errors"
	"testing"
)

func newTestField(t *testing.T, data []float32) *Field {
	t.Helper()
	lon, err := NewAxis([]float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	lat, err := NewAxis([]float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	tm, err := NewAxis([]float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewField("U", lon, lat, tm, MetresTag{}, data)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFieldSampleCorners(t *testing.T) {
	// layout: ((iLon*2)+iLat)*2+iTime
	data := make([]float32, 8)
	data[(0*2+0)*2+0] = 1 // lon=0,lat=0,t=0
	data[(1*2+0)*2+0] = 3 // lon=1,lat=0,t=0
	data[(0*2+1)*2+0] = 5 // lon=0,lat=1,t=0
	data[(1*2+1)*2+0] = 7 // lon=1,lat=1,t=0
	f := newTestField(t, data)

	got, err := f.Sample(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Sample(0,0,0) = %v, want 1", got)
	}

	got, err = f.Sample(0.5, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := (1.0 + 3 + 5 + 7) / 4
	if absDiff(got, want) > 1e-9 {
		t.Errorf("Sample(0.5,0.5,0) = %v, want %v", got, want)
	}
}

func TestFieldSampleZeroFlow(t *testing.T) {
	f := newTestField(t, make([]float32, 8)) // all zero: a static field
	for _, lon := range []float64{0, 0.25, 1} {
		for _, lat := range []float64{0, 0.6, 1} {
			got, err := f.Sample(lon, lat, 0.5)
			if err != nil {
				t.Fatal(err)
			}
			if got != 0 {
				t.Errorf("Sample(%v,%v,0.5) = %v, want 0", lon, lat, got)
			}
		}
	}
}

func TestFieldSampleOutOfBounds(t *testing.T) {
	f := newTestField(t, make([]float32, 8))
	if _, err := f.Sample(2, 0, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Sample(2,0,0): got %v, want ErrOutOfBounds", err)
	}
}

func TestFieldSampleNaN(t *testing.T) {
	data := make([]float32, 8)
	nan := float32(0)
	nan = nan / nan // NaN without importing math
	data[(0*2+0)*2+0] = nan
	f := newTestField(t, data)
	if _, err := f.Sample(0, 0, 0); !errors.Is(err, ErrNaN) {
		t.Errorf("Sample over a NaN node: got %v, want ErrNaN", err)
	}
}
