package parcels

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// UnitTag labels the physical unit class of a Field's values. The Go type
// of a UnitTag (not its value, since the built-in tags are empty structs)
// is the "unit tag class" folded into the Kernel cache key (kernel_cache.go),
// so grids whose fields differ only in unit tag get separate compiled
// libraries (spec §4.5). The compiled code itself does not read the tag:
// the built-in kernels choose their coordinate scaling from
// Grid.Geographic at run time.
type UnitTag interface {
	fmt.Stringer
	// Dimensions returns the SI dimensionality of the tag, expressed with
	// github.com/ctessum/unit — the same dimensional-analysis package the
	// teacher (spatialmodel-inmap) uses throughout framework.go's Cell
	// struct tags.
	Dimensions() unit.Dimensions
	unitTag()
}

// MetresTag labels a field whose horizontal coordinates are in metres.
type MetresTag struct{}

func (MetresTag) unitTag()                        {}
func (MetresTag) String() string                  { return "metres" }
func (MetresTag) Dimensions() unit.Dimensions      { return unit.Dimensions{unit.LengthDim: 1} }

// DegreesTag labels a field whose horizontal coordinates are in decimal
// degrees of longitude/latitude.
type DegreesTag struct{}

func (DegreesTag) unitTag()                   {}
func (DegreesTag) String() string             { return "degrees" }
func (DegreesTag) Dimensions() unit.Dimensions { return unit.Dimensions{unit.AngleDim: 1} }

// UnitlessTag labels a field with no physical dimension (e.g. a land-sea
// mask or a user diagnostic field).
type UnitlessTag struct{}

func (UnitlessTag) unitTag()                   {}
func (UnitlessTag) String() string             { return "unitless" }
func (UnitlessTag) Dimensions() unit.Dimensions { return unit.Dimensions{} }

// unitTagClass returns the stable type name used as an input to the
// Kernel cache key.
func unitTagClass(u UnitTag) string { return fmt.Sprintf("%T", u) }

// Field owns a dense rank-3 array (lon x lat x time) of single-precision
// scalar samples plus its own coordinate axes and a unit tag. Each Field
// owns its own axes rather than sharing a single Grid-wide axis triple,
// so a Grid may mix A-grid fields (identical lon/lat for every field)
// with staggered C-grid fields (spec §3, §4.2).
type Field struct {
	Name           string
	Lon, Lat, Time *Axis
	Unit           UnitTag
	data           []float32 // row-major: ((iLon*nLat)+iLat)*nTime + iTime
}

// NewField validates that data's length matches the axis shape
// (|lon|,|lat|,|time|) and returns a Field. data is not copied; callers
// must not mutate it afterward (Fields are read-only during execute,
// spec §5).
func NewField(name string, lon, lat, t *Axis, u UnitTag, data []float32) (*Field, error) {
	want := lon.Len() * lat.Len() * t.Len()
	if len(data) != want {
		return nil, fmt.Errorf("parcels: field %q: data has %d elements, want %d (%d lon x %d lat x %d time)",
			name, len(data), want, lon.Len(), lat.Len(), t.Len())
	}
	return &Field{Name: name, Lon: lon, Lat: lat, Time: t, Unit: u, data: data}, nil
}

func (f *Field) at(iLon, iLat, iTime int) float32 {
	return f.data[(iLon*f.Lat.Len()+iLat)*f.Time.Len()+iTime]
}

// Sample returns the trilinearly interpolated value of f at (lon,lat,t):
// bilinear in (lon,lat) at each of the two bracketing time planes, then
// linear in time. It is pure and safe to call concurrently from many
// goroutines, since it only reads f's immutable axes and backing array.
func (f *Field) Sample(lon, lat, t float64) (float64, error) {
	loLon, hiLon, wLon, err := f.Lon.Bracket(lon)
	if err != nil {
		return 0, fmt.Errorf("parcels: field %q: lon %w", f.Name, err)
	}
	loLat, hiLat, wLat, err := f.Lat.Bracket(lat)
	if err != nil {
		return 0, fmt.Errorf("parcels: field %q: lat %w", f.Name, err)
	}
	loT, hiT, wT, err := f.Time.Bracket(t)
	if err != nil {
		return 0, fmt.Errorf("parcels: field %q: time %w", f.Name, err)
	}

	bilerp := func(iTime int) float64 {
		v00 := float64(f.at(loLon, loLat, iTime))
		v10 := float64(f.at(hiLon, loLat, iTime))
		v01 := float64(f.at(loLon, hiLat, iTime))
		v11 := float64(f.at(hiLon, hiLat, iTime))
		vLo := v00*(1-wLon) + v10*wLon
		vHi := v01*(1-wLon) + v11*wLon
		return vLo*(1-wLat) + vHi*wLat
	}
	val := bilerp(loT)*(1-wT) + bilerp(hiT)*wT

	if math.IsNaN(val) {
		return 0, fmt.Errorf("parcels: field %q: %w at (%v,%v,%v)", f.Name, ErrNaN, lon, lat, t)
	}
	return val, nil
}
