package parcels

import "fmt"

// Particle is a lightweight view over one row of a ParticleSet's packed
// row buffer. It is valid only until the next call that
// changes the set's size (Add, AddSet, Remove) or compacts it; callers
// that need a stable handle across such a call should record the
// particle's ID (spec §3 "id is stable for the particle's lifetime,
// unlike its array index").
type Particle struct {
	set *ParticleSet
	idx int
}

func (p Particle) Index() int { return p.idx }

func (p Particle) row() []byte { return p.set.row(p.idx) }

func (p Particle) Lon() float64   { return readF64(p.row(), p.set.pt.OffsetOf(AttrLon)) }
func (p Particle) Lat() float64   { return readF64(p.row(), p.set.pt.OffsetOf(AttrLat)) }
func (p Particle) Depth() float64 { return readF64(p.row(), p.set.pt.OffsetOf(AttrDepth)) }
func (p Particle) Time() float64  { return readF64(p.row(), p.set.pt.OffsetOf(AttrTime)) }
func (p Particle) Dt() float64    { return readF64(p.row(), p.set.pt.OffsetOf(AttrDt)) }
func (p Particle) ID() int64      { return readI64(p.row(), p.set.pt.OffsetOf(AttrID)) }
func (p Particle) ErrorCode() ErrorCode {
	return ErrorCode(readI32(p.row(), p.set.pt.OffsetOf(AttrErrorCode)))
}

func (p Particle) SetLon(v float64)   { writeF64(p.row(), p.set.pt.OffsetOf(AttrLon), v) }
func (p Particle) SetLat(v float64)   { writeF64(p.row(), p.set.pt.OffsetOf(AttrLat), v) }
func (p Particle) SetDepth(v float64) { writeF64(p.row(), p.set.pt.OffsetOf(AttrDepth), v) }
func (p Particle) SetTime(v float64)  { writeF64(p.row(), p.set.pt.OffsetOf(AttrTime), v) }
func (p Particle) SetDt(v float64)    { writeF64(p.row(), p.set.pt.OffsetOf(AttrDt), v) }
func (p Particle) SetErrorCode(e ErrorCode) {
	writeI32(p.row(), p.set.pt.OffsetOf(AttrErrorCode), int32(e))
}

func (p Particle) offsetOrPanic(name string) int {
	off := p.set.pt.OffsetOf(name)
	if off < 0 {
		panic(fmt.Sprintf("parcels: particle has no attribute %q", name))
	}
	return off
}

// Float64 reads a user-declared float64 attribute by name.
func (p Particle) Float64(name string) float64 {
	return readF64(p.row(), p.offsetOrPanic(name))
}

// SetFloat64 writes a user-declared float64 attribute by name.
func (p Particle) SetFloat64(name string, v float64) {
	writeF64(p.row(), p.offsetOrPanic(name), v)
}

// Int64 reads a user-declared int64 attribute by name.
func (p Particle) Int64(name string) int64 {
	return readI64(p.row(), p.offsetOrPanic(name))
}

// SetInt64 writes a user-declared int64 attribute by name.
func (p Particle) SetInt64(name string, v int64) {
	writeI64(p.row(), p.offsetOrPanic(name), v)
}

// Int32 reads a user-declared int32 attribute by name.
func (p Particle) Int32(name string) int32 {
	return readI32(p.row(), p.offsetOrPanic(name))
}

// SetInt32 writes a user-declared int32 attribute by name.
func (p Particle) SetInt32(name string, v int32) {
	writeI32(p.row(), p.offsetOrPanic(name), v)
}

// Geographic reports whether the particle's grid uses geographic (degree)
// lon/lat coordinates, per Grid.Geographic.
func (p Particle) Geographic() bool { return p.set.grid.Geographic }

// Field samples the named field of the particle's grid at the particle's
// current (lon, lat, time). The built-in advection kernels do not use
// it; they sample through SampleAt.
func (p Particle) Field(name string) (float64, error) {
	f := p.set.grid.Field(name)
	if f == nil {
		return 0, fmt.Errorf("parcels: grid has no field %q", name)
	}
	return f.Sample(p.Lon(), p.Lat(), p.Time())
}

// SampleAt samples the named field at an arbitrary (lon, lat, time),
// rather than the particle's current position — what the classic-RK4
// and RK45 kernels need for their intermediate stages.
func (p Particle) SampleAt(name string, lon, lat, time float64) (float64, error) {
	f := p.set.grid.Field(name)
	if f == nil {
		return 0, fmt.Errorf("parcels: grid has no field %q", name)
	}
	return f.Sample(lon, lat, time)
}
