package parcels

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// ElementType is the scalar type of one ParticleType attribute. Native
// kernel dispatch (kernel_native.go) needs to know each attribute's C
// type and byte width to lay out the packed particle struct it hands to
// the compiled particle_loop function.
type ElementType int

const (
	Float64 ElementType = iota
	Int64
	Int32
)

// Size returns the attribute's width in bytes within a packed row.
func (e ElementType) Size() int {
	switch e {
	case Float64, Int64:
		return 8
	case Int32:
		return 4
	default:
		panic(fmt.Sprintf("parcels: unknown ElementType %d", e))
	}
}

// CType returns the C type name the codegen package emits for e.
func (e ElementType) CType() string {
	switch e {
	case Float64:
		return "double"
	case Int64:
		return "int64_t"
	case Int32:
		return "int32_t"
	default:
		panic(fmt.Sprintf("parcels: unknown ElementType %d", e))
	}
}

// Attribute describes one named, typed field of a ParticleType.
type Attribute struct {
	Name string
	Type ElementType
	// ToWrite controls whether ParticleFile.WriteStep emits this
	// attribute as a NetCDF variable (spec §6); built-ins default true
	// except the bookkeeping attributes dt/errorCode.
	ToWrite bool
}

// ParticleType is the closed attribute schema shared by every particle
// in a ParticleSet (spec §3). The built-in attributes (lon, lat, dep,
// time, dt, id, errorCode) are always present; NewParticleType appends
// any user-supplied extra attributes after them in declaration order.
//
// offsets and Stride describe the packed row layout a ParticleSet's
// buffer uses: each attribute's byte offset within one row, laid out
// with ordinary C struct rules (every field self-aligned to its own
// size, the row padded at the end to the widest field's alignment) so
// the buffer is byte-compatible with the Particle struct
// codegen/loopgen.go emits for the native dispatch path.
type ParticleType struct {
	Attrs   []Attribute
	index   map[string]int
	offsets []int
	// Stride is the size in bytes of one packed particle row.
	Stride int
}

// Built-in attribute names, present on every ParticleType.
const (
	AttrLon       = "lon"
	AttrLat       = "lat"
	AttrDepth     = "dep"
	AttrTime      = "time"
	AttrDt        = "dt"
	AttrID        = "id"
	AttrErrorCode = "errorCode"
)

func builtinAttrs() []Attribute {
	return []Attribute{
		{Name: AttrLon, Type: Float64, ToWrite: true},
		{Name: AttrLat, Type: Float64, ToWrite: true},
		{Name: AttrDepth, Type: Float64, ToWrite: true},
		{Name: AttrTime, Type: Float64, ToWrite: true},
		{Name: AttrDt, Type: Float64, ToWrite: false},
		{Name: AttrID, Type: Int64, ToWrite: true},
		{Name: AttrErrorCode, Type: Int32, ToWrite: false},
	}
}

// DefaultParticleType returns the built-in-only schema used when a Grid
// is asked to build a ParticleSet without a custom ParticleType.
func DefaultParticleType() *ParticleType {
	pt, err := NewParticleType(nil)
	if err != nil {
		panic(err) // builtins alone can never fail validation
	}
	return pt
}

// NewParticleType returns a ParticleType holding the built-in attributes
// followed by extra, a user-supplied list of additional attributes (e.g.
// a custom "age" or "temperature" field a user Kernel reads/writes).
func NewParticleType(extra []Attribute) (*ParticleType, error) {
	attrs := append(builtinAttrs(), extra...)
	index := make(map[string]int, len(attrs))
	for i, a := range attrs {
		if _, dup := index[a.Name]; dup {
			return nil, fmt.Errorf("parcels: duplicate particle attribute %q", a.Name)
		}
		index[a.Name] = i
	}
	offsets, stride := layoutAttrs(attrs)
	return &ParticleType{Attrs: attrs, index: index, offsets: offsets, Stride: stride}, nil
}

// layoutAttrs assigns each attribute a byte offset within a packed row,
// self-aligning every field to its own size and rounding the final
// stride up to the widest field's alignment — the layout any C compiler
// produces for a struct whose fields appear in the same order with the
// same sizes.
func layoutAttrs(attrs []Attribute) (offsets []int, stride int) {
	offsets = make([]int, len(attrs))
	pos := 0
	align := 1
	for i, a := range attrs {
		size := a.Type.Size()
		if size > align {
			align = size
		}
		if rem := pos % size; rem != 0 {
			pos += size - rem
		}
		offsets[i] = pos
		pos += size
	}
	if rem := pos % align; rem != 0 {
		pos += align - rem
	}
	return offsets, pos
}

// IndexOf returns the attribute's position in Attrs, or -1 if absent.
func (pt *ParticleType) IndexOf(name string) int {
	if i, ok := pt.index[name]; ok {
		return i
	}
	return -1
}

// OffsetOf returns the named attribute's byte offset within one packed
// row, or -1 if the attribute is absent.
func (pt *ParticleType) OffsetOf(name string) int {
	i, ok := pt.index[name]
	if !ok {
		return -1
	}
	return pt.offsets[i]
}

// CacheKey returns a stable fingerprint of the schema (name, type, and
// order of every attribute), folded into the Kernel compile-cache key
// (spec §4.5) so two ParticleTypes that differ only in an extra
// diagnostic attribute compile to distinct native libraries.
func (pt *ParticleType) CacheKey() string {
	parts := make([]string, len(pt.Attrs))
	for i, a := range pt.Attrs {
		parts[i] = fmt.Sprintf("%s:%d", a.Name, a.Type)
	}
	// Deliberately not sorted: codegen lays out the packed C struct in
	// Attrs order, so two schemas differing only in attribute order must
	// not collide on cache key.
	sum := md5.Sum([]byte(fmt.Sprintf("%v", parts)))
	return hex.EncodeToString(sum[:])
}
