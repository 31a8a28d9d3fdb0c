package parcels

import (
	"fmt"
	"unsafe"
)

// ParticleSet holds n particles of a single ParticleType in a single
// packed, contiguous byte buffer: one row per particle, row stride equal
// to the ParticleType's Stride, with each attribute at its fixed
// ParticleType.OffsetOf byte offset. This is the layout spec §3/§4.4
// require so the set's base pointer and element count can be handed to
// the native particle_loop entry point with no copy or marshaling
// (kernel_library.go, kernel_native.go).
type ParticleSet struct {
	grid   *Grid
	pt     *ParticleType
	buf    []byte
	n      int
	nextID int64
}

func newParticleSet(grid *Grid, pt *ParticleType) *ParticleSet {
	return &ParticleSet{grid: grid, pt: pt}
}

// Grid returns the grid this set's particles are bound to.
func (ps *ParticleSet) Grid() *Grid { return ps.grid }

// ParticleType returns the set's attribute schema.
func (ps *ParticleSet) ParticleType() *ParticleType { return ps.pt }

// Len returns the number of particles currently in the set.
func (ps *ParticleSet) Len() int { return ps.n }

// Particle returns a view over the i'th particle, 0 <= i < Len().
func (ps *ParticleSet) Particle(i int) Particle { return Particle{set: ps, idx: i} }

// Particles returns views over every particle in index order.
func (ps *ParticleSet) Particles() []Particle {
	out := make([]Particle, ps.n)
	for i := range out {
		out[i] = Particle{set: ps, idx: i}
	}
	return out
}

// row returns the byte slice backing the i'th particle's packed row.
func (ps *ParticleSet) row(i int) []byte {
	off := i * ps.pt.Stride
	return ps.buf[off : off+ps.pt.Stride]
}

// basePointer returns the address of the first particle's row and the
// particle count, for handing the buffer to native code. It returns nil
// if the set is empty. Callers holding the returned pointer across a
// call into native code must runtime.KeepAlive(ps) until that call
// returns, since the uintptr the native ABI expects carries no
// reference the garbage collector can trace.
func (ps *ParticleSet) basePointer() (unsafe.Pointer, int64) {
	if ps.n == 0 {
		return nil, 0
	}
	return unsafe.Pointer(&ps.buf[0]), int64(ps.n)
}

func readF64(row []byte, off int) float64  { return *(*float64)(unsafe.Pointer(&row[off])) }
func writeF64(row []byte, off int, v float64) { *(*float64)(unsafe.Pointer(&row[off])) = v }
func readI64(row []byte, off int) int64    { return *(*int64)(unsafe.Pointer(&row[off])) }
func writeI64(row []byte, off int, v int64)   { *(*int64)(unsafe.Pointer(&row[off])) = v }
func readI32(row []byte, off int) int32    { return *(*int32)(unsafe.Pointer(&row[off])) }
func writeI32(row []byte, off int, v int32)   { *(*int32)(unsafe.Pointer(&row[off])) = v }

// Add appends one particle at (lon, lat, depth, time) with all
// user-declared extra attributes zero-valued, assigns it the set's next
// sequential ID, and returns a view of it at its initial index.
func (ps *ParticleSet) Add(lon, lat, depth, time float64) (Particle, error) {
	ps.buf = append(ps.buf, make([]byte, ps.pt.Stride)...)
	ps.n++
	idx := ps.n - 1
	row := ps.row(idx)

	writeF64(row, ps.pt.OffsetOf(AttrLon), lon)
	writeF64(row, ps.pt.OffsetOf(AttrLat), lat)
	writeF64(row, ps.pt.OffsetOf(AttrDepth), depth)
	writeF64(row, ps.pt.OffsetOf(AttrTime), time)
	writeF64(row, ps.pt.OffsetOf(AttrDt), 0)
	writeI64(row, ps.pt.OffsetOf(AttrID), ps.nextID)
	writeI32(row, ps.pt.OffsetOf(AttrErrorCode), int32(Success))

	ps.nextID++
	return Particle{set: ps, idx: idx}, nil
}

// AddSet appends every particle of other onto ps, in place, rewriting
// their IDs to continue ps's own sequence (spec §4.2 "merge two sets").
// other and ps must share an identical ParticleType schema.
func (ps *ParticleSet) AddSet(other *ParticleSet) error {
	if len(ps.pt.Attrs) != len(other.pt.Attrs) {
		return fmt.Errorf("%w: different attribute counts", ErrSchemaMismatch)
	}
	for i, a := range ps.pt.Attrs {
		b := other.pt.Attrs[i]
		if a.Name != b.Name || a.Type != b.Type {
			return fmt.Errorf("%w: attribute %d is %q/%v on the receiver, %q/%v on other", ErrSchemaMismatch, i, a.Name, a.Type, b.Name, b.Type)
		}
	}
	n := other.Len()
	for i := 0; i < n; i++ {
		src := other.Particle(i)
		dst, err := ps.Add(src.Lon(), src.Lat(), src.Depth(), src.Time())
		if err != nil {
			return err
		}
		dst.SetDt(src.Dt())
		dst.SetErrorCode(src.ErrorCode())
		for _, a := range ps.pt.Attrs {
			switch a.Name {
			case AttrLon, AttrLat, AttrDepth, AttrTime, AttrDt, AttrID, AttrErrorCode:
				continue
			}
			switch a.Type {
			case Float64:
				dst.SetFloat64(a.Name, src.Float64(a.Name))
			case Int64:
				dst.SetInt64(a.Name, src.Int64(a.Name))
			case Int32:
				dst.SetInt32(a.Name, src.Int32(a.Name))
			}
		}
	}
	return nil
}

// Remove deletes the particles at the given indices (spec §4.2). indices
// need not be sorted or unique; duplicates are removed once. Removal
// reassigns the indices of surviving particles — see SPEC_FULL.md §12 on
// why removal is by index rather than by retained object identity.
func (ps *ParticleSet) Remove(indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	keep := make([]int, 0, ps.n)
	for i := 0; i < ps.n; i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}
	ps.compact(keep)
}

func (ps *ParticleSet) compact(keep []int) {
	stride := ps.pt.Stride
	nb := make([]byte, len(keep)*stride)
	for j, i := range keep {
		copy(nb[j*stride:(j+1)*stride], ps.buf[i*stride:(i+1)*stride])
	}
	ps.buf = nb
	ps.n = len(keep)
}

// removeMarkedDeleted compacts out every particle whose ErrorCode is
// Delete, returning the number removed. Used by Execute at the end of
// each sweep (spec §4.6).
func (ps *ParticleSet) removeMarkedDeleted() int {
	off := ps.pt.OffsetOf(AttrErrorCode)
	keep := make([]int, 0, ps.n)
	removed := 0
	for i := 0; i < ps.n; i++ {
		if ErrorCode(readI32(ps.row(i), off)) == Delete {
			removed++
			continue
		}
		keep = append(keep, i)
	}
	if removed > 0 {
		ps.compact(keep)
	}
	return removed
}
