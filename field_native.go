package parcels

import "unsafe"

// nativeFieldHandle mirrors codegen's generated FieldHandle C struct
// field for field, matching its layout exactly (every field here is
// 8 bytes wide and already naturally aligned, so Go and C agree on the
// offsets without any explicit padding).
type nativeFieldHandle struct {
	name  *byte
	lon   *float64
	nLon  int64
	lat   *float64
	nLat  int64
	time  *float64
	nTime int64
	data  *float32
}

// nativeFieldSetHeader mirrors codegen's generated FieldSet C struct.
// pad accounts for the 4 bytes of trailing padding a C compiler adds to
// round the struct up to its 8-byte alignment, so Go's sizeof of this
// header matches C's exactly.
type nativeFieldSetHeader struct {
	fields     *nativeFieldHandle
	nFields    int64
	geographic int32
	pad        int32
}

// nativeFieldSet is the Go-owned marshaled form of a Grid's fields, laid
// out to match codegen's FieldHandle/FieldSet structs so its header can
// be handed to a compiled particle_loop as a raw pointer (spec §4.5,
// §5). It holds every slice its header's pointers reference so they stay
// alive for as long as the nativeFieldSet itself does; callers must still
// runtime.KeepAlive(it) across the native call, since the C ABI receives
// the header's address only as a bare uintptr.
type nativeFieldSet struct {
	header  nativeFieldSetHeader
	handles []nativeFieldHandle
	names   [][]byte
}

// buildNativeFieldSet marshals every field of g into a nativeFieldSet.
// Each field's axis and data slices are referenced directly (not
// copied), since Field and Axis are immutable once built.
func buildNativeFieldSet(g *Grid) *nativeFieldSet {
	names := g.Names()
	nfs := &nativeFieldSet{
		handles: make([]nativeFieldHandle, len(names)),
		names:   make([][]byte, len(names)),
	}
	for i, name := range names {
		f := g.Field(name)
		nfs.names[i] = append([]byte(name), 0)
		h := &nfs.handles[i]
		h.name = &nfs.names[i][0]
		h.lon = &f.Lon.values[0]
		h.nLon = int64(len(f.Lon.values))
		h.lat = &f.Lat.values[0]
		h.nLat = int64(len(f.Lat.values))
		h.time = &f.Time.values[0]
		h.nTime = int64(len(f.Time.values))
		h.data = &f.data[0]
	}
	var geo int32
	if g.Geographic {
		geo = 1
	}
	if len(nfs.handles) > 0 {
		nfs.header.fields = &nfs.handles[0]
	}
	nfs.header.nFields = int64(len(nfs.handles))
	nfs.header.geographic = geo
	return nfs
}

func (nfs *nativeFieldSet) pointer() unsafe.Pointer {
	return unsafe.Pointer(&nfs.header)
}
