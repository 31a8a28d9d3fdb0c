package parcels

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// ParticleFile is the NetCDF trajectory output described by spec §6: one
// record (unlimited-dimension) slab per WriteStep call, one variable per
// written ParticleType attribute, shaped [obs, particle]. It is built on
// github.com/ctessum/cdf, the same classic-format NetCDF library the
// teacher (spatialmodel-inmap) uses for all of its own grid I/O
// (preproc.go, vargrid.go, geoschem.go).
type ParticleFile struct {
	rw     *os.File
	file   *cdf.File
	pt     *ParticleType
	names  []string // attribute names written, in declared order
	nPart  int
	nSteps int
}

// CreateParticleFile creates (truncating if necessary) a NetCDF file at
// path holding nParticles trajectories of pt's writeable attributes.
func CreateParticleFile(path string, pt *ParticleType, nParticles int) (*ParticleFile, error) {
	rw, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("parcels: CreateParticleFile: %w", err)
	}

	h := cdf.NewHeader([]string{"particle", "obs"}, []int{nParticles, 0})
	var names []string
	for _, a := range pt.Attrs {
		if !a.ToWrite {
			continue
		}
		h.AddVariable(a.Name, []string{"obs", "particle"}, a.Type.cdfZero(1))
		names = append(names, a.Name)
	}
	h.Define()

	f, err := cdf.Create(rw, h)
	if err != nil {
		rw.Close()
		return nil, fmt.Errorf("parcels: CreateParticleFile: %w", err)
	}
	return &ParticleFile{rw: rw, file: f, pt: pt, names: names, nPart: nParticles}, nil
}

// WriteStep appends one observation slab holding every particle's current
// attribute values. Deleted (compacted-out) particles leave their column
// holding zero on steps after their removal, since the file's "particle"
// dimension is fixed at creation time (spec §6 "particles that have been
// removed simply stop being updated, rather than shrinking the file").
func (pf *ParticleFile) WriteStep(ps *ParticleSet) error {
	begin := []int{pf.nSteps, 0}
	end := []int{pf.nSteps, pf.nPart - 1}
	for _, name := range pf.names {
		col, err := pf.encodeColumn(ps, name)
		if err != nil {
			return fmt.Errorf("parcels: WriteStep: %w", err)
		}
		w := pf.file.Writer(name, begin, end)
		if w == nil {
			return fmt.Errorf("parcels: WriteStep: no such variable %q", name)
		}
		if _, err := w.Write(col); err != nil {
			return fmt.Errorf("parcels: WriteStep: writing %q: %w", name, err)
		}
	}
	pf.nSteps++
	return nil
}

// encodeColumn builds a full-width (nPart-length) column for name. Each
// particle is written at the position of its ID (Add numbers a set's
// particles 0, 1, 2, ...), so it keeps its column after earlier particles
// are removed; IDs at or beyond nPart are not written, and positions with
// no particle hold zero (a removed particle no longer has a row to read
// from).
func (pf *ParticleFile) encodeColumn(ps *ParticleSet, name string) (interface{}, error) {
	idx := pf.pt.IndexOf(name)
	if idx < 0 {
		return nil, fmt.Errorf("particle type has no attribute %q", name)
	}
	typ := pf.pt.Attrs[idx].Type
	n := ps.Len()
	switch typ {
	case Float64:
		out := make([]float64, pf.nPart)
		for i := 0; i < n; i++ {
			if c := int(ps.Particle(i).ID()); c < pf.nPart {
				out[c] = ps.Particle(i).Float64(name)
			}
		}
		return out, nil
	case Int64:
		// cdf's classic format has no 64-bit integer type; narrow to
		// int32, matching the teacher's own use of INT for all of its
		// integer grid variables (preproc.go).
		out := make([]int32, pf.nPart)
		for i := 0; i < n; i++ {
			if c := int(ps.Particle(i).ID()); c < pf.nPart {
				out[c] = int32(ps.Particle(i).Int64(name))
			}
		}
		return out, nil
	case Int32:
		out := make([]int32, pf.nPart)
		for i := 0; i < n; i++ {
			if c := int(ps.Particle(i).ID()); c < pf.nPart {
				out[c] = ps.Particle(i).Int32(name)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported element type %v", typ)
	}
}

// Close flushes and closes the underlying file.
func (pf *ParticleFile) Close() error { return pf.rw.Close() }

// cdfZero returns a zero-length typed slice cdf.Header.AddVariable uses
// to infer the variable's on-disk datatype.
func (e ElementType) cdfZero(n int) interface{} {
	switch e {
	case Float64:
		return make([]float64, n)
	case Int64, Int32:
		return make([]int32, n)
	default:
		panic(fmt.Sprintf("parcels: unknown ElementType %d", e))
	}
}
