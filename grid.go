package parcels

import "fmt"

// Grid aggregates the named Fields that together define a velocity field
// for advection (minimally "U" and "V"; "W" and diagnostic fields such as
// "P" are optional) and constructs ParticleSets bound to itself (spec
// §3, §4.2).
//
// Unlike the teacher's InMAPdata (framework.go), which bakes one fixed
// Cartesian/polar mesh into the struct at load time, Grid deliberately
// stores nothing about a shared mesh: each Field carries its own axes so
// C-grid-staggered U/V fields are representable without resampling.
type Grid struct {
	fields map[string]*Field
	order  []string // insertion order, for deterministic Names()

	// Geographic marks the grid's Lon/Lat axes as geographic coordinates
	// (decimal degrees) rather than a planar projection in metres. The
	// built-in advection kernels (kernels.AdvectionEE/RK4/RK45) consult
	// this to decide whether an m/s velocity sample needs converting to
	// degrees/second before it can be added to a particle's lon/lat
	// (spec §4.7's "coordinate scaling"). Defaults to false (planar);
	// NewStommelGyre's analytic double-gyre is itself planar and leaves
	// it at that default.
	Geographic bool
}

// NewGrid builds a Grid from a set of fields, keyed by their Name. At
// least "U" and "V" must be present.
func NewGrid(fields ...*Field) (*Grid, error) {
	g := &Grid{fields: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		if _, dup := g.fields[f.Name]; dup {
			return nil, fmt.Errorf("parcels: duplicate field name %q", f.Name)
		}
		g.fields[f.Name] = f
		g.order = append(g.order, f.Name)
	}
	if _, ok := g.fields["U"]; !ok {
		return nil, fmt.Errorf("parcels: grid requires a \"U\" field")
	}
	if _, ok := g.fields["V"]; !ok {
		return nil, fmt.Errorf("parcels: grid requires a \"V\" field")
	}
	return g, nil
}

// Field returns the named field, or nil if the grid has none by that
// name.
func (g *Grid) Field(name string) *Field { return g.fields[name] }

// Names returns the field names in the order they were added to the
// grid.
func (g *Grid) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// ParticleSetOptions configures Grid.ParticleSet.
type ParticleSetOptions struct {
	// ParticleType overrides the built-in attribute schema (particletype.go).
	// If nil, DefaultParticleType() is used.
	ParticleType *ParticleType
	// Lon, Lat, Depth, Time give each particle's initial position; all
	// must have equal length, which becomes the set's size. Depth and
	// Time may be nil, defaulting to zero and the grid's U field's
	// earliest time respectively.
	Lon, Lat, Depth, Time []float64
}

// ParticleSet constructs a ParticleSet of len(opts.Lon) particles bound to
// g, with initial positions and release times from opts (spec §4.2).
func (g *Grid) ParticleSet(opts ParticleSetOptions) (*ParticleSet, error) {
	n := len(opts.Lon)
	if len(opts.Lat) != n {
		return nil, fmt.Errorf("parcels: ParticleSet: len(Lat)=%d != len(Lon)=%d", len(opts.Lat), n)
	}
	if opts.Depth != nil && len(opts.Depth) != n {
		return nil, fmt.Errorf("parcels: ParticleSet: len(Depth)=%d != len(Lon)=%d", len(opts.Depth), n)
	}
	if opts.Time != nil && len(opts.Time) != n {
		return nil, fmt.Errorf("parcels: ParticleSet: len(Time)=%d != len(Lon)=%d", len(opts.Time), n)
	}

	pt := opts.ParticleType
	if pt == nil {
		pt = DefaultParticleType()
	}

	defaultTime := g.fields["U"].Time.Min()
	ps := newParticleSet(g, pt)
	for i := 0; i < n; i++ {
		depth := 0.0
		if opts.Depth != nil {
			depth = opts.Depth[i]
		}
		t := defaultTime
		if opts.Time != nil {
			t = opts.Time[i]
		}
		if _, err := ps.Add(opts.Lon[i], opts.Lat[i], depth, t); err != nil {
			return nil, fmt.Errorf("parcels: ParticleSet: particle %d: %w", i, err)
		}
	}
	return ps, nil
}
