package parcels

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ctessum-labs/parcels/codegen"
)

// compileNative turns k's AST into a loadable native library specialised
// for ps's ParticleType and grid, composing the full native-dispatch
// pipeline: codegen.Generate for the kernel body, the C prelude and
// Particle struct and particle_loop wrapper around it, Cache.Ensure to
// compile-or-reuse the shared library, and loadNativeLibrary to dlopen it
// (spec §4.5, components C5/C6).
func compileNative(cache *Cache, k *Kernel, ps *ParticleSet) (*nativeLibrary, error) {
	if k.AST == nil {
		return nil, fmt.Errorf("parcels: kernel %q has no AST to compile natively", k.Name)
	}
	attrs := make([]codegen.Attr, len(ps.pt.Attrs))
	for i, a := range ps.pt.Attrs {
		attrs[i] = codegen.Attr{Name: a.Name, CType: a.Type.CType()}
	}
	// The C function takes the kernel's name with every character that is
	// not valid in a C identifier (such as Concat's "+") replaced by "_".
	tree := *k.AST
	tree.Name = strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, k.Name)
	result, err := codegen.Generate(&tree, attrs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeGen, err)
	}

	source := codegen.Prelude() +
		codegen.GenerateStruct(attrs) +
		result.Source +
		codegen.GenerateLoopBody(tree.Name)

	key := CacheKey(k.Name, ps.pt, ps.grid)
	libPath, err := cache.Ensure(key, source)
	if err != nil {
		return nil, err
	}
	return loadNativeLibrary(libPath)
}

// ExecuteNative advances every particle in ps under k's compiled native
// form, to the same endpoint and with the same per-particle recovery
// semantics as Execute (spec §2's two-path executor, §8's cross-path
// agreement requirement), with one exception: a recovery kernel that
// returns Repeat makes ExecuteNative return an error, since the native
// path does not re-run the kernel for a single particle. k must have been
// built with NewJIT. cache supplies (and persists) the compiled shared
// library.
func (e *Executor) ExecuteNative(ctx context.Context, ps *ParticleSet, k *Kernel, cache *Cache, opts ExecuteOptions) error {
	if opts.Dt == 0 {
		return fmt.Errorf("parcels: ExecuteNative: dt must be nonzero")
	}
	lib, err := compileNative(cache, k, ps)
	if err != nil {
		return err
	}
	defer lib.Close()

	n := ps.Len()
	for i := 0; i < n; i++ {
		ps.Particle(i).SetDt(opts.Dt)
	}

	nfs := buildNativeFieldSet(ps.grid)

	for ps.Len() > 0 {
		if len(activeIndices(ps, opts.EndTime)) == 0 {
			break
		}
		if err := e.sweepNative(ps, lib, nfs, opts.EndTime); err != nil {
			return err
		}
		ps.removeMarkedDeleted()
	}
	return nil
}

// sweepNative runs one native dispatch over every particle currently in
// ps. Each particle's dt is clamped to its own remaining time before the
// call (a particle already at endTime gets a zero step, a harmless no-op
// through the compiled kernel) and restored to its nominal value
// afterward, exactly as stepOne does for the interpreted path — the
// clamp never persists into the particle's row.
func (e *Executor) sweepNative(ps *ParticleSet, lib *nativeLibrary, nfs *nativeFieldSet, endTime float64) error {
	n := ps.Len()
	if n == 0 {
		return nil
	}
	nominal := make([]float64, n)
	for i := 0; i < n; i++ {
		p := ps.Particle(i)
		nominal[i] = p.Dt()
		remaining := endTime - p.Time()
		step := math.Copysign(math.Min(math.Abs(nominal[i]), math.Abs(remaining)), nominal[i])
		p.SetDt(step)
	}

	base, count := ps.basePointer()
	lib.run(base, ps, count, nfs.pointer(), nfs, 0)

	for i := 0; i < n; i++ {
		p := ps.Particle(i)
		p.SetDt(nominal[i])
		code := p.ErrorCode()
		if code == Success {
			continue
		}
		resolved, err := e.recover(p, code)
		if err != nil {
			return err
		}
		if !resolved {
			return fmt.Errorf("parcels: particle id=%d: native kernel requested Repeat, which the native dispatch path does not retry in place", p.ID())
		}
	}
	return nil
}
