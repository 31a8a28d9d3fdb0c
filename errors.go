package parcels

import "errors"

// Sentinel errors identifying the error kinds of spec §7. Wrap these with
// fmt.Errorf("%w: ...", ErrX, ...) to add detail while preserving
// errors.Is matching.
var (
	// ErrOutOfBounds is returned by Field.Sample when the query point lies
	// strictly outside the convex hull of the field's axes.
	ErrOutOfBounds = errors.New("parcels: point outside field domain")

	// ErrNaN is returned by Field.Sample when the point is inside the
	// domain but interpolates to NaN, e.g. over a land-masked grid node.
	// The original Python implementation raises a distinct
	// FieldSamplingError for this case rather than folding it into the
	// out-of-bounds path; we preserve that distinction (see SPEC_FULL.md
	// §12).
	ErrNaN = errors.New("parcels: field sampled NaN")

	// ErrCodeGen is returned when a kernel AST references a construct or
	// symbol outside the fixed vocabulary the codegen package accepts.
	ErrCodeGen = errors.New("parcels: kernel AST contains an unsupported construct")

	// ErrCompile is returned when the external compiler collaborator
	// exits with an error; no cache entry is created.
	ErrCompile = errors.New("parcels: native compilation failed")

	// ErrLibraryLoad is returned when a compiled shared library cannot be
	// opened or does not expose the expected particle_loop symbol.
	ErrLibraryLoad = errors.New("parcels: compiled library failed to load")

	// ErrSchemaMismatch is returned when a ParticleSet's ParticleType does
	// not match what a Kernel or another ParticleSet expects.
	ErrSchemaMismatch = errors.New("parcels: particle set schema mismatch")

	// ErrFixedPoint is returned when a particle's recovery kernel routes
	// back to an error code it has already tried to recover from during
	// the same step, which the original project treats as a programmer
	// error in the recovery map rather than something to retry forever.
	ErrFixedPoint = errors.New("parcels: recovery map reached a fixed point")
)
