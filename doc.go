// Package parcels is a Lagrangian particle-tracking engine for
// time-varying velocity fields sampled on structured (Arakawa A/C) grids.
//
// A Grid aggregates named Fields (at minimum "U" and "V") sharing
// coordinate axes. Grid.ParticleSet constructs a packed-row
// ParticleSet of particles bound to that grid. Executor.Execute
// advances the set forward or backward in time under a user-supplied
// Kernel — an update rule such as AdvectionEE, AdvectionRK4, or
// AdvectionRK45 from the kernels subpackage, or a Kernel built from a
// plain Go function and, optionally, an ast.FuncDef for native-library
// dispatch.
package parcels
