package codegen

import (
	"fmt"
	"strings"
)

// GenerateStruct emits the packed Particle typedef the native ABI shares
// with ParticleSet's packed buffer layout (particletype.go's
// ElementType.Size/CType and ParticleType.OffsetOf): one field per attr,
// in the same order a ParticleSet lays out its rows, so a C compiler's
// ordinary struct layout matches the Go side byte for byte.
func GenerateStruct(fields []Attr) string {
	var b strings.Builder
	b.WriteString("typedef struct {\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "\t%s %s;\n", f.CType, f.Name)
	}
	b.WriteString("} Particle;\n\n")
	return b.String()
}

// GenerateLoopBody emits the particle_loop C function that the native
// dispatch path compiles alongside a kernel's generated function
// (kernelName, from Generate): a flat loop over a packed array of n
// Particle structs calling kernelName once per element and writing its
// return code into each element's errorCode field (spec §4.5, §5 "native
// particle_loop may internally parallelise" — this generated loop is
// intentionally serial; a compiler that wants to parallelise it does so
// with its own pragmas, e.g. "#pragma omp parallel for", appended by the
// caller before compilation). It assumes the Particle and FieldSet types
// and the kernel function itself are already declared earlier in the
// same translation unit (GenerateStruct, Prelude, Generate).
func GenerateLoopBody(kernelName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "void particle_loop(Particle *particles, int64_t n, const FieldSet *field, double dt) {\n")
	b.WriteString("\tfor (int64_t i = 0; i < n; i++) {\n")
	b.WriteString("\t\tParticle *particle = &particles[i];\n")
	fmt.Fprintf(&b, "\t\tparticle->errorCode = %s(particle, field, particle->dt);\n", kernelName)
	b.WriteString("\t}\n}\n")
	return b.String()
}

// GenerateLoop emits the Particle struct and particle_loop function
// together, for callers (and tests) that don't need them interleaved
// with the kernel function's own definition. The full native-dispatch
// pipeline (kernel_native.go) calls GenerateStruct and GenerateLoopBody
// separately instead, since the generated kernel function itself must
// sit between the struct definition and particle_loop's call to it.
func GenerateLoop(kernelName string, structFields []Attr) string {
	return GenerateStruct(structFields) + GenerateLoopBody(kernelName)
}
