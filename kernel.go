package parcels

import (
	"fmt"

	"github.com/ctessum-labs/parcels/ast"
)

// KernelFunc is the interpreted-path executable form of a Kernel: given a
// particle view and the step size dt, it mutates the particle's
// attributes (typically lon/lat/depth/time) and returns the ErrorCode the
// step finished in.
//
// Built-in kernels (kernels.AdvectionEE, AdvectionRK4, AdvectionRK45) use
// Go closures directly for this, rather than interpreting their own AST
// at call time — the AST on a Kernel exists to drive the native codegen
// path (spec §4.5), not as a second, redundant evaluator for the same
// logic.
type KernelFunc func(p Particle, dt float64) ErrorCode

// Kernel is an update rule a ParticleSet can be Executed under. A Kernel
// built with New has only an interpreted-path Func; NewJIT additionally
// attaches an ast.FuncDef so Executor can compile and dispatch it
// natively (spec §4.5, C5/C6 in the component table).
type Kernel struct {
	Name string
	Func KernelFunc
	AST  *ast.FuncDef // nil unless built with NewJIT
}

// New returns a Kernel with only an interpreted-path implementation.
func New(name string, fn KernelFunc) *Kernel {
	return &Kernel{Name: name, Func: fn}
}

// NewJIT returns a Kernel with both an interpreted-path implementation
// and an AST the native path can compile via codegen.Generate.
func NewJIT(name string, fn KernelFunc, tree *ast.FuncDef) *Kernel {
	return &Kernel{Name: name, Func: fn, AST: tree}
}

// Concat returns a new Kernel that runs k then other, in sequence, each
// step (spec §6's "k1 + k2" composition — Go has no operator overloading
// for user types, so Concat is the idiomatic equivalent). The combined
// kernel stops early and returns k's code, without running other, if k's
// step does not finish Success.
//
// If both k and other carry an AST, the combined Kernel's AST is their
// statement lists concatenated under a fresh FuncDef so the native path
// can still compile the pair as one function; otherwise the combined
// Kernel has no AST and can only run interpreted.
func (k *Kernel) Concat(other *Kernel) *Kernel {
	name := fmt.Sprintf("%s+%s", k.Name, other.Name)
	fn := func(p Particle, dt float64) ErrorCode {
		code := k.Func(p, dt)
		if code != Success {
			return code
		}
		return other.Func(p, dt)
	}
	var tree *ast.FuncDef
	if k.AST != nil && other.AST != nil {
		body := make([]ast.Stmt, 0, len(k.AST.Body)+len(other.AST.Body))
		body = append(body, k.AST.Body...)
		body = append(body, other.AST.Body...)
		tree = ast.NewFunc(name, body...)
	}
	return &Kernel{Name: name, Func: fn, AST: tree}
}
