// Package ast is a small, explicitly user-constructed tree representation
// of a kernel update rule. Unlike the original Python project — which
// parses a user function's live source with the standard ast module at
// runtime — a kernel tree here is built by calling the combinator
// functions in this package, and is consumed only by the codegen package
// to emit C source for the native dispatch path (spec §4.5, §9 "consider
// a typed IR instead of reflecting over source").
package ast

// Expr is any node that produces a value.
type Expr interface{ exprNode() }

// Stmt is any node that performs an action.
type Stmt interface{ stmtNode() }

// FuncDef is the root of a kernel's AST: a named update rule taking the
// bound identifiers "particle", "field" (the grid), and "dt". The
// generated C function writes results back through the particle pointer
// and returns an ErrorCode value: 0 (Success) unless a Return statement
// exits earlier with another code.
type FuncDef struct {
	Name   string
	Params []string
	Body   []Stmt
}

// Const is a literal float64 value.
type Const struct{ Value float64 }

func (Const) exprNode() {}

// Var references a bound identifier: a parameter, a local assigned by
// Assign, or the well-known "dt".
type Var struct{ Name string }

func (Var) exprNode() {}

// Attr reads a named attribute off a particle-like Expr, e.g.
// Attr{Recv: Var{"particle"}, Name: "lon"}.
type Attr struct {
	Recv Expr
	Name string
}

func (Attr) exprNode() {}

// FieldSample samples a named field of the grid at (lon, lat, time).
type FieldSample struct {
	Field            string
	Lon, Lat, Time Expr
}

func (FieldSample) exprNode() {}

// FieldGeographic reads the runtime flag on the grid's native field set
// marking its coordinates as geographic (decimal degrees) rather than
// planar — the AST equivalent of Particle.Geographic(), letting one
// compiled kernel serve both kinds of grid instead of baking the flag
// into the cache key (kernel_cache.go, spec §4.7).
type FieldGeographic struct{}

func (FieldGeographic) exprNode() {}

// BinOp is a binary arithmetic or comparison expression; Op is one of
// "+", "-", "*", "/", "<", "<=", ">", ">=", "==".
type BinOp struct {
	Op       string
	Lhs, Rhs Expr
}

func (BinOp) exprNode() {}

// UnaryOp negates or logically-inverts an expression; Op is "-" or "!".
type UnaryOp struct {
	Op string
	X  Expr
}

func (UnaryOp) exprNode() {}

// Call invokes a function from the fixed symbol vocabulary the codegen
// package recognises (math.* helpers such as "sqrt", "sin", "cos").
type Call struct {
	Func string
	Args []Expr
}

func (Call) exprNode() {}

// Assign binds Value to a local variable named Name, introducing it if
// new.
type Assign struct {
	Name  string
	Value Expr
}

func (Assign) stmtNode() {}

// SetAttr writes Value into a named attribute of a particle-like Expr,
// e.g. the kernel's final "particle.lon = particle.lon + ...".
type SetAttr struct {
	Recv  Expr
	Name  string
	Value Expr
}

func (SetAttr) stmtNode() {}

// If is a conditional with an optional else branch.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (If) stmtNode() {}

// Return exits the kernel early with the given ErrorCode-valued
// expression (a Const holding one of the parcels.ErrorCode values, or a
// Var naming a local that an earlier Assign bound to one).
type Return struct {
	Code Expr
}

func (Return) stmtNode() {}

// ExprStmt evaluates an expression purely for its side effect (e.g. a
// Call to a logging helper); rare, but kept for completeness with the
// component table's Stmt kinds.
type ExprStmt struct{ X Expr }

func (ExprStmt) stmtNode() {}

// Convenience combinators, mirroring how kernels/ee.go and kernels/rk4.go
// build their trees (kernels/rk45.go builds none).

func Particle() Expr            { return Var{Name: "particle"} }
func Lit(v float64) Expr        { return Const{Value: v} }
func AttrOf(recv Expr, n string) Expr { return Attr{Recv: recv, Name: n} }
func Sample(field string, lon, lat, t Expr) Expr {
	return FieldSample{Field: field, Lon: lon, Lat: lat, Time: t}
}
func Geographic() Expr { return FieldGeographic{} }
func Add(a, b Expr) Expr { return BinOp{Op: "+", Lhs: a, Rhs: b} }
func Sub(a, b Expr) Expr { return BinOp{Op: "-", Lhs: a, Rhs: b} }
func Mul(a, b Expr) Expr { return BinOp{Op: "*", Lhs: a, Rhs: b} }
func Div(a, b Expr) Expr { return BinOp{Op: "/", Lhs: a, Rhs: b} }
func Neg(a Expr) Expr     { return UnaryOp{Op: "-", X: a} }
func CallFn(name string, args ...Expr) Expr { return Call{Func: name, Args: args} }

func Set(recv Expr, name string, v Expr) Stmt { return SetAttr{Recv: recv, Name: name, Value: v} }
func Let(name string, v Expr) Stmt            { return Assign{Name: name, Value: v} }

// NewFunc builds a FuncDef with the standard (particle, field, dt)
// parameter list used by every built-in kernel.
func NewFunc(name string, body ...Stmt) *FuncDef {
	return &FuncDef{Name: name, Params: []string{"particle", "field", "dt"}, Body: body}
}
