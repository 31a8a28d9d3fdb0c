// Package codegen walks a kernel's ast.FuncDef and emits the C source for
// its native-dispatch counterpart (spec §4.5, component C5 "Kernel ...
// generates C source for the JIT path"). It has no dependency on the
// parcels package itself — the caller (kernel_native.go) describes the
// particle struct's fields as a plain Attr list — so that the compile
// pipeline can be exercised and unit-tested without import cycles.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ctessum-labs/parcels/ast"
)

// Attr describes one field of the packed C particle struct the generated
// function receives a pointer to.
type Attr struct {
	Name  string
	CType string
}

// Result is the output of Generate.
type Result struct {
	Source string
	// Fields lists, sorted by name, every grid field name the kernel
	// samples. The generated particle_loop (loopgen.go) does not take it:
	// it passes the whole FieldSet, and field_sample looks fields up by
	// name at run time.
	Fields []string
}

type generator struct {
	attrIndex map[string]Attr
	fieldSeen map[string]bool
	fields    []string
	locals    map[string]bool
	buf       strings.Builder
	err       error
}

// Generate emits a C function implementing fn, whose particles have the
// given attrs. It returns ErrUnsupported (wrapped) if fn references a
// construct or symbol codegen does not recognise.
func Generate(fn *ast.FuncDef, attrs []Attr) (*Result, error) {
	g := &generator{
		attrIndex: make(map[string]Attr, len(attrs)),
		fieldSeen: make(map[string]bool),
		locals:    make(map[string]bool),
	}
	for _, a := range attrs {
		g.attrIndex[a.Name] = a
	}

	fmt.Fprintf(&g.buf, "int32_t %s(Particle *particle, const FieldSet *field, double dt) {\n", fn.Name)
	for _, stmt := range fn.Body {
		g.stmt(stmt, 1)
	}
	g.buf.WriteString("\treturn 0; /* Success */\n}\n")

	if g.err != nil {
		return nil, g.err
	}
	sort.Strings(g.fields)
	return &Result{Source: g.buf.String(), Fields: g.fields}, nil
}

func (g *generator) indent(n int) string { return strings.Repeat("\t", n) }

func (g *generator) stmt(s ast.Stmt, depth int) {
	if g.err != nil {
		return
	}
	ind := g.indent(depth)
	switch st := s.(type) {
	case ast.Assign:
		if g.locals[st.Name] {
			fmt.Fprintf(&g.buf, "%s%s = %s;\n", ind, st.Name, g.expr(st.Value))
			return
		}
		g.locals[st.Name] = true
		fmt.Fprintf(&g.buf, "%sdouble %s = %s;\n", ind, st.Name, g.expr(st.Value))
	case ast.SetAttr:
		if _, ok := g.attrIndex[st.Name]; !ok {
			g.err = fmt.Errorf("%w: unknown particle attribute %q", ErrUnsupported, st.Name)
			return
		}
		fmt.Fprintf(&g.buf, "%s%s->%s = %s;\n", ind, g.expr(st.Recv), st.Name, g.expr(st.Value))
	case ast.If:
		fmt.Fprintf(&g.buf, "%sif (%s) {\n", ind, g.expr(st.Cond))
		for _, sub := range st.Then {
			g.stmt(sub, depth+1)
		}
		if len(st.Else) > 0 {
			fmt.Fprintf(&g.buf, "%s} else {\n", ind)
			for _, sub := range st.Else {
				g.stmt(sub, depth+1)
			}
		}
		fmt.Fprintf(&g.buf, "%s}\n", ind)
	case ast.Return:
		fmt.Fprintf(&g.buf, "%sreturn %s;\n", ind, g.expr(st.Code))
	case ast.ExprStmt:
		fmt.Fprintf(&g.buf, "%s%s;\n", ind, g.expr(st.X))
	default:
		g.err = fmt.Errorf("%w: unsupported statement %T", ErrUnsupported, s)
	}
}

func (g *generator) expr(e ast.Expr) string {
	if g.err != nil {
		return ""
	}
	switch ex := e.(type) {
	case ast.Const:
		return fmt.Sprintf("%g", ex.Value)
	case ast.Var:
		if ex.Name == "particle" {
			return "particle"
		}
		if ex.Name == "dt" {
			return "dt"
		}
		if g.locals[ex.Name] {
			return ex.Name
		}
		g.err = fmt.Errorf("%w: undeclared identifier %q", ErrUnsupported, ex.Name)
		return ""
	case ast.Attr:
		if _, ok := g.attrIndex[ex.Name]; !ok {
			g.err = fmt.Errorf("%w: unknown particle attribute %q", ErrUnsupported, ex.Name)
			return ""
		}
		return fmt.Sprintf("%s->%s", g.expr(ex.Recv), ex.Name)
	case ast.FieldGeographic:
		return "field->geographic"
	case ast.FieldSample:
		if !g.fieldSeen[ex.Field] {
			g.fieldSeen[ex.Field] = true
			g.fields = append(g.fields, ex.Field)
		}
		return fmt.Sprintf("field_sample(field, %q, %s, %s, %s)", ex.Field, g.expr(ex.Lon), g.expr(ex.Lat), g.expr(ex.Time))
	case ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", g.expr(ex.Lhs), ex.Op, g.expr(ex.Rhs))
	case ast.UnaryOp:
		return fmt.Sprintf("(%s%s)", ex.Op, g.expr(ex.X))
	case ast.Call:
		return g.call(ex)
	default:
		g.err = fmt.Errorf("%w: unsupported expression %T", ErrUnsupported, e)
		return ""
	}
}

// mathFuncs is the fixed vocabulary of C math.h functions a kernel AST
// may call; any other function name is rejected with ErrUnsupported.
var mathFuncs = map[string]bool{
	"sqrt": true, "sin": true, "cos": true, "atan2": true, "pow": true, "fabs": true, "fmin": true, "fmax": true,
	"isnan": true,
}

func (g *generator) call(c ast.Call) string {
	if !mathFuncs[c.Func] {
		g.err = fmt.Errorf("%w: unknown function %q", ErrUnsupported, c.Func)
		return ""
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = g.expr(a)
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(args, ", "))
}
