package codegen

import (
	"strings"
	"testing"

	"github.com/ctessum-labs/parcels/ast"
)

func TestGenerateEmitsFieldSampleAndTracksFields(t *testing.T) {
	fn := ast.NewFunc("AdvectionEE",
		ast.Let("dLon", ast.Sample("U", ast.AttrOf(ast.Particle(), "lon"), ast.AttrOf(ast.Particle(), "lat"), ast.AttrOf(ast.Particle(), "time"))),
		ast.Set(ast.Particle(), "lon", ast.Add(ast.AttrOf(ast.Particle(), "lon"), ast.Mul(ast.Var{Name: "dLon"}, ast.Var{Name: "dt"}))),
	)
	attrs := []Attr{{Name: "lon", CType: "double"}, {Name: "lat", CType: "double"}, {Name: "time", CType: "double"}}

	result, err := Generate(fn, attrs)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Fields) != 1 || result.Fields[0] != "U" {
		t.Errorf("Fields = %v, want [U]", result.Fields)
	}
	if !strings.Contains(result.Source, "field_sample(field, \"U\"") {
		t.Errorf("generated source missing field_sample call:\n%s", result.Source)
	}
	if !strings.Contains(result.Source, "int32_t AdvectionEE(Particle *particle") {
		t.Errorf("generated source missing function signature:\n%s", result.Source)
	}
}

func TestGenerateRejectsUnknownAttribute(t *testing.T) {
	fn := ast.NewFunc("bad",
		ast.Set(ast.Particle(), "nonexistent", ast.Lit(1)),
	)
	if _, err := Generate(fn, nil); err == nil {
		t.Error("expected an error referencing an unknown attribute")
	}
}

func TestGenerateLoopEmitsStruct(t *testing.T) {
	src := GenerateLoop("AdvectionEE", []Attr{{Name: "lon", CType: "double"}})
	if !strings.Contains(src, "typedef struct") || !strings.Contains(src, "particle_loop") {
		t.Errorf("generated loop source looks wrong:\n%s", src)
	}
}
