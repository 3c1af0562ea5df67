// Copyright hdlc Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"testing"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/source"
)

func mustParseChip(t *testing.T, src string) *ast.Chip {
	t.Helper()

	chip, errs := ParseChipFile(source.NewFile("t.hdl", []byte(src)))
	if len(errs) > 0 {
		t.Fatalf("ParseChipFile returned %d error(s): %v", len(errs), errs)
	}

	return chip
}

func TestParseSimpleChip(t *testing.T) {
	chip := mustParseChip(t, `CHIP And {
    IN a, b;
    OUT out;
    PARTS:
    Nand(a=a, b=b, out=nandOut);
    Not(in=nandOut, out=out);
}`)

	if chip.Name != "And" {
		t.Errorf("Name = %q, want %q", chip.Name, "And")
	}

	if len(chip.Inputs) != 2 || chip.Inputs[0].Name != "a" || chip.Inputs[1].Name != "b" {
		t.Errorf("Inputs = %+v, want [a b]", chip.Inputs)
	}

	if len(chip.Outputs) != 1 || chip.Outputs[0].Name != "out" {
		t.Errorf("Outputs = %+v, want [out]", chip.Outputs)
	}

	if len(chip.Body) != 2 {
		t.Fatalf("len(Body) = %d, want 2", len(chip.Body))
	}

	first, ok := chip.Body[0].(ast.Part)
	if !ok {
		t.Fatalf("Body[0] is a %T, want ast.Part", chip.Body[0])
	}

	if first.Chip != "Nand" {
		t.Errorf("Body[0].Chip = %q, want %q", first.Chip, "Nand")
	}

	if len(first.Mappings) != 3 {
		t.Fatalf("len(Body[0].Mappings) = %d, want 3", len(first.Mappings))
	}
}

func TestParseGenericsAndWidths(t *testing.T) {
	chip := mustParseChip(t, `CHIP Register<W> {
    IN in[W], load;
    OUT out[W];
    PARTS:
    FOR i IN 0 TO W-1 GENERATE {
        Bit(in=in[i], load=load, out=out[i]);
    }
}`)

	if len(chip.Generics) != 1 || chip.Generics[0] != "W" {
		t.Fatalf("Generics = %v, want [W]", chip.Generics)
	}

	widthIdent, ok := chip.Inputs[0].Width.(ast.IdentExpr)
	if !ok || widthIdent.Name != "W" {
		t.Fatalf("Inputs[0].Width = %#v, want IdentExpr{W}", chip.Inputs[0].Width)
	}

	if len(chip.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(chip.Body))
	}

	gen, ok := chip.Body[0].(ast.Generate)
	if !ok {
		t.Fatalf("Body[0] is a %T, want ast.Generate", chip.Body[0])
	}

	if gen.Var != "i" {
		t.Errorf("Var = %q, want %q", gen.Var, "i")
	}

	bin, ok := gen.To.(ast.BinExpr)
	if !ok || bin.Op != '-' {
		t.Fatalf("To = %#v, want a BinExpr subtracting 1 from W", gen.To)
	}
}

func TestParseSliceExpressions(t *testing.T) {
	chip := mustParseChip(t, `CHIP Slicer {
    IN a[8];
    OUT lo[4], hi;
    PARTS:
    Foo(in=a[0..3], out=lo);
    Foo(in=a[7], out=hi);
}`)

	part0 := chip.Body[0].(ast.Part)
	ref0 := part0.Mappings[0].Value.(ast.SigRef)

	if ref0.Slice == nil || ref0.Slice.Hi == nil {
		t.Fatalf("expected a lo..hi slice, got %#v", ref0.Slice)
	}

	part1 := chip.Body[1].(ast.Part)
	ref1 := part1.Mappings[0].Value.(ast.SigRef)

	if ref1.Slice == nil || ref1.Slice.Hi != nil {
		t.Fatalf("expected a single-index slice, got %#v", ref1.Slice)
	}
}

func TestParseGenericArguments(t *testing.T) {
	chip := mustParseChip(t, `CHIP Wrapper {
    IN in[16];
    OUT out[16];
    PARTS:
    Register<16>(in=in, load=true, out=out);
}`)

	part := chip.Body[0].(ast.Part)
	if len(part.GenericArgs) != 1 {
		t.Fatalf("len(GenericArgs) = %d, want 1", len(part.GenericArgs))
	}

	c, ok := part.GenericArgs[0].(ast.ConstExpr)
	if !ok || c.Value != 16 {
		t.Fatalf("GenericArgs[0] = %#v, want ConstExpr{16}", part.GenericArgs[0])
	}

	boolLit, ok := part.Mappings[1].Value.(ast.SigBool)
	if !ok || !boolLit.Value {
		t.Fatalf("load mapping = %#v, want SigBool{true}", part.Mappings[1].Value)
	}
}

func TestParseRecoversFromBodyError(t *testing.T) {
	_, errs := ParseChipFile(source.NewFile("t.hdl", []byte(`CHIP Broken {
    IN a;
    OUT out;
    PARTS:
    Nand(a=a b=a, out=out);
    Not(in=a, out=out);
}`)))

	if len(errs) == 0 {
		t.Fatalf("expected at least one parse error for the missing comma")
	}
}
