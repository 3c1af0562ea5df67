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

func TestParseTestScript(t *testing.T) {
	src := `load And.hdl,
output-file And.out,
compare-to And.cmp,
output-list a%B1.1.1, b%B1.1.1, out%B1.1.1;

set a 0,
set b 1,
eval,
output;
`

	script, errs := ParseTestScript(source.NewFile("And.tst", []byte(src)))
	if len(errs) > 0 {
		t.Fatalf("ParseTestScript returned %d error(s): %v", len(errs), errs)
	}

	if len(script.Commands) != 8 {
		t.Fatalf("len(Commands) = %d, want 8", len(script.Commands))
	}

	load, ok := script.Commands[0].(ast.LoadCmd)
	if !ok || load.File != "And.hdl" {
		t.Fatalf("Commands[0] = %#v, want LoadCmd{And.hdl}", script.Commands[0])
	}

	list, ok := script.Commands[3].(ast.OutputListCmd)
	if !ok || len(list.Specs) != 3 {
		t.Fatalf("Commands[3] = %#v, want an OutputListCmd with 3 specs", script.Commands[3])
	}

	if list.Specs[0].Fmt != 'B' || list.Specs[0].IntW != 1 || list.Specs[0].FracW != 1 {
		t.Errorf("Specs[0] = %+v, want Fmt=B IntW=1 FracW=1", list.Specs[0])
	}

	set, ok := script.Commands[5].(ast.SetCmd)
	if !ok || set.Name != "b" || set.Value != 1 {
		t.Fatalf("Commands[5] = %#v, want SetCmd{b, 1}", script.Commands[5])
	}

	if _, ok := script.Commands[7].(ast.OutputCmd); !ok {
		t.Fatalf("Commands[7] = %#v, want OutputCmd", script.Commands[7])
	}
}

func TestParseTestScriptLoadWithGenerics(t *testing.T) {
	script, errs := ParseTestScript(source.NewFile("t.tst", []byte("load<16> Register.hdl;")))
	if len(errs) > 0 {
		t.Fatalf("ParseTestScript returned %d error(s): %v", len(errs), errs)
	}

	load := script.Commands[0].(ast.LoadCmd)
	if len(load.Widths) != 1 || load.Widths[0] != 16 {
		t.Fatalf("Widths = %v, want [16]", load.Widths)
	}
}

func TestParseTestScriptHexAndPercentValues(t *testing.T) {
	script, errs := ParseTestScript(source.NewFile("t.tst", []byte("set a 0x1F;\nset b %B101;")))
	if len(errs) > 0 {
		t.Fatalf("ParseTestScript returned %d error(s): %v", len(errs), errs)
	}

	hex := script.Commands[0].(ast.SetCmd)
	if hex.Value != 0x1F {
		t.Errorf("hex Value = %d, want 31", hex.Value)
	}

	bin := script.Commands[1].(ast.SetCmd)
	if bin.Value != 0b101 {
		t.Errorf("binary Value = %d, want 5", bin.Value)
	}
}

func TestParseTestScriptSetSlice(t *testing.T) {
	script, errs := ParseTestScript(source.NewFile("t.tst", []byte("set a[0..3] 5;")))
	if len(errs) > 0 {
		t.Fatalf("ParseTestScript returned %d error(s): %v", len(errs), errs)
	}

	set := script.Commands[0].(ast.SetCmd)
	if set.Slice == nil {
		t.Fatalf("Slice is nil, want [0..3]")
	}

	lo, _ := set.Slice.Lo.Eval(nil)
	hi, _ := set.Slice.Hi.Eval(nil)

	if lo != 0 || hi != 3 {
		t.Errorf("Slice = [%d..%d], want [0..3]", lo, hi)
	}
}

func TestParseTestScriptUnknownCommandRecovers(t *testing.T) {
	_, errs := ParseTestScript(source.NewFile("t.tst", []byte("bogus;\neval;")))
	if len(errs) == 0 {
		t.Fatalf("expected an error for the unknown command %q", "bogus")
	}
}
