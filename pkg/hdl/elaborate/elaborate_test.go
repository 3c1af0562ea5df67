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

package elaborate

import (
	"testing"

	"github.com/hdlverse/hdlc/pkg/hdl/resolver"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
)

func mustResolve(t *testing.T, src string) (*resolver.Set, string) {
	t.Helper()

	set, top, errs := resolver.ResolveFromSource("<mem>", []byte(src))
	if len(errs) > 0 {
		t.Fatalf("ResolveFromSource returned %d error(s): %v", len(errs), errs)
	}

	return set, top
}

func firstKind(t *testing.T, errs []*hdlerr.Error) hdlerr.Kind {
	t.Helper()

	if len(errs) == 0 {
		t.Fatalf("expected at least one error")
	}

	return errs[0].Kind
}

func TestElaborateSimpleCombinationalChip(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a, b;
    OUT out;
    PARTS:
    And(a=a, b=b, out=out);
}`)

	chip, errs := Elaborate(set, top)
	if len(errs) > 0 {
		t.Fatalf("Elaborate returned %d error(s): %v", len(errs), errs)
	}

	if len(chip.Inputs) != 2 || len(chip.Outputs) != 1 {
		t.Fatalf("chip has %d input(s)/%d output(s), want 2/1", len(chip.Inputs), len(chip.Outputs))
	}

	if len(chip.Instances) == 0 {
		t.Fatalf("expected at least one flattened primitive instance")
	}

	if _, ok := chip.OutputNets["out"]; !ok {
		t.Fatalf("OutputNets missing %q", "out")
	}
}

func TestElaborateWithGenericsTopLevel(t *testing.T) {
	set, _, errs := resolver.ResolveFromSource("<mem>", []byte(`CHIP Wrapper<W> {
    IN in[W], load;
    OUT out[W];
    PARTS:
    FOR i IN 0 TO W-1 GENERATE {
        Bit(in=in[i], load=load, out=out[i]);
    }
}`))
	if len(errs) > 0 {
		t.Fatalf("ResolveFromSource returned %d error(s): %v", len(errs), errs)
	}

	chip, elabErrs := ElaborateWithGenerics(set, "Wrapper", map[string]uint{"W": 4})
	if len(elabErrs) > 0 {
		t.Fatalf("ElaborateWithGenerics returned %d error(s): %v", len(elabErrs), elabErrs)
	}

	if chip.Inputs[0].Width != 4 {
		t.Errorf("in width = %d, want 4", chip.Inputs[0].Width)
	}

	if len(chip.OutputNets["out"]) != 4 {
		t.Errorf("len(OutputNets[out]) = %d, want 4", len(chip.OutputNets["out"]))
	}
}

func TestElaborateRejectsGenericTopLevel(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main<W> {
    IN in[W];
    OUT out[W];
    PARTS:
    FOR i IN 0 TO W-1 GENERATE {
        Not(in=in[i], out=out[i]);
    }
}`)

	_, errs := Elaborate(set, top)
	if len(errs) == 0 {
		t.Fatalf("expected Elaborate to reject a generic top-level chip")
	}
}

func TestElaborateDetectsMultipleDrivers(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a, b, c;
    OUT out;
    PARTS:
    Nand(a=a, b=b, out=out);
    Nand(a=b, b=c, out=out);
}`)

	_, errs := Elaborate(set, top)
	if got := firstKind(t, errs); got != hdlerr.MultipleDrivers {
		t.Fatalf("Kind = %v, want MultipleDrivers", got)
	}
}

func TestElaborateDetectsUnconnectedInput(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a;
    OUT out;
    PARTS:
    Nand(a=a, out=out);
}`)

	_, errs := Elaborate(set, top)
	if got := firstKind(t, errs); got != hdlerr.ArityMismatch {
		t.Fatalf("Kind = %v, want ArityMismatch", got)
	}
}

func TestElaborateDetectsCombinationalLoop(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a;
    OUT out;
    PARTS:
    Nand(a=out, b=out, out=out);
}`)

	_, errs := Elaborate(set, top)
	if got := firstKind(t, errs); got != hdlerr.CombinationalLoop {
		t.Fatalf("Kind = %v, want CombinationalLoop", got)
	}
}

func TestElaborateDetectsWidthConflict(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a[2];
    OUT out[4];
    PARTS:
    Register<4>(in=a[0..1], load=true, out=out);
}`)

	_, errs := Elaborate(set, top)
	if got := firstKind(t, errs); got != hdlerr.WidthConflict {
		t.Fatalf("Kind = %v, want WidthConflict", got)
	}
}

func TestElaborateDetectsUndrivenOutput(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a;
    OUT out;
    PARTS:
    Not(in=a, out=unused);
}`)

	_, errs := Elaborate(set, top)
	if got := firstKind(t, errs); got != hdlerr.Undriven {
		t.Fatalf("Kind = %v, want Undriven", got)
	}
}

func TestElaborateMemoizesIdenticalTemplates(t *testing.T) {
	set, top := mustResolve(t, `CHIP Main {
    IN a, b, c, d;
    OUT out1, out2;
    PARTS:
    And(a=a, b=b, out=out1);
    And(a=c, b=d, out=out2);
}`)

	chip, errs := Elaborate(set, top)
	if len(errs) > 0 {
		t.Fatalf("Elaborate returned %d error(s): %v", len(errs), errs)
	}

	// Two independent And instantiations each flatten to 2 Nand instances.
	if len(chip.Instances) != 4 {
		t.Fatalf("len(Instances) = %d, want 4", len(chip.Instances))
	}
}
