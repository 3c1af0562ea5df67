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

package testscript

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}

	return path
}

func TestRunPassingScript(t *testing.T) {
	dir := t.TempDir()

	writeTestFile(t, dir, "And.hdl", `CHIP And {
    IN a, b;
    OUT out;
    PARTS:
    Nand(a=a, b=b, out=nandOut);
    Not(in=nandOut, out=out);
}`)

	writeTestFile(t, dir, "And.cmp", "|a |b |out|\n|0 |0 |0 |\n|1 |1 |1 |\n")

	tstPath := writeTestFile(t, dir, "And.tst", `load And.hdl,
output-file And.out,
compare-to And.cmp,
output-list a%B1.1.1, b%B1.1.1, out%B1.1.1;

set a 0,
set b 0,
eval,
output;

set a 1,
set b 1,
eval,
output;
`)

	result, errs := Run(tstPath, nil)
	if len(errs) > 0 {
		t.Fatalf("Run returned %d error(s): %v", len(errs), errs)
	}

	if !result.Passed {
		t.Fatalf("expected a passing run, got: %s (first diff at line %d)", result.Message, result.FirstDiffLine)
	}

	out, err := os.ReadFile(result.OutputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	want := "|a |b |out|\n|0 |0 |0 |\n|1 |1 |1 |\n"
	if string(out) != want {
		t.Errorf("output = %q, want %q", string(out), want)
	}
}

func TestRunDetectsMismatch(t *testing.T) {
	dir := t.TempDir()

	writeTestFile(t, dir, "And.hdl", `CHIP And {
    IN a, b;
    OUT out;
    PARTS:
    Nand(a=a, b=b, out=nandOut);
    Not(in=nandOut, out=out);
}`)

	writeTestFile(t, dir, "And.cmp", "|a |b |out|\n|0 |0 |1 |\n")

	tstPath := writeTestFile(t, dir, "And.tst", `load And.hdl,
output-file And.out,
compare-to And.cmp,
output-list a%B1.1.1, b%B1.1.1, out%B1.1.1;

set a 0,
set b 0,
eval,
output;
`)

	result, errs := Run(tstPath, nil)
	if len(errs) > 0 {
		t.Fatalf("Run returned %d error(s): %v", len(errs), errs)
	}

	if result.Passed {
		t.Fatalf("expected the run to fail on a mismatched compare-to file")
	}

	if result.FirstDiffLine != 2 {
		t.Errorf("FirstDiffLine = %d, want 2", result.FirstDiffLine)
	}
}

func TestRunSequentialTickTock(t *testing.T) {
	dir := t.TempDir()

	writeTestFile(t, dir, "Latch.hdl", `CHIP Latch {
    IN in, load;
    OUT out;
    PARTS:
    DFF(in=in, load=load, out=out);
}`)

	tstPath := writeTestFile(t, dir, "Latch.tst", `load Latch.hdl,
output-list out%B1.1.1;

set in 1,
set load 1,
tick,
tock,
output;
`)

	result, errs := Run(tstPath, nil)
	if len(errs) > 0 {
		t.Fatalf("Run returned %d error(s): %v", len(errs), errs)
	}

	out, err := os.ReadFile(result.OutputFile)
	if err == nil {
		t.Fatalf("expected no output file to be written without output-file, got %q", out)
	}

	if !result.Passed {
		t.Fatalf("expected a passing run with no compare-to declared")
	}
}

func TestRunReportsMissingFile(t *testing.T) {
	_, errs := Run(filepath.Join(t.TempDir(), "NoSuchFile.tst"), nil)
	if len(errs) == 0 {
		t.Fatalf("expected an error for a missing test-script file")
	}
}
