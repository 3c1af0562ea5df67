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

package source

import "testing"

func TestSpanBasics(t *testing.T) {
	s := NewSpan(3, 9)

	if s.Start() != 3 {
		t.Errorf("Start() = %d, want 3", s.Start())
	}

	if s.End() != 9 {
		t.Errorf("End() = %d, want 9", s.End())
	}

	if s.Length() != 6 {
		t.Errorf("Length() = %d, want 6", s.Length())
	}
}

func TestSpanContains(t *testing.T) {
	s := NewSpan(3, 9)

	tests := []struct {
		index int
		want  bool
	}{
		{2, false},
		{3, true},
		{8, true},
		{9, false},
	}

	for _, tt := range tests {
		if got := s.Contains(tt.index); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestSpanUnion(t *testing.T) {
	a := NewSpan(3, 9)
	b := NewSpan(5, 12)

	u := a.Union(b)
	if u.Start() != 3 || u.End() != 12 {
		t.Errorf("Union() = %v, want [3,12)", u)
	}

	// Union is commutative.
	u2 := b.Union(a)
	if u2 != u {
		t.Errorf("Union() not commutative: %v vs %v", u, u2)
	}
}

func TestNewSpanPanicsOnInverted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewSpan(5, 3) did not panic")
		}
	}()

	NewSpan(5, 3)
}

func TestSpanString(t *testing.T) {
	s := NewSpan(3, 9)
	if got, want := s.String(), "3:9"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
