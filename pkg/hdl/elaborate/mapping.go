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
	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
)

// portLayout gives the bit offset and width of each port within a
// contiguous pin-ordered array, so a Part's many per-port mappings can be
// gathered into one flat slice of net IDs.
type portLayout struct {
	offset map[string]int
	width  map[string]uint
	total  uint
}

func layout(ports []netlist.Port) portLayout {
	l := portLayout{offset: map[string]int{}, width: map[string]uint{}}

	off := 0

	for _, p := range ports {
		l.offset[p.Name] = off
		l.width[p.Name] = p.Width
		off += int(p.Width)
	}

	l.total = uint(off)

	return l
}

// subRange resolves an optional port-side slice ("out[0..3]") against a
// port's declared width, returning the offset and width of the bits this
// mapping actually covers.
func subRange(portWidth uint, slice *ast.Slice, generics map[string]uint) (uint, uint, *hdlerr.Error) {
	if slice == nil {
		return 0, portWidth, nil
	}

	lo, err := slice.Lo.Eval(generics)
	if err != nil {
		return 0, 0, hdlerr.New(hdlerr.OutOfRangeSlice, nil, slice.Sp, "%v", err)
	}

	if slice.Hi == nil {
		if lo >= portWidth {
			return 0, 0, hdlerr.New(hdlerr.OutOfRangeSlice, nil, slice.Sp, "index %d out of range for %d-bit port", lo, portWidth)
		}

		return lo, 1, nil
	}

	hi, err := slice.Hi.Eval(generics)
	if err != nil {
		return 0, 0, hdlerr.New(hdlerr.OutOfRangeSlice, nil, slice.Sp, "%v", err)
	}

	if hi < lo {
		return 0, 0, hdlerr.New(hdlerr.OutOfRangeSlice, nil, slice.Sp, "slice [%d..%d] has negative length", lo, hi)
	}

	if hi >= portWidth {
		return 0, 0, hdlerr.New(hdlerr.OutOfRangeSlice, nil, slice.Sp, "index %d out of range for %d-bit port", hi, portWidth)
	}

	return lo, hi - lo + 1, nil
}

// refIndices resolves a (possibly sliced) signal reference to the absolute
// bit indices of its underlying named signal, checking its length against
// the width the context requires.
func refIndices(ref ast.SigRef, width uint, generics map[string]uint) ([]int, *hdlerr.Error) {
	if ref.Slice == nil {
		idxs := make([]int, width)
		for i := range idxs {
			idxs[i] = i
		}

		return idxs, nil
	}

	lo, err := ref.Slice.Lo.Eval(generics)
	if err != nil {
		return nil, hdlerr.New(hdlerr.OutOfRangeSlice, nil, ref.Slice.Sp, "%v", err)
	}

	if ref.Slice.Hi == nil {
		if width != 1 {
			return nil, hdlerr.New(hdlerr.WidthConflict, nil, ref.Sp, "connecting single bit %s[%d] to a %d-bit port", ref.Name, lo, width)
		}

		return []int{int(lo)}, nil
	}

	hi, err := ref.Slice.Hi.Eval(generics)
	if err != nil {
		return nil, hdlerr.New(hdlerr.OutOfRangeSlice, nil, ref.Slice.Sp, "%v", err)
	}

	if hi < lo {
		return nil, hdlerr.New(hdlerr.OutOfRangeSlice, nil, ref.Slice.Sp, "slice [%d..%d] has negative length", lo, hi)
	}

	if hi-lo+1 != width {
		return nil, hdlerr.New(hdlerr.WidthConflict, nil, ref.Sp,
			"connecting %d-bit slice %s[%d..%d] to a %d-bit port", hi-lo+1, ref.Name, lo, hi, width)
	}

	idxs := make([]int, width)
	for i := range idxs {
		idxs[i] = int(lo) + i
	}

	return idxs, nil
}

// resolveValueBits resolves the read side of a mapping (an input pin's
// value) to width net IDs.
func resolveValueBits(ctx *localCtx, v ast.SigExpr, width uint, generics map[string]uint) ([]netlist.NetID, *hdlerr.Error) {
	switch t := v.(type) {
	case ast.SigRef:
		idxs, err := refIndices(t, width, generics)
		if err != nil {
			return nil, err
		}

		bits := make([]netlist.NetID, len(idxs))
		for i, ix := range idxs {
			bits[i] = ctx.bit(t.Name, ix)
		}

		return bits, nil
	case ast.SigBool:
		val := netlist.NetID(netlist.ZeroNet)
		if t.Value {
			val = netlist.OneNet
		}

		bits := make([]netlist.NetID, width)
		for i := range bits {
			bits[i] = val
		}

		return bits, nil
	case ast.SigInt:
		bits := make([]netlist.NetID, width)
		for i := range bits {
			if (t.Value>>uint(i))&1 == 1 {
				bits[i] = netlist.OneNet
			} else {
				bits[i] = netlist.ZeroNet
			}
		}

		return bits, nil
	default:
		return nil, hdlerr.New(hdlerr.PrimitiveMisuse, nil, v.Span(), "unsupported signal expression")
	}
}

// resolveDestBits resolves the write side of a mapping (an output pin's
// destination) to width net IDs, allocating any not yet seen.
func resolveDestBits(ctx *localCtx, v ast.SigExpr, width uint, generics map[string]uint) ([]netlist.NetID, *hdlerr.Error) {
	ref, ok := v.(ast.SigRef)
	if !ok {
		return nil, hdlerr.New(hdlerr.PrimitiveMisuse, nil, v.Span(), "an output pin must be connected to a plain signal name")
	}

	idxs, err := refIndices(ref, width, generics)
	if err != nil {
		return nil, err
	}

	bits := make([]netlist.NetID, len(idxs))
	for i, ix := range idxs {
		bits[i] = ctx.bit(ref.Name, ix)
	}

	return bits, nil
}
