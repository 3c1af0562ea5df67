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
	"github.com/hdlverse/hdlc/pkg/hdl/primitive"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
)

type inputSlot struct {
	port string
	bit  int
}

// template is the memoized elaboration of one (chip, generic binding) pair:
// a self-contained body of primitive instances in a private net numbering,
// ready to be spliced into an enclosing scope by inlineTemplate.
type template struct {
	chipName     string
	inputPorts   []netlist.Port
	outputPorts  []netlist.Port
	inputOrder   []inputSlot
	numInputBits int
	outputNets   map[string][]netlist.NetID
	localNets    int
	instances    []netlist.Instance
	drivers      map[netlist.NetID]netlist.Driver
}

func evalWidth(e ast.Expr, generics map[string]uint) (uint, *hdlerr.Error) {
	if e == nil {
		return 1, nil
	}

	v, err := e.Eval(generics)
	if err != nil {
		return 0, hdlerr.New(hdlerr.UnassignedWidth, nil, e.Span(), "%v", err)
	}

	return v, nil
}

// buildTemplate elaborates chip under a concrete generic binding, caching
// the result so that instantiating the same chip with the same generics
// twice (e.g. two 16-bit registers in one design) only walks its body once.
func (e *elaborator) buildTemplate(chip *ast.Chip, generics map[string]uint, path []hdlerr.Frame) (*template, []*hdlerr.Error) {
	key := genericKey(chip.Name, generics, sortedGenericNames(generics))
	if t, ok := e.cache[key]; ok {
		return t, nil
	}

	for _, f := range path {
		if f.Chip == chip.Name {
			return nil, []*hdlerr.Error{hdlerr.NewInPath(hdlerr.CyclicDefinition, path, "chip %q instantiates itself", chip.Name)}
		}
	}

	ctx := newLocalCtx()

	var errs []*hdlerr.Error

	tmpl := &template{chipName: chip.Name, outputNets: map[string][]netlist.NetID{}}

	for _, port := range chip.Inputs {
		width, werr := evalWidth(port.Width, generics)
		if werr != nil {
			errs = append(errs, werr)
			continue
		}

		tmpl.inputPorts = append(tmpl.inputPorts, netlist.Port{Name: port.Name, Width: width})

		for b := uint(0); b < width; b++ {
			ctx.bit(port.Name, int(b))
			tmpl.inputOrder = append(tmpl.inputOrder, inputSlot{port: port.Name, bit: int(b)})
		}
	}

	tmpl.numInputBits = len(tmpl.inputOrder)

	for _, port := range chip.Outputs {
		width, werr := evalWidth(port.Width, generics)
		if werr != nil {
			errs = append(errs, werr)
			continue
		}

		tmpl.outputPorts = append(tmpl.outputPorts, netlist.Port{Name: port.Name, Width: width})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	frame := append(append([]hdlerr.Frame{}, path...), hdlerr.Frame{Chip: chip.Name, Generics: genericValues(chip.Generics, generics)})

	errs = append(errs, e.processBody(ctx, chip.Body, generics, frame)...)
	errs = append(errs, checkInternalNetsDriven(ctx, chip, frame)...)

	for _, port := range chip.Outputs {
		width, _ := evalWidth(port.Width, generics)

		bits := make([]netlist.NetID, width)

		for b := uint(0); b < width; b++ {
			id := ctx.bit(port.Name, int(b))
			if !ctx.driven.Test(uint(id)) {
				errs = append(errs, hdlerr.NewInPath(hdlerr.Undriven, frame,
					"output port %q bit %d of chip %q is never driven", port.Name, b, chip.Name))
				continue
			}

			bits[b] = id
		}

		tmpl.outputNets[port.Name] = bits
	}

	if len(errs) > 0 {
		return nil, errs
	}

	tmpl.localNets = int(ctx.nextID)
	tmpl.instances = ctx.instances
	tmpl.drivers = ctx.drivers

	e.cache[key] = tmpl

	return tmpl, nil
}

// checkInternalNetsDriven enforces step 5 ("every bit of every
// net must be driven exactly once") for internal wires: named buses that
// are read somewhere in the body but whose own driving part was never
// wired, a mistake output-port checking alone wouldn't catch since most
// named buses aren't output ports.
func checkInternalNetsDriven(ctx *localCtx, chip *ast.Chip, frame []hdlerr.Frame) []*hdlerr.Error {
	isInput := make(map[string]bool, len(chip.Inputs))
	for _, p := range chip.Inputs {
		isInput[p.Name] = true
	}

	var errs []*hdlerr.Error

	for name, byBit := range ctx.bits {
		if isInput[name] {
			continue
		}

		for bit, id := range byBit {
			if !ctx.driven.Test(uint(id)) {
				errs = append(errs, hdlerr.NewInPath(hdlerr.Undriven, frame,
					"signal %q bit %d of chip %q is never driven", name, bit, chip.Name))
			}
		}
	}

	return errs
}

func genericValues(names []string, generics map[string]uint) []uint {
	vals := make([]uint, len(names))
	for i, n := range names {
		vals[i] = generics[n]
	}

	return vals
}

func (e *elaborator) processBody(ctx *localCtx, body []ast.BodyItem, generics map[string]uint, path []hdlerr.Frame) []*hdlerr.Error {
	var errs []*hdlerr.Error

	for _, item := range body {
		switch v := item.(type) {
		case ast.Part:
			errs = append(errs, e.processPart(ctx, v, generics, path)...)
		case ast.Generate:
			errs = append(errs, e.processGenerate(ctx, v, generics, path)...)
		}
	}

	return errs
}

func (e *elaborator) processGenerate(ctx *localCtx, gen ast.Generate, generics map[string]uint, path []hdlerr.Frame) []*hdlerr.Error {
	from, ferr := gen.From.Eval(generics)
	if ferr != nil {
		return []*hdlerr.Error{hdlerr.New(hdlerr.UnassignedWidth, nil, gen.From.Span(), "%v", ferr)}
	}

	to, terr := gen.To.Eval(generics)
	if terr != nil {
		return []*hdlerr.Error{hdlerr.New(hdlerr.UnassignedWidth, nil, gen.To.Span(), "%v", terr)}
	}

	var errs []*hdlerr.Error

	// A range whose bound evaluates such that to < from has zero iterations
	// (negative-length generate ranges are simply empty).
	for i := from; i <= to; i++ {
		loopGenerics := make(map[string]uint, len(generics)+1)
		for k, v := range generics {
			loopGenerics[k] = v
		}

		loopGenerics[gen.Var] = i

		errs = append(errs, e.processBody(ctx, gen.Body, loopGenerics, path)...)
	}

	return errs
}

// produceFn builds (or inlines) the instance for one Part once its input
// nets and any pre-decided output destination nets are known, returning the
// net IDs that actually carry each output pin's bits.
type produceFn func(callerInputs []netlist.NetID, outputOverride map[string][]netlist.NetID) (map[string][]netlist.NetID, []*hdlerr.Error)

// wirePart gathers a Part's input-direction mappings into one flat slice,
// pre-resolves any output-direction mapping destinations (so a
// forward-referenced wire, e.g. sequential feedback, keeps a single
// identity across the part that reads it and the part that later drives
// it), invokes produce, and reports any input pin bit left unconnected.
func (e *elaborator) wirePart(ctx *localCtx, part ast.Part, inputPorts, outputPorts []netlist.Port, generics map[string]uint, path []hdlerr.Frame, produce produceFn) []*hdlerr.Error {
	inLayout := layout(inputPorts)
	outLayout := layout(outputPorts)

	callerInputs := make([]netlist.NetID, inLayout.total)
	inputSet := make([]bool, inLayout.total)

	outputOverride := map[string][]netlist.NetID{}
	for _, p := range outputPorts {
		bits := make([]netlist.NetID, p.Width)
		for i := range bits {
			bits[i] = -1
		}

		outputOverride[p.Name] = bits
	}

	var errs []*hdlerr.Error

	for _, m := range part.Mappings {
		if inOff, ok := inLayout.offset[m.Port]; ok {
			off, width, err := subRange(inLayout.width[m.Port], m.PortSlice, generics)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			bits, err := resolveValueBits(ctx, m.Value, width, generics)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			for i, id := range bits {
				callerInputs[inOff+int(off)+i] = id
				inputSet[inOff+int(off)+i] = true
			}

			continue
		}

		if _, ok := outLayout.offset[m.Port]; ok {
			off, width, err := subRange(outLayout.width[m.Port], m.PortSlice, generics)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			bits, err := resolveDestBits(ctx, m.Value, width, generics)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			for i, id := range bits {
				outputOverride[m.Port][int(off)+i] = id
			}

			continue
		}

		errs = append(errs, hdlerr.NewInPath(hdlerr.UnknownPort, path, "%q has no port %q", part.Chip, m.Port))
	}

	if len(errs) > 0 {
		return errs
	}

	for i, ok := range inputSet {
		if !ok {
			errs = append(errs, hdlerr.NewInPath(hdlerr.ArityMismatch, path, "%q: input bit %d is never connected", part.Chip, i))
		}
	}

	if len(errs) > 0 {
		return errs
	}

	_, perrs := produce(callerInputs, outputOverride)

	return append(errs, perrs...)
}

func (e *elaborator) processPart(ctx *localCtx, part ast.Part, generics map[string]uint, path []hdlerr.Frame) []*hdlerr.Error {
	if spec, ok := primitive.Lookup(part.Chip); ok {
		return e.processPrimitivePart(ctx, part, spec, generics, path)
	}

	chip, ok := e.set.Chips[part.Chip]
	if !ok {
		return []*hdlerr.Error{hdlerr.NewInPath(hdlerr.UnknownChip, path, "unknown chip %q", part.Chip)}
	}

	if len(part.GenericArgs) != len(chip.Generics) {
		return []*hdlerr.Error{
			hdlerr.NewInPath(hdlerr.ArityMismatch, path,
				"%q expects %d generic argument(s), got %d", part.Chip, len(chip.Generics), len(part.GenericArgs)),
		}
	}

	calleeGenerics := map[string]uint{}

	var errs []*hdlerr.Error

	for i, name := range chip.Generics {
		v, err := part.GenericArgs[i].Eval(generics)
		if err != nil {
			errs = append(errs, hdlerr.New(hdlerr.UnassignedWidth, nil, part.GenericArgs[i].Span(), "%v", err))
			continue
		}

		calleeGenerics[name] = v
	}

	if len(errs) > 0 {
		return errs
	}

	tmpl, terrs := e.buildTemplate(chip, calleeGenerics, path)
	if len(terrs) > 0 {
		return terrs
	}

	return e.wirePart(ctx, part, tmpl.inputPorts, tmpl.outputPorts, generics, path,
		func(callerInputs []netlist.NetID, outputOverride map[string][]netlist.NetID) (map[string][]netlist.NetID, []*hdlerr.Error) {
			outputs, err := inlineTemplate(ctx, tmpl, callerInputs, outputOverride)
			if err != nil {
				return nil, []*hdlerr.Error{hdlerr.NewInPath(hdlerr.MultipleDrivers, path, "%q: %v", part.Chip, err)}
			}

			return outputs, nil
		})
}

func (e *elaborator) processPrimitivePart(ctx *localCtx, part ast.Part, spec *primitive.Spec, generics map[string]uint, path []hdlerr.Frame) []*hdlerr.Error {
	boundGenerics := map[string]uint{}

	var errs []*hdlerr.Error

	for i, name := range spec.Generics {
		if i < len(part.GenericArgs) {
			v, err := part.GenericArgs[i].Eval(generics)
			if err != nil {
				errs = append(errs, hdlerr.New(hdlerr.UnassignedWidth, nil, part.GenericArgs[i].Span(), "%v", err))
				continue
			}

			boundGenerics[name] = v

			continue
		}

		if def, ok := spec.Defaults[name]; ok {
			boundGenerics[name] = def
			continue
		}

		errs = append(errs, hdlerr.NewInPath(hdlerr.ArityMismatch, path, "%q: missing generic %q", part.Chip, name))
	}

	if len(errs) > 0 {
		return errs
	}

	inputPorts := make([]netlist.Port, len(spec.Inputs))

	for i, p := range spec.Inputs {
		width, werr := evalWidth(p.Width, boundGenerics)
		if werr != nil {
			errs = append(errs, werr)
			continue
		}

		inputPorts[i] = netlist.Port{Name: p.Name, Width: width}
	}

	outputPorts := make([]netlist.Port, len(spec.Outputs))

	for i, p := range spec.Outputs {
		width, werr := evalWidth(p.Width, boundGenerics)
		if werr != nil {
			errs = append(errs, werr)
			continue
		}

		outputPorts[i] = netlist.Port{Name: p.Name, Width: width}
	}

	if len(errs) > 0 {
		return errs
	}

	return e.wirePart(ctx, part, inputPorts, outputPorts, generics, path,
		func(callerInputs []netlist.NetID, outputOverride map[string][]netlist.NetID) (map[string][]netlist.NetID, []*hdlerr.Error) {
			inst := netlist.Instance{
				Kind:     spec.Kind,
				Name:     part.Chip,
				Generics: boundGenerics,
				Inputs:   map[string][]netlist.NetID{},
				Outputs:  map[string][]netlist.NetID{},
			}

			offset := 0

			for _, p := range inputPorts {
				inst.Inputs[p.Name] = callerInputs[offset : offset+int(p.Width)]
				offset += int(p.Width)
			}

			for _, p := range outputPorts {
				bits := make([]netlist.NetID, p.Width)

				for b := range bits {
					if ov := outputOverride[p.Name][b]; ov >= 0 {
						bits[b] = ov
					} else {
						bits[b] = ctx.AllocNet()
					}
				}

				inst.Outputs[p.Name] = bits
			}

			idx := ctx.AddInstance(inst)

			var derrs []*hdlerr.Error

			for _, p := range outputPorts {
				for b, id := range inst.Outputs[p.Name] {
					if err := ctx.SetDriver(id, netlist.Driver{Kind: netlist.DriverInstance, Instance: idx, Pin: p.Name, PinBit: b}); err != nil {
						derrs = append(derrs, hdlerr.NewInPath(hdlerr.MultipleDrivers, path,
							"%q pin %s[%d] already has a driver", part.Chip, p.Name, b))
					}
				}
			}

			return inst.Outputs, derrs
		})
}
