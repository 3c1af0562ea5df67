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

package netlist

import "github.com/hdlverse/hdlc/pkg/hdl/primitive"

// CombinationalLoopError reports a cycle found among purely combinational
// instances (Nand gates): a sequence of instance indices where each is
// driven, through one of its inputs, by the next, ending with the first
// index repeated.
type CombinationalLoopError struct {
	Path []int
}

func (e *CombinationalLoopError) Error() string {
	return "combinational loop detected"
}

// combinationalDriverOf returns the Nand instance (if any) whose output
// drives net id. DFF and RAM outputs are sequential state, not a
// same-cycle combinational dependency, so they never contribute an edge
// here: sequential primitives are what break a feedback loop from being a
// combinational cycle.
func (c *Chip) combinationalDriverOf(id NetID) (int, bool) {
	d := c.Drivers[id]
	if d.Kind != DriverInstance {
		return 0, false
	}

	inst := c.Instances[d.Instance]
	if inst.Kind != primitive.KindNand {
		return 0, false
	}

	return d.Instance, true
}

// CombinationalOrder returns a valid evaluation order for every Nand
// instance such that each appears after every Nand instance that feeds one
// of its inputs. It fails with a *CombinationalLoopError if the
// combinational sub-graph is cyclic.
func (c *Chip) CombinationalOrder() ([]int, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(c.Instances))
	var order []int

	var path []int

	var visit func(i int) error

	visit = func(i int) error {
		switch color[i] {
		case black:
			return nil
		case gray:
			// Found the cycle: trim path down to the repeated node.
			start := 0
			for j, p := range path {
				if p == i {
					start = j
					break
				}
			}

			cycle := append([]int{}, path[start:]...)
			return &CombinationalLoopError{Path: append(cycle, i)}
		}

		color[i] = gray
		path = append(path, i)

		inst := c.Instances[i]
		for _, nets := range inst.Inputs {
			for _, n := range nets {
				if dep, ok := c.combinationalDriverOf(n); ok {
					if err := visit(dep); err != nil {
						return err
					}
				}
			}
		}

		path = path[:len(path)-1]
		color[i] = black
		order = append(order, i)

		return nil
	}

	for i, inst := range c.Instances {
		if inst.Kind != primitive.KindNand {
			continue
		}

		if color[i] == white {
			if err := visit(i); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}
