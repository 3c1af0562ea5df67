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

package vhdl

import "text/template"

// designTemplate is deliberately simple: nearly
// all formatting decisions (comma placement, per-port/signal/process text)
// are resolved in Go before Execute, so the template itself is a flat fill
// rather than a second place control flow can diverge from the model.
var designTemplate = template.Must(template.New("design").Parse(`library IEEE;
use IEEE.STD_LOGIC_1164.ALL;
use IEEE.NUMERIC_STD.ALL;

entity {{.EntityName}} is
    port (
{{.PortsBlock}}
    );
end entity {{.EntityName}};

architecture rtl of {{.EntityName}} is
{{.SignalsBlock}}
begin
{{.AssignsBlock}}
{{.ProcessesBlock}}
end architecture rtl;
`))

var tclTemplate = template.Must(template.New("tcl").Parse(`# Quartus/Modelsim project scaffold for {{.EntityName}}.
# No VHDL compilation is performed by hdlc; this is a template fill only.
project_new {{.EntityName}} -overwrite
set_global_assignment -name TOP_LEVEL_ENTITY {{.EntityName}}
set_global_assignment -name VHDL_FILE {{.EntityName}}.vhd
{{range .Extra}}set_global_assignment -name VHDL_FILE {{.}}
{{end}}project_close
`))

var testbenchTemplate = template.Must(template.New("tb").Parse(`library IEEE;
use IEEE.STD_LOGIC_1164.ALL;

entity {{.EntityName}}_tb is
end entity {{.EntityName}}_tb;

architecture sim of {{.EntityName}}_tb is
{{.SignalsBlock}}
begin
    dut : entity work.{{.EntityName}}
        port map (
{{.PortMapBlock}}
        );

    clk_process : process
    begin
        clk <= '0';
        wait for 5 ns;
        clk <= '1';
        wait for 5 ns;
    end process;

    stimulus : process
    begin
{{.StimulusBlock}}
        wait;
    end process;
end architecture sim;
`))
