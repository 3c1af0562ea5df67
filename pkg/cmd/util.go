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

package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hdlverse/hdlc/pkg/hdlerr"
)

// GetFlag gets an expected bool flag, or prints the error and exits with
// status 2 if the flag doesn't exist.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or prints the error and exits
// with status 2 if the flag doesn't exist.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint flag, or prints the error and exits with
// status 2 if the flag doesn't exist.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string-array flag, or prints the error
// and exits with status 2 if the flag doesn't exist.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// searchPath reads the persistent --search-path flag from cmd or any of
// its ancestors (cobra flags declared on a parent are visible on the
// child's FlagSet once parsed).
func searchPath(cmd *cobra.Command) []string {
	v, err := cmd.Flags().GetStringArray("search-path")
	if err != nil {
		return nil
	}

	return v
}

// reportErrors prints every compiler error to stderr, one per line, in the
// same "location: kind: message" shape hdlerr.Error.Error() renders,
// deduplicating identical messages before logging each one.
func reportErrors(errs []*hdlerr.Error) {
	seen := make(map[string]bool, len(errs))

	for _, e := range errs {
		msg := e.Error()
		if seen[msg] {
			continue
		}

		seen[msg] = true

		log.Errorln(msg)
	}
}

// isInteractive reports whether stdout is an interactive terminal. No
// command calls it; every report is written as plain text.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
