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

package util

import (
	"runtime"
	"sync"
)

// ParallelMap applies f to every index in [0,n) across a worker pool sized
// to GOMAXPROCS, and returns the results in the same order as the inputs
// regardless of which worker produced them. This backs the truth-table
// generator's claim that sharding work across goroutines never
// changes the observed ordering of rows.
func ParallelMap[T any](n uint, f func(i uint) T) []T {
	results := make([]T, n)

	if n == 0 {
		return results
	}

	workers := uint(runtime.GOMAXPROCS(0))
	if workers > n {
		workers = n
	}

	var (
		wg   sync.WaitGroup
		next uint
		mu   sync.Mutex
	)

	wg.Add(int(workers))

	for w := uint(0); w < workers; w++ {
		go func() {
			defer wg.Done()

			for {
				mu.Lock()
				if next >= n {
					mu.Unlock()
					return
				}

				i := next
				next++
				mu.Unlock()

				results[i] = f(i)
			}
		}()
	}

	wg.Wait()

	return results
}
