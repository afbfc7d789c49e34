// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	boundsTolerance = 1e-10
	maxBoundPasses  = 100
)

// AdjustToBounds clamps every weight into [lo, hi] and then spreads the
// residual 1-sum across the weights in proportion to how far each may still
// move. Passes repeat until the sum is within 1e-10 of one.
func AdjustToBounds(weights []float64, lo, hi float64) {
	for pass := 0; pass < maxBoundPasses; pass++ {
		for ii, w := range weights {
			weights[ii] = math.Max(lo, math.Min(hi, w))
		}

		residual := 1 - floats.Sum(weights)
		if math.Abs(residual) <= boundsTolerance {
			return
		}

		room := make([]float64, len(weights))
		for ii, w := range weights {
			if residual > 0 {
				room[ii] = hi - w
			} else {
				room[ii] = w - lo
			}
		}

		total := floats.Sum(room)
		if total <= 0 {
			return
		}

		for ii := range weights {
			weights[ii] += residual * room[ii] / total
		}
	}
}
