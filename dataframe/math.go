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

package dataframe

import (
	"math"

	"github.com/penny-vault/indexstat/metrics"
)

// Derive computes a new column row by row. The lambda receives the row index
// and a map of every column value in that row; the result is inserted (or
// replaces an existing column) under name.
func (df *DataFrame) Derive(name string, lambda func(rowIdx int, vals map[string]float64) float64) *DataFrame {
	col := make([]float64, df.Len())
	row := make(map[string]float64, len(df.ColNames))

	for rowIdx := range df.Dates {
		for colIdx, colName := range df.ColNames {
			row[colName] = df.Vals[colIdx][rowIdx]
		}
		col[rowIdx] = lambda(rowIdx, row)
	}

	// lengths match by construction
	df, _ = df.Insert(name, col)
	return df
}

// Fill sets every row of a new column to val
func (df *DataFrame) Fill(name string, val float64) *DataFrame {
	col := make([]float64, df.Len())
	for idx := range col {
		col[idx] = val
	}
	df, _ = df.Insert(name, col)
	return df
}

// SMA adds a trailing simple moving average of src under name. The average at
// row i covers rows [i-lookback, i) so the current row is excluded; rows
// without a full lookback are NaN.
func (df *DataFrame) SMA(src, name string, lookback int) (*DataFrame, error) {
	vals, err := df.Column(src)
	if err != nil {
		return df, err
	}

	sma := make([]float64, len(vals))
	for rowIdx := range vals {
		sma[rowIdx] = metrics.MovingAverage(vals, lookback, rowIdx)
	}

	return df.Insert(name, sma)
}

// Cross adds a 0/1 column under name that is 1 where cmp(a, b) holds. Rows
// where either input is NaN are 0.
func (df *DataFrame) Cross(a, b, name string, cmp func(x, y float64) bool) (*DataFrame, error) {
	aVals, err := df.Column(a)
	if err != nil {
		return df, err
	}
	bVals, err := df.Column(b)
	if err != nil {
		return df, err
	}

	flags := make([]float64, len(aVals))
	for idx := range aVals {
		if !math.IsNaN(aVals[idx]) && !math.IsNaN(bVals[idx]) && cmp(aVals[idx], bVals[idx]) {
			flags[idx] = 1
		}
	}

	return df.Insert(name, flags)
}

// Greater is a Cross comparison
func Greater(x, y float64) bool { return x > y }

// Less is a Cross comparison
func Less(x, y float64) bool { return x < y }
