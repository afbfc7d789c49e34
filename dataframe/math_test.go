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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/indexstat/dataframe"
)

var _ = Describe("When computing the SMA", func() {
	Context("with 5 values", func() {
		var (
			df1 *dataframe.DataFrame
		)

		BeforeEach(func() {
			df1 = &dataframe.DataFrame{
				Dates: []time.Time{
					time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.April, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC),
				},
				Vals:     [][]float64{{1.0, 2.0, 3.0, 4.0, 5.0}},
				ColNames: []string{"test"},
			}
		})

		It("yields all NaN for lookback of 0", func() {
			df, err := df1.SMA("test", "sma", 0)
			Expect(err).NotTo(HaveOccurred())
			col, err := df.Column("sma")
			Expect(err).NotTo(HaveOccurred())
			for _, v := range col {
				Expect(math.IsNaN(v)).Should(BeTrue())
			}
		})

		It("yields correct results for lookback of 2", func() {
			df, err := df1.SMA("test", "sma", 2)
			Expect(err).NotTo(HaveOccurred())
			col, err := df.Column("sma")
			Expect(err).NotTo(HaveOccurred())

			Expect(col).To(HaveLen(5))
			Expect(math.IsNaN(col[0])).Should(BeTrue())
			Expect(math.IsNaN(col[1])).Should(BeTrue())
			Expect(col[2]).Should(BeNumerically("~", 1.5))
			Expect(col[3]).Should(BeNumerically("~", 2.5))
			Expect(col[4]).Should(BeNumerically("~", 3.5))
		})

		It("yields all NaN when the lookback exceeds the data", func() {
			df, err := df1.SMA("test", "sma", 6)
			Expect(err).NotTo(HaveOccurred())
			col, err := df.Column("sma")
			Expect(err).NotTo(HaveOccurred())
			for _, v := range col {
				Expect(math.IsNaN(v)).Should(BeTrue())
			}
		})

		It("errors for a missing source column", func() {
			_, err := df1.SMA("missing", "sma", 2)
			Expect(err).To(MatchError(dataframe.ErrColumnMissing))
		})
	})
})

var _ = Describe("When deriving columns", func() {
	var df *dataframe.DataFrame

	BeforeEach(func() {
		df = &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 6, 0, 0, 0, 0, time.UTC),
			},
			ColNames: []string{"high", "low"},
			Vals:     [][]float64{{10, 12, 11}, {8, 12, 9}},
		}
	})

	It("computes row-wise values", func() {
		df = df.Derive("range", func(_ int, vals map[string]float64) float64 {
			return vals["high"] - vals["low"]
		})
		col, err := df.Column("range")
		Expect(err).NotTo(HaveOccurred())
		Expect(col).To(Equal([]float64{2, 0, 2}))
	})

	It("flags crosses and treats NaN as false", func() {
		df.Vals[1][2] = math.NaN()
		df, err := df.Cross("high", "low", "gt", dataframe.Greater)
		Expect(err).NotTo(HaveOccurred())
		df, err = df.Cross("high", "low", "lt", dataframe.Less)
		Expect(err).NotTo(HaveOccurred())

		gt, _ := df.Column("gt")
		lt, _ := df.Column("lt")
		Expect(gt).To(Equal([]float64{1, 0, 0}))
		Expect(lt).To(Equal([]float64{0, 0, 0}))
	})

	It("fills a constant column", func() {
		df = df.Fill("const", 3.5)
		col, _ := df.Column("const")
		Expect(col).To(Equal([]float64{3.5, 3.5, 3.5}))
	})
})
