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

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			df = dataframe.New([]time.Time{})
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero columns", func() {
			Expect(df.ColCount()).To(Equal(0))
		})

		It("has zero start and end dates", func() {
			Expect(df.Start().IsZero()).To(BeTrue())
			Expect(df.End().IsZero()).To(BeTrue())
		})

		It("does not error on trim", func() {
			df = df.Trim(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(df.Len()).To(Equal(0))
		})

		It("renders a placeholder table", func() {
			Expect(df.Table()).To(Equal("<NO DATA>"))
		})
	})

	Context("with 2 years of values and a single column", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			dates := make([]time.Time, 730)
			vals := make([]float64, 730)
			dt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			for idx := range dates {
				dates[idx] = dt
				dt = dt.AddDate(0, 0, 1)
				vals[idx] = float64(idx)
			}
			df = &dataframe.DataFrame{
				ColNames: []string{"Col1"},
				Dates:    dates,
				Vals:     [][]float64{vals},
			}
		})

		It("has length", func() {
			Expect(df.Len()).To(Equal(730))
		})

		It("has 1 column", func() {
			Expect(df.ColCount()).To(Equal(1))
		})

		It("finds columns by name", func() {
			Expect(df.ColIndex("Col1")).To(Equal(0))
			Expect(df.ColIndex("Missing")).To(Equal(-1))

			_, err := df.Column("Missing")
			Expect(err).To(MatchError(dataframe.ErrColumnMissing))
		})

		It("rejects columns of the wrong length", func() {
			_, err := df.Insert("Short", []float64{1, 2})
			Expect(err).To(MatchError(dataframe.ErrColumnLength))
			Expect(df.ColCount()).To(Equal(1))
		})

		It("replaces a column with the same name", func() {
			col := make([]float64, 730)
			df, err := df.Insert("Col1", col)
			Expect(err).NotTo(HaveOccurred())
			Expect(df.ColCount()).To(Equal(1))
			Expect(df.Vals[0][10]).To(Equal(0.0))
		})

		It("copies deeply", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 99
			Expect(df.Vals[0][0]).To(Equal(0.0))
		})

		It("lags values", func() {
			lagged := df.Lag(2)
			Expect(math.IsNaN(lagged.Vals[0][0])).To(BeTrue())
			Expect(math.IsNaN(lagged.Vals[0][1])).To(BeTrue())
			Expect(lagged.Vals[0][2]).To(Equal(0.0))
			Expect(lagged.Vals[0][729]).To(Equal(727.0))
			Expect(df.Vals[0][0]).To(Equal(0.0))
		})

		DescribeTable("trims values by date range", func(a, b time.Time, expectedLen int, expectedA, expectedB time.Time) {
			df = df.Trim(a, b)
			Expect(df.Len()).To(Equal(expectedLen))
			if expectedLen > 0 {
				Expect(df.Start()).To(Equal(expectedA))
				Expect(df.End()).To(Equal(expectedB))
			}
		},
			Entry("When the range is before the dataframe", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), 0, time.Time{}, time.Time{}),
			Entry("When the range is after the dataframe", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 0, time.Time{}, time.Time{}),
			Entry("When end is before begin", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0, time.Time{}, time.Time{}),
			Entry("When the range covers a leap year", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), 366, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)),
			Entry("When the range overlaps the start", time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC), 10, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)),
		)

		It("selects columns", func() {
			df.Fill("Ones", 1)
			sel, err := df.Select("Ones")
			Expect(err).NotTo(HaveOccurred())
			Expect(sel.ColNames).To(Equal([]string{"Ones"}))
			Expect(sel.Vals[0][100]).To(Equal(1.0))

			_, err = df.Select("Nope")
			Expect(err).To(MatchError(dataframe.ErrColumnMissing))
		})
	})

	Context("when rendering a table", func() {
		It("shows NaN as --", func() {
			df := &dataframe.DataFrame{
				Dates:    []time.Time{time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)},
				ColNames: []string{"MA5"},
				Vals:     [][]float64{{math.NaN()}},
			}
			out := df.Table()
			Expect(out).To(ContainSubstring("2021-01-04"))
			Expect(out).To(ContainSubstring("--"))
		})
	})
})
