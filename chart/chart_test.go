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

package chart_test

import (
	"bytes"
	"math"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/indexstat/chart"
	"github.com/penny-vault/indexstat/yearly"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

var _ = Describe("Chart", func() {
	var years []*yearly.YearMetrics

	BeforeEach(func() {
		years = []*yearly.YearMetrics{
			{Year: 2020, Close: 100, AnnualReturn: yearly.Undefined("no prior year")},
			{Year: 2021, Close: 110, AnnualReturn: yearly.Metric{Value: 10}},
			{Year: 2022, Close: 99, AnnualReturn: yearly.Metric{Value: -10}},
		}
	})

	It("should render annual returns as a png", func() {
		buf, err := chart.AnnualReturns("test", years)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.HasPrefix(buf, pngMagic)).To(BeTrue())
	})

	It("should refuse to chart only undefined returns", func() {
		_, err := chart.AnnualReturns("test", years[:1])
		Expect(err).To(MatchError(chart.ErrNoData))
	})

	It("should write both charts for a sheet", func() {
		dir := GinkgoT().TempDir()
		paths, err := chart.WriteSheetCharts(dir, "创业板/指", years)
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(HaveLen(2))
		for _, p := range paths {
			info, err := os.Stat(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		}
	})

	It("should skip the return chart when no return is defined", func() {
		years[1].AnnualReturn.Value = math.NaN()
		years[2].AnnualReturn.Value = math.NaN()
		paths, err := chart.WriteSheetCharts(GinkgoT().TempDir(), "s", years)
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(HaveLen(1))
	})

	It("should replace unsafe file name characters", func() {
		Expect(chart.SafeName(`a/b\c:d*e?f"g<h>i|j`)).To(Equal("a_b_c_d_e_f_g_h_i_j"))
	})
})
