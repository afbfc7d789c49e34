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

package metrics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/indexstat/metrics"
)

var _ = Describe("Metrics", func() {
	Describe("when calculating annual return", func() {
		It("should be 10% for 110 over 100", func() {
			Expect(metrics.AnnualReturn(110, 100)).Should(BeNumerically("~", 10.0, 1e-12))
		})

		It("should be NaN without a prior close", func() {
			Expect(math.IsNaN(metrics.AnnualReturn(110, math.NaN()))).Should(BeTrue())
		})

		It("should be NaN for non-positive prices", func() {
			Expect(math.IsNaN(metrics.AnnualReturn(110, 0))).Should(BeTrue())
			Expect(math.IsNaN(metrics.AnnualReturn(-1, 100))).Should(BeTrue())
		})

		It("should report a true 0% return as zero", func() {
			Expect(metrics.AnnualReturn(100, 100)).Should(Equal(0.0))
		})
	})

	Describe("when calculating annualized volatility", func() {
		It("should be zero for constant returns", func() {
			returns := []float64{0.7, 0.7, 0.7, 0.7, 0.7}
			Expect(metrics.AnnualizedVolatility(returns, 252, metrics.Population)).Should(BeNumerically("~", 0, 1e-12))
			Expect(metrics.AnnualizedVolatility(returns, 252, metrics.Sample)).Should(BeNumerically("~", 0, 1e-12))
		})

		It("should be NaN with fewer than two points", func() {
			Expect(math.IsNaN(metrics.AnnualizedVolatility([]float64{1.2}, 252, metrics.Population))).Should(BeTrue())
			Expect(math.IsNaN(metrics.AnnualizedVolatility([]float64{}, 252, metrics.Sample))).Should(BeTrue())
		})

		It("should divide by n for the population convention", func() {
			// mean 2, squared deviations sum to 8 over 4 points
			returns := []float64{0, 2, 2, 4}
			Expect(metrics.AnnualizedVolatility(returns, 252, metrics.Population)).Should(BeNumerically("~", math.Sqrt(2)*math.Sqrt(252), 1e-9))
		})

		It("should divide by n-1 for the sample convention", func() {
			returns := []float64{0, 2, 2, 4}
			Expect(metrics.AnnualizedVolatility(returns, 252, metrics.Sample)).Should(BeNumerically("~", math.Sqrt(8.0/3.0)*math.Sqrt(252), 1e-9))
		})
	})

	Describe("when calculating the sharpe ratio", func() {
		It("should subtract the risk free rate", func() {
			Expect(metrics.SharpeRatio(13, 20, 3)).Should(BeNumerically("~", 0.5, 1e-12))
		})

		It("should be NaN for zero, negative or missing volatility", func() {
			Expect(math.IsNaN(metrics.SharpeRatio(13, 0, 3))).Should(BeTrue())
			Expect(math.IsNaN(metrics.SharpeRatio(13, -1, 3))).Should(BeTrue())
			Expect(math.IsNaN(metrics.SharpeRatio(13, math.NaN(), 3))).Should(BeTrue())
		})

		It("should be NaN when the return is missing", func() {
			Expect(math.IsNaN(metrics.SharpeRatio(math.NaN(), 20, 3))).Should(BeTrue())
		})
	})

	Describe("when calculating compound annual return", func() {
		It("should be the 7th root of 2 minus one for a doubling over 7 years", func() {
			Expect(metrics.CompoundAnnualReturn(200, 100, 7)).Should(BeNumerically("~", 0.104089513, 1e-8))
		})

		It("should equal the simple return over one year", func() {
			Expect(metrics.CompoundAnnualReturn(125, 100, 1)).Should(BeNumerically("~", 0.25, 1e-12))
		})

		It("should be NaN when an endpoint is missing", func() {
			Expect(math.IsNaN(metrics.CompoundAnnualReturn(200, math.NaN(), 7))).Should(BeTrue())
			Expect(math.IsNaN(metrics.CompoundAnnualReturn(0, 100, 7))).Should(BeTrue())
			Expect(math.IsNaN(metrics.CompoundAnnualReturn(200, 100, 0))).Should(BeTrue())
		})
	})

	Describe("when calculating a moving average", func() {
		series := []float64{10, 20, 30, 40, 50}

		It("should equal the prior point for a window of one", func() {
			for idx := 1; idx < len(series); idx++ {
				Expect(metrics.MovingAverage(series, 1, idx)).Should(Equal(series[idx-1]))
			}
		})

		It("should exclude the current point", func() {
			Expect(metrics.MovingAverage(series, 3, 4)).Should(BeNumerically("~", 30, 1e-12))
		})

		It("should be NaN instead of a partial average", func() {
			Expect(math.IsNaN(metrics.MovingAverage(series, 3, 2))).Should(BeTrue())
			Expect(math.IsNaN(metrics.MovingAverage(series, 1, 0))).Should(BeTrue())
		})

		It("should be NaN for a non-positive window", func() {
			Expect(math.IsNaN(metrics.MovingAverage(series, 0, 3))).Should(BeTrue())
		})
	})

	Describe("when calculating max drawdown", func() {
		It("should find the largest decline from the running peak", func() {
			Expect(metrics.MaxDrawdown([]float64{100, 120, 90, 130, 60})).Should(BeNumerically("~", 0.5385, 1e-4))
			Expect(metrics.MaxDrawdownPercent([]float64{100, 120, 90, 130, 60})).Should(BeNumerically("~", 53.846, 1e-3))
		})

		It("should be zero for a monotonically increasing series", func() {
			Expect(metrics.MaxDrawdown([]float64{1, 2, 3, 4, 5})).Should(Equal(0.0))
		})

		It("should be zero for short series", func() {
			Expect(metrics.MaxDrawdown([]float64{5})).Should(Equal(0.0))
			Expect(metrics.MaxDrawdown(nil)).Should(Equal(0.0))
		})
	})

	Describe("when deriving return series", func() {
		It("should compute simple returns", func() {
			Expect(metrics.PctReturns([]float64{100, 110, 99})).Should(HaveLen(2))
			ret := metrics.PctReturns([]float64{100, 110, 99})
			Expect(ret[0]).Should(BeNumerically("~", 0.1, 1e-12))
			Expect(ret[1]).Should(BeNumerically("~", -0.1, 1e-12))
		})

		It("should compute log returns and skip invalid prices", func() {
			ret := metrics.LogReturns([]float64{100, 0, 100, 200})
			Expect(ret).Should(HaveLen(1))
			Expect(ret[0]).Should(BeNumerically("~", math.Log(2), 1e-12))
		})

		It("should annualize the total return linearly", func() {
			prices := []float64{100, 101, 102, 103, 110}
			Expect(metrics.SimpleAnnualizedReturn(prices, 252)).Should(BeNumerically("~", 0.1*252/4, 1e-12))
		})
	})
})
