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

// Package metrics holds the pure calculators shared by the yearly engine, the
// indicator report and the portfolio optimizer. Undefined results are NaN.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StdDevConvention selects the divisor used when computing a standard deviation
type StdDevConvention int

const (
	// Population divides by n; used for the pre-supplied daily change% series
	Population StdDevConvention = iota

	// Sample divides by n-1; used for return series derived from close prices
	Sample
)

// DefaultTradingDays is the number of trading periods in a year used to
// annualize daily statistics
const DefaultTradingDays = 252

// DefaultRiskFreeRate is the annual risk free rate in percent
const DefaultRiskFreeRate = 3.0

func (c StdDevConvention) String() string {
	switch c {
	case Population:
		return "population"
	case Sample:
		return "sample"
	default:
		return "unknown"
	}
}

// validPrice reports whether p can be used as a denominator or ratio term
func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}

// AnnualReturn computes the percent change from the prior year's last close
// to the current year's last close. NaN is returned when either price is
// missing or non-positive; a NaN result is distinct from a true 0% return.
func AnnualReturn(currentClose, priorClose float64) float64 {
	if !validPrice(currentClose) || !validPrice(priorClose) {
		return math.NaN()
	}
	return (currentClose/priorClose - 1) * 100
}

// StdDev computes the standard deviation of returns using the requested
// convention. Fewer than two observations yields NaN.
func StdDev(returns []float64, convention StdDevConvention) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}

	switch convention {
	case Sample:
		return stat.StdDev(returns, nil)
	default:
		return stat.PopStdDev(returns, nil)
	}
}

// AnnualizedVolatility scales the per-period standard deviation of returns by
// the square root of the number of periods per year. The result carries the
// same unit as returns (percent in, percent out).
func AnnualizedVolatility(returns []float64, periodsPerYear int, convention StdDevConvention) float64 {
	if periodsPerYear <= 0 {
		return math.NaN()
	}
	sd := StdDev(returns, convention)
	if math.IsNaN(sd) {
		return sd
	}
	return sd * math.Sqrt(float64(periodsPerYear))
}

// SharpeRatio is the excess return over the risk free rate divided by the
// volatility. All three arguments must share a unit. Volatility that is
// missing, zero or negative yields NaN.
func SharpeRatio(annualReturn, annualizedVolatility, riskFreeRate float64) float64 {
	if math.IsNaN(annualReturn) || math.IsNaN(annualizedVolatility) || annualizedVolatility <= 0 {
		return math.NaN()
	}
	return (annualReturn - riskFreeRate) / annualizedVolatility
}

// CompoundAnnualReturn computes (end/start)^(1/years) - 1 as a fraction.
// Missing endpoints are expected with short histories and return NaN.
func CompoundAnnualReturn(endPrice, startPrice float64, years int) float64 {
	if !validPrice(endPrice) || !validPrice(startPrice) || years <= 0 {
		return math.NaN()
	}
	return math.Pow(endPrice/startPrice, 1/float64(years)) - 1
}

// MovingAverage averages the window points immediately before idx; the
// point at idx itself is excluded. NaN is returned rather than a partial
// average when fewer than window prior points exist.
func MovingAverage(series []float64, window, idx int) float64 {
	if window <= 0 || idx < window || idx > len(series) {
		return math.NaN()
	}
	return stat.Mean(series[idx-window:idx], nil)
}

// MaxDrawdown returns the largest peak-to-trough decline of series as a
// fraction of the peak, found with a single running-peak pass. A monotonically
// increasing series has no drawdown.
func MaxDrawdown(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	peak := series[0]
	maxDD := 0.0
	for _, price := range series[1:] {
		if price > peak {
			peak = price
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - price) / peak; dd > maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

// MaxDrawdownPercent is MaxDrawdown expressed in percent
func MaxDrawdownPercent(series []float64) float64 {
	return MaxDrawdown(series) * 100
}

// PctReturns computes simple period returns (p[t]-p[t-1])/p[t-1] as fractions.
// Pairs with a non-positive denominator are skipped.
func PctReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	res := make([]float64, 0, len(prices)-1)
	for ii := 1; ii < len(prices); ii++ {
		if !validPrice(prices[ii-1]) || math.IsNaN(prices[ii]) {
			continue
		}
		res = append(res, (prices[ii]-prices[ii-1])/prices[ii-1])
	}
	return res
}

// LogReturns computes ln(p[t]/p[t-1]) for each consecutive pair of valid prices
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	res := make([]float64, 0, len(prices)-1)
	for ii := 1; ii < len(prices); ii++ {
		if !validPrice(prices[ii-1]) || !validPrice(prices[ii]) {
			continue
		}
		res = append(res, math.Log(prices[ii]/prices[ii-1]))
	}
	return res
}

// SimpleAnnualizedReturn scales the total return of prices linearly by the
// number of observed periods: total * periodsPerYear / (n-1).
func SimpleAnnualizedReturn(prices []float64, periodsPerYear int) float64 {
	if len(prices) < 2 || !validPrice(prices[0]) {
		return math.NaN()
	}
	total := (prices[len(prices)-1] - prices[0]) / prices[0]
	return total * float64(periodsPerYear) / float64(len(prices)-1)
}
