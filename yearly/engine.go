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

package yearly

import (
	"fmt"
	"strings"
	"time"

	"github.com/penny-vault/indexstat/metrics"
	"github.com/rs/zerolog/log"
)

// ReturnPolicy selects which daily return series feeds the volatility
// calculation. Each policy has a fixed standard deviation convention.
type ReturnPolicy int

const (
	// DailyChange uses the pre-supplied daily change% column with the
	// population standard deviation
	DailyChange ReturnPolicy = iota

	// LogReturn uses ln(close[t]/close[t-1]) within the year with the sample
	// standard deviation
	LogReturn
)

// ParseReturnPolicy converts the command line name of a policy
func ParseReturnPolicy(name string) (ReturnPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "change", "daily_change":
		return DailyChange, nil
	case "log", "log_return":
		return LogReturn, nil
	default:
		return DailyChange, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func (p ReturnPolicy) String() string {
	switch p {
	case LogReturn:
		return "log"
	default:
		return "change"
	}
}

// Convention returns the standard deviation convention paired with the policy
func (p ReturnPolicy) Convention() metrics.StdDevConvention {
	if p == LogReturn {
		return metrics.Sample
	}
	return metrics.Population
}

// Options controls the per-year calculation
type Options struct {
	RiskFreeRate float64 // percent
	TradingDays  int
	Policy       ReturnPolicy
}

// DefaultOptions returns a 3% risk free rate, 252 trading days and the daily
// change policy
func DefaultOptions() Options {
	return Options{
		RiskFreeRate: metrics.DefaultRiskFreeRate,
		TradingDays:  metrics.DefaultTradingDays,
		Policy:       DailyChange,
	}
}

// YearMetrics are the statistics of one calendar year. Return and volatility
// are in percent.
type YearMetrics struct {
	Year           int       `json:"year"`
	LastTradingDay time.Time `json:"lastTradingDay"`
	Close          float64   `json:"close"`
	Records        int       `json:"records"`

	// Row and PriorRow are the sheet rows of this and the previous year's last
	// trading day; PriorRow is 0 when there is no previous year
	Row      int `json:"-"`
	PriorRow int `json:"-"`

	AnnualReturn Metric `json:"annualReturnPercent"`
	Volatility   Metric `json:"annualizedVolatilityPercent"`
	Sharpe       Metric `json:"sharpeRatio"`
}

// Compute derives the metrics of every year in the series in ascending year
// order. The first year, and any year whose previous calendar year has no
// records, has an undefined annual return.
func (s *Series) Compute(opts Options) ([]*YearMetrics, error) {
	if opts.TradingDays <= 0 {
		return nil, ErrInvalidTradingDay
	}

	res := make([]*YearMetrics, 0, len(s.Years))
	for _, year := range s.Years {
		bucket := s.Buckets[year]
		last := bucket.LastTradingDay()

		ym := &YearMetrics{
			Year:           year,
			LastTradingDay: last.Date,
			Close:          last.Close,
			Records:        len(bucket.Records),
			Row:            last.Row,
		}

		ym.AnnualReturn = Undefined("no prior year")
		if prior := s.Bucket(year - 1); prior != nil {
			priorLast := prior.LastTradingDay()
			ym.PriorRow = priorLast.Row
			ym.AnnualReturn = Metric{
				Value:      metrics.AnnualReturn(last.Close, priorLast.Close),
				Provenance: fmt.Sprintf("(%g / %g - 1) * 100", last.Close, priorLast.Close),
			}
		}

		ym.Volatility = volatility(bucket, opts)

		ym.Sharpe = Metric{
			Value:      metrics.SharpeRatio(ym.AnnualReturn.Value, ym.Volatility.Value, opts.RiskFreeRate),
			Provenance: fmt.Sprintf("(%s - %g) / %s", ym.AnnualReturn.Format(4), opts.RiskFreeRate, ym.Volatility.Format(4)),
		}

		log.Trace().Int("Year", year).Str("Return", ym.AnnualReturn.String()).Str("Volatility", ym.Volatility.String()).Str("Sharpe", ym.Sharpe.String()).Msg("computed year metrics")

		res = append(res, ym)
	}

	return res, nil
}

func volatility(bucket *YearBucket, opts Options) Metric {
	convention := opts.Policy.Convention()

	switch opts.Policy {
	case LogReturn:
		returns := metrics.LogReturns(bucket.Closes())
		vol := metrics.AnnualizedVolatility(returns, opts.TradingDays, convention) * 100
		return Metric{
			Value:      vol,
			Provenance: fmt.Sprintf("STDEV.S(LN(P[t]/P[t-1]) over %d returns) * SQRT(%d) * 100", len(returns), opts.TradingDays),
		}
	default:
		changes := bucket.DailyChanges()
		return Metric{
			Value:      metrics.AnnualizedVolatility(changes, opts.TradingDays, convention),
			Provenance: fmt.Sprintf("STDEV.P(daily change %% over %d days) * SQRT(%d)", len(changes), opts.TradingDays),
		}
	}
}
