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

	"github.com/penny-vault/indexstat/metrics"
)

// DefaultSpans is the roster of look back periods used for recent returns
var DefaultSpans = []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21}

// SpanReturn is the compound annual return over the most recent N years.
// The value is a fraction, not a percent.
type SpanReturn struct {
	Years     int     `json:"years"`
	StartYear int     `json:"startYear"`
	Start     float64 `json:"startClose,omitempty"` // 0 when the start year has no data
	End       float64 `json:"endClose"`
	StartRow  int     `json:"-"`
	EndRow    int     `json:"-"`
	Return    Metric  `json:"annualizedReturn"`
}

// Label is the column header used for the span
func (r *SpanReturn) Label() string {
	return fmt.Sprintf("近%d年年化收益率", r.Years)
}

// RecentReturns computes the compound annual return for each span. The end
// price is the latest close; the start price is the last trading day close of
// the year span years before the latest year. A missing start year yields an
// undefined return rather than an error.
func (s *Series) RecentReturns(spans []int) ([]*SpanReturn, error) {
	latest := s.Latest()
	currentYear := latest.Date.Year()

	res := make([]*SpanReturn, 0, len(spans))
	for _, n := range spans {
		if n <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSpan, n)
		}

		sr := &SpanReturn{
			Years:     n,
			StartYear: currentYear - n,
			End:       latest.Close,
			EndRow:    latest.Row,
		}

		bucket := s.Bucket(sr.StartYear)
		if bucket == nil {
			sr.Return = Undefined(fmt.Sprintf("no data for %d", sr.StartYear))
			res = append(res, sr)
			continue
		}

		start := bucket.LastTradingDay()
		sr.Start = start.Close
		sr.StartRow = start.Row
		sr.Return = Metric{
			Value:      metrics.CompoundAnnualReturn(sr.End, sr.Start, n),
			Provenance: fmt.Sprintf("(%g / %g)^(1/%d) - 1", sr.End, sr.Start, n),
		}
		res = append(res, sr)
	}

	return res, nil
}
