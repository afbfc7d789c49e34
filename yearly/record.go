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
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// TradingRecord is a single parsed row of daily index data
type TradingRecord struct {
	Date  time.Time
	Close float64

	// DailyChangePercent is NaN when the source has no change column
	DailyChangePercent float64

	// Row is the 1-based spreadsheet row the record was read from; 0 when
	// the record did not come from a sheet
	Row int
}

// YearBucket holds every trading record of one calendar year ordered by
// date ascending. Buckets are never empty.
type YearBucket struct {
	Year    int
	Records []*TradingRecord
}

// Series is the set of valid trading records of one sheet partitioned by
// calendar year
type Series struct {
	Years   []int
	Buckets map[int]*YearBucket

	// Records is every valid record sorted by date ascending
	Records []*TradingRecord
}

// LastTradingDay returns the record with the maximum date in the bucket
func (b *YearBucket) LastTradingDay() *TradingRecord {
	return b.Records[len(b.Records)-1]
}

// Closes returns the close price of every record in the bucket
func (b *YearBucket) Closes() []float64 {
	closes := make([]float64, len(b.Records))
	for ii, rec := range b.Records {
		closes[ii] = rec.Close
	}
	return closes
}

// DailyChanges returns the daily change percent of every record that has one
func (b *YearBucket) DailyChanges() []float64 {
	changes := make([]float64, 0, len(b.Records))
	for _, rec := range b.Records {
		if !math.IsNaN(rec.DailyChangePercent) && !math.IsInf(rec.DailyChangePercent, 0) {
			changes = append(changes, rec.DailyChangePercent)
		}
	}
	return changes
}

// Valid reports whether the record has a usable date and a positive close
func (r *TradingRecord) Valid() bool {
	return !r.Date.IsZero() && !math.IsNaN(r.Close) && !math.IsInf(r.Close, 0) && r.Close > 0
}

// Partition drops invalid records, sorts the rest by date and groups them by
// calendar year. Sorting is stable so when two rows share a date the later
// source row becomes the last trading day of its year.
func Partition(records []*TradingRecord) (*Series, error) {
	valid := make([]*TradingRecord, 0, len(records))
	for _, rec := range records {
		if rec == nil || !rec.Valid() {
			if rec != nil {
				log.Trace().Int("Row", rec.Row).Msg("dropping invalid trading record")
			}
			continue
		}
		valid = append(valid, rec)
	}

	if len(valid) == 0 {
		return nil, ErrEmptyInput
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})

	series := &Series{
		Years:   make([]int, 0),
		Buckets: make(map[int]*YearBucket),
		Records: valid,
	}

	for _, rec := range valid {
		year := rec.Date.Year()
		bucket, ok := series.Buckets[year]
		if !ok {
			bucket = &YearBucket{Year: year}
			series.Buckets[year] = bucket
			series.Years = append(series.Years, year)
		}
		bucket.Records = append(bucket.Records, rec)
	}

	log.Debug().Int("Records", len(valid)).Int("Dropped", len(records)-len(valid)).Int("Years", len(series.Years)).Msg("partitioned records by year")

	return series, nil
}

// Latest returns the most recent valid record
func (s *Series) Latest() *TradingRecord {
	return s.Records[len(s.Records)-1]
}

// Bucket returns the bucket for year, or nil when the year has no records
func (s *Series) Bucket(year int) *YearBucket {
	return s.Buckets[year]
}

// YearEnds returns the last trading day of every year in ascending order
func (s *Series) YearEnds() []*TradingRecord {
	ends := make([]*TradingRecord, len(s.Years))
	for ii, year := range s.Years {
		ends[ii] = s.Buckets[year].LastTradingDay()
	}
	return ends
}

// Closes returns the close of every valid record in date order
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Records))
	for ii, rec := range s.Records {
		closes[ii] = rec.Close
	}
	return closes
}
