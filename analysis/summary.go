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

// Package analysis runs the spreadsheet reports. Every pipeline processes the
// sheets of one workbook in order; a sheet that fails is logged and skipped
// while the rest continue.
package analysis

import (
	"io"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/indexstat/common"
	"github.com/penny-vault/indexstat/dataframe"
	"github.com/penny-vault/indexstat/workbook"
	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
)

// SheetResult is the outcome of one sheet
type SheetResult struct {
	Sheet string `json:"sheet"`

	// Err is set when the sheet was skipped
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`

	Years      []*yearly.YearMetrics `json:"years,omitempty"`
	Spans      []*yearly.SpanReturn  `json:"spans,omitempty"`
	Indicators *IndicatorSummary     `json:"indicators,omitempty"`
	Charts     []string              `json:"charts,omitempty"`

	// Frame holds the per-row or per-year values for console output
	Frame *dataframe.DataFrame `json:"-"`
}

// Summary is the outcome of a pipeline run over one workbook
type Summary struct {
	Input  string         `json:"input"`
	Output string         `json:"output"`
	Digest string         `json:"digest"`
	Sheets []*SheetResult `json:"sheets"`
}

// Processed counts the sheets that were written
func (s *Summary) Processed() int {
	n := 0
	for _, sheet := range s.Sheets {
		if sheet.Err == nil {
			n++
		}
	}
	return n
}

// Skipped counts the sheets that failed
func (s *Summary) Skipped() int {
	return len(s.Sheets) - s.Processed()
}

// WriteJSON writes the summary as indented JSON
func (s *Summary) WriteJSON(w io.Writer) error {
	for _, sheet := range s.Sheets {
		if sheet.Err != nil {
			sheet.Error = sheet.Err.Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

type sheetFunc func(wb *workbook.Workbook, sheet string) (*SheetResult, error)

// run opens input, applies fn to every sheet and saves the result to output
func run(input, output, title string, fn sheetFunc) (*Summary, error) {
	digest, err := common.FileDigest(input)
	if err != nil {
		return nil, err
	}

	wb, err := workbook.Open(input)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	summary := &Summary{
		Input:  input,
		Output: output,
		Digest: digest,
		Sheets: make([]*SheetResult, 0),
	}

	for _, sheet := range wb.Sheets() {
		start := time.Now()
		res, err := fn(wb, sheet)
		if err != nil {
			log.Warn().Str("Sheet", sheet).Err(err).Msg("skipping sheet")
			res = &SheetResult{Sheet: sheet, Err: err}
		} else {
			log.Info().Str("Sheet", sheet).Dur("Elapsed", time.Since(start)).Msg("processed sheet")
		}
		summary.Sheets = append(summary.Sheets, res)
	}

	if err := wb.Save(output, title, digest); err != nil {
		return summary, err
	}

	return summary, nil
}

// fraction converts a percent to a fraction keeping NaN
func fraction(percent float64) float64 {
	if math.IsNaN(percent) {
		return percent
	}
	return percent / 100
}
