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

package analysis

import (
	"fmt"

	"github.com/penny-vault/indexstat/workbook"
	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
)

// RecentOptions configure the recent N-year report
type RecentOptions struct {
	Spans  []int
	Output string
}

// Recent appends one column per span holding the compound annual return from
// the close N years before the latest year to the latest close. Values are
// written into the first data row.
func Recent(input string, opts RecentOptions) (*Summary, error) {
	if opts.Output == "" {
		opts.Output = workbook.OutputPath(input, "近几年年化收益率")
	}
	if len(opts.Spans) == 0 {
		opts.Spans = yearly.DefaultSpans
	}

	return run(input, opts.Output, "recent annualized returns", func(wb *workbook.Workbook, name string) (*SheetResult, error) {
		return recentSheet(wb, name, opts.Spans)
	})
}

func recentSheet(wb *workbook.Workbook, name string, spans []int) (*SheetResult, error) {
	sheet, err := wb.ReadSheet(name, workbook.DefaultResolver, workbook.FieldDate, workbook.FieldClose)
	if err != nil {
		return nil, err
	}

	series, err := yearly.Partition(sheet.Records())
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}

	results, err := series.RecentReturns(spans)
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(results))
	for ii, sr := range results {
		headers[ii] = sr.Label()
	}

	first, err := wb.AppendHeaders(name, sheet.LastCol, headers...)
	if err != nil {
		return nil, err
	}

	closeCol := sheet.ColumnLetter(workbook.FieldClose)
	const writeRow = 2
	for ii, sr := range results {
		cell := workbook.CellName(first+ii, writeRow)
		if err := wb.SetValue(name, cell, sr.Return.Value); err != nil {
			return nil, err
		}

		if !sr.Return.Valid() {
			if err := wb.SetNote(name, cell, sr.Return.Provenance); err != nil {
				return nil, err
			}
			continue
		}

		formula := fmt.Sprintf("(%[1]s%[2]d/%[1]s%[3]d)^(1/%[4]d)-1", closeCol, sr.EndRow, sr.StartRow, sr.Years)
		if err := wb.SetFormula(name, cell, formula); err != nil {
			return nil, err
		}
		if err := wb.SetStyle(name, cell, cell, workbook.StylePercent); err != nil {
			return nil, err
		}
	}

	log.Debug().Str("Sheet", name).Int("LatestYear", series.Latest().Date.Year()).Int("Spans", len(results)).Msg("wrote recent returns")

	return &SheetResult{
		Sheet: name,
		Spans: results,
	}, nil
}
