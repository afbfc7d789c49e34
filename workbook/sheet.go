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

package workbook

import (
	"fmt"
	"math"
	"strings"

	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
)

// Sheet is the parsed content of one worksheet with its header resolved
type Sheet struct {
	Name    string
	Header  []string
	Columns Columns

	// Rows holds the data rows; Rows[i] is spreadsheet row i+2
	Rows [][]string

	// LastCol is the 1-based index of the last used column
	LastCol int
}

// ReadSheet loads sheet and resolves its header row. Missing required fields
// or a sheet without data rows are reported as errors so the caller can skip
// the sheet.
func (wb *Workbook) ReadSheet(name string, resolver *Resolver, required ...Field) (*Sheet, error) {
	rows, err := wb.Rows(name)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoData, name)
	}

	sheet := &Sheet{
		Name:   name,
		Header: rows[0],
		Rows:   rows[1:],
	}

	for _, row := range rows {
		if len(row) > sheet.LastCol {
			sheet.LastCol = len(row)
		}
	}

	sheet.Columns, err = resolver.Resolve(sheet.Header, required...)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}

	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s has only a header", ErrNoData, name)
	}

	return sheet, nil
}

// RowNumber converts a data row index to its 1-based spreadsheet row
func (s *Sheet) RowNumber(idx int) int {
	return idx + 2
}

// LastRow is the 1-based spreadsheet row of the last data row
func (s *Sheet) LastRow() int {
	return s.RowNumber(len(s.Rows) - 1)
}

// Cell returns the raw text of field in data row idx, or "" when the field was
// not resolved or the row is short
func (s *Sheet) Cell(idx int, field Field) string {
	col, ok := s.Columns[field]
	if !ok || idx < 0 || idx >= len(s.Rows) {
		return ""
	}
	row := s.Rows[idx]
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Number parses field in data row idx; NaN when missing or invalid
func (s *Sheet) Number(idx int, field Field) float64 {
	return NumberOrNaN(s.Cell(idx, field))
}

// ColumnLetter returns the spreadsheet column letter of a resolved field
func (s *Sheet) ColumnLetter(field Field) string {
	col, ok := s.Columns[field]
	if !ok {
		return ""
	}
	return ColumnName(col + 1)
}

// Records converts the data rows into trading records. Rows with an invalid
// date or close are dropped; the change column is optional and NaN when absent.
func (s *Sheet) Records() []*yearly.TradingRecord {
	records := make([]*yearly.TradingRecord, 0, len(s.Rows))
	skipped := 0

	for idx := range s.Rows {
		date, err := ParseDate(s.Cell(idx, FieldDate))
		if err != nil {
			skipped++
			log.Trace().Str("Sheet", s.Name).Int("Row", s.RowNumber(idx)).Err(err).Msg("skipping row with invalid date")
			continue
		}

		closePrice := s.Number(idx, FieldClose)
		if math.IsNaN(closePrice) || closePrice <= 0 {
			skipped++
			log.Trace().Str("Sheet", s.Name).Int("Row", s.RowNumber(idx)).Msg("skipping row with invalid close")
			continue
		}

		records = append(records, &yearly.TradingRecord{
			Date:               date,
			Close:              closePrice,
			DailyChangePercent: s.Number(idx, FieldChangePercent),
			Row:                s.RowNumber(idx),
		})
	}

	if skipped > 0 {
		log.Debug().Str("Sheet", s.Name).Int("Skipped", skipped).Int("Kept", len(records)).Msg("dropped rows with invalid data")
	}

	return records
}
