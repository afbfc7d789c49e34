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

// Package workbook reads and writes the spreadsheet files the reports operate
// on. It resolves header synonyms, parses dates and numbers, and writes
// styled values, formulas and notes.
package workbook

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	// Author is written on every note added to a sheet
	Author = "indexstat"

	// DefaultColWidth is used for appended metric columns
	DefaultColWidth = 12

	highlightColor = "FF0000"

	// builtin excel number formats
	numFmtDecimal = 2  // 0.00
	numFmtPercent = 10 // 0.00%
)

// Style names the cell styles the reports use
type Style int

const (
	StyleHeader Style = iota
	StyleHighlight
	StyleHighlightPercent
	StyleHighlightDecimal
	StylePercent
	StyleDecimal
)

// Workbook is an open spreadsheet file
type Workbook struct {
	Path   string
	file   *excelize.File
	styles map[Style]int
}

// Open reads the workbook at path
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}

	log.Debug().Str("Path", path).Strs("Sheets", f.GetSheetList()).Msg("opened workbook")

	return &Workbook{
		Path:   path,
		file:   f,
		styles: make(map[Style]int),
	}, nil
}

// New creates an empty workbook whose first sheet is named sheet
func New(sheet string) (*Workbook, error) {
	f := excelize.NewFile()
	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, errors.Wrap(err, "rename default sheet")
		}
	}
	return &Workbook{file: f, styles: make(map[Style]int)}, nil
}

// File exposes the underlying excelize file
func (wb *Workbook) File() *excelize.File {
	return wb.file
}

// Close releases resources held by the workbook
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// Sheets lists the sheet names in workbook order
func (wb *Workbook) Sheets() []string {
	return wb.file.GetSheetList()
}

// AddSheet appends a sheet named name and fills it row by row
func (wb *Workbook) AddSheet(name string, rows [][]interface{}) error {
	if _, err := wb.file.NewSheet(name); err != nil {
		return errors.Wrapf(err, "create sheet %s", name)
	}
	return wb.WriteRows(name, rows)
}

// WriteRows writes rows starting at A1
func (wb *Workbook) WriteRows(sheet string, rows [][]interface{}) error {
	for ii, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, ii+1)
		if err != nil {
			return err
		}
		if err := wb.file.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d of %s", ii+1, sheet)
		}
	}
	return nil
}

// Rows returns the raw cell text of every row of sheet
func (wb *Workbook) Rows(sheet string) ([][]string, error) {
	if idx, err := wb.file.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := wb.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read rows of %s", sheet)
	}
	return rows, nil
}

// Save writes the workbook to path. The digest, when set, is stored in the
// document properties so the output can be traced to its input.
func (wb *Workbook) Save(path, title, digest string) error {
	props := &excelize.DocProperties{
		Creator:        Author,
		LastModifiedBy: Author,
		Title:          title,
		Modified:       time.Now().UTC().Format(time.RFC3339),
	}
	if digest != "" {
		props.Identifier = digest
		props.Description = "source blake3 " + digest
	}

	if err := wb.file.SetDocProps(props); err != nil {
		return errors.Wrap(err, "set document properties")
	}

	if err := wb.file.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save workbook %s", path)
	}

	log.Info().Str("Path", path).Msg("saved workbook")
	return nil
}

// OutputPath builds <dir>/<base>_<suffix>.xlsx next to input
func OutputPath(input, suffix string) string {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", base, suffix))
}

// CellName converts 1-based column and row numbers to an A1 reference
func CellName(col, row int) string {
	// only fails for non-positive coordinates which callers never pass
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		log.Panic().Err(err).Int("Col", col).Int("Row", row).Msg("invalid cell coordinates")
	}
	return name
}

// ColumnName converts a 1-based column number to its letter
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		log.Panic().Err(err).Int("Col", col).Msg("invalid column number")
	}
	return name
}

func (wb *Workbook) style(s Style) (int, error) {
	if id, ok := wb.styles[s]; ok {
		return id, nil
	}

	red := &excelize.Font{Color: highlightColor, Bold: true}
	var def *excelize.Style
	switch s {
	case StyleHeader:
		def = &excelize.Style{Font: &excelize.Font{Bold: true}}
	case StyleHighlight:
		def = &excelize.Style{Font: red}
	case StyleHighlightPercent:
		def = &excelize.Style{Font: red, NumFmt: numFmtPercent}
	case StyleHighlightDecimal:
		def = &excelize.Style{Font: red, NumFmt: numFmtDecimal}
	case StylePercent:
		def = &excelize.Style{NumFmt: numFmtPercent}
	case StyleDecimal:
		def = &excelize.Style{NumFmt: numFmtDecimal}
	default:
		return 0, fmt.Errorf("unknown style %d", s)
	}

	id, err := wb.file.NewStyle(def)
	if err != nil {
		return 0, errors.Wrap(err, "create style")
	}
	wb.styles[s] = id
	return id, nil
}

// SetStyle applies s to the rectangle between two cells
func (wb *Workbook) SetStyle(sheet, from, to string, s Style) error {
	id, err := wb.style(s)
	if err != nil {
		return err
	}
	return wb.file.SetCellStyle(sheet, from, to, id)
}

// SetValue writes a value. NaN is written as the text "--".
func (wb *Workbook) SetValue(sheet, cell string, value interface{}) error {
	if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		value = "--"
	}
	return wb.file.SetCellValue(sheet, cell, value)
}

// SetFormula attaches a formula to a cell; a leading = is dropped
func (wb *Workbook) SetFormula(sheet, cell, formula string) error {
	return wb.file.SetCellFormula(sheet, cell, strings.TrimPrefix(formula, "="))
}

// SetNote attaches a note to a cell
func (wb *Workbook) SetNote(sheet, cell, text string) error {
	return wb.file.AddComment(sheet, excelize.Comment{
		Cell:   cell,
		Author: Author,
		Text:   text,
	})
}

// SetRowHidden hides or shows a 1-based row
func (wb *Workbook) SetRowHidden(sheet string, row int, hidden bool) error {
	return wb.file.SetRowVisible(sheet, row, !hidden)
}

// SetColWidth sets the width of the 1-based columns [from, to]
func (wb *Workbook) SetColWidth(sheet string, from, to int, width float64) error {
	return wb.file.SetColWidth(sheet, ColumnName(from), ColumnName(to), width)
}

// AppendHeaders writes headers in the header row after the last used column
// and returns the 1-based column of the first one
func (wb *Workbook) AppendHeaders(sheet string, lastCol int, headers ...string) (int, error) {
	first := lastCol + 1
	for ii, h := range headers {
		cell := CellName(first+ii, 1)
		if err := wb.SetValue(sheet, cell, h); err != nil {
			return 0, err
		}
		if err := wb.SetStyle(sheet, cell, cell, StyleHeader); err != nil {
			return 0, err
		}
	}

	if len(headers) > 0 {
		if err := wb.SetColWidth(sheet, first, first+len(headers)-1, DefaultColWidth); err != nil {
			return 0, err
		}
	}

	return first, nil
}
