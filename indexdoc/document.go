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

package indexdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/penny-vault/indexstat/workbook"
)

// EmptyValue is written for a main field without a value
const EmptyValue = "无"

var (
	percentLow  = decimal.NewFromInt(-10)
	percentHigh = decimal.NewFromInt(100)
)

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// Document is the markdown of one index
type Document struct {
	ShortName string
	FileName  string
	Markdown  string
}

// FileName is the document file name for an index short name with characters
// that are invalid in file names replaced by _
func FileName(shortName string) string {
	return unsafeChars.Replace(fmt.Sprintf("认识“%s”指数.md", shortName))
}

// Percent formats a ratio such as 0.1234 as 12.34%. Values that already carry
// a % sign, are not numbers or fall outside [-10, 100] are returned trimmed.
func Percent(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasSuffix(s, "%") {
		return s
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.LessThan(percentLow) || d.GreaterThan(percentHigh) {
		return s
	}

	return d.Shift(2).StringFixed(2) + "%"
}

// NormalizeDate rewrites any date encoding the workbook package understands
// as YYYY-MM-DD; other text is returned trimmed
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	dt, err := workbook.ParseDate(s)
	if err != nil {
		return s
	}
	return dt.Format("2006-01-02")
}

// Build renders the document of one data row. Rows that are blank or have no
// short name produce no document.
func (l *Layout) Build(row []string) (*Document, bool) {
	blank := true
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, false
	}

	shortName := l.Cell(row, FieldShortName)
	if _, ok := l.Fields[FieldShortName]; !ok {
		shortName = cellAt(row, 0)
	}
	if shortName == "" {
		return nil, false
	}

	md := &strings.Builder{}
	for _, field := range MainFields {
		value := l.Cell(row, field)
		switch field {
		case FieldBaseDate, FieldLaunchDate:
			value = NormalizeDate(value)
		case FieldAvgReturn:
			value = Percent(value)
		}
		if value == "" {
			value = EmptyValue
		}
		fmt.Fprintf(md, "## %s\n\n%s\n\n", field, value)
	}

	for _, block := range []Block{l.Returns, l.Volatility, l.Recent} {
		fmt.Fprintf(md, "## %s\n\n", block.Title)
		md.WriteString(table(block.Labels, block.Values(row)))
	}

	return &Document{
		ShortName: shortName,
		FileName:  FileName(shortName),
		Markdown:  md.String(),
	}, true
}

// table renders a single row markdown table inside a horizontally scrolling div
func table(headers, values []string) string {
	if len(headers) == 0 {
		return "无数据\n\n"
	}

	formatted := make([]string, len(values))
	for ii, v := range values {
		formatted[ii] = Percent(v)
	}

	separator := make([]string, len(headers))
	for ii := range separator {
		separator[ii] = "---"
	}

	return fmt.Sprintf("<div style=\"overflow-x: auto;\">\n\n| %s |\n|%s|\n| %s |\n\n</div>\n\n",
		strings.Join(headers, " | "),
		strings.Join(separator, "|"),
		strings.Join(formatted, " | "))
}

// Generate reads the first sheet of input and writes one document per index
// into outDir, returning the written paths
func Generate(input, outDir string) ([]string, error) {
	wb, err := workbook.Open(input)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, workbook.ErrNoData
	}

	rows, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, err
	}

	layout, err := ParseLayout(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheets[0], err)
	}

	log.Debug().Str("Sheet", sheets[0]).
		Int("ReturnStart", layout.Returns.Start).Int("ReturnYears", len(layout.Returns.Labels)).
		Int("VolatilityStart", layout.Volatility.Start).Int("VolatilityYears", len(layout.Volatility.Labels)).
		Int("RecentStart", layout.Recent.Start).Int("RecentPeriods", len(layout.Recent.Labels)).
		Msg("parsed metadata layout")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}

	written := make([]string, 0, len(rows)-2)
	for _, row := range rows[2:] {
		doc, ok := layout.Build(row)
		if !ok {
			continue
		}

		path := filepath.Join(outDir, doc.FileName)
		if err := os.WriteFile(path, []byte(doc.Markdown), 0o644); err != nil {
			return written, errors.Wrapf(err, "write %s", path)
		}

		log.Info().Str("Index", doc.ShortName).Str("Path", path).Msg("wrote index document")
		written = append(written, path)
	}

	return written, nil
}
