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

// Package indexdoc turns an index metadata sheet into one markdown document per
// index. The sheet has two header rows: the first names the plain fields and
// the titles of grouped blocks, the second holds the year and period labels of
// those blocks.
package indexdoc

import (
	"fmt"
	"regexp"
	"strings"
)

// Block titles used in the first header row
const (
	TitleYearReturns    = "指定年份年收益(%)"
	TitleYearVolatility = "指定年份年波动率(%)"
	TitleRecentReturns  = "基日以来近几年年化收益(%)"
)

// Main fields rendered as sections in this order
const (
	FieldShortName  = "指数简称"
	FieldBaseDate   = "基日"
	FieldLaunchDate = "发布日期"
	FieldAvgReturn  = "基日以来全部年份年平均收益(%)"
)

var MainFields = []string{
	FieldShortName,
	"指数代码",
	"指数名称",
	"样本数量",
	"选样范围",
	"选样指标",
	"计算方式",
	"权重上限",
	"调样周期",
	"基点",
	FieldBaseDate,
	FieldLaunchDate,
	FieldAvgReturn,
}

var (
	yearLabel   = regexp.MustCompile(`^\d{4}$`)
	periodLabel = regexp.MustCompile(`^近\d+年$`)
)

// Block is a run of adjacent columns sharing a title, such as one column per
// year
type Block struct {
	Title  string
	Labels []string
	Start  int
}

// Values returns the cells of row under the block; short rows yield ""
func (b Block) Values(row []string) []string {
	vals := make([]string, len(b.Labels))
	for ii := range b.Labels {
		if col := b.Start + ii; col < len(row) {
			vals[ii] = row[col]
		}
	}
	return vals
}

// Layout describes where every field and block sits in the sheet
type Layout struct {
	Headers    []string
	Fields     map[string]int
	Returns    Block
	Volatility Block
	Recent     Block
}

// ParseLayout combines the two header rows. A column takes its second row
// label when present, otherwise its first row text unless that text is a
// block title. The first run of year labels is the return block, the second
// the volatility block; the first run of recent period labels is the recent
// block.
func ParseLayout(rows [][]string) (*Layout, error) {
	if len(rows) < 3 {
		return nil, fmt.Errorf("%w: got %d rows", ErrHeaderTooShort, len(rows))
	}

	first := rows[0]
	second := rows[1]
	width := len(first)
	if len(second) > width {
		width = len(second)
	}

	layout := &Layout{
		Headers: make([]string, width),
		Fields:  make(map[string]int),
	}

	for ii := 0; ii < width; ii++ {
		label := cellAt(second, ii)
		if label == "" {
			label = cellAt(first, ii)
			if isBlockTitle(label) {
				label = ""
			}
		}
		layout.Headers[ii] = label
	}

	for _, field := range MainFields {
		for ii, h := range layout.Headers {
			if h == field {
				layout.Fields[field] = ii
				break
			}
		}
	}

	years := runs(layout.Headers, yearLabel)
	if len(years) == 0 {
		return nil, ErrYearColumnsNotFound
	}

	layout.Returns = years[0]
	layout.Returns.Title = blockTitle(first, years[0].Start, TitleYearReturns)
	if len(years) > 1 {
		layout.Volatility = years[1]
	}
	layout.Volatility.Title = blockTitle(first, layout.Volatility.Start, TitleYearVolatility)

	if periods := runs(layout.Headers, periodLabel); len(periods) > 0 {
		layout.Recent = periods[0]
	}
	layout.Recent.Title = blockTitle(first, layout.Recent.Start, TitleRecentReturns)

	return layout, nil
}

// Cell returns the trimmed value of field in row, or "" when absent
func (l *Layout) Cell(row []string, field string) string {
	col, ok := l.Fields[field]
	if !ok {
		return ""
	}
	return cellAt(row, col)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlockTitle(s string) bool {
	return s == TitleYearReturns || s == TitleYearVolatility || s == TitleRecentReturns
}

// blockTitle prefers the first row text above the block
func blockTitle(first []string, start int, fallback string) string {
	if t := cellAt(first, start); isBlockTitle(t) {
		return t
	}
	return fallback
}

// runs finds runs of adjacent headers matching re. A label repeating within
// a run starts a new one so back to back year blocks are told apart.
func runs(headers []string, re *regexp.Regexp) []Block {
	var blocks []Block
	var cur *Block
	seen := make(map[string]bool)

	for ii, h := range headers {
		if !re.MatchString(h) {
			cur = nil
			continue
		}
		if cur == nil || seen[h] {
			blocks = append(blocks, Block{Start: ii})
			cur = &blocks[len(blocks)-1]
			seen = make(map[string]bool)
		}
		seen[h] = true
		cur.Labels = append(cur.Labels, h)
	}

	return blocks
}
