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
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	compactDateMin = 19000000
	compactDateMax = 25000000

	// largest serial excel accepts (9999-12-31)
	maxExcelSerial = 2958465
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
}

// ParseDate converts a raw cell value into a calendar date. Accepted forms
// are YYYYMMDD (number or text), excel serial numbers and the layouts in
// dateLayouts. Impossible calendar dates such as 20230230 are rejected.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	if num, err := strconv.ParseFloat(s, 64); err == nil {
		return parseNumericDate(num, raw)
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func parseNumericDate(num float64, raw string) (time.Time, error) {
	switch {
	case num > compactDateMin && num < compactDateMax:
		if num != math.Trunc(num) {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		n := int(num)
		year, month, day := n/10000, (n/100)%100, n%100
		dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if dt.Year() != year || int(dt.Month()) != month || dt.Day() != day {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return dt, nil
	case num >= 1 && num <= maxExcelSerial:
		dt, err := excelize.ExcelDateToTime(num, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %s", ErrInvalidDate, raw, err)
		}
		return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
}

// ParseNumber reads a numeric cell, tolerating whitespace, thousands
// separators and a trailing percent sign (the number is not rescaled)
func ParseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return math.NaN(), fmt.Errorf("%w: empty", ErrInvalidNumber)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return v, nil
}

// NumberOrNaN is ParseNumber with failures mapped to NaN
func NumberOrNaN(raw string) float64 {
	v, err := ParseNumber(raw)
	if err != nil {
		return math.NaN()
	}
	return v
}
