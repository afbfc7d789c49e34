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

// Package chart renders PNG charts of the yearly metrics of a sheet
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
	charts "github.com/vicanso/go-charts/v2"
)

var (
	ErrNoData = errors.New("no defined values to chart")
)

const (
	width  = 900
	height = 500
)

// AnnualReturns renders a bar chart of every year with a defined annual return
func AnnualReturns(title string, years []*yearly.YearMetrics) ([]byte, error) {
	labels := make([]string, 0, len(years))
	values := make([]float64, 0, len(years))
	for _, ym := range years {
		if !ym.AnnualReturn.Valid() {
			continue
		}
		labels = append(labels, strconv.Itoa(ym.Year))
		values = append(values, ym.AnnualReturn.Value)
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title, "annual return (%)"),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return p.Bytes()
}

// YearEndCloses renders a line chart of the close on each year's last trading day
func YearEndCloses(title string, years []*yearly.YearMetrics) ([]byte, error) {
	if len(years) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(years))
	values := make([]float64, len(years))
	for ii, ym := range years {
		labels[ii] = strconv.Itoa(ym.Year)
		values[ii] = ym.Close
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title, "year end close"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return p.Bytes()
}

// WriteSheetCharts renders both charts for a sheet into dir and returns the
// paths written. A chart with nothing to draw is skipped.
func WriteSheetCharts(dir, sheet string, years []*yearly.YearMetrics) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	renderers := []struct {
		suffix string
		render func(string, []*yearly.YearMetrics) ([]byte, error)
	}{
		{"annual_returns", AnnualReturns},
		{"year_end_close", YearEndCloses},
	}

	written := make([]string, 0, len(renderers))
	for _, r := range renderers {
		buf, err := r.render(sheet, years)
		if errors.Is(err, ErrNoData) {
			log.Debug().Str("Sheet", sheet).Str("Chart", r.suffix).Msg("nothing to chart")
			continue
		}
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", SafeName(sheet), r.suffix))
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return written, fmt.Errorf("write chart %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}

// SafeName replaces characters that are not allowed in file names with _
func SafeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
}
