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
	"time"

	"github.com/penny-vault/indexstat/chart"
	"github.com/penny-vault/indexstat/dataframe"
	"github.com/penny-vault/indexstat/workbook"
	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
)

// Headers of the columns appended by the yearly report
const (
	HeaderAnnualReturn = "年收益率(%)"
	HeaderVolatility   = "年波动率(%)"
	HeaderSharpe       = "夏普比率"
)

// YearlyOptions configure the yearly report
type YearlyOptions struct {
	Metrics yearly.Options
	Output  string

	// ChartDir receives per sheet PNG charts when set
	ChartDir string
}

// Yearly writes annual return, annualized volatility and Sharpe ratio next to
// the last trading day of every year. Year end rows are highlighted, every
// other data row except the final one is hidden.
func Yearly(input string, opts YearlyOptions) (*Summary, error) {
	if opts.Output == "" {
		opts.Output = workbook.OutputPath(input, "processed")
	}

	return run(input, opts.Output, "yearly metrics", func(wb *workbook.Workbook, name string) (*SheetResult, error) {
		res, err := yearlySheet(wb, name, opts.Metrics)
		if err != nil {
			return nil, err
		}

		if opts.ChartDir != "" {
			paths, err := chart.WriteSheetCharts(opts.ChartDir, name, res.Years)
			if err != nil {
				log.Warn().Str("Sheet", name).Err(err).Msg("could not write charts")
			}
			res.Charts = paths
		}

		return res, nil
	})
}

func yearlySheet(wb *workbook.Workbook, name string, opts yearly.Options) (*SheetResult, error) {
	required := []workbook.Field{workbook.FieldDate, workbook.FieldClose}
	if opts.Policy == yearly.DailyChange {
		required = append(required, workbook.FieldChangePercent)
	}

	sheet, err := wb.ReadSheet(name, workbook.DefaultResolver, required...)
	if err != nil {
		return nil, err
	}

	series, err := yearly.Partition(sheet.Records())
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}

	years, err := series.Compute(opts)
	if err != nil {
		return nil, err
	}

	retCol, err := wb.AppendHeaders(name, sheet.LastCol, HeaderAnnualReturn, HeaderVolatility, HeaderSharpe)
	if err != nil {
		return nil, err
	}
	sharpeCol := retCol + 2
	lastCol := sharpeCol

	if err := wb.SetStyle(name, workbook.CellName(1, 1), workbook.CellName(lastCol, 1), workbook.StyleHeader); err != nil {
		return nil, err
	}

	for idx := range sheet.Rows {
		if err := wb.SetRowHidden(name, sheet.RowNumber(idx), true); err != nil {
			return nil, err
		}
	}

	closeCol := sheet.ColumnLetter(workbook.FieldClose)
	for _, ym := range years {
		if err := writeYear(wb, name, ym, closeCol, retCol, lastCol); err != nil {
			return nil, err
		}
	}

	if err := wb.SetRowHidden(name, sheet.LastRow(), false); err != nil {
		return nil, err
	}

	log.Debug().Str("Sheet", name).Int("Years", len(years)).Str("Policy", opts.Policy.String()).Msg("wrote yearly metrics")

	return &SheetResult{
		Sheet: name,
		Years: years,
		Frame: yearFrame(years),
	}, nil
}

func writeYear(wb *workbook.Workbook, sheet string, ym *yearly.YearMetrics, closeCol string, retCol, lastCol int) error {
	row := ym.Row
	if err := wb.SetRowHidden(sheet, row, false); err != nil {
		return err
	}
	if err := wb.SetStyle(sheet, workbook.CellName(1, row), workbook.CellName(lastCol, row), workbook.StyleHighlight); err != nil {
		return err
	}

	retCell := workbook.CellName(retCol, row)
	volCell := workbook.CellName(retCol+1, row)
	sharpeCell := workbook.CellName(retCol+2, row)

	if err := wb.SetValue(sheet, retCell, fraction(ym.AnnualReturn.Value)); err != nil {
		return err
	}
	if ym.AnnualReturn.Valid() && ym.PriorRow > 0 {
		formula := fmt.Sprintf("(%[1]s%[2]d-%[1]s%[3]d)/%[1]s%[3]d", closeCol, row, ym.PriorRow)
		if err := wb.SetFormula(sheet, retCell, formula); err != nil {
			return err
		}
	} else if err := wb.SetNote(sheet, retCell, ym.AnnualReturn.Provenance); err != nil {
		return err
	}

	if err := wb.SetValue(sheet, volCell, fraction(ym.Volatility.Value)); err != nil {
		return err
	}
	if err := wb.SetNote(sheet, volCell, ym.Volatility.Provenance); err != nil {
		return err
	}

	if err := wb.SetValue(sheet, sharpeCell, ym.Sharpe.Value); err != nil {
		return err
	}
	if err := wb.SetNote(sheet, sharpeCell, ym.Sharpe.Provenance); err != nil {
		return err
	}

	if err := wb.SetStyle(sheet, retCell, volCell, workbook.StyleHighlightPercent); err != nil {
		return err
	}
	return wb.SetStyle(sheet, sharpeCell, sharpeCell, workbook.StyleHighlightDecimal)
}

// yearFrame arranges the year metrics for console output
func yearFrame(years []*yearly.YearMetrics) *dataframe.DataFrame {
	dates := make([]time.Time, len(years))
	closes := make([]float64, len(years))
	rets := make([]float64, len(years))
	vols := make([]float64, len(years))
	sharpes := make([]float64, len(years))

	for ii, ym := range years {
		dates[ii] = ym.LastTradingDay
		closes[ii] = ym.Close
		rets[ii] = ym.AnnualReturn.Value
		vols[ii] = ym.Volatility.Value
		sharpes[ii] = ym.Sharpe.Value
	}

	df := dataframe.New(dates)
	df, _ = df.Insert("Close", closes)
	df, _ = df.Insert("Return %", rets)
	df, _ = df.Insert("Volatility %", vols)
	df, _ = df.Insert("Sharpe", sharpes)
	return df
}
