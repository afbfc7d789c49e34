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
	"math"
	"sort"
	"time"

	"github.com/penny-vault/indexstat/dataframe"
	"github.com/penny-vault/indexstat/metrics"
	"github.com/penny-vault/indexstat/workbook"
	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
)

// DefaultMAWindows are the moving average windows of the indicator report
var DefaultMAWindows = []int{5, 10, 20, 60, 120, 250}

// IndicatorOptions configure the indicator report
type IndicatorOptions struct {
	Windows      []int
	TradingDays  int
	RiskFreeRate float64 // percent
	Output       string
}

// IndicatorSummary holds the whole-series statistics of a sheet
type IndicatorSummary struct {
	Observations int           `json:"observations"`
	Volatility   yearly.Metric `json:"annualizedVolatility"`
	MaxDrawdown  yearly.Metric `json:"maxDrawdownPercent"`
	Sharpe       yearly.Metric `json:"sharpeRatio"`
}

type indicatorColumn struct {
	key    string
	header string
}

// Indicators adds per-row price statistics, trailing moving averages with
// crossover flags, and whole-series volatility, drawdown and Sharpe ratio to
// every data row.
func Indicators(input string, opts IndicatorOptions) (*Summary, error) {
	if opts.Output == "" {
		opts.Output = workbook.OutputPath(input, "分析结果")
	}
	if len(opts.Windows) == 0 {
		opts.Windows = DefaultMAWindows
	}
	if opts.TradingDays <= 0 {
		opts.TradingDays = metrics.DefaultTradingDays
	}

	return run(input, opts.Output, "indicators", func(wb *workbook.Workbook, name string) (*SheetResult, error) {
		return indicatorSheet(wb, name, opts)
	})
}

func indicatorSheet(wb *workbook.Workbook, name string, opts IndicatorOptions) (*SheetResult, error) {
	sheet, err := wb.ReadSheet(name, workbook.DefaultResolver, workbook.FieldDate, workbook.FieldClose)
	if err != nil {
		return nil, err
	}

	// chronological order; rows keeps the sheet row of each entry
	records := sheet.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %s: %w", name, yearly.ErrEmptyInput)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	dates := make([]time.Time, len(records))
	rows := make([]int, len(records))
	for ii, rec := range records {
		dates[ii] = rec.Date
		rows[ii] = rec.Row
	}

	df := dataframe.New(dates)
	for _, field := range []workbook.Field{workbook.FieldOpen, workbook.FieldHigh, workbook.FieldLow, workbook.FieldClose, workbook.FieldVolume} {
		col := make([]float64, len(records))
		for ii, rec := range records {
			col[ii] = sheet.Number(rec.Row-2, field)
		}
		if df, err = df.Insert(string(field), col); err != nil {
			return nil, err
		}
	}

	columns := make([]indicatorColumn, 0, 16)

	if sheet.Columns.Has(workbook.FieldOpen, workbook.FieldHigh, workbook.FieldLow) {
		df = df.Derive("amplitude", func(_ int, v map[string]float64) float64 {
			return (v["high"] - v["low"]) / v["open"]
		})
		df = df.Derive("range", func(_ int, v map[string]float64) float64 {
			return v["high"] - v["low"]
		})
		df = df.Derive("close_open", func(_ int, v map[string]float64) float64 {
			return v["close"] - v["open"]
		})
		df = df.Derive("range_position", func(_ int, v map[string]float64) float64 {
			if v["high"]-v["low"] > 0 {
				return (v["close"] - v["low"]) / (v["high"] - v["low"])
			}
			return 0
		})
		columns = append(columns,
			indicatorColumn{"amplitude", "日波动率"},
			indicatorColumn{"range", "日波动幅度"},
			indicatorColumn{"close_open", "收盘-开盘价差"},
			indicatorColumn{"range_position", "价格区间位置"},
		)
	}

	if sheet.Columns.Has(workbook.FieldVolume) {
		df = df.Derive("volume_price", func(_ int, v map[string]float64) float64 {
			if v["close"] > 0 {
				return v["volume"] / v["close"]
			}
			return 0
		})
		columns = append(columns, indicatorColumn{"volume_price", "成交量/价格比"})
	}

	for _, window := range opts.Windows {
		key := fmt.Sprintf("ma%d", window)
		if df, err = df.SMA("close", key, window); err != nil {
			return nil, err
		}
		columns = append(columns, indicatorColumn{key, fmt.Sprintf("%d日移动平均", window)})
	}

	if len(opts.Windows) >= 2 {
		fast := fmt.Sprintf("ma%d", opts.Windows[0])
		slow := fmt.Sprintf("ma%d", opts.Windows[1])
		if df, err = df.Cross(fast, slow, "ma_gt", dataframe.Greater); err != nil {
			return nil, err
		}
		if df, err = df.Cross(fast, slow, "ma_lt", dataframe.Less); err != nil {
			return nil, err
		}
		columns = append(columns,
			indicatorColumn{"ma_gt", fmt.Sprintf("%d日>%d日", opts.Windows[0], opts.Windows[1])},
			indicatorColumn{"ma_lt", fmt.Sprintf("%d日<%d日", opts.Windows[0], opts.Windows[1])},
		)
	}

	if df, err = dailyReturns(df); err != nil {
		return nil, err
	}

	closes, err := df.Column("close")
	if err != nil {
		return nil, err
	}
	returns, err := df.Column("daily_return")
	if err != nil {
		return nil, err
	}
	summary := seriesSummary(closes, returns, opts)

	df = df.Fill("volatility", summary.Volatility.Value)
	df = df.Fill("max_drawdown", summary.MaxDrawdown.Value)
	df = df.Fill("sharpe", summary.Sharpe.Value)
	columns = append(columns,
		indicatorColumn{"volatility", "年化波动率"},
		indicatorColumn{"max_drawdown", "最大回撤"},
		indicatorColumn{"sharpe", "夏普比率"},
	)

	if err := writeIndicators(wb, name, sheet.LastCol, df, rows, columns); err != nil {
		return nil, err
	}

	log.Debug().Str("Sheet", name).Int("Rows", df.Len()).Int("Columns", df.ColCount()).
		Time("Start", df.Start()).Time("End", df.End()).Str("Volatility", summary.Volatility.Format(4)).Str("MaxDrawdown", summary.MaxDrawdown.Format(4)).Str("Sharpe", summary.Sharpe.Format(4)).Msg("wrote indicators")

	keys := make([]string, 0, len(columns)+1)
	keys = append(keys, "close")
	for _, c := range columns {
		keys = append(keys, c.key)
	}
	frame, err := df.Select(keys...)
	if err != nil {
		return nil, err
	}

	return &SheetResult{
		Sheet:      name,
		Indicators: summary,
		Frame:      frame,
	}, nil
}

// dailyReturns adds close / previous close - 1 as daily_return; the first row
// and rows after a non-positive close are NaN
func dailyReturns(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	prev, err := df.Select("close")
	if err != nil {
		return df, err
	}
	prevCloses, err := prev.Lag(1).Column("close")
	if err != nil {
		return df, err
	}

	return df.Derive("daily_return", func(rowIdx int, v map[string]float64) float64 {
		p := prevCloses[rowIdx]
		if math.IsNaN(p) || p <= 0 {
			return math.NaN()
		}
		return v["close"]/p - 1
	}), nil
}

// seriesSummary computes the whole-series statistics. Volatility uses the
// sample deviation of the defined daily returns; the Sharpe ratio uses the
// linearly annualized total return with the risk free rate as a fraction.
func seriesSummary(closes, daily []float64, opts IndicatorOptions) *IndicatorSummary {
	returns := make([]float64, 0, len(daily))
	for _, r := range daily {
		if !math.IsNaN(r) {
			returns = append(returns, r)
		}
	}
	vol := metrics.AnnualizedVolatility(returns, opts.TradingDays, metrics.Sample)
	annualized := metrics.SimpleAnnualizedReturn(closes, opts.TradingDays)
	rf := opts.RiskFreeRate / 100

	return &IndicatorSummary{
		Observations: len(closes),
		Volatility: yearly.Metric{
			Value:      vol,
			Provenance: fmt.Sprintf("STDEV.S(daily returns) * SQRT(%d)", opts.TradingDays),
		},
		MaxDrawdown: yearly.Metric{
			Value:      metrics.MaxDrawdownPercent(closes),
			Provenance: "max((peak - close) / peak) * 100",
		},
		Sharpe: yearly.Metric{
			Value:      metrics.SharpeRatio(annualized, vol, rf),
			Provenance: fmt.Sprintf("(%s - %g) / %s", formatFloat(annualized), rf, formatFloat(vol)),
		},
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "--"
	}
	return fmt.Sprintf("%.4f", v)
}

func writeIndicators(wb *workbook.Workbook, sheet string, lastCol int, df *dataframe.DataFrame, rows []int, columns []indicatorColumn) error {
	headers := make([]string, len(columns))
	for ii, c := range columns {
		headers[ii] = c.header
	}

	first, err := wb.AppendHeaders(sheet, lastCol, headers...)
	if err != nil {
		return err
	}

	for ii, c := range columns {
		vals, err := df.Column(c.key)
		if err != nil {
			return err
		}
		for rowIdx, v := range vals {
			if err := wb.SetValue(sheet, workbook.CellName(first+ii, rows[rowIdx]), v); err != nil {
				return err
			}
		}
	}

	return nil
}
