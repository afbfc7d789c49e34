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

package cmd

import (
	"fmt"

	"github.com/penny-vault/indexstat/analysis"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var indicatorsOutput string

func init() {
	rootCmd.AddCommand(indicatorsCmd)

	indicatorsCmd.Flags().StringVarP(&indicatorsOutput, "output", "o", "", "Output workbook (default <input>_分析结果.xlsx)")
	indicatorsCmd.Flags().IntSlice("ma-windows", nil, "Moving average windows in rows (default 5,10,20,60,120,250)")
	viper.BindPFlag("metrics.ma_windows", indicatorsCmd.Flags().Lookup("ma-windows"))
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators <input.xlsx>",
	Short: "Add per-row price indicators and whole-series risk statistics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		summary, err := analysis.Indicators(args[0], analysis.IndicatorOptions{
			Windows:      viper.GetIntSlice("metrics.ma_windows"),
			TradingDays:  viper.GetInt("metrics.trading_days"),
			RiskFreeRate: viper.GetFloat64("metrics.risk_free_rate"),
			Output:       indicatorsOutput,
		})
		if err != nil {
			log.Fatal().Stack().Err(err).Str("Input", args[0]).Msg("indicator report failed")
		}

		for _, sheet := range summary.Sheets {
			if sheet.Err != nil {
				continue
			}
			printFrame(sheet.Sheet, sheet.Frame, consoleRows)
			stats := sheet.Indicators
			fmt.Printf("年化波动率: %s  最大回撤: %s%%  夏普比率: %s\n",
				stats.Volatility.Format(4), stats.MaxDrawdown.Format(2), stats.Sharpe.Format(4))
		}
		printSummary(summary)
	},
}
