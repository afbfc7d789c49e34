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
	"github.com/penny-vault/indexstat/analysis"
	"github.com/penny-vault/indexstat/yearly"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	yearlyOutput   string
	yearlyReturns  string
	yearlyJSON     string
	yearlyChartDir string
)

func init() {
	rootCmd.AddCommand(yearlyCmd)

	yearlyCmd.Flags().StringVarP(&yearlyOutput, "output", "o", "", "Output workbook (default <input>_processed.xlsx)")
	yearlyCmd.Flags().StringVar(&yearlyReturns, "returns", "change", "Daily return source: `change` uses the change percent column, `log` uses log close ratios")
	yearlyCmd.Flags().StringVar(&yearlyJSON, "json", "", "Also write the year metrics as JSON to this file (- for stdout)")
	yearlyCmd.Flags().StringVar(&yearlyChartDir, "chart-dir", "", "Write annual return and year end close charts to this directory")
}

var yearlyCmd = &cobra.Command{
	Use:   "yearly <input.xlsx>",
	Short: "Compute annual return, volatility and Sharpe ratio per year",
	Long: `For every sheet, find the last trading day of each calendar year and write
its annual return, annualized volatility and Sharpe ratio next to it. Year end
rows are highlighted and the remaining data rows are hidden.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		policy, err := yearly.ParseReturnPolicy(yearlyReturns)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --returns")
		}

		opts := analysis.YearlyOptions{
			Metrics: yearly.Options{
				RiskFreeRate: viper.GetFloat64("metrics.risk_free_rate"),
				TradingDays:  viper.GetInt("metrics.trading_days"),
				Policy:       policy,
			},
			Output:   yearlyOutput,
			ChartDir: yearlyChartDir,
		}

		summary, err := analysis.Yearly(args[0], opts)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("Input", args[0]).Msg("yearly report failed")
		}

		if yearlyJSON != "-" {
			for _, sheet := range summary.Sheets {
				printFrame(sheet.Sheet, sheet.Frame, 0)
			}
			printSummary(summary)
		}

		if err := writeSummaryJSON(yearlyJSON, summary); err != nil {
			log.Fatal().Stack().Err(err).Msg("could not write json")
		}
	},
}
