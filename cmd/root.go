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
	"os"

	"github.com/penny-vault/indexstat/analysis"
	"github.com/penny-vault/indexstat/common"
	"github.com/penny-vault/indexstat/metrics"
	"github.com/penny-vault/indexstat/portfolio"
	"github.com/penny-vault/indexstat/yearly"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DefaultAssets are the labels of the optimizer inputs in argument order
var DefaultAssets = []string{"沪深300", "中证500", "中证1000", "中证2000"}

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "INDEXSTAT_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "INDEXSTAT_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "INDEXSTAT_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "INDEXSTAT_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Write human readable log messages instead of JSON")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Metrics
	viper.BindEnv("metrics.risk_free_rate", "INDEXSTAT_RISK_FREE_RATE")
	rootCmd.PersistentFlags().Float64("risk-free-rate", metrics.DefaultRiskFreeRate, "Annual risk free rate in percent")
	viper.BindPFlag("metrics.risk_free_rate", rootCmd.PersistentFlags().Lookup("risk-free-rate"))

	viper.BindEnv("metrics.trading_days", "INDEXSTAT_TRADING_DAYS")
	rootCmd.PersistentFlags().Int("trading-days", metrics.DefaultTradingDays, "Trading days per year used to annualize volatility")
	viper.BindPFlag("metrics.trading_days", rootCmd.PersistentFlags().Lookup("trading-days"))

	viper.BindEnv("metrics.spans", "INDEXSTAT_SPANS")
	viper.SetDefault("metrics.spans", yearly.DefaultSpans)

	viper.BindEnv("metrics.ma_windows", "INDEXSTAT_MA_WINDOWS")
	viper.SetDefault("metrics.ma_windows", analysis.DefaultMAWindows)

	// Optimizer
	viper.BindEnv("optimizer.iterations", "INDEXSTAT_OPTIMIZER_ITERATIONS")
	viper.SetDefault("optimizer.iterations", portfolio.DefaultIterations)

	viper.BindEnv("optimizer.tolerance", "INDEXSTAT_OPTIMIZER_TOLERANCE")
	viper.SetDefault("optimizer.tolerance", portfolio.DefaultTolerance)

	viper.BindEnv("optimizer.assets", "INDEXSTAT_OPTIMIZER_ASSETS")
	viper.SetDefault("optimizer.assets", DefaultAssets)
}

var rootCmd = &cobra.Command{
	Use:     "indexstat",
	Version: common.CurrentVersion.String(),
	Short:   "Yearly statistics for daily index spreadsheets",
	Long: `indexstat reads spreadsheets of daily index prices, computes yearly return,
volatility and Sharpe ratio, multi-year annualized returns and price indicators,
and writes the results back into a copy of the workbook. It also optimizes
allocation weights across indices and renders index metadata as markdown.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
