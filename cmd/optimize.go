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
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/indexstat/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	optimizeStrategy   string
	optimizeAlpha      float64
	optimizeTargetLead float64
	optimizeTargetRest float64
	optimizeSeed       int64
	optimizeJSON       bool
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeStrategy, "strategy", "balanced", fmt.Sprintf("Strategy preset, one of: %s", strings.Join(portfolio.PresetNames(), ", ")))
	optimizeCmd.Flags().Float64Var(&optimizeAlpha, "alpha", 0.5, "Override the preset alpha (weight of the score term)")
	optimizeCmd.Flags().Float64Var(&optimizeTargetLead, "target-lead", 0.4, "Override the target weight of the first asset")
	optimizeCmd.Flags().Float64Var(&optimizeTargetRest, "target-rest", 0.2, "Override the target weight of every other asset")
	optimizeCmd.Flags().Int64Var(&optimizeSeed, "seed", 0, "Random seed; 0 seeds from the clock")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "Print the report as JSON")
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <score> <score> [score...]",
	Short: "Find allocation weights balancing score and target weights",
	Long: `Search for allocation weights that maximize the weighted score while staying
close to the target weights. Scores are usually Sharpe ratios and are given in
the order of the configured assets (optimizer.assets).`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		scores := make([]float64, len(args))
		for ii, arg := range args {
			val, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				log.Fatal().Err(err).Str("Arg", arg).Msg("scores must be numbers")
			}
			scores[ii] = val
		}

		assets := viper.GetStringSlice("optimizer.assets")
		if len(assets) != len(scores) {
			log.Fatal().Strs("Assets", assets).Int("NumScores", len(scores)).Msg("number of scores must match optimizer.assets")
		}

		preset, err := portfolio.LookupPreset(optimizeStrategy)
		if err != nil {
			log.Fatal().Err(err).Msg("unknown strategy")
		}

		// flags override a copy of the shared preset
		custom := *preset
		if cmd.Flags().Changed("alpha") {
			custom.Alpha = optimizeAlpha
			custom.Adaptive = false
		}
		if cmd.Flags().Changed("target-lead") {
			custom.TargetLead = optimizeTargetLead
		}
		if cmd.Flags().Changed("target-rest") {
			custom.TargetRest = optimizeTargetRest
		}

		opts := portfolio.DefaultOptions()
		opts.Iterations = viper.GetInt("optimizer.iterations")
		opts.Tolerance = viper.GetFloat64("optimizer.tolerance")
		if optimizeSeed != 0 {
			opts.Rand = rand.New(rand.NewSource(optimizeSeed)) // #nosec G404
		}

		report, err := portfolio.Run(&custom, assets, scores, opts)
		if err != nil {
			log.Fatal().Err(err).Msg("optimization failed")
		}

		if optimizeJSON {
			if err := printJSON(report); err != nil {
				log.Fatal().Err(err).Msg("could not encode report")
			}
			return
		}

		printReport(report)
	},
}

func printReport(report *portfolio.Report) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Asset", "Score", "Target", "Weight", "Baseline"})
	table.SetBorder(false)
	for ii, asset := range report.Assets {
		table.Append([]string{
			asset,
			strconv.FormatFloat(report.Scores[ii], 'f', 4, 64),
			portfolio.FormatPercent(report.Result.Target[ii], 2),
			portfolio.FormatPercent(report.Result.Weights[ii], 2),
			portfolio.FormatPercent(report.Baseline.Weights[ii], 2),
		})
	}
	table.SetFooter([]string{"Strategy", report.Strategy, "alpha", strconv.FormatFloat(report.Result.Alpha, 'f', 3, 64), ""})
	table.Render()

	fmt.Printf("\n加权夏普比率: %.4f (基准 %.4f)\n", report.Result.WeightedScore, report.Baseline.WeightedScore)
	fmt.Printf("与目标权重偏差: %.4f\n", report.Result.Deviation)
	fmt.Println(report.SacrificeMessage())
	for _, rec := range report.Recommendations {
		fmt.Println(rec)
	}
}
