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
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var recentOutput string

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().StringVarP(&recentOutput, "output", "o", "", "Output workbook (default <input>_近几年年化收益率.xlsx)")
	recentCmd.Flags().IntSlice("spans", nil, "Look back periods in years (default 1,3,5,...,21)")
	viper.BindPFlag("metrics.spans", recentCmd.Flags().Lookup("spans"))
}

var recentCmd = &cobra.Command{
	Use:   "recent <input.xlsx>",
	Short: "Compute the annualized return of the most recent N years",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		summary, err := analysis.Recent(args[0], analysis.RecentOptions{
			Spans:  viper.GetIntSlice("metrics.spans"),
			Output: recentOutput,
		})
		if err != nil {
			log.Fatal().Stack().Err(err).Str("Input", args[0]).Msg("recent report failed")
		}

		for _, sheet := range summary.Sheets {
			if sheet.Err != nil {
				continue
			}
			log.Info().Str("Sheet", sheet.Sheet).Int("Spans", len(sheet.Spans)).Msg("recent returns")
			for _, sr := range sheet.Spans {
				log.Debug().Str("Sheet", sheet.Sheet).Str("Label", sr.Label()).Str("Return", sr.Return.Format(4)).Msg("span")
			}
		}
		printSummary(summary)
	},
}
