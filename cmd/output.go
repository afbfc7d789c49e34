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
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/indexstat/analysis"
	"github.com/penny-vault/indexstat/dataframe"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// consoleRows is how many trailing rows of per-row frames are printed
const consoleRows = 10

// printSummary lists every sheet of a pipeline run with its status
func printSummary(summary *analysis.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sheet", "Status", "Detail"})
	table.SetBorder(false)

	for _, sheet := range summary.Sheets {
		if sheet.Err != nil {
			table.Append([]string{sheet.Sheet, "skipped", sheet.Err.Error()})
			continue
		}

		detail := ""
		switch {
		case len(sheet.Years) > 0:
			detail = fmt.Sprintf("%d years", len(sheet.Years))
		case len(sheet.Spans) > 0:
			detail = fmt.Sprintf("%d spans", len(sheet.Spans))
		case sheet.Indicators != nil:
			detail = fmt.Sprintf("%d rows", sheet.Indicators.Observations)
		}
		if len(sheet.Charts) > 0 {
			detail += "; charts: " + strings.Join(sheet.Charts, ", ")
		}
		table.Append([]string{sheet.Sheet, "ok", detail})
	}

	table.SetFooter([]string{"Output", summary.Output, fmt.Sprintf("%d processed, %d skipped", summary.Processed(), summary.Skipped())})
	table.Render()
}

// printFrame prints the last n rows of a sheet's frame
func printFrame(sheet string, df *dataframe.DataFrame, n int) {
	if df == nil {
		return
	}
	if n > 0 && df.Len() > n {
		df = df.Trim(df.Dates[df.Len()-n], df.End())
	}
	fmt.Printf("\n%s\n%s", sheet, df.Table())
}

// writeSummaryJSON writes the summary to path, or stdout when path is "-"
func writeSummaryJSON(path string, summary *analysis.Summary) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return summary.WriteJSON(os.Stdout)
	}

	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create json output")
	}
	defer fh.Close()

	if err := summary.WriteJSON(fh); err != nil {
		return errors.Wrap(err, "write json output")
	}

	log.Info().Str("Path", path).Msg("wrote json summary")
	return nil
}

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
