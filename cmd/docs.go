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
	"path/filepath"

	"github.com/penny-vault/indexstat/indexdoc"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var docsOutDir string

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVarP(&docsOutDir, "dir", "d", "", "Output directory (default 认识指数 next to the input)")
}

var docsCmd = &cobra.Command{
	Use:   "docs <metadata.xlsx>",
	Short: "Write one markdown document per index from an index metadata sheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outDir := docsOutDir
		if outDir == "" {
			outDir = filepath.Join(filepath.Dir(args[0]), "认识指数")
		}

		written, err := indexdoc.Generate(args[0], outDir)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("Input", args[0]).Msg("could not generate index documents")
		}

		fmt.Printf("wrote %d documents to %s\n", len(written), outDir)
	},
}
