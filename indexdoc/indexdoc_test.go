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

package indexdoc_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/indexstat/indexdoc"
	"github.com/penny-vault/indexstat/workbook"
)

var _ = Describe("IndexDoc", func() {
	var (
		rows [][]string
	)

	BeforeEach(func() {
		rows = [][]string{
			{"指数简称", "指数代码", "基日", "发布日期", "基日以来全部年份年平均收益(%)", indexdoc.TitleYearReturns, "", indexdoc.TitleYearVolatility, "", indexdoc.TitleRecentReturns, ""},
			{"", "", "", "", "", "2023", "2024", "2023", "2024", "近1年", "近3年"},
			{"沪深300", "000300", "20041231", "2005-04-08", "0.0812", "-0.1138", "0.1468", "0.1402", "0.1851", "0.1468", "--"},
			{"", "", "", "", "", "", "", "", "", "", ""},
			{"中证A/B", "000999", "", "", "", "0.05", "", "", "", "", ""},
		}
	})

	Describe("ParseLayout", func() {
		It("should split back to back year blocks", func() {
			layout, err := indexdoc.ParseLayout(rows)
			Expect(err).NotTo(HaveOccurred())

			Expect(layout.Returns.Start).To(Equal(5))
			Expect(layout.Returns.Labels).To(Equal([]string{"2023", "2024"}))
			Expect(layout.Volatility.Start).To(Equal(7))
			Expect(layout.Volatility.Title).To(Equal(indexdoc.TitleYearVolatility))
			Expect(layout.Recent.Start).To(Equal(9))
			Expect(layout.Recent.Labels).To(Equal([]string{"近1年", "近3年"}))
			Expect(layout.Fields).To(HaveKeyWithValue("基日", 2))
			Expect(layout.Fields).NotTo(HaveKey(indexdoc.TitleYearReturns))
		})

		It("should require two header rows and data", func() {
			_, err := indexdoc.ParseLayout(rows[:2])
			Expect(err).To(MatchError(indexdoc.ErrHeaderTooShort))
		})

		It("should require year columns", func() {
			rows[1] = make([]string, len(rows[1]))
			_, err := indexdoc.ParseLayout(rows)
			Expect(err).To(MatchError(indexdoc.ErrYearColumnsNotFound))
		})
	})

	Describe("Build", func() {
		It("should render main fields and tables", func() {
			layout, err := indexdoc.ParseLayout(rows)
			Expect(err).NotTo(HaveOccurred())

			doc, ok := layout.Build(rows[2])
			Expect(ok).To(BeTrue())
			Expect(doc.FileName).To(Equal("认识“沪深300”指数.md"))
			Expect(doc.Markdown).To(HavePrefix("## 指数简称\n\n沪深300\n\n## 指数代码\n\n000300\n\n"))
			Expect(doc.Markdown).To(ContainSubstring("## 基日\n\n2004-12-31\n\n"))
			Expect(doc.Markdown).To(ContainSubstring("## 发布日期\n\n2005-04-08\n\n"))
			Expect(doc.Markdown).To(ContainSubstring("## 基日以来全部年份年平均收益(%)\n\n8.12%\n\n"))
			Expect(doc.Markdown).To(ContainSubstring("## 样本数量\n\n无\n\n"))
			Expect(doc.Markdown).To(ContainSubstring("| 2023 | 2024 |\n|---|---|\n| -11.38% | 14.68% |\n"))
			Expect(doc.Markdown).To(ContainSubstring("| 14.68% | -- |"))
			Expect(strings.Count(doc.Markdown, "<div style=\"overflow-x: auto;\">")).To(Equal(3))
		})

		It("should skip blank rows", func() {
			layout, err := indexdoc.ParseLayout(rows)
			Expect(err).NotTo(HaveOccurred())
			_, ok := layout.Build(rows[3])
			Expect(ok).To(BeFalse())
		})
	})

	DescribeTable("Percent",
		func(raw, expected string) {
			Expect(indexdoc.Percent(raw)).To(Equal(expected))
		},
		Entry("ratio", "0.1234", "12.34%"),
		Entry("rounds half away from zero", "0.00125", "0.13%"),
		Entry("negative", "-0.5", "-50.00%"),
		Entry("already percent", " 12% ", "12%"),
		Entry("not a ratio", "300", "300"),
		Entry("text", "--", "--"),
		Entry("empty", "", ""),
	)

	It("should replace unsafe characters in file names", func() {
		Expect(indexdoc.FileName("中证A/B")).To(Equal("认识“中证A_B”指数.md"))
	})

	It("should write one document per index", func() {
		dir := GinkgoT().TempDir()
		input := filepath.Join(dir, "meta.xlsx")

		wb, err := workbook.New("指数")
		Expect(err).NotTo(HaveOccurred())
		data := make([][]interface{}, len(rows))
		for ii, row := range rows {
			data[ii] = make([]interface{}, len(row))
			for jj, cell := range row {
				data[ii][jj] = cell
			}
		}
		Expect(wb.WriteRows("指数", data)).To(Succeed())
		Expect(wb.Save(input, "fixture", "")).To(Succeed())
		wb.Close()

		out := filepath.Join(dir, "docs")
		written, err := indexdoc.Generate(input, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(written).To(HaveLen(2))
		Expect(written[1]).To(Equal(filepath.Join(out, "认识“中证A_B”指数.md")))

		content, err := os.ReadFile(written[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("## 指数简称\n\n沪深300"))
	})
})
