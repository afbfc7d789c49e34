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

package workbook_test

import (
	"math"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/indexstat/workbook"
)

var _ = Describe("Workbook", func() {
	var (
		path string
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "index.xlsx")

		wb, err := workbook.New("创业板指")
		Expect(err).NotTo(HaveOccurred())
		Expect(wb.WriteRows("创业板指", [][]interface{}{
			{"日期", "指数代码", "收盘价", "涨跌幅(%)"},
			{20201231, "399006", 2966.26, 1.2},
			{"not a date", "399006", 3000, 0.5},
			{20210104, "399006", 3078.87, 3.8},
			{20210105, "399006", "", 0.1},
		})).To(Succeed())
		Expect(wb.AddSheet("说明", [][]interface{}{{"备注"}})).To(Succeed())
		Expect(wb.Save(path, "fixture", "")).To(Succeed())
	})

	It("should list sheets in order", func() {
		wb, err := workbook.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer wb.Close()
		Expect(wb.Sheets()).To(Equal([]string{"创业板指", "说明"}))
	})

	It("should fail to open a missing file", func() {
		_, err := workbook.Open(filepath.Join(GinkgoT().TempDir(), "missing.xlsx"))
		Expect(err).To(HaveOccurred())
	})

	It("should read records and drop invalid rows", func() {
		wb, err := workbook.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer wb.Close()

		sheet, err := wb.ReadSheet("创业板指", workbook.DefaultResolver, workbook.FieldDate, workbook.FieldClose)
		Expect(err).NotTo(HaveOccurred())
		Expect(sheet.LastCol).To(Equal(4))
		Expect(sheet.LastRow()).To(Equal(5))
		Expect(sheet.ColumnLetter(workbook.FieldClose)).To(Equal("C"))

		records := sheet.Records()
		Expect(records).To(HaveLen(2))
		Expect(records[0].Row).To(Equal(2))
		Expect(records[0].Close).To(BeNumerically("~", 2966.26, 1e-9))
		Expect(records[0].DailyChangePercent).To(BeNumerically("~", 1.2, 1e-9))
		Expect(records[1].Row).To(Equal(4))
	})

	It("should report a sheet missing required columns", func() {
		wb, err := workbook.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer wb.Close()

		_, err = wb.ReadSheet("说明", workbook.DefaultResolver, workbook.FieldDate, workbook.FieldClose)
		Expect(err).To(MatchError(workbook.ErrMissingColumn))
	})

	It("should report unknown sheets", func() {
		wb, err := workbook.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer wb.Close()

		_, err = wb.ReadSheet("missing", workbook.DefaultResolver)
		Expect(err).To(MatchError(workbook.ErrSheetNotFound))
	})

	It("should write styled values, formulas, notes and hidden rows", func() {
		wb, err := workbook.Open(path)
		Expect(err).NotTo(HaveOccurred())

		first, err := wb.AppendHeaders("创业板指", 4, "年收益率(%)", "夏普比率")
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(Equal(5))

		Expect(wb.SetValue("创业板指", "E4", 0.038)).To(Succeed())
		Expect(wb.SetFormula("创业板指", "E4", "=(C4-C2)/C2")).To(Succeed())
		Expect(wb.SetStyle("创业板指", "E4", "E4", workbook.StyleHighlightPercent)).To(Succeed())
		Expect(wb.SetValue("创业板指", "F4", math.NaN())).To(Succeed())
		Expect(wb.SetNote("创业板指", "F4", "no volatility")).To(Succeed())
		Expect(wb.SetRowHidden("创业板指", 3, true)).To(Succeed())

		out := workbook.OutputPath(path, "out")
		Expect(filepath.Base(out)).To(Equal("index_out.xlsx"))
		Expect(wb.Save(out, "out", "abc123")).To(Succeed())
		Expect(wb.Close()).To(Succeed())

		check, err := workbook.Open(out)
		Expect(err).NotTo(HaveOccurred())
		defer check.Close()
		f := check.File()

		header, err := f.GetCellValue("创业板指", "E1")
		Expect(err).NotTo(HaveOccurred())
		Expect(header).To(Equal("年收益率(%)"))

		formula, err := f.GetCellFormula("创业板指", "E4")
		Expect(err).NotTo(HaveOccurred())
		Expect(formula).To(Equal("(C4-C2)/C2"))

		missing, err := f.GetCellValue("创业板指", "F4")
		Expect(err).NotTo(HaveOccurred())
		Expect(missing).To(Equal("--"))

		comments, err := f.GetComments("创业板指")
		Expect(err).NotTo(HaveOccurred())
		Expect(comments).To(HaveLen(1))
		Expect(comments[0].Cell).To(Equal("F4"))

		visible, err := f.GetRowVisible("创业板指", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(visible).To(BeFalse())

		props, err := f.GetDocProps()
		Expect(err).NotTo(HaveOccurred())
		Expect(props.Identifier).To(Equal("abc123"))
	})
})
