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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/indexstat/workbook"
)

var _ = Describe("Field resolution", func() {
	It("should match headers exactly before substrings", func() {
		header := []string{"日期", "指数代码", "涨跌点数", "涨跌幅(%)", "收盘价"}
		cols, err := workbook.DefaultResolver.Resolve(header, workbook.FieldDate, workbook.FieldClose)
		Expect(err).NotTo(HaveOccurred())
		Expect(cols[workbook.FieldDate]).To(Equal(0))
		Expect(cols[workbook.FieldCode]).To(Equal(1))
		Expect(cols[workbook.FieldChangePoints]).To(Equal(2))
		Expect(cols[workbook.FieldChangePercent]).To(Equal(3))
		Expect(cols[workbook.FieldClose]).To(Equal(4))
	})

	It("should ignore case and surrounding whitespace", func() {
		header := []string{" Date ", "CLOSE PRICE", "Volume"}
		cols, err := workbook.DefaultResolver.Resolve(header, workbook.FieldDate, workbook.FieldClose, workbook.FieldVolume)
		Expect(err).NotTo(HaveOccurred())
		Expect(cols[workbook.FieldDate]).To(Equal(0))
		Expect(cols[workbook.FieldClose]).To(Equal(1))
		Expect(cols[workbook.FieldVolume]).To(Equal(2))
	})

	It("should claim each header once", func() {
		header := []string{"change_percent"}
		cols, err := workbook.DefaultResolver.Resolve(header)
		Expect(err).NotTo(HaveOccurred())
		Expect(cols).To(HaveKeyWithValue(workbook.FieldChangePercent, 0))
		Expect(cols).NotTo(HaveKey(workbook.FieldChangePoints))
	})

	It("should name every missing required field", func() {
		_, err := workbook.DefaultResolver.Resolve([]string{"日期"}, workbook.FieldDate, workbook.FieldClose, workbook.FieldOpen)
		Expect(err).To(MatchError(workbook.ErrMissingColumn))
		Expect(err.Error()).To(ContainSubstring("close"))
		Expect(err.Error()).To(ContainSubstring("open"))
		Expect(err.Error()).To(ContainSubstring("收盘价"))
	})

	It("should load a custom synonym table", func() {
		resolver, err := workbook.NewResolver([]byte(`
[[field]]
name = "close"
synonyms = ["Last"]
`))
		Expect(err).NotTo(HaveOccurred())
		cols, err := resolver.Resolve([]string{"last"}, workbook.FieldClose)
		Expect(err).NotTo(HaveOccurred())
		Expect(cols.Has(workbook.FieldClose)).To(BeTrue())
		Expect(cols.Has(workbook.FieldDate)).To(BeFalse())
	})
})

var _ = Describe("Parsing", func() {
	DescribeTable("valid dates",
		func(raw string, expected time.Time) {
			dt, err := workbook.ParseDate(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(dt).To(Equal(expected))
		},
		Entry("compact number", "20230105", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		Entry("compact float text", "20230105.0", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		Entry("excel serial", "44927", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		Entry("iso", "2023-01-05", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		Entry("slashes", "2023/1/5", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		Entry("date time", "2023-01-05 15:00:00", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		Entry("rfc3339", "2023-01-05T00:00:00Z", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
	)

	DescribeTable("invalid dates",
		func(raw string) {
			_, err := workbook.ParseDate(raw)
			Expect(err).To(MatchError(workbook.ErrInvalidDate))
		},
		Entry("empty", ""),
		Entry("impossible compact date", "20230230"),
		Entry("impossible iso date", "2023-02-30"),
		Entry("text", "合计"),
		Entry("negative", "-5"),
	)

	It("should parse numbers with separators and percent signs", func() {
		Expect(workbook.ParseNumber(" 1,234.5 ")).To(Equal(1234.5))
		Expect(workbook.ParseNumber("1.25%")).To(Equal(1.25))
	})

	It("should map invalid numbers to NaN", func() {
		_, err := workbook.ParseNumber("abc")
		Expect(err).To(MatchError(workbook.ErrInvalidNumber))
		Expect(math.IsNaN(workbook.NumberOrNaN("--"))).To(BeTrue())
		Expect(math.IsNaN(workbook.NumberOrNaN(""))).To(BeTrue())
	})
})
