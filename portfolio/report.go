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

package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// RecommendationBand is how far the lead weight may drift from its target
// before a rebalancing recommendation is made
const RecommendationBand = 0.05

// Baseline is the allocation that puts everything on the single best score
type Baseline struct {
	Weights       []float64 `json:"weights"`
	WeightedScore float64   `json:"weightedScore"`
}

// Report is an optimization result compared against the best-score baseline
type Report struct {
	Strategy        string    `json:"strategy"`
	Assets          []string  `json:"assets"`
	Scores          []float64 `json:"scores"`
	Result          *Result   `json:"result"`
	Baseline        *Baseline `json:"baseline"`
	SacrificeRatio  float64   `json:"sacrificeRatio"`
	Recommendations []string  `json:"recommendations"`
}

// MaxScoreBaseline allocates 1-(n-1)*minWeight to the highest score and
// minWeight to every other asset
func MaxScoreBaseline(scores []float64, minWeight float64) *Baseline {
	weights := make([]float64, len(scores))
	if len(scores) == 0 {
		return &Baseline{Weights: weights}
	}

	best := floats.MaxIdx(scores)
	for ii := range weights {
		weights[ii] = minWeight
	}
	weights[best] = 1 - minWeight*float64(len(scores)-1)

	return &Baseline{
		Weights:       weights,
		WeightedScore: floats.Dot(weights, scores),
	}
}

// SacrificeRatio is the fraction of the baseline weighted score given up by
// the optimized allocation
func SacrificeRatio(optimized, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return 1 - optimized/baseline
}

// Recommendations flags a lead weight that drifted more than the band from
// its target and a negative weighted score. Messages name the lead asset.
func Recommendations(res *Result, lead string) []string {
	recs := make([]string, 0, 2)
	if len(res.Weights) == 0 {
		return recs
	}

	diff := res.Weights[0] - res.Target[0]
	switch {
	case diff > RecommendationBand:
		recs = append(recs, fmt.Sprintf("建议减少%s配置，增加其他指数配置以分散风险", lead))
	case diff < -RecommendationBand:
		recs = append(recs, fmt.Sprintf("建议增加%s配置，以获得更稳定的收益", lead))
	}

	if res.WeightedScore < 0 {
		recs = append(recs, "警告：当前配置的预期夏普比率为负，请谨慎投资")
	}

	return recs
}

// Run optimizes scores with the preset and builds the full report
func Run(preset *Preset, assets []string, scores []float64, opts Options) (*Report, error) {
	if len(assets) != len(scores) {
		return nil, fmt.Errorf("%w: %d asset names for %d scores", ErrInvalidInput, len(assets), len(scores))
	}

	opts.Alpha = preset.AlphaFor(scores)
	res, err := Optimize(scores, preset.Target(len(scores)), opts)
	if err != nil {
		return nil, err
	}

	baseline := MaxScoreBaseline(scores, opts.MinWeight)

	return &Report{
		Strategy:        preset.Name,
		Assets:          assets,
		Scores:          scores,
		Result:          res,
		Baseline:        baseline,
		SacrificeRatio:  SacrificeRatio(res.WeightedScore, baseline.WeightedScore),
		Recommendations: Recommendations(res, assets[0]),
	}, nil
}

// FormatPercent renders a fraction as a percent rounded half away from zero
func FormatPercent(fraction float64, places int32) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(places) + "%"
}

// SacrificeMessage describes how much score was given up for balance
func (r *Report) SacrificeMessage() string {
	return fmt.Sprintf("为了权重平衡，牺牲了%s的夏普比率", FormatPercent(r.SacrificeRatio, 2))
}
