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
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

//go:embed presets.toml
var presetResource []byte

// Preset is a named optimization strategy
type Preset struct {
	Name        string  `toml:"-"`
	Description string  `toml:"description"`
	Alpha       float64 `toml:"alpha"`
	TargetLead  float64 `toml:"target_lead"`
	TargetRest  float64 `toml:"target_rest"`

	// Adaptive presets derive alpha from the spread of the scores
	Adaptive    bool    `toml:"adaptive"`
	MinAlpha    float64 `toml:"min_alpha"`
	MaxAlpha    float64 `toml:"max_alpha"`
	MaxVariance float64 `toml:"max_variance"`
}

// PresetMap holds every preset keyed by name
var PresetMap map[string]*Preset

func init() {
	presets, err := LoadPresets(presetResource)
	if err != nil {
		log.Panic().Err(err).Msg("embedded optimizer presets are invalid")
	}
	PresetMap = presets
}

// LoadPresets parses a TOML document of presets keyed by name
func LoadPresets(doc []byte) (map[string]*Preset, error) {
	presets := make(map[string]*Preset)
	if err := toml.Unmarshal(doc, &presets); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	for name, preset := range presets {
		preset.Name = name
	}
	return presets, nil
}

// LookupPreset returns the preset with the given name. Dashes and case are
// ignored so sharpe-focused and sharpe_focused are the same strategy.
func LookupPreset(name string) (*Preset, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if key == "" {
		key = "balanced"
	}
	preset, ok := PresetMap[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownStrategy, name, strings.Join(PresetNames(), ", "))
	}
	return preset, nil
}

// PresetNames lists the known preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(PresetMap))
	for name := range PresetMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AlphaFor returns the alpha the preset uses for scores
func (p *Preset) AlphaFor(scores []float64) float64 {
	if !p.Adaptive {
		return p.Alpha
	}
	return AdaptiveAlpha(scores, p.MinAlpha, p.MaxAlpha, p.MaxVariance)
}

// Target builds the target weight vector for n assets with the first asset
// as the lead
func (p *Preset) Target(n int) []float64 {
	return TargetWeights(n, p.TargetLead, p.TargetRest)
}

// TargetWeights returns lead followed by n-1 copies of rest
func TargetWeights(n int, lead, rest float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	target := make([]float64, n)
	target[0] = lead
	for ii := 1; ii < n; ii++ {
		target[ii] = rest
	}
	return target
}

// AdaptiveAlpha maps the population variance of the scores, scaled by
// maxVariance and clamped to [0,1], linearly onto [minAlpha, maxAlpha]
func AdaptiveAlpha(scores []float64, minAlpha, maxAlpha, maxVariance float64) float64 {
	if len(scores) == 0 || maxVariance <= 0 {
		return minAlpha
	}
	normalized := math.Min(1, math.Max(0, stat.PopVariance(scores, nil)/maxVariance))
	return minAlpha + normalized*(maxAlpha-minAlpha)
}
