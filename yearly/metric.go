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

package yearly

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Metric is a computed value paired with a human readable description of how
// it was derived. An undefined metric carries NaN.
type Metric struct {
	Value      float64
	Provenance string
}

type metricJSON struct {
	Value      *float64 `json:"value"`
	Provenance string   `json:"provenance,omitempty"`
}

// Undefined returns a metric with no value
func Undefined(provenance string) Metric {
	return Metric{Value: math.NaN(), Provenance: provenance}
}

// Valid is false when the metric could not be computed
func (m Metric) Valid() bool {
	return !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0)
}

// Format renders the value with the given number of decimals or "--" when the
// metric is undefined
func (m Metric) Format(decimals int) string {
	if !m.Valid() {
		return "--"
	}
	return fmt.Sprintf("%.*f", decimals, m.Value)
}

func (m Metric) String() string {
	return m.Format(2)
}

// MarshalJSON writes undefined values as null
func (m Metric) MarshalJSON() ([]byte, error) {
	out := metricJSON{Provenance: m.Provenance}
	if m.Valid() {
		v := m.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null values back as NaN
func (m *Metric) UnmarshalJSON(data []byte) error {
	var in metricJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Provenance = in.Provenance
	if in.Value == nil {
		m.Value = math.NaN()
	} else {
		m.Value = *in.Value
	}
	return nil
}
