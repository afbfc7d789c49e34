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

package workbook

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// Field is a canonical column name
type Field string

const (
	FieldDate             Field = "date"
	FieldCode             Field = "code"
	FieldFullName         Field = "full_name"
	FieldShortName        Field = "short_name"
	FieldEnglishFullName  Field = "english_full_name"
	FieldEnglishShortName Field = "english_short_name"
	FieldOpen             Field = "open"
	FieldHigh             Field = "high"
	FieldLow              Field = "low"
	FieldClose            Field = "close"
	FieldChangePercent    Field = "change_percent"
	FieldChangePoints     Field = "change_points"
	FieldVolume           Field = "volume"
	FieldAmount           Field = "amount"
	FieldSampleCount      Field = "sample_count"
)

//go:embed columns.toml
var columnResource []byte

type fieldSpec struct {
	Name     Field    `toml:"name"`
	Synonyms []string `toml:"synonyms"`
}

type columnDoc struct {
	Fields []fieldSpec `toml:"field"`
}

// Resolver maps header text to canonical fields using ordered synonym lists
type Resolver struct {
	fields []fieldSpec
}

// Columns maps each resolved field to its 0-based column index
type Columns map[Field]int

// DefaultResolver uses the embedded synonym table
var DefaultResolver *Resolver

func init() {
	resolver, err := NewResolver(columnResource)
	if err != nil {
		log.Panic().Err(err).Msg("embedded column synonyms are invalid")
	}
	DefaultResolver = resolver
}

// NewResolver parses a TOML synonym table
func NewResolver(doc []byte) (*Resolver, error) {
	var parsed columnDoc
	if err := toml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parse column synonyms: %w", err)
	}

	for ii := range parsed.Fields {
		for jj, syn := range parsed.Fields[ii].Synonyms {
			parsed.Fields[ii].Synonyms[jj] = normalizeHeader(syn)
		}
	}

	return &Resolver{fields: parsed.Fields}, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Resolve finds every known field in header. Exact matches are assigned
// first, then substring matches on the remaining headers. Missing required
// fields produce ErrMissingColumn naming them.
func (r *Resolver) Resolve(header []string, required ...Field) (Columns, error) {
	normalized := make([]string, len(header))
	for ii, h := range header {
		normalized[ii] = normalizeHeader(h)
	}

	cols := make(Columns)
	claimed := make(map[int]bool)

	match := func(pred func(h, syn string) bool) {
		for _, spec := range r.fields {
			if _, ok := cols[spec.Name]; ok {
				continue
			}
		synonyms:
			for _, syn := range spec.Synonyms {
				for idx, h := range normalized {
					if h == "" || claimed[idx] {
						continue
					}
					if pred(h, syn) {
						cols[spec.Name] = idx
						claimed[idx] = true
						break synonyms
					}
				}
			}
		}
	}

	match(func(h, syn string) bool { return h == syn })
	match(strings.Contains)

	missing := make([]string, 0)
	for _, field := range required {
		if _, ok := cols[field]; !ok {
			missing = append(missing, fmt.Sprintf("%s (%s)", field, strings.Join(r.Synonyms(field), ", ")))
		}
	}

	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, "; "))
	}

	return cols, nil
}

// Synonyms returns the accepted header text for field
func (r *Resolver) Synonyms(field Field) []string {
	for _, spec := range r.fields {
		if spec.Name == field {
			return spec.Synonyms
		}
	}
	return []string{}
}

// Has reports whether every field in fields was resolved
func (c Columns) Has(fields ...Field) bool {
	for _, field := range fields {
		if _, ok := c[field]; !ok {
			return false
		}
	}
	return true
}
