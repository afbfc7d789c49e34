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

package common

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// FileDigest returns the hex encoded blake3 digest of the file at path
func FileDigest(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open file for digest")
	}
	defer fh.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, fh); err != nil {
		return "", errors.Wrap(err, "read file for digest")
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

