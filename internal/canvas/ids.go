/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// idSource hands out time-ordered ULIDs. Monotonic entropy guarantees ids
// minted in the same millisecond still sort and never repeat.
// Callers serialize access (the controller lock).
type idSource struct {
	entropy io.Reader
	now     func() time.Time
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0), now: time.Now}
}

func (s *idSource) next() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}
