/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "errors"

var (
	// ErrValidation rejects blank or malformed input; no state changes.
	ErrValidation = errors.New("validation error")
	// ErrDecode reports an upload that could not be turned into an image.
	ErrDecode = errors.New("decode error")
	// ErrNotFound reports an element id that does not exist (any more).
	ErrNotFound = errors.New("element not found")
	// ErrClosed is returned when the canvas view was torn down.
	ErrClosed = errors.New("canvas closed")
)

// DecodeError wraps the reason an upload failed to decode.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode error: " + e.Err.Error() }

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
