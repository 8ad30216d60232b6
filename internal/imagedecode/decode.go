/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imagedecode turns the raw bytes of a user-selected file into a
// displayable data URL. The bytes are validated by decoding the image header
// with the registered codecs; pixel data is never rasterised.
package imagedecode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxBytes caps uploads at 10 MiB.
const DefaultMaxBytes = 10 << 20

var (
	ErrEmpty    = errors.New("empty file")
	ErrTooLarge = errors.New("file too large")
	ErrFormat   = errors.New("unsupported image format")
)

// Result describes a decoded upload.
type Result struct {
	DataURL string
	Format  string // png, jpeg, gif, bmp, tiff, webp
	Width   int
	Height  int
}

// MIME returns the media type for the decoded format.
func (r Result) MIME() string { return "image/" + r.Format }

// Options tune Decode.
type Options struct {
	// MaxBytes rejects larger inputs. Zero selects DefaultMaxBytes, negative disables the cap.
	MaxBytes int
}

// Decode validates data as an image and encodes it as a base64 data URL.
// It honours ctx cancellation before and after the (potentially slow) encode.
func Decode(ctx context.Context, data []byte, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, ErrEmpty
	}
	limit := opts.MaxBytes
	if limit == 0 {
		limit = DefaultMaxBytes
	}
	if limit > 0 && len(data) > limit {
		return Result{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), limit)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Result{}, ErrFormat
		}
		return Result{}, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{}, fmt.Errorf("decode image header: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	res := Result{Format: format, Width: cfg.Width, Height: cfg.Height}
	res.DataURL = "data:" + res.MIME() + ";base64," + base64.StdEncoding.EncodeToString(data)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}
