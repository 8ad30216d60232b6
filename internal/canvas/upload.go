/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"context"
	"errors"
	"log/slog"

	"shirtdesigner/internal/imagedecode"
)

type decodeResult struct {
	res imagedecode.Result
	err error
}

// UploadImageElement decodes data into a data URL and adds it as an image
// element. Decoding runs off the caller's goroutine; the canvas is untouched
// until it resolves. If the view is closed or ctx ends first, the result is
// dropped and ErrClosed or the context error is returned.
func (c *Controller) UploadImageElement(ctx context.Context, data []byte, name string) (string, error) {
	if c.isClosed() {
		return "", ErrClosed
	}
	done := make(chan decodeResult, 1)
	go func() {
		res, err := c.decode(ctx, data)
		done <- decodeResult{res: res, err: err}
	}()

	var r decodeResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.closed:
		return "", ErrClosed
	case r = <-done:
	}
	if r.err != nil {
		if errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded) {
			return "", r.err
		}
		c.log.Warn("upload decode failed", slog.Int("bytes", len(data)), slog.Any("err", r.err))
		return "", &DecodeError{Err: r.err}
	}

	c.lock()
	defer c.unlock()
	if c.isClosed() {
		return "", ErrClosed
	}
	id := c.addImageLocked(r.res.DataURL, name, "upload")
	c.log.Debug("upload added", slog.String("id", id), slog.String("format", r.res.Format), slog.Int("w", r.res.Width), slog.Int("h", r.res.Height))
	return id, nil
}
