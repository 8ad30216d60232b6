/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"shirtdesigner/internal/imagedecode"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadAddsDataURLElement(t *testing.T) {
	c := newTestController(t)
	id, err := c.UploadImageElement(context.Background(), pngBytes(t), "shirt-front.png")
	if err != nil {
		t.Fatalf("UploadImageElement: %v", err)
	}
	e, ok := c.Element(id)
	if !ok || e.Kind != KindImage || e.Name != "shirt-front.png" {
		t.Fatalf("unexpected element: %+v", e)
	}
	if !strings.HasPrefix(e.Src, "data:image/png;base64,") {
		t.Fatalf("expected png data url, got %q", e.Src)
	}
	if c.SelectedID() != id || !c.CanUndo() {
		t.Fatalf("upload should select and commit")
	}
}

func TestUploadDecodeFailureChangesNothing(t *testing.T) {
	c := newTestController(t)
	_, err := c.UploadImageElement(context.Background(), []byte("%PDF-1.7"), "doc.pdf")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || !errors.Is(de.Err, imagedecode.ErrFormat) {
		t.Fatalf("expected DecodeError wrapping ErrFormat, got %v", err)
	}
	if len(c.Elements()) != 0 || c.CanUndo() {
		t.Fatalf("failed decode must not touch the canvas")
	}
}

func TestUploadResolvingAfterCloseIsDropped(t *testing.T) {
	c := newTestController(t)
	release := make(chan struct{})
	started := make(chan struct{})
	c.decode = func(ctx context.Context, data []byte) (imagedecode.Result, error) {
		close(started)
		<-release
		return imagedecode.Result{DataURL: "data:image/png;base64,AA==", Format: "png", Width: 1, Height: 1}, nil
	}
	errc := make(chan error, 1)
	go func() {
		_, err := c.UploadImageElement(context.Background(), []byte{1}, "late")
		errc <- err
	}()
	<-started
	c.Close()
	close(release)
	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("upload did not resolve after close")
	}
	if len(c.Elements()) != 0 {
		t.Fatalf("closed canvas must not be mutated")
	}
	if _, err := c.UploadImageElement(context.Background(), pngBytes(t), "x"); !errors.Is(err, ErrClosed) {
		t.Fatalf("upload on closed canvas: %v", err)
	}
}

func TestUploadContextCancelled(t *testing.T) {
	c := newTestController(t)
	release := make(chan struct{})
	defer close(release)
	c.decode = func(ctx context.Context, data []byte) (imagedecode.Result, error) {
		<-release
		return imagedecode.Result{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.UploadImageElement(ctx, []byte{1}, "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(c.Elements()) != 0 {
		t.Fatalf("cancelled upload must not add elements")
	}
}
