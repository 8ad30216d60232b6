/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report on disk.
package crash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "shirtdesigner/internal/log"
	"shirtdesigner/internal/telemetry"
	"shirtdesigner/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Options say where reports go and what state is attached.
type Options struct {
	// Dir receives crash-<stamp>.log; empty means os.TempDir().
	Dir string
	// State, if set, is marshalled into the report (the canvas view).
	State json.Marshaler
	// Telemetry receives the report when crash upload is opted in; nil uses the default client.
	Telemetry *telemetry.Client
}

// Recover captures a panic, logs it with a stacktrace, writes a report file
// and exits with code 2. It must be deferred directly:
//
//	defer crash.Recover(crash.Options{State: ctrl})
func Recover(opts Options) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	report := buildReport(r, stack, opts.State)
	reportPath, err := writeReport(opts.Dir, report)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err), slog.String("path", reportPath))
	}
	tc := opts.Telemetry
	if tc == nil {
		tc = telemetry.Default()
	}
	tc.UploadCrash(report)

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func buildReport(panicVal any, stack []byte, state json.Marshaler) []byte {
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Shirt Designer Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", stack)
	if state != nil {
		// the panic may have come from inside the state itself
		b, err := safeMarshal(state)
		if err != nil {
			_, _ = fmt.Fprintf(&buf, "\nState: unavailable (%v)\n", err)
		} else {
			_, _ = fmt.Fprintf(&buf, "\nState:\n%s\n", b)
		}
	}
	return buf.Bytes()
}

func safeMarshal(m json.Marshaler) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("marshal panicked: %v", r)
		}
	}()
	return m.MarshalJSON()
}

func writeReport(dir string, report []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dir, err
	}
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(report); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
