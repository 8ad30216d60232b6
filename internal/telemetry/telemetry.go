/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry is an opt-in, anonymous event sender for canvas usage
// counters and crash uploads. Nothing is sent unless OptIn is set and an
// endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	applog "shirtdesigner/internal/log"
	"shirtdesigner/internal/version"
)

// Config holds runtime configuration for telemetry and crash uploads.
//
// Environment variables (read by FromEnv):
// - SD_TELEMETRY_OPT_IN: "1", "true", "yes" to enable
// - SD_TELEMETRY_URL: URL to POST JSON events to
// - SD_CRASH_UPLOAD_URL: URL to POST crash reports to
// - SD_TELEMETRY_TIMEOUT_MS: request timeout, default 1500ms
// - SD_TELEMETRY_DEBUG: if set, logs send attempts
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("SD_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("SD_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("SD_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("SD_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("SD_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Event is the wire form of one usage event. Props must never carry design
// content (text, image data, names).
type Event struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Client is an async sender with a bounded queue. Events are dropped when the
// queue is full or a send fails; callers are never blocked.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan Event
	// pending counts events queued or being sent.
	pending atomic.Int64
	once   sync.Once
	closed chan struct{}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the package client, building it from the environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault installs c as the package client and closes the previous one.
func SetDefault(c *Client) {
	defaultMu.Lock()
	prev := defaultClient
	defaultClient = c
	defaultMu.Unlock()
	if prev != nil && prev != c {
		prev.Close()
	}
}

// New constructs a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan Event, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events will be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues an event. Safe to call from anywhere, including a nil client.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	ev := Event{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if len(props) > 0 {
		ev.Props = make(map[string]any, len(props))
		for k, v := range props {
			ev.Props[k] = v
		}
	}
	c.pending.Add(1)
	select {
	case c.q <- ev:
	default:
		c.pending.Add(-1)
	}
}

// CommitHook adapts the client to a canvas commit callback. Only the
// operation name and element count are reported.
func (c *Client) CommitHook() func(op string, elements int) {
	return func(op string, elements int) {
		c.Event("canvas."+op, map[string]any{"elements": elements})
	}
}

// Flush waits until queued events are sent, ctx is done or the client is closed.
func (c *Client) Flush(ctx context.Context) {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-t.C:
		}
	}
}

// Close stops the background goroutine. Queued events are dropped.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case ev := <-c.q:
			c.post(c.cfg.EventsURL, "application/json", mustJSON(ev))
			c.pending.Add(-1)
		}
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func (c *Client) post(url, contentType string, body []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry send failed", slog.String("url", url), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry sent", slog.String("url", url), slog.Int("status", resp.StatusCode))
	}
}

// UploadCrash posts a crash report to the crash URL if opted in. It blocks
// until the request finishes or times out; the process is usually about to exit.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", report)
}
