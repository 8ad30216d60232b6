/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shirtdesigner/internal/canvas"
	"shirtdesigner/internal/config"
	"shirtdesigner/internal/crash"
	"shirtdesigner/internal/imagedecode"
	applog "shirtdesigner/internal/log"
	"shirtdesigner/internal/script"
	"shirtdesigner/internal/telemetry"
	"shirtdesigner/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Shirt Designer canvas tools")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  shirtdesigner version|-v|--version        Show version")
	_, _ = fmt.Fprintln(w, "  shirtdesigner replay [--yaml] <script>    Replay a canvas script and print the final view")
	_, _ = fmt.Fprintln(w, "  shirtdesigner check <script>              Parse a canvas script and report errors")
	_, _ = fmt.Fprintln(w, "  shirtdesigner decode <image>              Decode an image as an upload would")
	_, _ = fmt.Fprintln(w, "  shirtdesigner config [path]               Print the effective configuration or its path")
	_, _ = fmt.Fprintln(w, "  shirtdesigner config save [file]          Write the effective configuration")
}

// env bundles what every subcommand needs.
type env struct {
	cfg    config.AppConfig
	tel    *telemetry.Client
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	applog.Init(cfg.Logging.LogOptions())
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	tel := telemetry.New(cfg.General.Telemetry())
	telemetry.SetDefault(tel)
	defer tel.Close()
	defer crash.Recover(crash.Options{Telemetry: tel})

	e := &env{cfg: cfg, tel: tel, log: l, stdout: stdout, stderr: stderr}
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, "Shirt Designer canvas tools")
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "replay":
		return e.replay(args[1:])
	case "check":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stderr, "check requires <script>")
			usage(stderr)
			return 2
		}
		if _, code := e.parseFile(args[1]); code != 0 {
			return code
		}
		_, _ = fmt.Fprintln(stdout, "ok")
		return 0
	case "decode":
		return e.decode(args[1:])
	case "config":
		return e.config(args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

func (e *env) parseFile(path string) (script.Script, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		e.log.Error("read script failed", slog.String("path", path), slog.Any("err", err))
		_, _ = fmt.Fprintln(e.stderr, "Error:", err)
		return script.Script{}, 1
	}
	s, errs := script.Parse(string(data))
	if len(errs) > 0 {
		for _, pe := range errs {
			_, _ = fmt.Fprintf(e.stderr, "%s:%s\n", path, pe.Error())
		}
		return s, 1
	}
	return s, 0
}

func (e *env) replay(args []string) int {
	asYAML := false
	if len(args) > 0 && args[0] == "--yaml" {
		asYAML = true
		args = args[1:]
	}
	if len(args) != 1 {
		_, _ = fmt.Fprintln(e.stderr, "replay requires <script>")
		usage(e.stderr)
		return 2
	}
	path := args[0]
	s, code := e.parseFile(path)
	if code != 0 {
		return code
	}

	opts := e.cfg.Options()
	opts.OnCommit = e.tel.CommitHook()
	ctrl := canvas.NewController(opts)
	defer ctrl.Close()
	defer crash.Recover(crash.Options{State: ctrl, Telemetry: e.tel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := script.NewRunner(ctrl)
	r.Dir = filepath.Dir(path)
	e.log.Info("replay", slog.String("script", path), slog.Int("steps", len(s.Steps)))
	if err := r.Run(ctx, s); err != nil {
		e.log.Error("replay failed", slog.Any("err", err))
		_, _ = fmt.Fprintf(e.stderr, "%s:%v\n", path, err)
		return 1
	}
	if err := writeView(e.stdout, ctrl.View(), asYAML); err != nil {
		_, _ = fmt.Fprintln(e.stderr, "Error:", err)
		return 1
	}
	flushCtx, cancel := context.WithTimeout(ctx, e.cfg.General.Telemetry().Timeout)
	defer cancel()
	e.tel.Flush(flushCtx)
	return 0
}

// writeView prints v as indented JSON or as YAML with the same keys.
func writeView(w io.Writer, v canvas.View, asYAML bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if !asYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func (e *env) decode(args []string) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(e.stderr, "decode requires <image>")
		usage(e.stderr)
		return 2
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, "Error:", err)
		return 1
	}
	res, err := imagedecode.Decode(context.Background(), data, imagedecode.Options{MaxBytes: e.cfg.Canvas.UploadMaxBytes})
	if err != nil {
		e.log.Error("decode failed", slog.String("path", args[0]), slog.Any("err", err))
		_, _ = fmt.Fprintln(e.stderr, "Error:", err)
		return 1
	}
	_, _ = fmt.Fprintf(e.stdout, "Format: %s (%s)\n", res.Format, res.MIME())
	_, _ = fmt.Fprintf(e.stdout, "Size: %dx%d\n", res.Width, res.Height)
	_, _ = fmt.Fprintf(e.stdout, "Data URL: %d bytes\n", len(res.DataURL))
	return 0
}

func (e *env) config(args []string) int {
	if len(args) > 0 && args[0] == "path" {
		p, err := config.ConfigPath()
		if err != nil {
			_, _ = fmt.Fprintln(e.stderr, "Error:", err)
			return 1
		}
		_, _ = fmt.Fprintln(e.stdout, p)
		return 0
	}
	if len(args) > 0 && args[0] == "save" {
		return e.saveConfig(args[1:])
	}
	data, err := yaml.Marshal(e.cfg)
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, "Error:", err)
		return 1
	}
	_, _ = e.stdout.Write(data)
	for _, key := range []string{"canvas.min_size", "canvas.disable_resize", "canvas.snap.enabled", "canvas.upload_max_bytes",
		"history.max_depth", "general.telemetry_opt_in", "logging.level", "logging.format", "logging.file"} {
		if name, ok := config.EnvOverrideFor(key); ok {
			_, _ = fmt.Fprintf(e.stdout, "# %s overridden by %s\n", key, name)
		}
	}
	return 0
}

// saveConfig writes the effective configuration, env overrides included.
func (e *env) saveConfig(args []string) int {
	var (
		path string
		err  error
	)
	if len(args) > 0 {
		path = args[0]
		err = config.SaveTo(path, e.cfg)
	} else if path, err = config.ConfigPath(); err == nil {
		err = config.Save(e.cfg)
	}
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, "Error:", err)
		return 1
	}
	e.log.Info("config saved", slog.String("path", path))
	_, _ = fmt.Fprintln(e.stdout, path)
	return 0
}
