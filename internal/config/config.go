/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"shirtdesigner/internal/canvas"
	applog "shirtdesigner/internal/log"
	"shirtdesigner/internal/telemetry"
	"shirtdesigner/internal/vector"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown keys are ignored on load.

// RectConfig is a placement rectangle in canvas pixels.
type RectConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type TextConfig struct {
	FontSize   float64 `yaml:"font_size"`
	FontFamily string  `yaml:"font_family"`
	Color      string  `yaml:"color"`
}

type SnapConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
	Edges     bool    `yaml:"edges"`
	Centers   bool    `yaml:"centers"`
}

type CanvasConfig struct {
	MinSize          float64    `yaml:"min_size"`
	ImagePlacement   RectConfig `yaml:"image_placement"`
	TextPlacement    RectConfig `yaml:"text_placement"`
	Text             TextConfig `yaml:"text"`
	DefaultImageName string     `yaml:"default_image_name"`
	HandleRadius     float64    `yaml:"handle_radius"`
	DisableResize    bool       `yaml:"disable_resize"`
	UploadMaxBytes   int        `yaml:"upload_max_bytes"`
	Snap             SnapConfig `yaml:"snap"`
}

type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type GeneralConfig struct {
	TelemetryOptIn   bool   `yaml:"telemetry_opt_in"`
	TelemetryURL     string `yaml:"telemetry_url"`
	CrashUploadURL   string `yaml:"crash_upload_url"`
	TelemetryTimeout int    `yaml:"telemetry_timeout_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	History       HistoryConfig `yaml:"history"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	o := canvas.DefaultOptions()
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryTimeout: 1500},
		Canvas: CanvasConfig{
			MinSize:          o.MinSize,
			ImagePlacement:   rectConfig(o.ImagePlacement),
			TextPlacement:    rectConfig(o.TextPlacement),
			Text:             TextConfig{FontSize: o.TextStyle.FontSize, FontFamily: o.TextStyle.FontFamily, Color: o.TextStyle.Color},
			DefaultImageName: o.DefaultImageName,
			HandleRadius:     o.HandleRadius,
			Snap:             SnapConfig{Threshold: o.Snap.Threshold, Edges: o.Snap.SnapToEdges, Centers: o.Snap.SnapToCenters},
		},
		History: HistoryConfig{MaxDepth: 0},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

func rectConfig(r vector.Rect) RectConfig { return RectConfig{X: r.X, Y: r.Y, Width: r.W, Height: r.H} }

func (r RectConfig) rect() vector.Rect { return vector.R(r.X, r.Y, r.Width, r.Height) }

// Env var names used as overrides.
const (
	EnvConfigFile     = "SD_CONFIG"
	EnvMinSize        = "SD_MIN_SIZE"
	EnvHistoryMax     = "SD_HISTORY_MAX"
	EnvDisableResize  = "SD_DISABLE_RESIZE"
	EnvSnap           = "SD_SNAP"
	EnvUploadMaxBytes = "SD_UPLOAD_MAX_BYTES"
	EnvTelemetryOptIn = "SD_TELEMETRY_OPT_IN"
	EnvTelemetryURL   = "SD_TELEMETRY_URL"
	EnvCrashUploadURL = "SD_CRASH_UPLOAD_URL"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SD_LOG_LEVEL"
	EnvLogFormat = "SD_LOG_FORMAT"
	EnvLogSource = "SD_LOG_SOURCE"
	EnvLogFile   = "SD_LOG_FILE"
)

// ConfigPath returns the per-user config file path. SD_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ShirtDesigner")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ShirtDesigner")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "shirtdesigner")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "shirtdesigner")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit path. A missing file is not an error;
// a file that exists but does not parse is.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if strings.TrimSpace(src.General.TelemetryURL) != "" {
		dst.General.TelemetryURL = strings.TrimSpace(src.General.TelemetryURL)
	}
	if strings.TrimSpace(src.General.CrashUploadURL) != "" {
		dst.General.CrashUploadURL = strings.TrimSpace(src.General.CrashUploadURL)
	}
	if src.General.TelemetryTimeout > 0 {
		dst.General.TelemetryTimeout = src.General.TelemetryTimeout
	}

	// canvas
	sc, dc := &src.Canvas, &dst.Canvas
	if sc.MinSize > 0 {
		dc.MinSize = sc.MinSize
	}
	if sc.ImagePlacement.Width > 0 && sc.ImagePlacement.Height > 0 {
		dc.ImagePlacement = sc.ImagePlacement
	}
	if sc.TextPlacement.Width > 0 && sc.TextPlacement.Height > 0 {
		dc.TextPlacement = sc.TextPlacement
	}
	if sc.Text.FontSize > 0 {
		dc.Text.FontSize = sc.Text.FontSize
	}
	if strings.TrimSpace(sc.Text.FontFamily) != "" {
		dc.Text.FontFamily = strings.TrimSpace(sc.Text.FontFamily)
	}
	// an invalid color keeps the default
	if c := strings.TrimSpace(sc.Text.Color); canvas.ValidColor(c) {
		dc.Text.Color = strings.ToLower(c)
	}
	if strings.TrimSpace(sc.DefaultImageName) != "" {
		dc.DefaultImageName = strings.TrimSpace(sc.DefaultImageName)
	}
	if sc.HandleRadius > 0 {
		dc.HandleRadius = sc.HandleRadius
	}
	dc.DisableResize = sc.DisableResize
	if sc.UploadMaxBytes != 0 {
		dc.UploadMaxBytes = sc.UploadMaxBytes
	}
	dc.Snap.Enabled = sc.Snap.Enabled
	if sc.Snap.Threshold > 0 {
		dc.Snap.Threshold = sc.Snap.Threshold
	}
	// snapping to nothing is meaningless; keep the defaults unless one is set
	if sc.Snap.Edges || sc.Snap.Centers {
		dc.Snap.Edges = sc.Snap.Edges
		dc.Snap.Centers = sc.Snap.Centers
	}

	if src.History.MaxDepth > 0 {
		dst.History.MaxDepth = src.History.MaxDepth
	}

	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvMinSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Canvas.MinSize = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryMax)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.History.MaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDisableResize)); v != "" {
		cfg.Canvas.DisableResize = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnap)); v != "" {
		cfg.Canvas.Snap.Enabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvUploadMaxBytes)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.UploadMaxBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryURL)); v != "" {
		cfg.General.TelemetryURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashUploadURL)); v != "" {
		cfg.General.CrashUploadURL = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"canvas.min_size":          EnvMinSize,
	"canvas.disable_resize":    EnvDisableResize,
	"canvas.snap.enabled":      EnvSnap,
	"canvas.upload_max_bytes":  EnvUploadMaxBytes,
	"history.max_depth":        EnvHistoryMax,
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"general.telemetry_url":    EnvTelemetryURL,
	"general.crash_upload_url": EnvCrashUploadURL,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// Options builds controller options. Logger and OnCommit are left for the caller.
func (c AppConfig) Options() canvas.Options {
	cc := c.Canvas
	return canvas.Options{
		MinSize:          cc.MinSize,
		ImagePlacement:   cc.ImagePlacement.rect(),
		TextPlacement:    cc.TextPlacement.rect(),
		TextStyle:        canvas.TextStyle{FontSize: cc.Text.FontSize, FontFamily: cc.Text.FontFamily, Color: cc.Text.Color},
		DefaultImageName: cc.DefaultImageName,
		HandleRadius:     cc.HandleRadius,
		MaxHistory:       c.History.MaxDepth,
		DisableResize:    cc.DisableResize,
		UploadMaxBytes:   cc.UploadMaxBytes,
		Snap: canvas.SnapOptions{
			Enabled:     cc.Snap.Enabled,
			SnapOptions: vector.SnapOptions{Threshold: cc.Snap.Threshold, SnapToEdges: cc.Snap.Edges, SnapToCenters: cc.Snap.Centers},
		},
	}
}

// LogOptions converts the logging section for applog.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

// Telemetry converts the general section for telemetry.New.
func (g GeneralConfig) Telemetry() telemetry.Config {
	timeout := time.Duration(g.TelemetryTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	return telemetry.Config{
		OptIn:     g.TelemetryOptIn,
		EventsURL: g.TelemetryURL,
		CrashURL:  g.CrashUploadURL,
		Timeout:   timeout,
	}
}
