// Package config loads the JSON settings file and merges CLI overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Defaults applied by Resolve to unset fields.
const (
	DefaultTextureSize   = 256
	DefaultPreviewSize   = 512
	DefaultThumbnailSize = 128
	DefaultLogLevel      = "warn"
	DefaultEraseSource   = "paint"
	DefaultExportFormat  = "webp"
)

// Config holds all configurable paths and paint settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	TextureDir string `json:"texture_dir"`
	StrokeDir  string `json:"stroke_dir"`
	OutputDir  string `json:"output_dir"`

	// Paint settings
	TextureSize int    `json:"texture_size"` // blank base texture size for materials without one
	EraseSource string `json:"erase_source"` // "paint" or "original"

	// Output settings
	ExportFormat  string `json:"export_format"` // "webp", "png" or "tga"
	WebPExtended  bool   `json:"webp_extended"`
	PreviewSize   int    `json:"preview_size"`   // negative disables
	ThumbnailSize int    `json:"thumbnail_size"` // negative disables

	Workers  int    `json:"workers"`
	LogLevel string `json:"log_level"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir      string
	OutputDir    string
	ExportFormat string
	LogLevel     string
	Workers      int
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides, then fills empty fields with defaults and
// makes relative directories absolute against BaseDir.
func (c *Config) Resolve(flags Flags) {
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.ExportFormat != "" {
		c.ExportFormat = flags.ExportFormat
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}
	c.TextureDir = under(c.BaseDir, c.TextureDir, "textures")
	c.StrokeDir = under(c.BaseDir, c.StrokeDir, "strokes")
	c.OutputDir = under(c.BaseDir, c.OutputDir, "out")

	if c.TextureSize <= 0 {
		c.TextureSize = DefaultTextureSize
	}
	if c.EraseSource == "" {
		c.EraseSource = DefaultEraseSource
	}
	if c.ExportFormat == "" {
		c.ExportFormat = DefaultExportFormat
	}
	c.PreviewSize = sizeOrDefault(c.PreviewSize, DefaultPreviewSize)
	c.ThumbnailSize = sizeOrDefault(c.ThumbnailSize, DefaultThumbnailSize)
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	switch c.ExportFormat {
	case "webp", "png", "tga":
	default:
		return fmt.Errorf("config: export_format %q: want webp, png or tga", c.ExportFormat)
	}
	switch c.EraseSource {
	case "paint", "original":
	default:
		return fmt.Errorf("config: erase_source %q: want paint or original", c.EraseSource)
	}
	return nil
}

// under resolves dir against base, using def when dir is empty.
func under(base, dir, def string) string {
	if dir == "" {
		dir = def
	}
	if filepath.IsAbs(dir) || base == "" {
		return dir
	}
	return filepath.Join(base, dir)
}

// sizeOrDefault maps 0 to def and negative values to 0 (disabled).
func sizeOrDefault(v, def int) int {
	switch {
	case v == 0:
		return def
	case v < 0:
		return 0
	}
	return v
}

// detectBaseDir looks for a strokes directory next to the executable, then
// in the working directory and its parent.
func detectBaseDir() string {
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if isDir(filepath.Join(base, "strokes")) {
				return base
			}
		}
	}

	cwd, _ := os.Getwd()
	if isDir(filepath.Join(cwd, "strokes")) {
		return cwd
	}
	if parent := filepath.Dir(cwd); isDir(filepath.Join(parent, "strokes")) {
		return parent
	}
	return cwd
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
