package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	base := t.TempDir()
	var c Config
	c.Resolve(Flags{BaseDir: base})

	if c.TextureDir != filepath.Join(base, "textures") {
		t.Errorf("TextureDir = %q", c.TextureDir)
	}
	if c.StrokeDir != filepath.Join(base, "strokes") || c.OutputDir != filepath.Join(base, "out") {
		t.Errorf("StrokeDir, OutputDir = %q, %q", c.StrokeDir, c.OutputDir)
	}
	if c.TextureSize != DefaultTextureSize {
		t.Errorf("TextureSize = %d, want %d", c.TextureSize, DefaultTextureSize)
	}
	if c.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", c.Workers, runtime.NumCPU())
	}
	if c.LogLevel != "warn" || c.EraseSource != "paint" || c.ExportFormat != "webp" {
		t.Errorf("LogLevel, EraseSource, ExportFormat = %q, %q, %q", c.LogLevel, c.EraseSource, c.ExportFormat)
	}
	if c.PreviewSize != DefaultPreviewSize || c.ThumbnailSize != DefaultThumbnailSize {
		t.Errorf("PreviewSize, ThumbnailSize = %d, %d", c.PreviewSize, c.ThumbnailSize)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadAndFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkpaint.json")
	data := `{"base_dir": "` + filepath.ToSlash(dir) + `", "output_dir": "/abs/out", "export_format": "png",
		"workers": 3, "preview_size": -1, "erase_source": "original"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Resolve(Flags{ExportFormat: "tga", Workers: 5, LogLevel: "debug"})

	if c.OutputDir != "/abs/out" {
		t.Errorf("OutputDir = %q, want absolute path kept", c.OutputDir)
	}
	if c.ExportFormat != "tga" || c.Workers != 5 || c.LogLevel != "debug" {
		t.Errorf("flags not applied: %+v", c)
	}
	if c.PreviewSize != 0 {
		t.Errorf("PreviewSize = %d, want 0 (disabled)", c.PreviewSize)
	}
	if c.EraseSource != "original" {
		t.Errorf("EraseSource = %q", c.EraseSource)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed JSON succeeded")
	}
}

func TestValidate(t *testing.T) {
	c := Config{ExportFormat: "gif", EraseSource: "paint"}
	if err := c.Validate(); err == nil {
		t.Error("Validate accepted gif")
	}
	c = Config{ExportFormat: "png", EraseSource: "undo"}
	if err := c.Validate(); err == nil {
		t.Error("Validate accepted erase source undo")
	}
}
