package texture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// ExportOptions tunes Export.
type ExportOptions struct {
	// WebPExtended writes the VP8X extended WebP container.
	WebPExtended bool
}

// Export writes img to path. The format follows the extension: .webp
// (lossless), .png or .tga. Parent directories are created.
func Export(path string, img image.Image, opts ExportOptions) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".webp", ".png", ".tga":
	default:
		return fmt.Errorf("texture: cannot export %s: unsupported extension", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("texture: mkdir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", path, err)
	}
	switch ext {
	case ".webp":
		err = nativewebp.Encode(f, img, &nativewebp.Options{UseExtendedFormat: opts.WebPExtended})
	case ".png":
		err = png.Encode(f, img)
	case ".tga":
		err = tga.Encode(f, img)
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("texture: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("texture: close %s: %w", path, err)
	}
	return nil
}
