// Package texture loads base textures and brush stamps from disk, caches
// them by name and writes paint buffers back out.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// extensions lists the decodable file types, best first. When two files
// share a stem the earlier extension wins (alpha-capable formats first).
var extensions = []string{".png", ".tga", ".webp", ".jpg", ".jpeg"}

func supported(ext string) bool {
	return rank(ext) >= 0
}

// decoders picks the codec by extension. The tga package registers itself
// with an empty magic string, so image.Decode cannot be trusted to sniff.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".tga":  tga.Decode,
	".webp": nativewebp.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
}

func rank(ext string) int {
	ext = strings.ToLower(ext)
	for i, e := range extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// Load reads a PNG, TGA, WebP or JPEG file and returns it as NRGBA with its
// origin at (0, 0).
func Load(path string) (*image.NRGBA, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("texture: unknown extension: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to a zero-origin NRGBA. An NRGBA that already
// starts at the origin is returned as is.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}
