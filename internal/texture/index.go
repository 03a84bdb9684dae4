package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir and its subdirectories for decodable images. For
// files sharing a stem, PNG beats TGA beats WebP beats JPEG.
func BuildIndex(dir string) (*Index, error) {
	idx := &Index{entries: make(map[string]string)}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if !supported(ext) {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(d.Name(), ext))
		if existing, ok := idx.entries[stem]; !ok || rank(ext) < rank(filepath.Ext(existing)) {
			idx.entries[stem] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// ResolvePath returns the path indexed for a texture name, or ("", false).
// Directory prefixes (either separator) and the extension are ignored.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
