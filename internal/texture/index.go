package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to files under a search root.
// It is the fallback for references whose stored path does not exist on
// this machine, typically absolute editor paths from another system.
// Formats with an alpha channel win over ones without for the same stem.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// formatRank orders extensions for the same stem. Unlisted extensions
// are not indexed.
var formatRank = map[string]int{
	".jpg":  1,
	".jpeg": 1,
	".bmp":  1,
	".webp": 2,
	".tga":  3,
	".png":  3,
}

// BuildIndex walks dir and every subdirectory for image files. A
// missing dir yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := formatRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank > formatRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the indexed file for a texture reference, or ("", false).
func (idx *Index) ResolvePath(ref string) (string, bool) {
	if idx == nil {
		return "", false
	}
	// Strip the directory part (e.g. "C:\\proj\\tex\\wall.jpg" → "wall")
	ref = strings.ReplaceAll(ref, "\\", "/")
	base := filepath.Base(ref)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
