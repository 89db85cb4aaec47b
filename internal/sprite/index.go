package sprite

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"iso-asset-editor/internal/asset"
)

// extPriority orders formats for the same stem; alpha-capable formats win.
var extPriority = map[string]int{
	".png":  5,
	".webp": 4,
	".tga":  3,
	".bmp":  2,
	".jpg":  1,
	".jpeg": 1,
}

type frameSet struct {
	base       string
	directions [4]string
}

// Index maps lowercase sprite names to their frame files.
type Index struct {
	entries map[string]*frameSet
}

// BuildIndex scans dir recursively for sprite images.
// "<name>.<ext>" is the canonical frame, "<name>_<direction>.<ext>" a per-direction frame.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]*frameSet)}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		idx.Add(path)
		return nil
	})

	return idx
}

// Add registers one file. Unsupported extensions are ignored.
func (idx *Index) Add(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := extPriority[ext]; !ok {
		return
	}
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	name, dir, directional := splitDirection(stem)
	set, ok := idx.entries[name]
	if !ok {
		set = &frameSet{}
		idx.entries[name] = set
	}

	slot := &set.base
	if directional {
		slot = &set.directions[dir]
	}
	if *slot == "" || extPriority[ext] > extPriority[strings.ToLower(filepath.Ext(*slot))] {
		*slot = path
	}
}

func splitDirection(stem string) (string, asset.Direction, bool) {
	i := strings.LastIndexByte(stem, '_')
	if i <= 0 {
		return stem, 0, false
	}
	d, err := asset.ParseDirection(stem[i+1:])
	// single-letter and numeric suffixes are too easy to collide with real names
	if err != nil || len(stem[i+1:]) < 4 {
		return stem, 0, false
	}
	return stem[:i], d, true
}

// Lookup returns the file holding the frame for a facing and whether it must be mirrored.
// West falls back to a mirrored East frame and vice versa, then to the canonical frame.
func (idx *Index) Lookup(name string, d asset.Direction) (path string, mirrored bool, ok bool) {
	set, found := idx.entries[normalizeName(name)]
	if !found || !d.Valid() {
		return "", false, false
	}
	if p := set.directions[d]; p != "" {
		return p, false, true
	}
	switch d {
	case asset.West:
		if p := set.directions[asset.East]; p != "" {
			return p, true, true
		}
	case asset.East:
		if p := set.directions[asset.West]; p != "" {
			return p, true, true
		}
	}
	if set.base != "" {
		return set.base, false, true
	}
	if p := set.directions[asset.CanonicalDirection]; p != "" {
		return p, false, true
	}
	for _, p := range set.directions {
		if p != "" {
			return p, false, true
		}
	}
	return "", false, false
}

// Has reports whether any frame exists for name.
func (idx *Index) Has(name string) bool {
	_, ok := idx.entries[normalizeName(name)]
	return ok
}

// Names returns all indexed sprite names, sorted.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for n := range idx.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed sprites.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if _, ok := extPriority[strings.ToLower(filepath.Ext(base))]; ok {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.ToLower(base)
}
