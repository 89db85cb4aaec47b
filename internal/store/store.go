// Package store persists per-sprite positioning documents and the view scaling state
// as JSON files in one directory.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"iso-asset-editor/internal/mathutil"
	"iso-asset-editor/internal/scaling"
)

const viewFile = ".view.json"

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidName = errors.New("invalid sprite name")
)

// Store reads and writes documents under Dir.
type Store struct {
	Dir string
	log *zap.Logger
	now func() time.Time
}

// New returns a store rooted at dir. The directory is created on first write.
func New(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Dir: dir, log: log.Named("store"), now: time.Now}
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("store: %q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.Dir, name+".json"), nil
}

// Save writes doc, stamping version and modification time. The stamped document is returned.
func (s *Store) Save(doc Document) (Document, error) {
	p, err := s.path(doc.SpriteName)
	if err != nil {
		return doc, err
	}
	doc.Version = DocumentVersion
	doc.LastModified = s.now().UTC().Truncate(time.Millisecond)
	if err := s.writeJSON(p, doc); err != nil {
		return doc, err
	}
	s.log.Debug("Document written", zap.String("sprite", doc.SpriteName), zap.String("path", p))
	return doc, nil
}

// Load reads the document for a sprite.
func (s *Store) Load(name string) (Document, error) {
	p, err := s.path(name)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := readJSON(p, &doc); err != nil {
		return Document{}, err
	}
	if doc.SpriteName == "" {
		doc.SpriteName = name
	}
	return doc, nil
}

// List returns the sprite names that have a document, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.Dir, err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || filepath.Ext(n) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(n, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a sprite's document.
func (s *Store) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: delete %s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	s.log.Debug("Document deleted", zap.String("sprite", name))
	return nil
}

// ViewDocument is the persisted scaling state.
type ViewDocument struct {
	GridDiamondWidth     float64       `json:"gridDiamondWidth"`
	SpriteScale          float64       `json:"spriteScale"`
	BaseGridDiamondWidth float64       `json:"baseGridDiamondWidth"`
	BaseSpriteScale      float64       `json:"baseSpriteScale"`
	IsRatioLocked        bool          `json:"isRatioLocked"`
	ZLayerHeights        []ZLayerEntry `json:"zLayerHeights"`
	BaseZLayerHeights    []ZLayerEntry `json:"baseZLayerHeights"`
}

type ZLayerEntry struct {
	Z              int     `json:"z"`
	VerticalOffset float64 `json:"verticalOffset"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
}

// SaveView writes the scaling state.
func (s *Store) SaveView(v scaling.ViewState) error {
	doc := ViewDocument{
		GridDiamondWidth:     v.GridDiamondWidth,
		SpriteScale:          v.SpriteScale,
		BaseGridDiamondWidth: v.BaseGridDiamondWidth,
		BaseSpriteScale:      v.BaseSpriteScale,
		IsRatioLocked:        v.RatioLocked,
		ZLayerHeights:        fromLayers(v.ZLayers),
		BaseZLayerHeights:    fromLayers(v.BaseZLayers),
	}
	return s.writeJSON(filepath.Join(s.Dir, viewFile), doc)
}

// LoadView reads the scaling state. A missing file is reported as ErrNotFound.
func (s *Store) LoadView() (scaling.ViewState, error) {
	var doc ViewDocument
	if err := readJSON(filepath.Join(s.Dir, viewFile), &doc); err != nil {
		return scaling.ViewState{}, err
	}
	if !mathutil.Positive(doc.GridDiamondWidth) || !mathutil.Positive(doc.SpriteScale) ||
		!mathutil.Positive(doc.BaseGridDiamondWidth) || !mathutil.Positive(doc.BaseSpriteScale) {
		return scaling.ViewState{}, fmt.Errorf("store: load view: %w", scaling.ErrInvalidValue)
	}
	v := scaling.ViewState{
		GridDiamondWidth:     doc.GridDiamondWidth,
		SpriteScale:          doc.SpriteScale,
		BaseGridDiamondWidth: doc.BaseGridDiamondWidth,
		BaseSpriteScale:      doc.BaseSpriteScale,
		RatioLocked:          doc.IsRatioLocked,
		ZLayers:              toLayers(doc.ZLayerHeights),
		BaseZLayers:          toLayers(doc.BaseZLayerHeights),
	}
	for _, ls := range [][]scaling.ZLayer{v.ZLayers, v.BaseZLayers} {
		for _, l := range ls {
			if !mathutil.Finite(l.VerticalOffset) {
				return scaling.ViewState{}, fmt.Errorf("store: load view: z layer %d: %w", l.Z, scaling.ErrInvalidValue)
			}
		}
	}
	return v.Reconcile(), nil
}

func fromLayers(ls []scaling.ZLayer) []ZLayerEntry {
	out := make([]ZLayerEntry, len(ls))
	for i, l := range ls {
		out[i] = ZLayerEntry{Z: l.Z, VerticalOffset: l.VerticalOffset, Name: l.Name, Color: l.Color}
	}
	return out
}

func toLayers(es []ZLayerEntry) []scaling.ZLayer {
	out := make([]scaling.ZLayer, len(es))
	for i, e := range es {
		out[i] = scaling.ZLayer{Z: e.Z, VerticalOffset: e.VerticalOffset, Name: e.Name, Color: e.Color}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Z < out[b].Z })
	return out
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: read %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: parse %s: %w", path, err)
	}
	return nil
}
