package atlas

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// ErrEmptyFontData is returned when font data is empty.
var ErrEmptyFontData = errors.New("atlas: empty font data")

// Font is a parsed TrueType font with faces cached per pixel size.
// It is safe for concurrent use.
type Font struct {
	sfnt *opentype.Font
	cmap *gotext.Font

	mu    sync.Mutex
	faces map[int64]font.Face
}

// LoadFont parses TrueType or OpenType data.
func LoadFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("atlas: failed to parse font: %w", err)
	}
	// The go-text face answers cmap coverage queries without rasterizing.
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("atlas: failed to read cmap: %w", err)
	}
	return &Font{sfnt: sf, cmap: face.Font, faces: make(map[int64]font.Face)}, nil
}

var (
	defaultOnce sync.Once
	defaultFont *Font
	defaultErr  error
)

// DefaultFont returns the embedded Go Mono font.
func DefaultFont() (*Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = LoadFont(gomono.TTF)
	})
	return defaultFont, defaultErr
}

// Has reports whether the font maps r to a glyph.
func (f *Font) Has(r rune) bool {
	_, ok := f.cmap.NominalGlyph(r)
	return ok
}

// Face returns a face rendering at size pixels.
func (f *Font) Face(size float64) (font.Face, error) {
	key := int64(math.Round(size * 64))
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: face at %.1fpx: %w", size, err)
	}
	f.faces[key] = face
	return face, nil
}

// Close releases every cached face.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	for k, face := range f.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(f.faces, k)
	}
	return errors.Join(errs...)
}
