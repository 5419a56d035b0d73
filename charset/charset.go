// Package charset defines the glyph ramps used by the grid renderer.
//
// Every set is ordered from the lightest glyph (lowest density) to the
// heaviest. Effects produce a density value in [0, 1] that is quantized into
// an index of the active set with [Set.Index].
package charset

import (
	"math"
	"strings"

	"golang.org/x/text/width"
)

// Names of the built-in sets.
const (
	Minimal  = "minimal"
	Standard = "standard"
	Detailed = "detailed"
	Blocks   = "blocks"
	Matrix   = "matrix"
)

// Set is an ordered glyph ramp.
type Set struct {
	name  string
	runes []rune
}

var builtin = map[string]Set{
	Minimal:  newSet(Minimal, " .:#"),
	Standard: newSet(Standard, " .:-=+*#%@"),
	Detailed: newSet(Detailed, " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"),
	Blocks:   newSet(Blocks, " ░▒▓█"),
	Matrix:   newSet(Matrix, "ﾊﾐﾋｰｳｼﾅﾓﾆｻﾜﾂｵﾘｱﾎﾃﾏｹﾒｴｶｷﾑﾕﾗｾﾈｽﾀﾇﾍ012345789Z"),
}

func newSet(name, glyphs string) Set {
	return Set{name: name, runes: []rune(glyphs)}
}

// New creates a custom set from glyphs ordered light to heavy.
// An empty string yields the standard set.
func New(name, glyphs string) Set {
	if glyphs == "" {
		return builtin[Standard]
	}
	return newSet(name, glyphs)
}

// Lookup returns the built-in set with the given name.
// Unknown names report false and the standard set.
func Lookup(name string) (Set, bool) {
	s, ok := builtin[strings.ToLower(name)]
	if !ok {
		return builtin[Standard], false
	}
	return s, true
}

// Get is Lookup without the ok flag.
func Get(name string) Set {
	s, _ := Lookup(name)
	return s
}

// Names lists the built-in set names in a stable order.
func Names() []string {
	return []string{Minimal, Standard, Detailed, Blocks, Matrix}
}

// Name returns the set name.
func (s Set) Name() string { return s.name }

// Len returns the number of glyphs.
func (s Set) Len() int { return len(s.runes) }

// Runes returns a copy of the glyphs.
func (s Set) Runes() []rune {
	out := make([]rune, len(s.runes))
	copy(out, s.runes)
	return out
}

// String returns the glyphs as a string.
func (s Set) String() string { return string(s.runes) }

// At returns the glyph at i, clamped into range.
func (s Set) At(i int) rune {
	if len(s.runes) == 0 {
		return ' '
	}
	return s.runes[clampIndex(i, len(s.runes))]
}

// Index quantizes a density value into a glyph index:
// floor(v*(n-1)) clamped to [0, n-1].
func (s Set) Index(v float64) int {
	n := len(s.runes)
	if n == 0 {
		return 0
	}
	return clampIndex(int(math.Floor(v*float64(n-1))), n)
}

// Glyph is At(Index(v)).
func (s Set) Glyph(v float64) rune {
	return s.At(s.Index(v))
}

// Contains reports whether r is part of the set.
func (s Set) Contains(r rune) bool {
	for _, g := range s.runes {
		if g == r {
			return true
		}
	}
	return false
}

// Fold returns the width-folded counterpart of r: halfwidth forms map to
// their fullwidth equivalent and vice versa. It reports false when r has
// no counterpart.
func Fold(r rune) (rune, bool) {
	p := width.LookupRune(r)
	switch p.Kind() {
	case width.EastAsianHalfwidth:
		if w := p.Wide(); w != 0 {
			return w, true
		}
	case width.EastAsianFullwidth:
		if n := p.Narrow(); n != 0 {
			return n, true
		}
	}
	return r, false
}

// Wide reports whether r occupies two terminal columns.
func Wide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

