// Package atlas rasterizes glyph sets into cached texture strips.
//
// An Atlas is a single row of fixed-size cells, one per rune of the active
// glyph set and the matrix set, stored as an alpha coverage mask plus a copy
// pre-tinted in the primary color. The raster backend blits cells out of
// the tinted strip; the gpu backend uploads the mask as a texture.
//
// Atlases are keyed by color, font size and glyph set, built lazily and
// kept in a small LRU so that switching back to a recent configuration
// does not rebuild.
//
// Runes missing from the font are first folded between their halfwidth
// and fullwidth forms. When neither form is covered a deterministic block
// pattern is synthesized, so every rune in a set has a visual.
package atlas
