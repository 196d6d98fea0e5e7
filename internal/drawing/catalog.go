package drawing

import (
	"errors"
	"fmt"
)

// ErrCatalogMismatch reports a token catalog whose icon and color lists do
// not line up. It is a configuration defect, not a runtime condition.
var ErrCatalogMismatch = errors.New("token catalog: icons and colors don't match")

// Catalog pairs token icons with picker colors. Token placement cycles
// through both lists with the same index.
type Catalog struct {
	tokens []string
	colors []string
}

// NewCatalog validates that tokens and colors are non-empty and of equal length.
func NewCatalog(tokens, colors []string) (*Catalog, error) {
	if len(tokens) == 0 || len(tokens) != len(colors) {
		return nil, fmt.Errorf("%w: %d icons, %d colors", ErrCatalogMismatch, len(tokens), len(colors))
	}
	return &Catalog{
		tokens: append([]string(nil), tokens...),
		colors: append([]string(nil), colors...),
	}, nil
}

// MustCatalog is like NewCatalog but panics on a mismatch.
func MustCatalog(tokens, colors []string) *Catalog {
	c, err := NewCatalog(tokens, colors)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultTokens are the built-in token icon names.
var DefaultTokens = []string{
	"person", "skull", "shield", "sword", "castle",
	"tree", "flag", "star", "fire", "treasure",
}

// DefaultColors are the picker colors, one per default token.
var DefaultColors = []string{
	"#000000", "#e53935", "#8e24aa", "#3949ab", "#039be5",
	"#00897b", "#7cb342", "#fdd835", "#fb8c00", "#6d4c41",
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(DefaultTokens, DefaultColors)
}

// Len is the number of entries.
func (c *Catalog) Len() int { return len(c.tokens) }

// At returns the token icon and color at index i, wrapped into range.
func (c *Catalog) At(i int) (token, color string) {
	i = c.wrap(i)
	return c.tokens[i], c.colors[i]
}

// Next returns the index following i, wrapping to 0 after the last entry.
func (c *Catalog) Next(i int) int {
	return c.wrap(i + 1)
}

// Tokens returns a copy of the icon names.
func (c *Catalog) Tokens() []string { return append([]string(nil), c.tokens...) }

// Colors returns a copy of the picker colors.
func (c *Catalog) Colors() []string { return append([]string(nil), c.colors...) }

func (c *Catalog) wrap(i int) int {
	n := len(c.tokens)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
