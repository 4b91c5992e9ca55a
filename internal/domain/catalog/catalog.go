package catalog

import (
	"fmt"
)

const (
	// BasePairs is the pair count of the first ten levels.
	BasePairs = 6
	// MaxPairs caps the pair count; every theme must supply at least this many symbols.
	MaxPairs = 16
	// LevelsPerStep is how many levels share a pair count.
	LevelsPerStep = 10
	// MixingLevel is the last single-theme level; higher levels mix themes.
	MixingLevel = 40
)

// Shuffler is satisfied by *rand.Rand from math/rand/v2.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Theme is a named, ordered collection of symbols.
type Theme struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// Catalog maps levels to symbol selections.
type Catalog struct {
	themes []Theme
}

// New validates the themes and builds a catalog. Every theme must carry at
// least MaxPairs symbols and no symbol may appear twice across the catalog.
func New(themes ...Theme) (*Catalog, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("%w: no themes", ErrInsufficientSymbols)
	}
	seen := make(map[string]string)
	for _, theme := range themes {
		if len(theme.Symbols) < MaxPairs {
			return nil, fmt.Errorf("%w: theme %q has %d symbols, need %d",
				ErrInsufficientSymbols, theme.Name, len(theme.Symbols), MaxPairs)
		}
		for _, sym := range theme.Symbols {
			if owner, ok := seen[sym]; ok {
				return nil, fmt.Errorf("%w: symbol %q in both %q and %q",
					ErrDuplicateSymbol, sym, owner, theme.Name)
			}
			seen[sym] = theme.Name
		}
	}

	copied := make([]Theme, len(themes))
	for i, theme := range themes {
		copied[i] = Theme{Name: theme.Name, Symbols: append([]string(nil), theme.Symbols...)}
	}
	return &Catalog{themes: copied}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultThemes...)
	if err != nil {
		panic(err)
	}
	return c
}

// Themes returns a copy of the catalog's themes in order.
func (c *Catalog) Themes() []Theme {
	out := make([]Theme, len(c.themes))
	for i, theme := range c.themes {
		out[i] = Theme{Name: theme.Name, Symbols: append([]string(nil), theme.Symbols...)}
	}
	return out
}

// Theme looks up a theme by name.
func (c *Catalog) Theme(name string) (Theme, bool) {
	for _, theme := range c.themes {
		if theme.Name == name {
			return Theme{Name: theme.Name, Symbols: append([]string(nil), theme.Symbols...)}, true
		}
	}
	return Theme{}, false
}

// PairCountForLevel returns min(ceil(level/10)+5, 16). Levels below 1 get
// the base count.
func PairCountForLevel(level int) int {
	if level < 1 {
		return BasePairs
	}
	steps := (level-1)/LevelsPerStep + 1
	return min(steps+BasePairs-1, MaxPairs)
}

// ThemeIndexForLevel returns the theme used by a single-theme level.
func (c *Catalog) ThemeIndexForLevel(level int) int {
	return ((level - 1) / LevelsPerStep) % len(c.themes)
}

// SymbolsForLevel selects PairCountForLevel(level) distinct symbols.
// Levels up to MixingLevel draw from one theme; later levels concatenate
// all themes in an order shuffled by rng.
func (c *Catalog) SymbolsForLevel(level int, rng Shuffler) ([]string, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	count := PairCountForLevel(level)

	if level <= MixingLevel {
		theme := c.themes[c.ThemeIndexForLevel(level)]
		return append([]string(nil), theme.Symbols[:count]...), nil
	}

	order := make([]int, len(c.themes))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	pool := make([]string, 0, len(c.themes)*MaxPairs)
	for _, idx := range order {
		pool = append(pool, c.themes[idx].Symbols...)
	}
	return append([]string(nil), pool[:count]...), nil
}
