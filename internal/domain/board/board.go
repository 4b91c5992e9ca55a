package board

import (
	"fmt"

	"github.com/rpggio/pairs/internal/domain/catalog"
)

// Token is one placed card. Its face-up state lives in the round, not here.
type Token struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
}

// Shuffler is satisfied by *rand.Rand from math/rand/v2.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Generate pairs every symbol, shuffles the deck with Fisher-Yates and
// numbers the tokens 0..N-1 in shuffled order.
func Generate(symbols []string, rng Shuffler) ([]Token, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: empty symbol set", ErrInvalidSymbols)
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		if _, ok := seen[sym]; ok {
			return nil, fmt.Errorf("%w: %q repeated", ErrInvalidSymbols, sym)
		}
		seen[sym] = struct{}{}
	}

	deck := make([]string, 0, len(symbols)*2)
	deck = append(deck, symbols...)
	deck = append(deck, symbols...)
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	tokens := make([]Token, len(deck))
	for i, sym := range deck {
		tokens[i] = Token{ID: i, Symbol: sym}
	}
	return tokens, nil
}

// Validate checks that tokens are numbered 0..N-1 and that every symbol
// appears exactly twice.
func Validate(tokens []Token) error {
	if len(tokens) == 0 || len(tokens)%2 != 0 {
		return fmt.Errorf("%w: %d tokens", ErrInvalidBoard, len(tokens))
	}
	counts := make(map[string]int, len(tokens)/2)
	for i, tok := range tokens {
		if tok.ID != i {
			return fmt.Errorf("%w: token at %d has id %d", ErrInvalidBoard, i, tok.ID)
		}
		counts[tok.Symbol]++
	}
	for sym, n := range counts {
		if n != 2 {
			return fmt.Errorf("%w: symbol %q appears %d times", ErrInvalidBoard, sym, n)
		}
	}
	return nil
}

// Dealer builds boards for a level from a catalog.
type Dealer struct {
	catalog *catalog.Catalog
	rng     Shuffler
}

// NewDealer creates a Dealer. The same rng drives theme mixing and shuffling.
func NewDealer(c *catalog.Catalog, rng Shuffler) *Dealer {
	return &Dealer{catalog: c, rng: rng}
}

// Deal returns a fresh shuffled board for level.
func (d *Dealer) Deal(level int) ([]Token, error) {
	symbols, err := d.catalog.SymbolsForLevel(level, d.rng)
	if err != nil {
		return nil, err
	}
	return Generate(symbols, d.rng)
}
