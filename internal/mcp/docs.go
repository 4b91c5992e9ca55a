package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/pairs/internal/domain/catalog"
	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/domain/scoring"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pairs is a memory-matching game. Tokens lie face down in pairs; turn two
face up per move and try to find every pair in as few moves as possible.

Workflow:
1) get_progress or list_levels to see what is unlocked.
2) start_round (omit level to play the current one), or resume_round to continue a saved round.
3) flip(token_id) twice per move. get_round shows the board; face-down tokens hide their symbol.
4) After a mismatch the pair turns back down on its own; wait before flipping again.
5) pause / resume / restart as needed. tick is only needed when the server does not tick on its own.

Read pairs://docs/rules for scoring, lives and the countdown.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

var docResources = []docResource{
	{
		URI:         "pairs://docs/rules",
		Name:        "rules",
		Title:       "pairs rules",
		Description: "Scoring, stars, lives, memorize preview and countdown rules.",
		Content:     rulesDoc,
	},
	{
		URI:         "pairs://docs/themes",
		Name:        "themes",
		Title:       "pairs symbol themes",
		Description: "The symbol themes and which levels use them.",
		Content:     themesDoc,
	},
}

func rulesDoc() string {
	var b strings.Builder
	b.WriteString("# Rules\n\n")
	b.WriteString("## Board\n\n")
	fmt.Fprintf(&b, "- A level has min(ceil(level/10)+%d, %d) pairs.\n", catalog.BasePairs-1, catalog.MaxPairs)
	fmt.Fprintf(&b, "- From %d pairs on, the round opens with every token face up for a short preview.\n", round.MemorizePairs)
	b.WriteString("- Tokens are numbered 0..N-1 and shuffled uniformly.\n\n")
	b.WriteString("## Moves and scoring\n\n")
	b.WriteString("- A move is two flips. A matching pair stays face up.\n")
	fmt.Fprintf(&b, "- Each pair scores %d points.\n", scoring.PointsPerMatch)
	b.WriteString("- Stars: fewer than 15 moves earns 3, fewer than 25 earns 2, otherwise 1.\n")
	b.WriteString("- Finishing a level unlocks the next and keeps your best stars for it.\n\n")
	b.WriteString("## Lives and countdown\n\n")
	fmt.Fprintf(&b, "- A round starts with %d lives.\n", round.MaxLives)
	fmt.Fprintf(&b, "- The first mismatch at %d or more moves starts a countdown sized to the board:\n", round.CountdownMoves)
	for _, tokens := range []int{12, 16, 20, 24, 28, 32} {
		fmt.Fprintf(&b, "  - %d tokens: %ds\n", tokens, round.TimeLimitFor(tokens))
	}
	b.WriteString("- When it runs out you lose a life and the board is dealt again with moves and points reset.\n")
	b.WriteString("- Losing the last life ends the round.\n")
	return b.String()
}

func themesDoc() string {
	var b strings.Builder
	b.WriteString("# Themes\n\n")
	themes := catalog.Default().Themes()
	for i, theme := range themes {
		fmt.Fprintf(&b, "- %s (levels %d-%d, repeating every %d): %s\n",
			theme.Name,
			i*catalog.LevelsPerStep+1, (i+1)*catalog.LevelsPerStep,
			len(themes)*catalog.LevelsPerStep,
			strings.Join(theme.Symbols, " "))
	}
	fmt.Fprintf(&b, "\nAbove level %d every round mixes symbols from all themes.\n", catalog.MixingLevel)
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		content := doc.Content()

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     content,
				}},
			}, nil
		})
	}
}
