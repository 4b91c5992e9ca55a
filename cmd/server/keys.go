package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

type keyCreator interface {
	Create(ctx context.Context, token, playerID, description string) error
}

const usage = `usage:
  server                               run the server
  server add-key <player> [description] issue an API key for player`

// runCommand handles administrative subcommands.
func runCommand(ctx context.Context, out io.Writer, keys keyCreator, args []string) error {
	switch args[0] {
	case "add-key":
		if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
			return fmt.Errorf("add-key: missing player\n%s", usage)
		}
		token := uuid.NewString()
		if err := keys.Create(ctx, token, args[1], strings.Join(args[2:], " ")); err != nil {
			return fmt.Errorf("add-key: %w", err)
		}
		fmt.Fprintln(out, token)
		return nil
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
