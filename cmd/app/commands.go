package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/lexicon/internal"
	"github.com/starford/lexicon/internal/settings"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API, live events and the vault watcher (default)",
		Action: serve,
	}
}

func lookupCmd() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Look up words and write their vocabulary notes; prints each note link",
		ArgsUsage: "WORD...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			words := cmd.Args().Slice()
			if len(words) == 0 {
				return fmt.Errorf("at least one word is required")
			}
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			return internal.Lookup(ctx, words, opts...)
		},
	}
}

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve lookups and notes over MCP on stdin/stdout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			return internal.ServeMCP(ctx, opts...)
		},
	}
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent lookups, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum entries to show"},
			&cli.StringFlag{Name: "word", Aliases: []string{"w"}, Usage: "Only lookups of this word"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			return internal.PrintHistory(ctx, cmd.String("word"), int(cmd.Int("limit")), opts...)
		},
	}
}

func settingsCmd() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change lookup settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings (API key masked)",
				Action: func(_ context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.ShowSettings(opts...)
				},
			},
			{
				Name:      "set",
				Usage:     "Change one setting and save it to the config file",
				ArgsUsage: "KEY VALUE (keys: " + strings.Join(settings.Keys(), ", ") + ")",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 2 {
						return fmt.Errorf("usage: settings set KEY VALUE")
					}
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.SetSetting(cmd.Args().Get(0), cmd.Args().Get(1), opts...)
				},
			},
		},
	}
}
