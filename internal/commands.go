package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/starford/lexicon/internal/mcpserver"
	"github.com/starford/lexicon/internal/settings"
	"github.com/starford/lexicon/internal/vocab"
)

// ErrLookupFailed is returned by Lookup when at least one word failed.
var ErrLookupFailed = errors.New("lookup failed")

// cliLogger logs to stderr so stdout carries only command output.
func cliLogger(app *application) *slog.Logger {
	return newLogger(app.stderr, app.config.App.LogLevel)
}

// Lookup looks up each word in turn. Links are printed to stdout, notices
// to stderr.
func Lookup(ctx context.Context, words []string, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	rt, err := setup(app, cliLogger(app), runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	failed := 0
	for _, word := range words {
		ed := vocab.NewBuffer(word)
		_, err := rt.lookups.Lookup(ctx, ed)
		if ed.Replaced() {
			fmt.Fprintln(app.stdout, ed.Text())
		}
		for _, n := range ed.Notices() {
			fmt.Fprintln(app.stderr, n)
		}
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrLookupFailed, failed, len(words))
	}
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func ServeMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	logger := cliLogger(app)
	rt, err := setup(app, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := mcpserver.New(mcpserver.Deps{
		Store:   rt.store,
		Notes:   rt.notes,
		Lookups: rt.lookups,
		History: rt.db,
	}, app.version)

	logger.Info("MCP server starting", slog.String("vault_path", rt.store.Root()))
	return srv.ServeStdio()
}

// PrintHistory writes the most recent lookups as a table.
func PrintHistory(_ context.Context, word string, limit int, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	rt, err := setup(app, cliLogger(app), runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	lookups, err := rt.db.History(word, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tWORD\tOUTCOME\tKIND\tPATH")
	for _, l := range lookups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			l.CreatedAt.Local().Format("2006-01-02 15:04:05"), l.Word, l.Outcome, l.Kind, l.Path)
	}
	return tw.Flush()
}

// ShowSettings prints the current settings with the API key masked.
func ShowSettings(opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	s := app.config.Settings.Masked()

	tw := tabwriter.NewWriter(app.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "api_key\t%s\n", s.APIKey)
	fmt.Fprintf(tw, "prompt\t%q\n", s.Prompt)
	fmt.Fprintf(tw, "model\t%s\n", s.Model)
	fmt.Fprintf(tw, "use_custom_model\t%t\n", s.UseCustomModel)
	fmt.Fprintf(tw, "custom_model\t%s\n", s.CustomModel)
	fmt.Fprintf(tw, "note_name_pattern\t%s\n", s.NoteNamePattern)
	fmt.Fprintf(tw, "active_model\t%s\n", s.ActiveModel())
	return tw.Flush()
}

// SetSetting changes one setting and writes it to the config file.
func SetSetting(key, value string, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.configPath == "" {
		return fmt.Errorf("config path is required")
	}

	store := settings.NewStore(app.config.Settings, SettingsSaver(app.configPath, app.config))
	if _, err := store.Update(func(s *settings.Settings) error {
		return s.Set(key, value)
	}); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s updated\n", key)
	return nil
}
