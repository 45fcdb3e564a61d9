// Package generator produces vocabulary note content for a word. Provider
// failures never escape: they are turned into placeholder text so a failed
// generation cannot interrupt a lookup.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/lexicon/internal/gemini"
	"github.com/starford/lexicon/internal/settings"
)

// TextGenerator is the provider contract: a prompt in, text out.
type TextGenerator interface {
	GenerateText(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// Kind tells generated text apart from the placeholder variants.
type Kind string

const (
	KindGenerated    Kind = "generated"
	KindUnconfigured Kind = "unconfigured"
	KindEmpty        Kind = "empty"
	KindInvalidKey   Kind = "invalid_key"
	KindFailed       Kind = "failed"
)

// Result is always displayable; Kind records how Text was obtained.
type Result struct {
	Text  string
	Kind  Kind
	Model string
}

// Placeholder reports whether Text was synthesized locally instead of
// returned by the provider.
func (r Result) Placeholder() bool {
	return r.Kind != KindGenerated
}

// Observer is notified of every generation outcome.
type Observer interface {
	ObserveGeneration(kind string, elapsed time.Duration)
}

// Generator builds prompts and calls the provider.
type Generator struct {
	client   TextGenerator
	logger   *slog.Logger
	observer Observer
}

// Option configures a Generator.
type Option func(*Generator)

// WithObserver reports outcomes to o.
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// New creates a Generator backed by client.
func New(client TextGenerator, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{client: client, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BuildPrompt substitutes word for every placeholder in template. A template
// without a placeholder gets the word appended to its end.
func BuildPrompt(template, word string) string {
	if strings.Contains(template, settings.Placeholder) {
		return strings.ReplaceAll(template, settings.Placeholder, word)
	}
	return template + word
}

// Generate returns content for word using the prompt and model from s.
func (g *Generator) Generate(ctx context.Context, word string, s settings.Settings) Result {
	start := time.Now()
	res := g.generate(ctx, word, s)
	if g.observer != nil {
		g.observer.ObserveGeneration(string(res.Kind), time.Since(start))
	}
	return res
}

func (g *Generator) generate(ctx context.Context, word string, s settings.Settings) Result {
	apiKey := s.ResolvedAPIKey()
	if apiKey == "" {
		return Result{Text: unconfiguredText(word), Kind: KindUnconfigured}
	}

	model := s.ActiveModel()
	prompt := BuildPrompt(s.Prompt, word)

	text, err := g.client.GenerateText(ctx, apiKey, model, prompt)
	if err != nil {
		if isCredentialError(err) {
			g.logger.Error("generation failed: invalid API key",
				slog.String("word", word),
				slog.String("model", model),
				slog.String("error", err.Error()))
			return Result{Text: invalidKeyText(word), Kind: KindInvalidKey, Model: model}
		}
		g.logger.Error("generation failed",
			slog.String("word", word),
			slog.String("model", model),
			slog.String("error", err.Error()))
		return Result{Text: failedText(word, err.Error()), Kind: KindFailed, Model: model}
	}

	if strings.TrimSpace(text) == "" {
		g.logger.Error("generation returned no content",
			slog.String("word", word),
			slog.String("model", model))
		return Result{Text: emptyText(word), Kind: KindEmpty, Model: model}
	}

	return Result{Text: text, Kind: KindGenerated, Model: model}
}

// credentialMarkers are substrings Gemini puts in messages about bad keys.
var credentialMarkers = []string{"API key", "API_KEY"}

func isCredentialError(err error) bool {
	var gErr *gemini.Error
	if errors.As(err, &gErr) && gErr.Code == gemini.CodeAuthFailed {
		return true
	}
	msg := err.Error()
	for _, m := range credentialMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func unconfiguredText(word string) string {
	return fmt.Sprintf("**%s**\n\n*Please configure your Gemini API key in the settings (api_key or %s) to generate definitions.*", word, settings.APIKeyEnv)
}

func emptyText(word string) string {
	return fmt.Sprintf("**%s**\n\n*No content generated. Please try again.*", word)
}

func invalidKeyText(word string) string {
	return fmt.Sprintf("**%s**\n\n*Error: Invalid API key. Please check your Gemini API key in the settings.*", word)
}

func failedText(word, detail string) string {
	return fmt.Sprintf("**%s**\n\n*Error generating content: %s*", word, detail)
}
