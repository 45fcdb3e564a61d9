package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starford/lexicon/internal/gemini"
	"github.com/starford/lexicon/internal/settings"
)

type fakeClient struct {
	text  string
	err   error
	calls int

	apiKey, model, prompt string
}

func (f *fakeClient) GenerateText(_ context.Context, apiKey, model, prompt string) (string, error) {
	f.calls++
	f.apiKey, f.model, f.prompt = apiKey, model, prompt
	return f.text, f.err
}

type recordingObserver struct {
	kinds []string
}

func (o *recordingObserver) ObserveGeneration(kind string, _ time.Duration) {
	o.kinds = append(o.kinds, kind)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func configured() settings.Settings {
	s := settings.Default()
	s.APIKey = "test-key"
	return s
}

func TestBuildPrompt(t *testing.T) {
	require.Equal(t, "Define lucid. Use lucid in a sentence.", BuildPrompt("Define {}. Use {} in a sentence.", "lucid"))
	require.Equal(t, "Define: lucid", BuildPrompt("Define: ", "lucid"))
	require.Equal(t, "lucid", BuildPrompt("", "lucid"))
}

func TestGenerate_NoAPIKey(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "")
	client := &fakeClient{text: "should not be used"}
	g := New(client, quietLogger())

	for _, w := range []string{"serendipity", "x", "long word"} {
		res := g.Generate(context.Background(), w, settings.Default())
		require.Equal(t, KindUnconfigured, res.Kind)
		require.True(t, res.Placeholder())
		require.Contains(t, res.Text, w)
		require.True(t, strings.HasPrefix(res.Text, "**"+w+"**\n\n*Please configure your Gemini API key"))
	}
	require.Zero(t, client.calls)
}

func TestGenerate_EnvAPIKey(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "env-key")
	client := &fakeClient{text: "ok"}
	res := New(client, quietLogger()).Generate(context.Background(), "w", settings.Default())
	require.Equal(t, KindGenerated, res.Kind)
	require.Equal(t, "env-key", client.apiKey)
}

func TestGenerate_Success(t *testing.T) {
	client := &fakeClient{text: "**Definition:** happy accident."}
	s := configured()
	s.Prompt = "Explain {} briefly."

	res := New(client, quietLogger()).Generate(context.Background(), "serendipity", s)
	require.Equal(t, KindGenerated, res.Kind)
	require.False(t, res.Placeholder())
	require.Equal(t, "**Definition:** happy accident.", res.Text)
	require.Equal(t, "Explain serendipity briefly.", client.prompt)
	require.Equal(t, settings.ModelFlash, client.model)
	require.Equal(t, "test-key", client.apiKey)
}

func TestGenerate_CustomModelAndAppendedPrompt(t *testing.T) {
	client := &fakeClient{text: "text"}
	s := configured()
	s.Prompt = "Define the word: "
	s.UseCustomModel = true
	s.CustomModel = "gemini-exp"

	res := New(client, quietLogger()).Generate(context.Background(), "terse", s)
	require.Equal(t, "Define the word: terse", client.prompt)
	require.Equal(t, "gemini-exp", client.model)
	require.Equal(t, "gemini-exp", res.Model)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	for _, text := range []string{"", "  \n"} {
		res := New(&fakeClient{text: text}, quietLogger()).Generate(context.Background(), "void", configured())
		require.Equal(t, KindEmpty, res.Kind)
		require.Contains(t, res.Text, "void")
		require.Contains(t, res.Text, "No content generated")
	}
}

func TestGenerate_InvalidKey(t *testing.T) {
	cases := []error{
		&gemini.Error{Code: gemini.CodeAuthFailed, Message: "rejected"},
		errors.New("API key not valid. Please pass a valid API key."),
		errors.New("reason: API_KEY_INVALID"),
	}
	for _, err := range cases {
		res := New(&fakeClient{err: err}, quietLogger()).Generate(context.Background(), "w", configured())
		require.Equal(t, KindInvalidKey, res.Kind, err.Error())
		require.Contains(t, res.Text, "Invalid API key")
		require.Contains(t, res.Text, "**w**")
	}
}

func TestGenerate_OtherFailure(t *testing.T) {
	res := New(&fakeClient{err: errors.New("quota exhausted")}, quietLogger()).Generate(context.Background(), "w", configured())
	require.Equal(t, KindFailed, res.Kind)
	require.Equal(t, "**w**\n\n*Error generating content: quota exhausted*", res.Text)
}

func TestGenerate_Observer(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "")
	obs := &recordingObserver{}
	g := New(&fakeClient{text: "ok"}, quietLogger(), WithObserver(obs))
	g.Generate(context.Background(), "w", configured())
	g.Generate(context.Background(), "w", settings.Default())
	require.Equal(t, []string{string(KindGenerated), string(KindUnconfigured)}, obs.kinds)
}
