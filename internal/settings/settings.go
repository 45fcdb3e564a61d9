// Package settings holds the user-editable lookup settings and a store that
// persists them on every change.
package settings

import (
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Placeholder is the token substituted with the looked-up word in prompt
// templates and naming patterns.
const Placeholder = "{}"

// Curated Gemini models offered when no custom model is configured.
const (
	ModelFlash = "gemini-2.5-flash"
	ModelPro   = "gemini-2.5-pro"
)

// APIKeyEnv is consulted when no API key is stored in the settings.
const APIKeyEnv = "GEMINI_API_KEY"

// DefaultPrompt asks for a Markdown vocabulary entry.
const DefaultPrompt = `Write a concise vocabulary entry in Markdown for the word "{}".
Include the part of speech, pronunciation, a clear definition, two example sentences,
and a short list of synonyms and antonyms.`

// DefaultNoteNamePattern produces links such as [[vocab.word|word]].
const DefaultNoteNamePattern = "[[vocab.{}|{}]]"

// Settings are the values a user can change from the settings surface.
type Settings struct {
	APIKey          string `yaml:"api_key" json:"api_key"`
	Prompt          string `yaml:"prompt" json:"prompt"`
	Model           string `yaml:"model" json:"model"`
	UseCustomModel  bool   `yaml:"use_custom_model" json:"use_custom_model"`
	CustomModel     string `yaml:"custom_model" json:"custom_model"`
	NoteNamePattern string `yaml:"note_name_pattern" json:"note_name_pattern"`
}

// Default returns the settings used when nothing has been configured.
func Default() Settings {
	return Settings{
		Prompt:          DefaultPrompt,
		Model:           ModelFlash,
		CustomModel:     ModelFlash,
		NoteNamePattern: DefaultNoteNamePattern,
	}
}

// Models lists the curated model identifiers.
func Models() []string {
	return []string{ModelFlash, ModelPro}
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Model, validation.Required, validation.In(ModelFlash, ModelPro)),
		validation.Field(&s.CustomModel, validation.When(s.UseCustomModel, validation.Required)),
		validation.Field(&s.NoteNamePattern, validation.Required),
	)
}

// ActiveModel returns the custom model when enabled, the curated model otherwise.
func (s Settings) ActiveModel() string {
	if s.UseCustomModel {
		return strings.TrimSpace(s.CustomModel)
	}
	return s.Model
}

// ResolvedAPIKey returns the stored key, falling back to the environment.
func (s Settings) ResolvedAPIKey() string {
	if k := strings.TrimSpace(s.APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// Masked returns a copy safe to display: the API key is reduced to its last
// four characters.
func (s Settings) Masked() Settings {
	if s.APIKey == "" {
		return s
	}
	if len(s.APIKey) <= 4 {
		s.APIKey = "****"
		return s
	}
	s.APIKey = "****" + s.APIKey[len(s.APIKey)-4:]
	return s
}

// Set assigns a single field by its settings key. It is used by the CLI
// settings command, which receives values as strings.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "api_key":
		s.APIKey = value
	case "prompt":
		s.Prompt = value
	case "model":
		s.Model = value
	case "use_custom_model":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &UnknownValueError{Key: key, Value: value}
		}
		s.UseCustomModel = b
	case "custom_model":
		s.CustomModel = value
	case "note_name_pattern":
		s.NoteNamePattern = value
	default:
		return &UnknownKeyError{Key: key}
	}
	return nil
}

// Keys lists the settings keys accepted by Set.
func Keys() []string {
	return []string{"api_key", "prompt", "model", "use_custom_model", "custom_model", "note_name_pattern"}
}

// UnknownKeyError is returned by Set for a key that is not a setting.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return "settings: unknown key " + strconv.Quote(e.Key) + " (valid: " + strings.Join(Keys(), ", ") + ")"
}

// UnknownValueError is returned by Set when a value cannot be parsed.
type UnknownValueError struct {
	Key   string
	Value string
}

func (e *UnknownValueError) Error() string {
	return "settings: invalid value " + strconv.Quote(e.Value) + " for " + e.Key
}
