package api

import (
	"github.com/starford/lexicon/internal/models"
	"github.com/starford/lexicon/internal/noteservice"
	"github.com/starford/lexicon/internal/settings"
	"github.com/starford/lexicon/internal/vocab"
)

// LookupRequest is the request body for a lookup.
type LookupRequest struct {
	Selection string `json:"selection" example:"serendipity" validate:"required"`
}

// LookupResponse reports a lookup together with the notices it produced.
type LookupResponse struct {
	vocab.Result
	Notices []string `json:"notices"`
	Error   string   `json:"error,omitempty"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// BacklinksResponse lists the notes linking to a note.
type BacklinksResponse struct {
	Path      string   `json:"path" validate:"required"`
	Backlinks []string `json:"backlinks" validate:"required"`
}

// HistoryResponse wraps recent lookups, newest first.
type HistoryResponse struct {
	Lookups []models.Lookup `json:"lookups" validate:"required"`
}

// SettingsPatch is a partial settings update; absent fields are left as they are.
type SettingsPatch struct {
	APIKey          *string `json:"api_key,omitempty"`
	Prompt          *string `json:"prompt,omitempty"`
	Model           *string `json:"model,omitempty" example:"gemini-2.5-flash"`
	UseCustomModel  *bool   `json:"use_custom_model,omitempty"`
	CustomModel     *string `json:"custom_model,omitempty"`
	NoteNamePattern *string `json:"note_name_pattern,omitempty" example:"[[vocab.{}|{}]]"`
}

func (p SettingsPatch) apply(s *settings.Settings) {
	if p.APIKey != nil {
		s.APIKey = *p.APIKey
	}
	if p.Prompt != nil {
		s.Prompt = *p.Prompt
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.UseCustomModel != nil {
		s.UseCustomModel = *p.UseCustomModel
	}
	if p.CustomModel != nil {
		s.CustomModel = *p.CustomModel
	}
	if p.NoteNamePattern != nil {
		s.NoteNamePattern = *p.NoteNamePattern
	}
}
