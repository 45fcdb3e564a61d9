// Package models defines the domain types shared across Lexicon packages.
package models

import "time"

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VocabNote is an indexed vocabulary note.
type VocabNote struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Sections  int       `json:"sections"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lookup records one completed lookup.
type Lookup struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Path      string    `json:"path"`
	Outcome   string    `json:"outcome"` // "created" or "appended"
	Kind      string    `json:"kind"`    // generator result kind
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
