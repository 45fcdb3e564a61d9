// Package noteservice serves the read side of the vault: note details,
// rendered HTML, listings, search and backlinks.
package noteservice

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/lexicon/internal/index"
	"github.com/starford/lexicon/internal/parser"
	"github.com/starford/lexicon/internal/storage"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	HTML        string         `json:"html,omitempty"`
	Checksum    string         `json:"checksum"`
	Sections    int            `json:"sections"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Backlinks   []string       `json:"backlinks"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Sections  int       `json:"sections"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage and index reads.
type Service struct {
	store storage.Provider
	db    *index.DB
	md    goldmark.Markdown
}

// NewService creates a new note service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{
		store: store,
		db:    db,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// GetNote reads a note from storage, parses it and enriches it with
// backlinks. With render set, the Markdown body is rendered to HTML.
func (s *Service) GetNote(ctx context.Context, path string, render bool) (*NoteDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	bl, err := s.Backlinks(ctx, path)
	if err != nil {
		return nil, err
	}

	d := &NoteDetail{
		Path:        path,
		Title:       res.Title,
		Content:     string(data),
		Checksum:    storage.Checksum(data),
		Sections:    len(res.Sections),
		Frontmatter: res.Frontmatter,
		Backlinks:   bl,
	}
	if render {
		html, err := s.Render([]byte(res.Body))
		if err != nil {
			return nil, err
		}
		d.HTML = html
	}
	return d, nil
}

// Render converts Markdown to HTML.
func (s *Service) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("noteservice: render: %w", err)
	}
	return buf.String(), nil
}

// ListNotes returns a page of indexed notes, most recently updated first.
func (s *Service) ListNotes(_ context.Context, limit, offset int) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			Path:      r.Path,
			Title:     r.Title,
			Checksum:  r.Checksum,
			Sections:  r.Sections,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(res), nil
}

// Backlinks returns all note paths that link to the given note.
func (s *Service) Backlinks(_ context.Context, path string) ([]string, error) {
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(bl), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
