// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/lexicon/internal/models"

// Provider is the interface for vault file operations. All paths are relative
// to the vault root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.NoteMetadata, error)
	// Exists reports whether a file is present at path.
	Exists(path string) (bool, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Create writes a new file; it fails with apperr.ErrAlreadyExists if one is present.
	Create(path string, content []byte) error
	// Modify replaces the content of an existing file; it fails with
	// apperr.ErrNotFound if the file is missing.
	Modify(path string, content []byte) error
}
