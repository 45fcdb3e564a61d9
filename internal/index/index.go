package index

import "github.com/starford/lexicon/internal/models"

// NoteIndex defines the read/write operations on indexed notes.
type NoteIndex interface {
	UpsertNote(n NoteRow, body string, links []string) error
	DeleteNote(path string) error
	GetChecksum(path string) (string, error)
	GetNote(path string) (*NoteRow, error)
	ListNotes(limit, offset int) ([]NoteRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Backlinks(target string) ([]string, error)
	AllChecksums() (map[string]string, error)
}

// History records and lists lookups.
type History interface {
	RecordLookup(l models.Lookup) error
	History(word string, limit int) ([]models.Lookup, error)
}

// Verify *DB satisfies both interfaces at compile time.
var (
	_ NoteIndex = (*DB)(nil)
	_ History   = (*DB)(nil)
)
