package index

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/lexicon/internal/apperr"
	"github.com/starford/lexicon/internal/models"
	"github.com/starford/lexicon/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "lexicon-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"notes", "links", "lookups"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestUpsertAndGetNote(t *testing.T) {
	db := testDB(t)
	row := NoteRow{Path: "vocab.lucid.md", Title: "lucid", Checksum: "abc123", Sections: 2, UpdatedAt: time.Now()}
	if err := db.UpsertNote(row, "clear", nil); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	got, err := db.GetNote("vocab.lucid.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Title != "lucid" || got.Sections != 2 || got.Checksum != "abc123" {
		t.Errorf("got %+v", got)
	}

	if _, err := db.GetNote("missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "Old", Checksum: "1"}, "old body", []string{"x"})
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "New", Checksum: "2", Sections: 3}, "new body", []string{"y"})

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	if bl, _ := db.Backlinks("x.md"); len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	if bl, _ := db.Backlinks("y.md"); len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestBacklinks_MatchStemAndPath(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "reading.md", Checksum: "1"}, "", []string{"vocab.lucid"})
	_ = db.UpsertNote(NoteRow{Path: "other.md", Checksum: "2"}, "", []string{"vocab.lucid.md"})

	bl, err := db.Backlinks("vocab.lucid.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 || bl[0] != "other.md" || bl[1] != "reading.md" {
		t.Errorf("backlinks = %v", bl)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.md", Checksum: "x"}, "body", []string{"target"})

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if cs, _ := db.GetChecksum("del.md"); cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	if bl, _ := db.Backlinks("target.md"); len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestListNotes_Pagination(t *testing.T) {
	db := testDB(t)
	base := time.Now().Add(-time.Hour)
	for i, p := range []string{"a.md", "b.md", "c.md"} {
		_ = db.UpsertNote(NoteRow{Path: p, Checksum: p, UpdatedAt: base.Add(time.Duration(i) * time.Minute)}, "", nil)
	}

	rows, total, err := db.ListNotes(2, 0)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("total = %d, len = %d", total, len(rows))
	}
	if rows[0].Path != "c.md" {
		t.Errorf("first = %q, want most recent c.md", rows[0].Path)
	}

	rows, _, _ = db.ListNotes(2, 2)
	if len(rows) != 1 || rows[0].Path != "a.md" {
		t.Errorf("page 2 = %+v", rows)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.md", Title: "serendipity", Checksum: "1"}, "uniqueword appears here", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}

func TestRecordLookupAndHistory(t *testing.T) {
	db := testDB(t)
	base := time.Now().Add(-time.Minute)
	lookups := []models.Lookup{
		{Word: "lucid", Path: "vocab.lucid.md", Outcome: "created", Kind: "generated", Model: "gemini-2.5-flash", CreatedAt: base},
		{Word: "terse", Path: "vocab.terse.md", Outcome: "created", Kind: "unconfigured", CreatedAt: base.Add(time.Second)},
		{Word: "Lucid", Path: "vocab.Lucid.md", Outcome: "appended", Kind: "generated", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, l := range lookups {
		if err := db.RecordLookup(l); err != nil {
			t.Fatalf("RecordLookup: %v", err)
		}
	}

	all, err := db.History("", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Word != "Lucid" || all[2].Word != "lucid" {
		t.Errorf("order = %s, %s, %s", all[0].Word, all[1].Word, all[2].Word)
	}
	if all[0].ID == "" {
		t.Error("expected generated ID")
	}

	lucid, _ := db.History("LUCID", 10)
	if len(lucid) != 2 {
		t.Errorf("filtered len = %d, want 2", len(lucid))
	}

	limited, _ := db.History("", 1)
	if len(limited) != 1 {
		t.Errorf("limited len = %d", len(limited))
	}
}

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	_ = store.Create("vocab.lucid.md", []byte("# lucid\n\nclear\n\n---\n\nmore\n"))
	_ = db.UpsertNote(NoteRow{Path: "gone.md", Checksum: "old"}, "", nil)

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	n, err := db.GetNote("vocab.lucid.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "lucid" || n.Sections != 2 {
		t.Errorf("note = %+v", n)
	}
	if cs, _ := db.GetChecksum("gone.md"); cs != "" {
		t.Error("stale entry not removed")
	}
}
