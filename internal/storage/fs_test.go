package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/lexicon/internal/apperr"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestCreateAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# serendipity\n\nA happy accident.\n")
	if err := s.Create("vocab.serendipity.md", content); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Read("vocab.serendipity.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestCreateExisting(t *testing.T) {
	s := tempVault(t)
	_ = s.Create("a.md", []byte("one"))
	err := s.Create("a.md", []byte("two"))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	got, _ := s.Read("a.md")
	if string(got) != "one" {
		t.Errorf("existing content overwritten: %q", got)
	}
}

func TestCreateSubdirs(t *testing.T) {
	s := tempVault(t)
	if err := s.Create("words/l/lucid.md", []byte("deep")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Read("words/l/lucid.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestModify(t *testing.T) {
	s := tempVault(t)
	if err := s.Modify("missing.md", []byte("x")); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Modify missing: err = %v, want ErrNotFound", err)
	}
	_ = s.Create("m.md", []byte("v1"))
	if err := s.Modify("m.md", []byte("v2")); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	got, _ := s.Read("m.md")
	if string(got) != "v2" {
		t.Errorf("content = %q", got)
	}
}

func TestExists(t *testing.T) {
	s := tempVault(t)
	ok, err := s.Exists("nope.md")
	if err != nil || ok {
		t.Fatalf("Exists(nope) = %v, %v", ok, err)
	}
	_ = s.Create("yes.md", []byte("y"))
	ok, err = s.Exists("yes.md")
	if err != nil || !ok {
		t.Fatalf("Exists(yes) = %v, %v", ok, err)
	}
	_ = os.Mkdir(filepath.Join(s.root, "dir.md"), 0o755)
	if _, err := s.Exists("dir.md"); err == nil {
		t.Error("expected error for directory")
	}
}

func TestReadMissing(t *testing.T) {
	s := tempVault(t)
	if _, err := s.Read("gone.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	_ = s.Create("a.md", []byte("a"))
	_ = s.Create("sub/b.md", []byte("b"))
	_ = s.Create("readme.txt", []byte("not md"))
	_ = s.Create(".obsidian/workspace.md", []byte("hidden"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	for _, it := range items {
		if it.Checksum == "" {
			t.Errorf("missing checksum for %s", it.Path)
		}
	}

	sub, err := s.List("sub")
	if err != nil {
		t.Fatalf("List(sub): %v", err)
	}
	if len(sub) != 1 || sub[0].Path != "sub/b.md" {
		t.Errorf("sub = %+v", sub)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
		"",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Create(p, []byte("x")); err == nil {
			t.Errorf("expected error for create of %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempVault(t)
	_ = s.Create("atomic.md", []byte("original content"))
	if err := s.Modify("atomic.md", []byte("updated content")); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != "updated content" {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".lexicon-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestChecksumStable(t *testing.T) {
	if Checksum([]byte("x")) != Checksum([]byte("x")) {
		t.Error("checksum not deterministic")
	}
	if Checksum([]byte("x")) == Checksum([]byte("y")) {
		t.Error("checksum collision")
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "lexicon-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
