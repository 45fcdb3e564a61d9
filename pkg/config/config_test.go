package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("count: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := &sample{Name: "default"}
	if err := Load(path, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("name: ${SAMPLE_NAME}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := &sample{}
	if err := Load(path, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "from-env" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestLoadOptional_MissingFile(t *testing.T) {
	s := &sample{Name: "x"}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	bad := &sample{}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), bad); err == nil {
		t.Error("expected validation error for empty defaults")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "c.yaml")
	if err := Save(path, &sample{Name: "saved", Count: 7}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := &sample{}
	if err := Load(path, got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "saved" || got.Count != 7 {
		t.Errorf("got %+v", got)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".config-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := Save(path, &sample{}); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("invalid config must not be written")
	}
}
