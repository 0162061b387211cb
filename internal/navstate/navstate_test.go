package navstate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStorePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Set("modal-edit-doctor-id", "abc-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := reopened.Get("modal-edit-doctor-id"); got != "abc-123" {
		t.Errorf("Get after reopen = %q, want %q", got, "abc-123")
	}
}

func TestStoreEmptyValueRemovesKey(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir)

	s.Set("modal-edit-category-id", "id-1")
	s.Set("modal-edit-category-id", "")

	if got := s.Get("modal-edit-category-id"); got != "" {
		t.Errorf("cleared key returned %q", got)
	}
	if enc := s.Encode(); enc != "" {
		t.Errorf("Encode after clear = %q, want empty", enc)
	}
}

func TestStoreSeed(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir)
	s.Set("tab", "doctors")

	if err := s.Seed("modal-edit-doctor-id=xyz"); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if s.Get("modal-edit-doctor-id") != "xyz" {
		t.Error("seeded param missing")
	}
	if s.Get("tab") != "doctors" {
		t.Error("Seed must not drop existing params")
	}

	if err := s.Seed("%%%"); err == nil {
		t.Error("expected error for malformed query")
	}
}

func TestStoreToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".nobat", "location")
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte(";;%zz;;"), 0644)

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed on corrupt file: %v", err)
	}
	if s.Get("anything") != "" {
		t.Error("corrupt file should load as empty state")
	}
}

func TestParamDefault(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir)
	p := NewParam(s, "modal-edit-doctor-id", "")

	if p.Get() != "" {
		t.Error("unset param should return default")
	}
	if err := p.Set("doc-9"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if p.Get() != "doc-9" {
		t.Error("param did not round-trip")
	}
	if err := p.Set(""); err != nil {
		t.Fatalf("clearing failed: %v", err)
	}
	if p.Get() != "" {
		t.Error("param not cleared")
	}
}
