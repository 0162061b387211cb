package dataurl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is the 8-byte PNG signature plus enough padding for content
// type sniffing.
var pngHeader = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 16)...)

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	if err := os.WriteFile(path, pngHeader, 0644); err != nil {
		t.Fatal(err)
	}

	url, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected prefix: %q", url[:min(40, len(url))])
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	os.WriteFile(path, nil, 0644)
	if _, err := FromFile(path); err == nil {
		t.Error("expected error for empty file")
	}
}
