package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/manweave/internal/manual"
)

func writePage(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirStore_LoadsPageFile(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "getstarted.page", "Getting started.\n")

	s := NewDirStore(dir)
	body, err := s.Load(context.Background(), "getstarted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "Getting started.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestDirStore_ExtensionProbeOrder(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "index.md", "markdown body")
	writePage(t, dir, "index.txt", "text body")

	s := NewDirStore(dir)
	body, err := s.Load(context.Background(), "index")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// .md comes before .txt in the probe order.
	if body != "markdown body" {
		t.Errorf("body = %q, want the .md file", body)
	}
}

func TestDirStore_NotFound(t *testing.T) {
	s := NewDirStore(t.TempDir())

	_, err := s.Load(context.Background(), "missing")
	var nf *manual.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "missing" {
		t.Errorf("error names %q, want %q", nf.ID, "missing")
	}
}

func TestDirStore_RepeatedLoadsIdentical(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "about.page", "About.")

	s := NewDirStore(dir)
	first, err := s.Load(context.Background(), "about")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Load(context.Background(), "about")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("loads differ: %q vs %q", first, second)
	}
}

func TestDirStore_RejectsTraversal(t *testing.T) {
	s := NewDirStore(t.TempDir())

	for _, id := range []string{"", "../etc/passwd", "/abs", "a/../b", "a//b"} {
		if _, err := s.Load(context.Background(), id); err == nil {
			t.Errorf("identifier %q should be rejected", id)
		}
	}
}

func TestDirStore_SubdirectoryIdentifiers(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "editing"), 0o755); err != nil {
		t.Fatal(err)
	}
	writePage(t, dir, filepath.Join("editing", "indent.page"), "Indenting.")

	s := NewDirStore(dir)
	body, err := s.Load(context.Background(), "editing/indent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "Indenting." {
		t.Errorf("body = %q", body)
	}
}

func TestTextLoader_NormalizesCRLF(t *testing.T) {
	l := &TextLoader{}
	body, err := l.Load(strings.NewReader("a\r\nb\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if body != "a\nb\n" {
		t.Errorf("body = %q", body)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"index.page", true},
		{"index.md", true},
		{"index.txt", true},
		{"legacy.docx", true},
		{"legacy.pdf", true},
		{"index.html", false},
		{"index", false},
	}
	for _, tt := range tests {
		if got := IsSupportedExtension(tt.filename); got != tt.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
