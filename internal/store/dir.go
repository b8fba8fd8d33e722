package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/manweave/internal/manual"
)

// DirStore loads pages from a directory: identifier "getstarted" maps to the
// first of getstarted.page, .md, .txt, .docx, .pdf that exists. Identifiers
// must not escape the directory.
type DirStore struct {
	dir          string
	maxPageBytes int64
	pdfFallback  bool
}

// DirOption configures a DirStore.
type DirOption func(*DirStore)

// WithMaxPageBytes caps how many bytes one source file may contribute.
func WithMaxPageBytes(n int64) DirOption {
	return func(s *DirStore) { s.maxPageBytes = n }
}

// WithPdftotextFallback enables the pdftotext fallback for .pdf sources.
func WithPdftotextFallback(on bool) DirOption {
	return func(s *DirStore) { s.pdfFallback = on }
}

func NewDirStore(dir string, opts ...DirOption) *DirStore {
	s := &DirStore{
		dir:          dir,
		maxPageBytes: 4 << 20, // 4MB
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DirStore) Load(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validIdentifier(id) {
		return "", fmt.Errorf("invalid page identifier: %q", id)
	}

	for _, ext := range Extensions {
		path := filepath.Join(s.dir, id+ext)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("open page %s: %w", id, err)
		}

		loader, err := ForExtension(ext)
		if err != nil {
			f.Close()
			return "", err
		}
		if pl, ok := loader.(*PDFLoader); ok {
			pl.FallbackPdftotext = s.pdfFallback
		}

		body, err := loader.Load(io.LimitReader(f, s.maxPageBytes))
		f.Close()
		if err != nil {
			return "", fmt.Errorf("load page %s: %w", id, err)
		}
		return body, nil
	}

	return "", &manual.NotFoundError{ID: id}
}

// validIdentifier rejects identifiers that could traverse outside the manual
// directory. Identifiers are bare names, optionally slash-separated for
// subdirectories.
func validIdentifier(id string) bool {
	if id == "" || strings.HasPrefix(id, "/") || strings.Contains(id, "\\") {
		return false
	}
	for _, part := range strings.Split(id, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
