// Package store supplies raw page bodies by identifier. It is the passive
// key-value side of the composition engine: loads are side-effect-free and
// repeatable within one build session.
package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Store loads the raw body for a page identifier. Implementations return a
// *manual.NotFoundError when no page exists for the identifier.
type Store interface {
	Load(ctx context.Context, id string) (string, error)
}

// Loader converts bytes of one source format into raw body text.
type Loader interface {
	Load(r io.Reader) (string, error)
}

// Extensions lists source file extensions a DirStore probes, in order. The
// first extension with an existing file wins.
var Extensions = []string{".page", ".md", ".txt", ".docx", ".pdf"}

// ForExtension returns the loader for a source file extension.
func ForExtension(ext string) (Loader, error) {
	switch strings.ToLower(ext) {
	case ".page", ".md", ".txt":
		return &TextLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	case ".pdf":
		return &PDFLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported source extension: %s", ext)
	}
}

// IsSupportedExtension checks whether a filename has a loadable extension.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
