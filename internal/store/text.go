package store

import (
	"io"
	"strings"
)

// TextLoader handles plain-text page sources (.page, .md, .txt). The body is
// used verbatim; directive and placeholder handling happens downstream.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	// Normalize line endings so directive scanning sees plain \n.
	body := strings.ReplaceAll(string(data), "\r\n", "\n")
	return body, nil
}
