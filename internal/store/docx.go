package store

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/manweave/internal/directive"
)

// DOCXLoader extracts page bodies from .docx sources, for manual content
// authored in Word. Each paragraph becomes one line of the body, separated by
// blank lines, so directive markers written as their own paragraphs scan the
// same way they would in a plain-text page.
type DOCXLoader struct{}

func (l *DOCXLoader) Load(r io.Reader) (string, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "manweave-docx-*.docx")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	// A marker paragraph opens a block; following paragraphs are identifier
	// lines until an empty paragraph closes it, mirroring the blank-line rule
	// of plain-text sources. Other paragraphs get blank-line spacing.
	var lines []string
	open := false
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			if open {
				lines = append(lines, "")
				open = false
			}
			continue
		}
		if isMarkerLine(text) {
			lines = append(lines, text)
			open = true
			continue
		}
		if open {
			lines = append(lines, text)
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, text)
	}

	return strings.Join(lines, "\n"), nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func isMarkerLine(s string) bool {
	return s == directive.MarkerSubdocs || s == directive.MarkerSeealso
}
