package editor

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	openingDelim = []byte("---\n")
	closingDelim = []byte("\n---\n")

	ErrNoFrontmatter = errors.New("missing frontmatter")
)

// ExportMarkdown renders a note as a markdown file: YAML frontmatter with
// id, title, tags and timestamps, then the content.
func ExportMarkdown(n Note) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(openingDelim)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	buf.Write(openingDelim)
	buf.WriteByte('\n')
	buf.WriteString(n.Content)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ImportMarkdown parses a file written by ExportMarkdown.
func ImportMarkdown(data []byte) (Note, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	rest, ok := bytes.CutPrefix(data, openingDelim)
	if !ok {
		return Note{}, ErrNoFrontmatter
	}
	front, body, ok := bytes.Cut(rest, closingDelim)
	if !ok {
		return Note{}, ErrNoFrontmatter
	}

	var n Note
	if err := yaml.Unmarshal(front, &n); err != nil {
		return Note{}, fmt.Errorf("parsing frontmatter: %w", err)
	}
	n.Tags = normalizeTags(n.Tags)
	// Drop only the blank separator line and the final newline ExportMarkdown adds.
	body = bytes.TrimPrefix(body, []byte("\n"))
	body = bytes.TrimSuffix(body, []byte("\n"))
	n.Content = string(body)
	return n, nil
}
