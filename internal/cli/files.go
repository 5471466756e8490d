package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"example.com/markdown-notes/internal/editor"
)

// exportNotes writes each note to dir as <id>.md. Notes whose id is not a
// plain file name are skipped so nothing is written outside dir.
func exportNotes(notes []editor.Note, dir string, log zerolog.Logger) (written, skipped int, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, 0, err
	}

	for _, n := range notes {
		name := n.ID + ".md"
		if !editor.IsFileSafeID(n.ID) || !filepath.IsLocal(name) {
			log.Warn().Str("note_id", n.ID).Msg("export skipped note with unsafe id")
			skipped++
			continue
		}

		data, err := editor.ExportMarkdown(n)
		if err != nil {
			return written, skipped, fmt.Errorf("note %s: %w", n.ID, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, skipped, err
		}
		log.Debug().Str("path", path).Msg("note exported")
		written++
	}
	return written, skipped, nil
}

func importNote(path string) (editor.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return editor.Note{}, err
	}
	return editor.ImportMarkdown(data)
}
