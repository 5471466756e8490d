package cli

import (
	"fmt"
	"strings"

	"example.com/markdown-notes/internal/editor"
	"example.com/markdown-notes/internal/stringsx"
)

const (
	previewLen  = 100
	maxListTags = 3
	timeLayout  = "2006-01-02 15:04"
)

// noteItem adapts a note to the bubbles list.
type noteItem struct {
	note editor.Note
}

func (i noteItem) FilterValue() string { return i.note.Title }

func (i noteItem) Title() string { return i.note.Title }

func (i noteItem) Description() string {
	badges := tagBadges(i.note.Tags)
	if badges == "" {
		return contentPreview(i.note.Content)
	}
	return badges + "  " + contentPreview(i.note.Content)
}

// contentPreview flattens a note body to one line without markdown marks.
func contentPreview(content string) string {
	flat := strings.Join(strings.Fields(stringsx.StripMarks(content)), " ")
	return stringsx.Clip(flat, previewLen) + "..."
}

func tagBadges(tags []string) string {
	shown := tags
	if len(shown) > maxListTags {
		shown = shown[:maxListTags]
	}
	parts := make([]string, 0, len(shown)+1)
	for _, t := range shown {
		parts = append(parts, "["+t+"]")
	}
	if extra := len(tags) - len(shown); extra > 0 {
		parts = append(parts, fmt.Sprintf("[+%d]", extra))
	}
	return strings.Join(parts, " ")
}
