package editor

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

type sampleNote struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Tags    []string `yaml:"tags"`
	Content string   `yaml:"content"`
}

// SampleNotes returns the two starter notes, stamped with now.
func SampleNotes(now time.Time) ([]Note, error) {
	var raw []sampleNote
	if err := yaml.Unmarshal(samplesYAML, &raw); err != nil {
		return nil, fmt.Errorf("parsing sample notes: %w", err)
	}

	out := make([]Note, 0, len(raw))
	for _, s := range raw {
		out = append(out, Note{
			ID:        s.ID,
			Title:     s.Title,
			Content:   s.Content,
			Tags:      s.Tags,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out, nil
}
