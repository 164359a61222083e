package stats

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typist/internal/model"
)

// Export is the document written by the export command.
type Export struct {
	GeneratedAt time.Time                `yaml:"generated_at"`
	Sessions    []model.SessionAggregate `yaml:"sessions"`
	Chars       []model.CharAggregate    `yaml:"chars"`
}

// WriteYAML encodes the report sessions and all-session character totals.
func (r Report) WriteYAML(w io.Writer, now time.Time) error {
	doc := Export{
		GeneratedAt: now.UTC(),
		Sessions:    r.Sessions,
		Chars:       r.CharAggsAll,
	}
	if doc.Sessions == nil {
		doc.Sessions = []model.SessionAggregate{}
	}
	if doc.Chars == nil {
		doc.Chars = []model.CharAggregate{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return enc.Close()
}
