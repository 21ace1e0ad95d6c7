// pattern: Imperative Shell

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"gitscan/internal/discovery"
)

// Format selects how entries are rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Reporter writes scan results to w.
type Reporter struct {
	w      io.Writer
	format Format
	styles *Styles
}

// New returns a Reporter. Unknown formats fall back to Text.
func New(w io.Writer, format Format, theme string) *Reporter {
	switch format {
	case Text, JSON, YAML:
	default:
		format = Text
	}
	return &Reporter{w: w, format: format, styles: NewStyles(w, theme)}
}

// Write renders one root's entries.
// Text prints one "(kind) path" line per entry; JSON and YAML print one
// document holding the list.
func (r *Reporter) Write(entries []discovery.Entry) error {
	switch r.format {
	case JSON:
		return r.writeJSON(entries)
	case YAML:
		return r.writeYAML(entries)
	default:
		return r.writeText(entries)
	}
}

func (r *Reporter) writeText(entries []discovery.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(r.w, "%s %s\n", r.styles.Tag(e.Kind), r.styles.Path(e.Path)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeJSON(entries []discovery.Entry) error {
	if entries == nil {
		entries = []discovery.Entry{}
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func (r *Reporter) writeYAML(entries []discovery.Entry) error {
	if entries == nil {
		entries = []discovery.Entry{}
	}
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}
