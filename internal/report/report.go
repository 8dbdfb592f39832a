// Package report renders a decoded configuration for people: a plain text
// listing, or the same content as YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/powerswitch/led-commander-16-2/internal/ledfile"
	"gopkg.in/yaml.v3"
)

// Format - формат отчёта.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat converts a config value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Write renders f to w in the given format.
func Write(w io.Writer, f *ledfile.File, format Format) error {
	doc := Build(f)
	switch format {
	case FormatText:
		return writeText(w, doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("yaml export: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("json export: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown report format %q", format)
}

func writeText(w io.Writer, doc *Document) error {
	p := &printer{w: w}

	p.section("Channel names")
	for _, n := range doc.Names {
		p.line("%s name: '%s'", n.Default, n.Custom)
	}

	p.section("DMX patch")
	for _, e := range doc.Patch {
		if e.Fixture > 0 {
			p.line("DMX Channel %d: Fixture %d: %s", e.Address, e.Fixture, e.Channel)
			continue
		}
		p.line("DMX Channel %d: %s", e.Address, e.Channel)
	}

	p.scenes("Scenes", "Scene", doc.Scenes)
	p.scenes("Chase steps", "Step", doc.ChaseSteps)

	p.section("Chases")
	for _, c := range doc.Chases {
		steps := make([]string, len(c.Steps))
		for i, s := range c.Steps {
			steps[i] = fmt.Sprint(s)
		}
		p.line("Chase %d: %d step(s): %s", c.Number, len(c.Steps), strings.Join(steps, " "))
	}

	p.section("Virtual dimmers")
	for _, d := range doc.Dimmers {
		state := "off"
		if d.Enabled {
			state = "on"
		}
		p.line("Fixture %d: %s (mode %d), applied to: %s", d.Fixture, state, d.Mode, strings.Join(d.Channels, ", "))
	}

	if len(doc.Deviations) > 0 {
		p.section("Unconfirmed regions")
		for _, d := range doc.Deviations {
			p.line("%s", d)
		}
	}
	return p.err
}

type printer struct {
	w       io.Writer
	err     error
	started bool
}

func (p *printer) section(title string) {
	if p.started {
		p.line("")
	}
	p.started = true
	p.line("== %s", title)
}

func (p *printer) scenes(title, label string, scenes []SceneView) {
	p.section(title)
	for _, s := range scenes {
		p.line("%s %d: %d active value(s), value count %d", label, s.Number, len(s.Cells), s.ValueCount)
		for _, c := range s.Cells {
			p.line("  Fixture %d: %s = %d", c.Fixture, c.Channel, c.Value)
		}
	}
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
