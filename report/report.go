// Package report renders reconciliation diagnostics for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/doctor/check"
	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/recon"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.NewUnsupportedFormatError("output format %q (want text, json, yaml or toml)", s)
}

// Options configures Write.
type Options struct {
	// Color enables ANSI colors in text output.
	Color bool
	// Summary, when set, is appended to the output.
	Summary *check.Summary
}

// FileReport is the messages of one file.
type FileReport struct {
	File     string   `json:"file" yaml:"file" toml:"file"`
	Messages []string `json:"messages" yaml:"messages" toml:"messages"`
}

// SummaryReport is check.Summary in a serializable shape.
type SummaryReport struct {
	Declarations int    `json:"declarations" yaml:"declarations" toml:"declarations"`
	Untyped      int    `json:"untyped" yaml:"untyped" toml:"untyped"`
	Files        int    `json:"files" yaml:"files" toml:"files"`
	Messages     int    `json:"messages" yaml:"messages" toml:"messages"`
	Duration     string `json:"duration" yaml:"duration" toml:"duration"`
}

// Output is the root of the structured formats.
type Output struct {
	Files   []FileReport   `json:"files" yaml:"files" toml:"files"`
	Count   int            `json:"count" yaml:"count" toml:"count"`
	Summary *SummaryReport `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
}

// Build converts diagnostics to Output, keeping file discovery order.
func Build(diags recon.Diagnostics, summary *check.Summary) Output {
	out := Output{Files: make([]FileReport, 0, len(diags.Files())), Count: diags.Len()}
	for _, file := range diags.Files() {
		out.Files = append(out.Files, FileReport{File: file, Messages: diags.Messages(file)})
	}
	if summary != nil {
		out.Summary = &SummaryReport{
			Declarations: summary.Declarations,
			Untyped:      summary.Untyped,
			Files:        summary.Files,
			Messages:     summary.Messages,
			Duration:     summary.Duration.Round(time.Millisecond).String(),
		}
	}
	return out
}

// Write renders diags to w.
func Write(w io.Writer, diags recon.Diagnostics, format Format, opts Options) error {
	if format == FormatText {
		return writeText(w, diags, opts)
	}

	out := Build(diags, opts.Summary)
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(out); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(out)
	default:
		return errors.NewUnsupportedFormatError("output format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to write %s report", format)
	}
	return nil
}

type palette struct {
	file    *color.Color
	missing *color.Color
	wrong   *color.Color
	plain   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		file:    color.New(color.FgCyan, color.Bold),
		missing: color.New(color.FgYellow),
		wrong:   color.New(color.FgRed),
		plain:   color.New(color.Reset),
	}
	for _, c := range []*color.Color{p.file, p.missing, p.wrong, p.plain} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// messageColor picks a color from the verb that follows the line prefix.
func (p palette) messageColor(msg string) *color.Color {
	_, rest, ok := strings.Cut(msg, "]: ")
	switch {
	case !ok:
		return p.plain
	case strings.HasPrefix(rest, "missing"):
		return p.missing
	case strings.HasPrefix(rest, "wrong"):
		return p.wrong
	}
	return p.plain
}

func writeText(w io.Writer, diags recon.Diagnostics, opts Options) error {
	p := newPalette(opts.Color)

	for i, file := range diags.Files() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return errors.Wrap(err, "failed to write report")
			}
		}
		name := file
		if name == "" {
			name = "<unknown file>"
		}
		if _, err := p.file.Fprintln(w, name); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
		for _, msg := range diags.Messages(file) {
			if _, err := fmt.Fprintf(w, "  %s\n", p.messageColor(msg).Sprint(msg)); err != nil {
				return errors.Wrap(err, "failed to write report")
			}
		}
	}

	if opts.Summary != nil {
		return writeSummary(w, diags, *opts.Summary, opts.Color)
	}
	return nil
}

func writeSummary(w io.Writer, diags recon.Diagnostics, s check.Summary, colored bool) error {
	paint := func(style func(a ...any) string, text string) string {
		if colored {
			return style(text)
		}
		return text
	}

	checked := paint(pterm.Gray, fmt.Sprintf("(%d declarations checked in %s)",
		s.Declarations, s.Duration.Round(time.Millisecond)))
	if diags.Empty() {
		_, err := fmt.Fprintln(w, paint(pterm.Green, "✓ No type mismatches")+" "+checked)
		return errors.Wrap(err, "failed to write report")
	}

	headline := fmt.Sprintf("✗ %d messages in %d files", diags.Len(), len(diags.Files()))
	if _, err := fmt.Fprintf(w, "\n%s %s\n", paint(pterm.Red, headline), checked); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

// ExitCode is 1 when there is anything to report.
func ExitCode(diags recon.Diagnostics) int {
	if diags.Empty() {
		return 0
	}
	return 1
}
