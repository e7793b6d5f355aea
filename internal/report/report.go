// Package report renders a completed Trust Assessment Record for humans or
// machines. Humans get an aligned, optionally colored phase table; machines
// get the record as JSON or YAML on stdout.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/rootproof/internal/audit"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Renderer writes assessment records.
type Renderer struct {
	// Color enables styled text output. It has no effect on machine formats.
	Color bool
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
	headStyle = lipgloss.NewStyle().Bold(true)
)

// Render writes rec to w in the requested format.
func (r Renderer) Render(w io.Writer, rec *audit.Record, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(rec)
	default:
		return r.renderText(w, rec)
	}
}

func (r Renderer) renderText(w io.Writer, rec *audit.Record) error {
	var b strings.Builder

	b.WriteString(r.style(headStyle, "Trust assessment: "+rec.Path) + "\n\n")

	width := 0
	for _, p := range rec.Phases {
		if n := len(p.Phase.Title()); n > width {
			width = n
		}
	}

	for _, p := range rec.Phases {
		mark, style := r.outcomeMark(p.Outcome)
		line := fmt.Sprintf("  %s %-*s  %s", r.style(style, mark), width, p.Phase.Title(), p.Detail)
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	b.WriteString("\n")

	if rec.DID != "" {
		b.WriteString("DID:     " + rec.DID + "\n")
	}
	if rec.Fingerprint != "" {
		b.WriteString("Signer:  " + rec.Fingerprint + "\n")
	}

	verdict := "FAILURE"
	verdictStyle := failStyle
	if rec.Verdict == audit.VerdictSuccess {
		verdict = "SUCCESS"
		verdictStyle = passStyle
	}
	b.WriteString(fmt.Sprintf("Verdict: %s (%s)\n", r.style(verdictStyle, verdict), rec.ExitClass))

	_, err := io.WriteString(w, b.String())
	return err
}

func (r Renderer) outcomeMark(o audit.Outcome) (string, lipgloss.Style) {
	switch o {
	case audit.OutcomePass:
		return "✓", passStyle
	case audit.OutcomeFail:
		return "✗", failStyle
	case audit.OutcomeWarn:
		return "!", warnStyle
	default:
		return "-", dimStyle
	}
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}
