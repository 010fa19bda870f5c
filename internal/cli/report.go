package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/seitarof/gen-equality/internal/audit"
)

// Reporter prints audit findings.
type Reporter struct {
	w      io.Writer
	format string
	styles reportStyles
	color  bool
}

type reportStyles struct {
	location lipgloss.Style
	severity lipgloss.Style
	code     lipgloss.Style
	summary  lipgloss.Style
}

type jsonFinding struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Message  string `json:"message"`
}

// NewReporter creates a reporter. Text output is coloured only when w is a
// terminal.
func NewReporter(w io.Writer, format string) *Reporter {
	r := &Reporter{w: w, format: format, color: isTerminal(w)}
	if r.color {
		renderer := lipgloss.NewRenderer(w)
		r.styles = reportStyles{
			location: renderer.NewStyle().Bold(true),
			severity: renderer.NewStyle().Foreground(lipgloss.Color("11")),
			code:     renderer.NewStyle().Foreground(lipgloss.Color("14")),
			summary:  renderer.NewStyle().Faint(true),
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report writes findings in the configured format.
func (r *Reporter) Report(findings []audit.Finding) error {
	if r.format == FormatJSON {
		return r.reportJSON(findings)
	}
	return r.reportText(findings)
}

func (r *Reporter) reportText(findings []audit.Finding) error {
	for _, f := range findings {
		d := f.Descriptor()
		line := fmt.Sprintf("%s: %s %s: %s",
			r.paint(r.styles.location, f.Location.String()),
			r.paint(r.styles.severity, string(d.Severity)),
			r.paint(r.styles.code, d.ID),
			f.Message(),
		)
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf("%d finding(s)", len(findings))
	_, err := fmt.Fprintln(r.w, r.paint(r.styles.summary, summary))
	return err
}

func (r *Reporter) paint(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}

func (r *Reporter) reportJSON(findings []audit.Finding) error {
	out := make([]jsonFinding, 0, len(findings))
	for _, f := range findings {
		d := f.Descriptor()
		out = append(out, jsonFinding{
			File:     f.Location.File,
			Line:     f.Location.Line,
			Column:   f.Location.Column,
			Code:     d.ID,
			Severity: string(d.Severity),
			Title:    d.Title,
			Type:     f.TypeName,
			Message:  f.Message(),
		})
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
