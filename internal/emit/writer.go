package emit

import (
	"fmt"
	"strings"
)

// Writer accumulates emitted lines. A Writer belongs to one emission pass
// and must not be shared between goroutines.
type Writer struct {
	b strings.Builder
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Line writes text at the indentation of s. Empty text writes a bare newline
// so blank lines never carry trailing whitespace.
func (w *Writer) Line(s Scope, text string) {
	if text == "" {
		w.b.WriteByte('\n')
		return
	}
	w.b.WriteString(s.Indent())
	w.b.WriteString(text)
	w.b.WriteByte('\n')
}

// Linef formats and writes one line at s.
func (w *Writer) Linef(s Scope, format string, args ...any) {
	w.Line(s, fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.b.WriteByte('\n')
}

// Directive writes a preprocessor line at column zero.
func (w *Writer) Directive(text string) {
	w.b.WriteString(text)
	w.b.WriteByte('\n')
}

// Raw appends text verbatim.
func (w *Writer) Raw(text string) {
	w.b.WriteString(text)
}

// Block writes header, an opening brace, the body one level deeper and the
// closing brace, all relative to s.
func (w *Writer) Block(s Scope, header string, body func(inner Scope)) {
	w.Line(s, header)
	w.Line(s, "{")
	if body != nil {
		body(s.Push())
	}
	w.Line(s, "}")
}

// String returns everything written.
func (w *Writer) String() string {
	return w.b.String()
}
