package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/seitarof/gen-equality/internal/parser"
	"github.com/seitarof/gen-equality/internal/resolver"
)

// Generator turns parsed types into generated C# files.
type Generator interface {
	Generate(cfg Config, types []*parser.TypeInfo) ([]Output, error)
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
	// NotifyOutputDir is where AutoNotify units go. Empty disables them.
	NotifyOutputDir() string
}

// Formatter normalizes generated source text.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk. It reports whether the file
// content actually changed.
type FileWriter interface {
	Write(filename string, data []byte) (bool, error)
}

// Output describes one file produced by Generate.
type Output struct {
	Filename string
	Bytes    int
	Changed  bool
	Types    int
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	synth     *Synthesizer
}

type textFormatter struct{}

type fileWriter struct{}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	return &generatorImpl{
		formatter: f,
		writer:    w,
		synth:     NewSynthesizer(resolver.New(resolver.DefaultRules()...)),
	}
}

// NewTextFormatter creates a formatter that strips trailing whitespace,
// uses \n line endings and ends the file with exactly one newline.
func NewTextFormatter() Formatter {
	return &textFormatter{}
}

// NewFileWriter creates a file writer that leaves unchanged files alone so
// watchers and incremental builds do not see spurious writes.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

func (g *generatorImpl) Generate(cfg Config, types []*parser.TypeInfo) ([]Output, error) {
	candidates := parser.Candidates(types)
	unit, err := g.synth.Unit(candidates)
	if err != nil {
		return nil, err
	}
	out, err := g.emit(cfg.OutputFilename(), unit)
	if err != nil {
		return nil, err
	}
	out.Types = len(candidates)
	outputs := []Output{out}

	dir := cfg.NotifyOutputDir()
	if dir == "" {
		return outputs, nil
	}
	units, err := g.synth.NotifyUnits(types)
	if err != nil {
		return nil, err
	}
	for i, u := range units {
		o, err := g.emit(filepath.Join(dir, u.Filename), u.Source)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			o.Types = 1
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}

func (g *generatorImpl) emit(filename, source string) (Output, error) {
	formatted, err := g.formatter.Format(filename, []byte(source))
	if err != nil {
		return Output{}, fmt.Errorf("format: %w", err)
	}
	changed, err := g.writer.Write(filename, formatted)
	if err != nil {
		return Output{}, fmt.Errorf("write: %w", err)
	}
	return Output{Filename: filename, Bytes: len(formatted), Changed: changed}, nil
}

func (f *textFormatter) Format(_ string, src []byte) ([]byte, error) {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	text = strings.TrimLeft(strings.Join(lines, "\n"), "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, nil
	}
	return []byte(text + "\n"), nil
}

func (w *fileWriter) Write(filename string, data []byte) (bool, error) {
	existing, err := os.ReadFile(filename)
	switch {
	case err == nil && bytes.Equal(existing, data):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
