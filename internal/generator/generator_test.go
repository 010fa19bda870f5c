package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-equality/internal/parser"
)

type testConfig struct {
	filename  string
	notifyDir string
}

func (c testConfig) OutputFilename() string  { return c.filename }
func (c testConfig) NotifyOutputDir() string { return c.notifyDir }

type failingFormatter struct{ err error }

func (f failingFormatter) Format(_ string, _ []byte) ([]byte, error) { return nil, f.err }

type recordingWriter struct {
	files map[string][]byte
	err   error
}

func (w *recordingWriter) Write(filename string, data []byte) (bool, error) {
	if w.err != nil {
		return false, w.err
	}
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[filename] = data
	return true, nil
}

func annotated(name string, members ...parser.MemberInfo) *parser.TypeInfo {
	return &parser.TypeInfo{
		Name:       name,
		Namespace:  "App",
		Attributes: []parser.AttributeInfo{{Name: "AutoEquality"}},
		Members:    members,
	}
}

func TestGenerate_WritesFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "GeneratedEquality.g.cs")

	g := New(NewTextFormatter(), NewFileWriter())
	types := []*parser.TypeInfo{
		annotated("User", field("Id", "int"), field("Name", "string")),
		{Name: "Ignored", Namespace: "App"},
	}

	outputs, err := g.Generate(testConfig{filename: filename}, types)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, filename, outputs[0].Filename)
	assert.True(t, outputs[0].Changed)
	assert.Equal(t, 1, outputs[0].Types)

	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	got := string(b)
	assert.Equal(t, outputs[0].Bytes, len(b))
	assert.Contains(t, got, "partial class User : IEquatable<User>")
	assert.NotContains(t, got, "Ignored")

	again, err := g.Generate(testConfig{filename: filename}, types)
	require.NoError(t, err)
	assert.False(t, again[0].Changed, "identical content is not rewritten")
}

func TestGenerate_NotifyUnits(t *testing.T) {
	w := &recordingWriter{}
	g := New(NewTextFormatter(), w)
	vm := &parser.TypeInfo{Name: "ViewModel", Members: []parser.MemberInfo{notifyField("_title", "string")}}

	outputs, err := g.Generate(testConfig{filename: "out/Eq.g.cs", notifyDir: "notify"}, []*parser.TypeInfo{vm})
	require.NoError(t, err)
	require.Len(t, outputs, 3)
	assert.Contains(t, w.files, "out/Eq.g.cs")
	assert.Contains(t, w.files, filepath.Join("notify", NotifyAttributeFilename))
	assert.Contains(t, w.files, filepath.Join("notify", "ViewModel_GeneratedNotify.g.cs"))
	assert.Equal(t, 1, outputs[2].Types)
}

func TestGenerate_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := New(failingFormatter{err: boom}, &recordingWriter{}).Generate(testConfig{filename: "x.g.cs"}, nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "format:")

	_, err = New(NewTextFormatter(), &recordingWriter{err: boom}).Generate(testConfig{filename: "x.g.cs"}, nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "write:")
}

func TestTextFormatter(t *testing.T) {
	got, err := NewTextFormatter().Format("x.cs", []byte("\n\nclass C   \r\n{\t\r\n}\n\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "class C\n{\n}\n", string(got))

	empty, err := NewTextFormatter().Format("x.cs", []byte("\n  \n"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFileWriter_CreatesDirectories(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "a", "b", "Out.g.cs")
	changed, err := NewFileWriter().Write(filename, []byte("x\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = NewFileWriter().Write(filename, []byte("y\n"))
	require.NoError(t, err)
	assert.True(t, changed)
}
