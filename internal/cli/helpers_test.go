package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/seitarof/gen-equality/internal/audit"
	"github.com/seitarof/gen-equality/internal/generator"
	"github.com/seitarof/gen-equality/internal/parser"
)

const projectFixture = "../../testdata/csharp/project"

// copyProject copies the C# fixture project into a fresh directory.
func copyProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.CopyFS(root, os.DirFS(projectFixture)))
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestRunner(log *zap.Logger) Runner {
	g := generator.New(generator.NewTextFormatter(), generator.NewFileWriter())
	return NewRunner(parser.New, g, audit.New(), log)
}

func testRunner(t *testing.T) Runner {
	return newTestRunner(zaptest.NewLogger(t))
}
