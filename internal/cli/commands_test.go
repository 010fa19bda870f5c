package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type commandResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, args ...string) commandResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(Deps{
		Version:   "1.2.3",
		NewRunner: newTestRunner,
		Stdout:    &stdout,
		Stderr:    &stderr,
	})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootCommand_Version(t *testing.T) {
	res := execute(t, "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1.2.3")
}

func TestGenerateCommand(t *testing.T) {
	root := copyProject(t)
	notifyDir := filepath.Join(root, "Generated")

	res := execute(t, "generate", root, "--notify-dir", notifyDir, "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "wrote "+filepath.Join(root, DefaultOutputFile)+" (2 types)\n")
	assert.Contains(t, res.stdout, "wrote "+filepath.Join(notifyDir, "Shop.UI.ViewModel_GeneratedNotify.g.cs")+" (1 types)\n")
	assert.Contains(t, res.stderr, "generated")
	assert.Contains(t, res.stderr, "\tdebug\t", "--verbose enables debug logs")

	res = execute(t, "generate", root, "--notify-dir", notifyDir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "unchanged "+filepath.Join(root, DefaultOutputFile))
	assert.NotContains(t, res.stderr, "\tdebug\t")
}

func TestGenerateCommand_OutFlag(t *testing.T) {
	root := copyProject(t)
	out := filepath.Join(t.TempDir(), "gen", "Equality.g.cs")

	res := execute(t, "generate", root, "-o", out)
	require.NoError(t, res.err)
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(root, DefaultOutputFile))
}

func TestAuditCommand_Text(t *testing.T) {
	root := copyProject(t)

	res := execute(t, "audit", root)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, filepath.Join(root, "Legacy.cs")+":5:18: warning JP002: Type Money needs to implement IEquatable<T>\n")
	assert.Contains(t, res.stdout, "JP001")
	assert.Contains(t, res.stdout, "JP003")
	assert.Contains(t, res.stdout, "3 finding(s)\n")
}

func TestAuditCommand_FailOnFindings(t *testing.T) {
	root := copyProject(t)

	res := execute(t, "audit", root, "--fail-on-findings")
	require.ErrorIs(t, res.err, ErrFindings)
	assert.Equal(t, 2, ExitCode(res.err))

	res = execute(t, "audit", root, "--fail-on-findings", "--exclude", "Legacy.cs, *.Designer.cs")
	require.NoError(t, res.err)
	assert.Equal(t, "0 finding(s)\n", res.stdout)
}

func TestAuditCommand_JSONFromConfigFile(t *testing.T) {
	root := copyProject(t)
	cfgPath := filepath.Join(t.TempDir(), "gen.yaml")
	writeFile(t, cfgPath, "format: json\nworkers: 2\n")

	res := execute(t, "audit", root, "--config", cfgPath)
	require.NoError(t, res.err)
	var got []jsonFinding
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"JP002", "JP001", "JP003"}, []string{got[0].Code, got[1].Code, got[2].Code})

	res = execute(t, "audit", root, "--config", cfgPath, "--format", "text")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "3 finding(s)")
}

func TestCommands_InvalidConfig(t *testing.T) {
	root := copyProject(t)

	res := execute(t, "generate", root, "--nullable", "sometimes")
	require.ErrorIs(t, res.err, ErrInvalidConfig)
	assert.Equal(t, 1, ExitCode(res.err))

	res = execute(t, "audit", root, "--format", "xml")
	require.ErrorIs(t, res.err, ErrInvalidConfig)
}

func TestCommands_NoSources(t *testing.T) {
	res := execute(t, "generate", t.TempDir())
	require.ErrorIs(t, res.err, ErrNoSources)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(errors.Join(errors.New("x"), ErrFindings)))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false)
	log.Debug("hidden")
	log.Info("shown", zap.Int("n", 1))
	require.NoError(t, log.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "gen-equality")
}
