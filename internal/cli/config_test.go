package cli

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagSetFor(cfg *Config, exclude *string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindCommonFlags(fs, cfg, exclude)
	bindGenerateFlags(fs, cfg)
	bindAuditFlags(fs, cfg)
	return fs
}

func TestLoadFile_ExplicitFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, `
nullable: enable
out: Generated/Equality.g.cs
notify_dir: Generated
exclude: [" Legacy.cs ", "", "*.Designer.cs"]
format: json
workers: 3
fail_on_findings: true
`)
	cfg := &Config{}
	var exclude string
	fs := flagSetFor(cfg, &exclude)
	require.NoError(t, fs.Parse([]string{"--config", path, "--format", "text", "--workers", "7"}))

	require.NoError(t, LoadFile(cfg, fs))
	assert.Equal(t, "enable", cfg.Nullable)
	assert.Equal(t, "Generated/Equality.g.cs", cfg.Out)
	assert.Equal(t, "Generated", cfg.NotifyOutputDir())
	assert.Equal(t, []string{"Legacy.cs", "*.Designer.cs"}, cfg.Exclude)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, 7, cfg.Workers)
	assert.True(t, cfg.FailOnFindings)
}

func TestLoadFile_FailOnFindingsFalseInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "fail_on_findings: false\n")
	cfg := &Config{ConfigFile: path, FailOnFindings: true}
	require.NoError(t, LoadFile(cfg, nil))
	assert.False(t, cfg.FailOnFindings)
}

func TestLoadFile_MissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := &Config{}
	require.NoError(t, LoadFile(cfg, nil))
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFile_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultConfigFile), "nullable: annotations\n")
	t.Chdir(dir)
	cfg := &Config{}
	require.NoError(t, LoadFile(cfg, nil))
	assert.Equal(t, "annotations", cfg.Nullable)
}

func TestLoadFile_Errors(t *testing.T) {
	err := LoadFile(&Config{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")}, nil)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "workers: [1, 2\n")
	err = LoadFile(&Config{ConfigFile: path}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero value", cfg: Config{}},
		{name: "full", cfg: Config{Nullable: "enable", Format: FormatJSON, Workers: 2, Exclude: []string{"*.Designer.cs"}}},
		{name: "unknown nullable", cfg: Config{Nullable: "sometimes"}, wantErr: true},
		{name: "unknown format", cfg: Config{Format: "xml"}, wantErr: true},
		{name: "negative workers", cfg: Config{Workers: -1}, wantErr: true},
		{name: "bad glob", cfg: Config{Exclude: []string{"[a-"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_OutputFilename(t *testing.T) {
	root := copyProject(t)

	assert.Equal(t, filepath.Join(".", DefaultOutputFile), (&Config{}).OutputFilename())
	assert.Equal(t, filepath.Join(root, DefaultOutputFile), (&Config{Paths: []string{root, "other"}}).OutputFilename())
	assert.Equal(t, filepath.Join(root, DefaultOutputFile),
		(&Config{Paths: []string{filepath.Join(root, "Order.cs")}}).OutputFilename())
	assert.Equal(t, "Out.g.cs", (&Config{Paths: []string{root}, Out: "Out.g.cs"}).OutputFilename())
}

func TestConfig_WorkerCount(t *testing.T) {
	assert.Equal(t, runtime.GOMAXPROCS(0), (&Config{}).WorkerCount())
	assert.Equal(t, 4, (&Config{Workers: 4}).WorkerCount())
}

func TestSplitCommaList(t *testing.T) {
	assert.Nil(t, splitCommaList("  "))
	assert.Equal(t, []string{"a.cs", "b/*.cs"}, splitCommaList(" a.cs, ,b/*.cs "))
}
