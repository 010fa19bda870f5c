package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

const (
	flagConfig         = "config"
	flagVerbose        = "verbose"
	flagNullable       = "nullable"
	flagWorkers        = "workers"
	flagExclude        = "exclude"
	flagOut            = "out"
	flagNotifyDir      = "notify-dir"
	flagFormat         = "format"
	flagFailOnFindings = "fail-on-findings"
)

// bindCommonFlags registers the options every command shares.
func bindCommonFlags(fs *pflag.FlagSet, cfg *Config, exclude *string) {
	fs.StringVarP(&cfg.ConfigFile, flagConfig, "c", "", "config file (default "+DefaultConfigFile+" when present)")
	fs.BoolVar(&cfg.Verbose, flagVerbose, false, "debug logging")
	fs.StringVar(&cfg.Nullable, flagNullable, "", "project nullable context: disable, enable, annotations or warnings")
	fs.IntVarP(&cfg.Workers, flagWorkers, "j", 0, "parallel parse/audit workers (default GOMAXPROCS)")
	fs.StringVar(exclude, flagExclude, "", "comma-separated glob patterns of files to skip")
}

// bindGenerateFlags registers the generate and watch options.
func bindGenerateFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Out, flagOut, "o", "", "equality output file (default "+DefaultOutputFile+" in the first path)")
	fs.StringVar(&cfg.NotifyDir, flagNotifyDir, "", "directory for AutoNotify output; empty disables it")
}

// bindAuditFlags registers the audit options.
func bindAuditFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Format, flagFormat, "f", FormatText, "report format: text or json")
	fs.BoolVar(&cfg.FailOnFindings, flagFailOnFindings, false, "exit with status 2 when findings exist")
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
