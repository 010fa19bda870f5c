package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunnerFactory builds the runner once the logger for the invocation is
// known.
type RunnerFactory func(log *zap.Logger) Runner

// Deps are the collaborators of the command tree.
type Deps struct {
	Version   string
	NewRunner RunnerFactory
	Stdout    io.Writer
	Stderr    io.Writer
	// Debounce overrides the watch debounce window.
	Debounce time.Duration
}

type app struct {
	deps    Deps
	cfg     *Config
	exclude string
	log     *zap.Logger
}

// NewRootCommand builds the gen-equality command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	a := &app{deps: deps, cfg: &Config{}, log: zap.NewNop()}

	root := &cobra.Command{
		Use:               "gen-equality",
		Short:             "Generate and audit structural equality members for C# types",
		Version:           deps.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)
	bindCommonFlags(root.PersistentFlags(), a.cfg, &a.exclude)

	root.AddCommand(a.generateCommand(), a.auditCommand(), a.watchCommand())
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if err := LoadFile(a.cfg, flags); err != nil {
		return err
	}
	if f := flags.Lookup(flagExclude); f != nil && f.Changed {
		a.cfg.Exclude = splitCommaList(a.exclude)
	}
	a.cfg.Paths = args
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.log = newLogger(a.deps.Stderr, a.cfg.Verbose)
	return nil
}

// newLogger mirrors zap's production config with a console encoder on w.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		level.SetLevel(zap.DebugLevel)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Named("gen-equality")
}

func (a *app) runner() Runner {
	return a.deps.NewRunner(a.log)
}

func (a *app) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Write equality members for every [AutoEquality] type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.runner().Generate(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			printOutputs(cmd.OutOrStdout(), res)
			return nil
		},
	}
	bindGenerateFlags(cmd.Flags(), a.cfg)
	return cmd
}

func (a *app) auditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [paths...]",
		Short: "Report types with an incomplete equality contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			findings, err := a.runner().Audit(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			if err := NewReporter(cmd.OutOrStdout(), a.cfg.Format).Report(findings); err != nil {
				return fmt.Errorf("report: %w", err)
			}
			if a.cfg.FailOnFindings && len(findings) > 0 {
				return fmt.Errorf("%w: %d", ErrFindings, len(findings))
			}
			return nil
		},
	}
	bindAuditFlags(cmd.Flags(), a.cfg)
	return cmd
}

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate whenever C# sources change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			w := NewWatcher(a.runner(), a.cfg, a.log, a.deps.Debounce)
			a.log.Info("watching", zap.Strings("paths", watchRoots(a.cfg.Paths)))
			return w.Run(ctx, func(res *GenerateResult, err error) {
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					return
				}
				printOutputs(out, res)
			})
		},
	}
	bindGenerateFlags(cmd.Flags(), a.cfg)
	return cmd
}

func printOutputs(w io.Writer, res *GenerateResult) {
	for _, o := range res.Outputs {
		state := "unchanged"
		if o.Changed {
			state = "wrote"
		}
		fmt.Fprintf(w, "%s %s (%d types)\n", state, o.Filename, o.Types)
	}
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrFindings):
		return 2
	default:
		return 1
	}
}
