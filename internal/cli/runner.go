package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seitarof/gen-equality/internal/audit"
	"github.com/seitarof/gen-equality/internal/generator"
	"github.com/seitarof/gen-equality/internal/parser"
)

// Runner orchestrates the parser, generator and auditor layers. Every call
// is one pass: descriptors are rebuilt from the files on disk each time.
type Runner interface {
	Generate(ctx context.Context, cfg *Config) (*GenerateResult, error)
	Audit(ctx context.Context, cfg *Config) ([]audit.Finding, error)
}

// ParserFactory builds a parser for one pass.
type ParserFactory func(opts ...parser.Option) parser.Parser

// GenerateResult summarizes one generate pass.
type GenerateResult struct {
	PassID     string
	Files      int
	Types      int
	Candidates int
	Skipped    []parser.SkippedDecl
	Outputs    []generator.Output
}

type runnerImpl struct {
	newParser ParserFactory
	generator generator.Generator
	auditor   audit.Auditor
	log       *zap.Logger
}

// NewRunner creates a default runner implementation.
func NewRunner(p ParserFactory, g generator.Generator, a audit.Auditor, log *zap.Logger) Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &runnerImpl{newParser: p, generator: g, auditor: a, log: log}
}

// Generate executes a single generation cycle.
func (r *runnerImpl) Generate(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	start := time.Now()
	passID := uuid.NewString()
	log := r.log.With(zap.String("pass", passID), zap.String("command", "generate"))

	files, err := DiscoverSources(cfg.Paths, DiscoverOptions{Exclude: cfg.Exclude})
	if err != nil {
		return nil, err
	}
	infos, err := r.parseAll(ctx, cfg, files, log)
	if err != nil {
		return nil, err
	}
	types := parser.MergePartials(infos)

	outputs, err := r.generator.Generate(cfg, types)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	res := &GenerateResult{
		PassID:     passID,
		Files:      len(files),
		Types:      len(types),
		Candidates: len(parser.Candidates(types)),
		Skipped:    collectSkipped(infos),
		Outputs:    outputs,
	}
	for _, o := range outputs {
		log.Debug("output",
			zap.String("file", o.Filename),
			zap.Int("bytes", o.Bytes),
			zap.Bool("changed", o.Changed),
		)
	}
	log.Info("generated",
		zap.Int("files", res.Files),
		zap.Int("types", res.Types),
		zap.Int("candidates", res.Candidates),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("outputs", len(outputs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Audit executes a single audit cycle. Generated files are part of the
// input so that generated partial declarations complete annotated types.
func (r *runnerImpl) Audit(ctx context.Context, cfg *Config) ([]audit.Finding, error) {
	start := time.Now()
	log := r.log.With(zap.String("pass", uuid.NewString()), zap.String("command", "audit"))

	files, err := DiscoverSources(cfg.Paths, DiscoverOptions{Exclude: cfg.Exclude, IncludeGenerated: true})
	if err != nil {
		return nil, err
	}
	infos, err := r.parseAll(ctx, cfg, files, log)
	if err != nil {
		return nil, err
	}
	types := parser.MergePartials(infos)

	findings, err := audit.AuditAll(ctx, r.auditor, types, cfg.WorkerCount())
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	log.Info("audited",
		zap.Int("files", len(files)),
		zap.Int("types", len(types)),
		zap.Int("findings", len(findings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return findings, nil
}

func (r *runnerImpl) parseAll(ctx context.Context, cfg *Config, files []string, log *zap.Logger) ([]*parser.FileInfo, error) {
	if len(files) == 0 {
		return nil, ErrNoSources
	}
	nullable, err := cfg.NullableContext()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	p := r.newParser(parser.WithNullableDefault(nullable))

	infos := make([]*parser.FileInfo, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount())
	for i, path := range files {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %q: %w", path, err)
			}
			info, err := p.ParseFile(ctx, path, src)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, info := range infos {
		for _, s := range info.Skipped {
			log.Debug("skipped declaration",
				zap.String("name", s.Name),
				zap.Stringer("reason", s.Reason),
				zap.Stringer("location", s.Location),
			)
		}
	}
	log.Debug("parsed", zap.Int("files", len(files)))
	return infos, nil
}

func collectSkipped(infos []*parser.FileInfo) []parser.SkippedDecl {
	var out []parser.SkippedDecl
	for _, info := range infos {
		out = append(out, info.Skipped...)
	}
	return out
}
