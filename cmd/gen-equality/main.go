package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/seitarof/gen-equality/internal/audit"
	"github.com/seitarof/gen-equality/internal/cli"
	"github.com/seitarof/gen-equality/internal/generator"
	"github.com/seitarof/gen-equality/internal/parser"
)

var version = "dev"

func main() {
	newRunner := func(log *zap.Logger) cli.Runner {
		f := generator.NewTextFormatter()
		w := generator.NewFileWriter()
		g := generator.New(f, w)
		return cli.NewRunner(parser.New, g, audit.New(), log)
	}

	root := cli.NewRootCommand(cli.Deps{
		Version:   version,
		NewRunner: newRunner,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "gen-equality: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
