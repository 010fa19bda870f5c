package generator

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/seitarof/gen-equality/internal/parser"
	"github.com/seitarof/gen-equality/internal/resolver"
)

const (
	wantEquality = "want.g.cs"
	wantNotify   = "want_notify.g.cs"
)

func TestGolden(t *testing.T) {
	archives, err := filepath.Glob("../../testdata/golden/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	synth := NewSynthesizer(resolver.New(resolver.DefaultRules()...))
	formatter := NewTextFormatter()

	for _, archive := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(archive), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(archive)
			require.NoError(t, err)

			p := parser.New()
			var files []*parser.FileInfo
			want := map[string]string{}
			for _, f := range ar.Files {
				if strings.HasPrefix(f.Name, "want") {
					want[f.Name] = string(f.Data)
					continue
				}
				info, err := p.ParseFile(context.Background(), f.Name, f.Data)
				require.NoError(t, err)
				files = append(files, info)
			}
			require.NotEmpty(t, want, "archive has no expectations")
			types := parser.MergePartials(files)

			if expected, ok := want[wantEquality]; ok {
				unit, err := synth.Unit(parser.Candidates(types))
				require.NoError(t, err)
				got, err := formatter.Format(wantEquality, []byte(unit))
				require.NoError(t, err)
				if diff := cmp.Diff(expected, string(got)); diff != "" {
					t.Errorf("equality unit mismatch (-want +got):\n%s", diff)
				}
			}
			if expected, ok := want[wantNotify]; ok {
				units, err := synth.NotifyUnits(types)
				require.NoError(t, err)
				require.Len(t, units, 2)
				got, err := formatter.Format(wantNotify, []byte(units[1].Source))
				require.NoError(t, err)
				if diff := cmp.Diff(expected, string(got)); diff != "" {
					t.Errorf("notify unit mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
