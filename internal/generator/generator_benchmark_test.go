package generator

import (
	"fmt"
	"testing"

	"github.com/seitarof/gen-equality/internal/parser"
)

type passthroughFormatter struct{}

type discardWriter struct{}

func (passthroughFormatter) Format(_ string, src []byte) ([]byte, error) { return src, nil }

func (discardWriter) Write(_ string, _ []byte) (bool, error) { return true, nil }

func BenchmarkGeneratorGenerate_TemplateOnly(b *testing.B) {
	g := New(passthroughFormatter{}, discardWriter{})
	cfg := testConfig{filename: "Bench.g.cs"}
	types := benchmarkTypes(8, 32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.Generate(cfg, types); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSynthesize(b *testing.B) {
	synth := newSynth()
	types := benchmarkTypes(8, 32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if out := synth.Synthesize(types); out == "" {
			b.Fatal("empty output")
		}
	}
}

func benchmarkTypes(typeCount, memberCount int) []*parser.TypeInfo {
	typeNames := []string{"int", "string", "DateTime", "long", "List<string>"}
	out := make([]*parser.TypeInfo, 0, typeCount)
	for i := 0; i < typeCount; i++ {
		t := annotated(fmt.Sprintf("Type%d", i))
		t.Namespace = fmt.Sprintf("Bench.N%d", i%3)
		t.Kind = parser.TypeKind(i % 2)
		for j := 0; j < memberCount; j++ {
			t.Members = append(t.Members, field(fmt.Sprintf("Member%d", j), typeNames[j%len(typeNames)]))
		}
		out = append(out, t)
	}
	return out
}
