package resolver

import (
	"strconv"
	"testing"

	"github.com/seitarof/gen-equality/internal/parser"
)

func BenchmarkResolverResolve_MixedRules(b *testing.B) {
	r := New(DefaultRules()...)
	typ := benchmarkResolverInput()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		plans := r.Resolve(typ)
		if len(plans) != len(typ.Members) {
			b.Fatalf("unexpected plan count: got %d want %d", len(plans), len(typ.Members))
		}
	}
}

func benchmarkResolverInput() *parser.TypeInfo {
	typeNames := []string{"int", "string", "System.Int64", "DateTime", "List<string>", "int?", "global::System.String", "Guid"}
	typ := &parser.TypeInfo{Name: "Bench", CaseInsensitive: true}
	for i := 0; i < 64; i++ {
		typ.Members = append(typ.Members, parser.MemberInfo{
			Name:     "Member" + strconv.Itoa(i),
			TypeName: typeNames[i%len(typeNames)],
		})
	}
	return typ
}
