// Package audit reports types whose equality contract is only partly
// implemented.
package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/seitarof/gen-equality/internal/matcher"
	"github.com/seitarof/gen-equality/internal/parser"
)

// Finding is one unmet condition on one type.
type Finding struct {
	Kind     Kind
	TypeName string
	Location parser.Location
}

// Descriptor returns the descriptor of the finding's kind.
func (f Finding) Descriptor() Descriptor {
	return f.Kind.Descriptor()
}

// Message renders the descriptor's message for the finding's type.
func (f Finding) Message() string {
	return fmt.Sprintf(f.Descriptor().MessageFormat, f.TypeName)
}

// Auditor checks one type. Implementations must be safe for concurrent use.
type Auditor interface {
	Audit(t *parser.TypeInfo) []Finding
}

type auditorImpl struct{}

// New returns the default auditor. It holds no state.
func New() Auditor {
	return auditorImpl{}
}

var equatableMatcher = matcher.NewQualifiedMatcher("System", "IEquatable")

const (
	equalsName      = "Equals"
	getHashCodeName = "GetHashCode"
)

func (auditorImpl) Audit(t *parser.TypeInfo) []Finding {
	if t == nil {
		return nil
	}
	equatable := implementsSelfEquatable(t)
	operators := hasEqualityOperators(t)
	if !equatable && !operators && !declares(t, equalsName) && !declares(t, getHashCodeName) {
		return nil
	}

	var out []Finding
	if !equatable {
		out = append(out, newFinding(KindMissingEquatable, t))
	}
	if !operators {
		out = append(out, newFinding(KindMissingOperators, t))
	}
	if !hasTypedEquals(t) {
		out = append(out, newFinding(KindMissingTypedEquals, t))
	}
	return out
}

func newFinding(k Kind, t *parser.TypeInfo) Finding {
	return Finding{Kind: k, TypeName: t.Name, Location: t.Location}
}

// selfMatcher matches the type's own name as written in a signature or type
// argument: bare, namespace-qualified, or global::-qualified.
func selfMatcher(t *parser.TypeInfo) matcher.NameMatcher {
	return matcher.NewQualifiedMatcher(t.Namespace, matcher.Normalize(t.DisplayName()))
}

// matchesSelf accepts a nullable annotation on reference kinds only: for a
// struct, S? is a different type.
func matchesSelf(t *parser.TypeInfo, self matcher.NameMatcher, written string) bool {
	if !t.IsValueType() {
		written, _ = matcher.TrimNullable(written)
	}
	return self.Match(written)
}

// selfArgument matches a generic type argument naming the audited type.
type selfArgument struct {
	t    *parser.TypeInfo
	self matcher.NameMatcher
}

func (a selfArgument) Match(written string) bool {
	return matchesSelf(a.t, a.self, written)
}

func implementsSelfEquatable(t *parser.TypeInfo) bool {
	m := matcher.NewGenericMatcher(equatableMatcher, selfArgument{t: t, self: selfMatcher(t)})
	for _, iface := range t.Interfaces {
		if m.Match(iface) {
			return true
		}
	}
	return false
}

func hasEqualityOperators(t *parser.TypeInfo) bool {
	var eq, ne bool
	for _, op := range t.Operators {
		switch op {
		case "==":
			eq = true
		case "!=":
			ne = true
		}
	}
	return eq && ne
}

func declares(t *parser.TypeInfo, name string) bool {
	for _, n := range t.DeclaredNames {
		if n == name {
			return true
		}
	}
	return false
}

func hasTypedEquals(t *parser.TypeInfo) bool {
	self := selfMatcher(t)
	for _, m := range t.Methods {
		if m.Name != equalsName || len(m.Params) != 1 {
			continue
		}
		if isBool(m.ReturnType) && matchesSelf(t, self, m.Params[0]) {
			return true
		}
	}
	return false
}

func isBool(typeName string) bool {
	switch strings.TrimPrefix(matcher.Normalize(typeName), "global::") {
	case "bool", "System.Boolean":
		return true
	default:
		return false
	}
}

// AuditAll audits types on up to workers goroutines and returns the
// findings ordered by location, then by kind.
func AuditAll(ctx context.Context, a Auditor, types []*parser.TypeInfo, workers int) ([]Finding, error) {
	results := make([][]Finding, len(types))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, t := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.Audit(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Finding
	for _, r := range results {
		out = append(out, r...)
	}
	SortFindings(out)
	return out, nil
}

// SortFindings orders findings by file, line, column and kind.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].Location, findings[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return findings[i].Kind < findings[j].Kind
	})
}
