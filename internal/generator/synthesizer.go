package generator

import (
	"sort"
	"strings"

	"github.com/seitarof/gen-equality/internal/emit"
	"github.com/seitarof/gen-equality/internal/parser"
	"github.com/seitarof/gen-equality/internal/resolver"
)

// AutoGeneratedHeader marks emitted units so analyzers and editors treat
// them as generated code.
const AutoGeneratedHeader = "// <auto-generated/>"

var baseUsings = []string{"using System;", "using System.Collections.Generic;"}

// Synthesizer renders equality members for annotated types. It holds no
// per-call state; every call uses its own emit.Writer.
type Synthesizer struct {
	resolver resolver.Resolver
	attrs    *attributeRenderer
}

// NewSynthesizer builds a synthesizer on top of r.
func NewSynthesizer(r resolver.Resolver) *Synthesizer {
	return &Synthesizer{resolver: r, attrs: newAttributeRenderer()}
}

// Synthesize returns the using directives followed by one block per
// namespace group. No types yields the empty string.
func (s *Synthesizer) Synthesize(types []*parser.TypeInfo) string {
	if len(types) == 0 {
		return ""
	}
	w := emit.NewWriter()
	writeUsings(w, types)
	w.Blank()
	s.writeGroups(w, types)
	return w.String()
}

// Unit returns the complete generated source unit: header, usings, the
// marker attribute declaration and the equality blocks. The attribute is
// declared even when types is empty so annotations always bind.
func (s *Synthesizer) Unit(types []*parser.TypeInfo) (string, error) {
	attr, err := s.attrs.render(autoEqualityTemplate)
	if err != nil {
		return "", err
	}
	w := emit.NewWriter()
	w.Line(emit.Root(), AutoGeneratedHeader)
	writeUsings(w, types)
	w.Blank()
	w.Raw(attr)
	if len(types) > 0 {
		w.Blank()
		s.writeGroups(w, types)
	}
	return w.String(), nil
}

// writeUsings writes the unit header usings: the fixed ones plus the
// file-level usings of global types. Namespaced types carry theirs inside
// their namespace block.
func writeUsings(w *emit.Writer, types []*parser.TypeInfo) {
	root := emit.Root()
	for _, u := range baseUsings {
		w.Line(root, u)
	}
	var global []string
	for _, t := range types {
		if t.Namespace == "" {
			global = append(global, t.Usings...)
		}
	}
	for _, u := range sortedUsings(global) {
		w.Line(root, u)
	}
}

// scopedUsings are the usings emitted inside a namespace block. File-level
// usings are rooted at global:: so the enclosing namespace cannot capture
// them.
func scopedUsings(t *parser.TypeInfo) []string {
	out := make([]string, 0, len(t.Usings)+len(t.NamespaceUsings))
	for _, u := range t.Usings {
		out = append(out, globalUsing(u))
	}
	out = append(out, t.NamespaceUsings...)
	return sortedUsings(out)
}

func globalUsing(u string) string {
	name := strings.TrimSuffix(strings.TrimPrefix(u, "using "), ";")
	if strings.HasPrefix(name, "global::") || isBaseUsing(u) {
		return u
	}
	return "using global::" + name + ";"
}

func isBaseUsing(u string) bool {
	u = strings.Replace(u, "using global::", "using ", 1)
	for _, b := range baseUsings {
		if u == b {
			return true
		}
	}
	return false
}

// sortedUsings drops the fixed usings and duplicates, then sorts.
func sortedUsings(usings []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, u := range usings {
		if isBaseUsing(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

type namespaceGroup struct {
	name   string
	usings []string
	types  []*parser.TypeInfo
}

// groupByNamespace keeps first-appearance order of groups and of the types
// inside each group. Types of one namespace whose files import different
// namespaces go to separate blocks so no block sees another file's usings.
func groupByNamespace(types []*parser.TypeInfo) []namespaceGroup {
	index := map[string]int{}
	var groups []namespaceGroup
	for _, t := range types {
		var usings []string
		if t.Namespace != "" {
			usings = scopedUsings(t)
		}
		key := t.Namespace + "\n" + strings.Join(usings, "\n")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, namespaceGroup{name: t.Namespace, usings: usings})
		}
		groups[i].types = append(groups[i].types, t)
	}
	return groups
}

func (s *Synthesizer) writeGroups(w *emit.Writer, types []*parser.TypeInfo) {
	root := emit.Root()
	for i, g := range groupByNamespace(types) {
		if i > 0 {
			w.Blank()
		}
		if g.name == "" {
			s.writeTypes(w, root, g.types)
			continue
		}
		w.Block(root, "namespace "+g.name, func(inner emit.Scope) {
			for _, u := range g.usings {
				w.Line(inner, u)
			}
			if len(g.usings) > 0 {
				w.Blank()
			}
			s.writeTypes(w, inner, g.types)
		})
	}
}

func (s *Synthesizer) writeTypes(w *emit.Writer, scope emit.Scope, types []*parser.TypeInfo) {
	for i, t := range types {
		if i > 0 {
			w.Blank()
		}
		s.writeType(w, scope, t)
	}
}

func (s *Synthesizer) writeType(w *emit.Writer, scope emit.Scope, t *parser.TypeInfo) {
	name := t.DisplayName()
	objectParam := "object"
	selfParam := name
	if t.NullableEnabled {
		objectParam = "object?"
		if !t.IsValueType() {
			selfParam = name + "?"
		}
	}
	plans := s.resolver.Resolve(t)
	other, hash := resolver.LocalNames(t)

	if t.NullableEnabled {
		w.Directive("#nullable enable")
	}
	header := "partial " + t.Kind.Keyword() + " " + name + " : IEquatable<" + name + ">"
	w.Block(scope, header, func(body emit.Scope) {
		w.Linef(body, "public override bool Equals(%s obj) => obj is %s %s && Equals(%s);", objectParam, name, other, other)
		w.Linef(body, "public static bool operator ==(%s left, %s right) => %s;", selfParam, selfParam, operatorBody(t))
		w.Linef(body, "public static bool operator !=(%s left, %s right) => !(left == right);", selfParam, selfParam)
		w.Blank()
		w.Block(body, "public bool Equals("+selfParam+" "+other+")", func(inner emit.Scope) {
			writeEqualsBody(w, inner, t, plans)
		})
		w.Blank()
		w.Block(body, "public override int GetHashCode()", func(inner emit.Scope) {
			w.Linef(inner, "var %s = new HashCode();", hash)
			for _, p := range plans {
				w.Line(inner, p.Hash)
			}
			w.Linef(inner, "return %s.ToHashCode();", hash)
		})
	})
	if t.NullableEnabled {
		w.Directive("#nullable disable")
	}
}

func operatorBody(t *parser.TypeInfo) string {
	if t.IsValueType() {
		return "left.Equals(right)"
	}
	return "left is object && left.Equals(right)"
}

// equalityTerms lists the conjuncts of the typed Equals body in order.
func equalityTerms(t *parser.TypeInfo, plans []resolver.ComparisonPlan) []string {
	terms := make([]string, 0, len(plans)+1)
	if !t.IsValueType() {
		other, _ := resolver.LocalNames(t)
		terms = append(terms, other+" is object")
	}
	for _, p := range plans {
		terms = append(terms, p.Equals)
	}
	return terms
}

func writeEqualsBody(w *emit.Writer, scope emit.Scope, t *parser.TypeInfo, plans []resolver.ComparisonPlan) {
	terms := equalityTerms(t, plans)
	if len(terms) == 0 {
		w.Line(scope, "return true;")
		return
	}
	w.Line(scope, "return")
	inner := scope.Push()
	last := len(terms) - 1
	for i, term := range terms {
		if i == last {
			w.Line(inner, term+";")
			continue
		}
		w.Line(inner, term+" &&")
	}
}

// EqualityExpression returns the typed Equals body as a single line, e.g.
// "other is object && X == other.X".
func (s *Synthesizer) EqualityExpression(t *parser.TypeInfo) string {
	terms := equalityTerms(t, s.resolver.Resolve(t))
	if len(terms) == 0 {
		return "true"
	}
	return strings.Join(terms, " && ")
}
