package matcher

import (
	"strings"
	"unicode"
)

const globalPrefix = "global::"

// NameMatcher reports whether a type or attribute name, as written in
// source, refers to one specific declaration.
type NameMatcher interface {
	Match(written string) bool
}

type qualifiedMatcher struct {
	qualifier string
	name      string
	suffix    string
}

type genericMatcher struct {
	base NameMatcher
	arg  NameMatcher
}

// NewQualifiedMatcher matches name alone, qualifier.name and
// global::qualifier.name. An empty qualifier matches name and global::name.
func NewQualifiedMatcher(qualifier, name string) NameMatcher {
	return &qualifiedMatcher{qualifier: qualifier, name: name}
}

// NewAttributeMatcher matches an attribute usage of the global attribute
// class <name>Attribute, written with or without the Attribute suffix.
func NewAttributeMatcher(name string) NameMatcher {
	return &qualifiedMatcher{name: strings.TrimSuffix(name, "Attribute"), suffix: "Attribute"}
}

// NewGenericMatcher matches a single-argument generic usage whose base name
// satisfies base and whose type argument satisfies arg.
func NewGenericMatcher(base, arg NameMatcher) NameMatcher {
	return &genericMatcher{base: base, arg: arg}
}

func (m *qualifiedMatcher) Match(written string) bool {
	n := strings.TrimPrefix(Normalize(written), globalPrefix)
	for _, candidate := range m.candidates() {
		if n == candidate {
			return true
		}
	}
	return false
}

func (m *qualifiedMatcher) candidates() []string {
	names := []string{m.name}
	if m.suffix != "" {
		names = append(names, m.name+m.suffix)
	}
	if m.qualifier == "" {
		return names
	}
	out := make([]string, 0, len(names)*2)
	for _, n := range names {
		out = append(out, n, m.qualifier+"."+n)
	}
	return out
}

func (m *genericMatcher) Match(written string) bool {
	base, args := SplitGeneric(written)
	if len(args) != 1 {
		return false
	}
	return m.base.Match(base) && m.arg.Match(args[0])
}

// Normalize removes all whitespace from a type name as written.
func Normalize(written string) string {
	if !strings.ContainsFunc(written, unicode.IsSpace) {
		return written
	}
	var b strings.Builder
	b.Grow(len(written))
	for _, r := range written {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitGeneric splits "A.B<X, C<Y>>" into "A.B" and ["X", "C<Y>"]. Names
// without a type argument list return a nil slice.
func SplitGeneric(written string) (string, []string) {
	n := Normalize(written)
	open := strings.IndexByte(n, '<')
	if open < 0 || !strings.HasSuffix(n, ">") {
		return n, nil
	}
	inner := n[open+1 : len(n)-1]
	var args []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, inner[start:])
	return n[:open], args
}

// TrimNullable strips one trailing nullable marker.
func TrimNullable(written string) (string, bool) {
	n := Normalize(written)
	if strings.HasSuffix(n, "?") {
		return strings.TrimSuffix(n, "?"), true
	}
	return n, false
}
