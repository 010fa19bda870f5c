package resolver

import (
	"strings"

	"github.com/seitarof/gen-equality/internal/parser"
)

// OtherName is the parameter name the typed Equals method compares against,
// unless a member of the type already uses it.
const OtherName = "other"

// HashName is the local HashCode accumulator in GetHashCode, unless a member
// of the type already uses it.
const HashName = "hash"

// ComparisonPlan describes how one member takes part in Equals and
// GetHashCode.
type ComparisonPlan struct {
	Member   parser.MemberInfo
	Rule     string
	Strategy Strategy
	Equals   string
	Hash     string
}

// Strategy identifies the comparison form chosen for a member.
type Strategy int

const (
	// StrategyOperator compares with the built-in == operator.
	StrategyOperator Strategy = iota
	// StrategyText compares strings, ordinally or ignoring case.
	StrategyText
	// StrategyComparer delegates to EqualityComparer<T>.Default.
	StrategyComparer
)

func (s Strategy) String() string {
	switch s {
	case StrategyOperator:
		return "operator"
	case StrategyText:
		return "text"
	case StrategyComparer:
		return "comparer"
	default:
		return "unknown"
	}
}

// Options carries the type-level settings that influence classification.
// Other and Hash are the identifiers the emitted code uses for the compared
// instance and the hash accumulator; empty means OtherName and HashName.
type Options struct {
	CaseInsensitive bool
	Other           string
	Hash            string
}

func (o Options) other() string {
	if o.Other == "" {
		return OtherName
	}
	return o.Other
}

func (o Options) hash() string {
	if o.Hash == "" {
		return HashName
	}
	return o.Hash
}

// LocalNames returns the parameter and local names for t's typed Equals and
// GetHashCode. A name a member already declares gets underscores appended
// until it no longer collides, so member references never bind to them.
func LocalNames(t *parser.TypeInfo) (other, hash string) {
	taken := make(map[string]struct{}, len(t.DeclaredNames)+len(t.Members))
	for _, n := range t.DeclaredNames {
		taken[strings.TrimPrefix(n, "@")] = struct{}{}
	}
	for _, m := range t.Members {
		taken[strings.TrimPrefix(m.Name, "@")] = struct{}{}
	}
	return freeName(OtherName, taken), freeName(HashName, taken)
}

func freeName(name string, taken map[string]struct{}) string {
	for {
		if _, ok := taken[name]; !ok {
			return name
		}
		name += "_"
	}
}

func newPlan(m parser.MemberInfo, rule string, s Strategy, equals, hash string) ComparisonPlan {
	return ComparisonPlan{Member: m, Rule: rule, Strategy: s, Equals: equals, Hash: hash}
}

func otherSelector(m parser.MemberInfo, opts Options) string {
	return opts.other() + "." + m.Name
}

func hashAdd(opts Options, args ...string) string {
	expr := opts.hash() + ".Add("
	for i, a := range args {
		if i > 0 {
			expr += ", "
		}
		expr += a
	}
	return expr + ");"
}
