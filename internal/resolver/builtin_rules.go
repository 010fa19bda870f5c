package resolver

import (
	"strings"

	"github.com/seitarof/gen-equality/internal/matcher"
	"github.com/seitarof/gen-equality/internal/parser"
)

// DefaultRules returns built-in rules in priority order. Members no rule
// accepts fall back to the generic comparer.
func DefaultRules() []Rule {
	return []Rule{
		&OperatorRule{},
		&TextRule{},
	}
}

// operatorTypes are the integral types compared with ==. Names are matched
// as written, after dropping a global:: prefix. System names count written
// bare (with using System in scope) or qualified.
var operatorTypes = integralTypes(
	[]string{"short", "int", "long", "ushort", "uint", "ulong", "byte", "sbyte", "nint", "nuint"},
	[]string{"Int16", "Int32", "Int64", "UInt16", "UInt32", "UInt64", "Byte", "SByte", "IntPtr", "UIntPtr"},
)

func integralTypes(keywords, systemNames []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keywords)+2*len(systemNames))
	for _, k := range keywords {
		out[k] = struct{}{}
	}
	for _, n := range systemNames {
		out[n] = struct{}{}
		out["System."+n] = struct{}{}
	}
	return out
}

// textTypes are compared case-insensitively against the declared type name.
var textTypes = []string{"string", "System.String"}

// OperatorRule: integral member -> X == other.X.
type OperatorRule struct{}

func (r *OperatorRule) Name() string { return "operator" }

func (r *OperatorRule) Try(m parser.MemberInfo, opts Options) (ComparisonPlan, bool) {
	if !IsOperatorType(m.TypeName) {
		return ComparisonPlan{}, false
	}
	equals := m.Name + " == " + otherSelector(m, opts)
	return newPlan(m, r.Name(), StrategyOperator, equals, hashAdd(opts, m.Name)), true
}

// TextRule: string member -> ordinal ==, or OrdinalIgnoreCase when the type
// asks for it. The hash uses the matching comparer.
type TextRule struct{}

func (r *TextRule) Name() string { return "text" }

func (r *TextRule) Try(m parser.MemberInfo, opts Options) (ComparisonPlan, bool) {
	if !IsTextType(m.TypeName) {
		return ComparisonPlan{}, false
	}
	if opts.CaseInsensitive {
		equals := "string.Equals(" + m.Name + ", " + otherSelector(m, opts) + ", StringComparison.OrdinalIgnoreCase)"
		return newPlan(m, r.Name(), StrategyText, equals, hashAdd(opts, m.Name, "StringComparer.OrdinalIgnoreCase")), true
	}
	equals := m.Name + " == " + otherSelector(m, opts)
	return newPlan(m, r.Name(), StrategyText, equals, hashAdd(opts, m.Name)), true
}

// comparerPlan is the fallback for every member no rule accepted.
func comparerPlan(m parser.MemberInfo, opts Options) ComparisonPlan {
	equals := "EqualityComparer<" + m.TypeName + ">.Default.Equals(" + m.Name + ", " + otherSelector(m, opts) + ")"
	return newPlan(m, "comparer", StrategyComparer, equals, hashAdd(opts, m.Name))
}

// IsOperatorType reports whether a declared type is one of the integral
// types with a built-in equality operator. Nullable-wrapped forms are not.
func IsOperatorType(typeName string) bool {
	_, ok := operatorTypes[stripGlobal(matcher.Normalize(typeName))]
	return ok
}

// IsTextType reports whether a declared type names System.String, with or
// without a nullable annotation.
func IsTextType(typeName string) bool {
	n, _ := matcher.TrimNullable(typeName)
	n = stripGlobal(n)
	for _, t := range textTypes {
		if strings.EqualFold(n, t) {
			return true
		}
	}
	return false
}

func stripGlobal(n string) string {
	return strings.TrimPrefix(n, "global::")
}
