package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/seitarof/gen-equality/internal/matcher"
)

// MarkerAttribute is the attribute that opts a type into generation.
const MarkerAttribute = "AutoEquality"

// NotifyAttribute marks a field that backs a generated notifying property.
const NotifyAttribute = "AutoNotify"

const (
	caseInsensitiveArg = "caseInsensitive"
	propertyNameArg    = "PropertyName"
)

var (
	markerMatcher = matcher.NewAttributeMatcher(MarkerAttribute)
	notifyMatcher = matcher.NewAttributeMatcher(NotifyAttribute)
)

// Options are the per-type settings carried by the marker attribute.
type Options struct {
	CaseInsensitive bool
}

// IsCandidate reports whether t carries the marker attribute.
func IsCandidate(t *TypeInfo) bool {
	_, ok := findAttribute(t.Attributes, markerMatcher)
	return ok
}

// Candidates filters types down to those carrying the marker attribute.
func Candidates(types []*TypeInfo) []*TypeInfo {
	out := make([]*TypeInfo, 0, len(types))
	for _, t := range types {
		if IsCandidate(t) {
			out = append(out, t)
		}
	}
	return out
}

// NotifyField reports whether m carries [AutoNotify] and returns the
// explicit PropertyName argument, if any.
func NotifyField(m MemberInfo) (propertyName string, explicit bool, ok bool) {
	if m.Kind != MemberField {
		return "", false, false
	}
	attr, found := findAttribute(m.Attributes, notifyMatcher)
	if !found {
		return "", false, false
	}
	propertyName, explicit = NamedArgument(attr, propertyNameArg)
	return propertyName, explicit, true
}

// ParseOptions reads the marker options from a type's attribute list.
func ParseOptions(attrs []AttributeInfo) Options {
	attr, ok := findAttribute(attrs, markerMatcher)
	if !ok {
		return Options{}
	}
	return ParseAutoEqualityOptions(attr)
}

// ParseAutoEqualityOptions accepts the flag positionally, as the named
// constructor argument (caseInsensitive: true) or as the named property
// (CaseInsensitive = true). Arguments that are not boolean literals leave
// the default in place.
func ParseAutoEqualityOptions(attr AttributeInfo) Options {
	var opts Options
	for i, arg := range attr.Args {
		name, value, named := splitNamedArgument(arg)
		switch {
		case !named && i == 0:
		case named && strings.EqualFold(name, caseInsensitiveArg):
		default:
			continue
		}
		if b, ok := parseBoolLiteral(value); ok {
			opts.CaseInsensitive = b
		}
	}
	return opts
}

// NamedArgument returns the value of a named argument, unquoting string
// literals and resolving nameof(X) to X.
func NamedArgument(attr AttributeInfo, name string) (string, bool) {
	for _, arg := range attr.Args {
		n, value, named := splitNamedArgument(arg)
		if !named || n != name {
			continue
		}
		return literalText(value)
	}
	return "", false
}

func findAttribute(attrs []AttributeInfo, m matcher.NameMatcher) (AttributeInfo, bool) {
	for _, a := range attrs {
		if m.Match(a.Name) {
			return a, true
		}
	}
	return AttributeInfo{}, false
}

// splitNamedArgument splits "name = value" and "name: value". Expressions
// such as "a == b" or "global::X" stay positional.
func splitNamedArgument(arg string) (string, string, bool) {
	arg = strings.TrimSpace(arg)
	end := 0
	for end < len(arg) {
		r := rune(arg[end])
		if r == '_' || r == '@' || unicode.IsLetter(r) || (end > 0 && unicode.IsDigit(r)) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return "", arg, false
	}
	rest := strings.TrimLeft(arg[end:], " \t\r\n")
	if rest == "" {
		return "", arg, false
	}
	switch {
	case rest[0] == '=' && !strings.HasPrefix(rest, "=="):
		return strings.TrimPrefix(arg[:end], "@"), strings.TrimSpace(rest[1:]), true
	case rest[0] == ':' && !strings.HasPrefix(rest, "::"):
		return strings.TrimPrefix(arg[:end], "@"), strings.TrimSpace(rest[1:]), true
	default:
		return "", arg, false
	}
}

func parseBoolLiteral(value string) (bool, bool) {
	switch strings.TrimSpace(value) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func literalText(value string) (string, bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "@\"") && strings.HasSuffix(value, "\"") && len(value) >= 3:
		return strings.ReplaceAll(value[2:len(value)-1], `""`, `"`), true
	case strings.HasPrefix(value, "\""):
		s, err := strconv.Unquote(value)
		if err != nil {
			return "", false
		}
		return s, true
	case strings.HasPrefix(value, "nameof(") && strings.HasSuffix(value, ")"):
		inner := strings.TrimSpace(value[len("nameof(") : len(value)-1])
		if i := strings.LastIndexByte(inner, '.'); i >= 0 {
			inner = inner[i+1:]
		}
		return inner, inner != ""
	case value == "null":
		return "", false
	default:
		return "", false
	}
}
