// Package emit writes nested, indented source text.
package emit

import "strings"

// DefaultUnit is one indentation level.
const DefaultUnit = "    "

// Scope is an indentation level. Push returns a new Scope; a Scope is never
// modified after creation, so callers hold on to the outer value and simply
// keep using it after the nested region is done.
type Scope struct {
	depth int
	unit  string
}

// Root returns the column-zero scope.
func Root() Scope {
	return Scope{unit: DefaultUnit}
}

// Push returns the scope one level deeper.
func (s Scope) Push() Scope {
	return s.PushN(1)
}

// PushN returns the scope n levels deeper. Negative n is treated as zero.
func (s Scope) PushN(n int) Scope {
	if n < 0 {
		n = 0
	}
	return Scope{depth: s.depth + n, unit: s.unitOrDefault()}
}

// Depth reports the nesting level.
func (s Scope) Depth() int {
	return s.depth
}

// Indent returns the leading whitespace for a line at this scope.
func (s Scope) Indent() string {
	return strings.Repeat(s.unitOrDefault(), s.depth)
}

func (s Scope) unitOrDefault() string {
	if s.unit == "" {
		return DefaultUnit
	}
	return s.unit
}
