package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// NullableContext is the nullable annotation/warning state at a position.
type NullableContext struct {
	Annotations bool
	Warnings    bool
}

// Enabled reports whether both annotations and warnings are on.
func (c NullableContext) Enabled() bool {
	return c.Annotations && c.Warnings
}

// ParseNullableContext parses a project-level <Nullable> value.
func ParseNullableContext(value string) (NullableContext, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "disable":
		return NullableContext{}, nil
	case "enable":
		return NullableContext{Annotations: true, Warnings: true}, nil
	case "annotations":
		return NullableContext{Annotations: true}, nil
	case "warnings":
		return NullableContext{Warnings: true}, nil
	default:
		return NullableContext{}, fmt.Errorf("unknown nullable context %q", value)
	}
}

var nullableDirectivePattern = regexp.MustCompile(`^\s*#\s*nullable\s+(enable|disable|restore)(?:\s+(annotations|warnings))?\s*(?://.*)?$`)

type nullableDirective struct {
	line    int
	setting string
	target  string
}

type nullableMap struct {
	defaults   NullableContext
	directives []nullableDirective
}

func scanNullableDirectives(src []byte, defaults NullableContext) nullableMap {
	m := nullableMap{defaults: defaults}
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	line := 0
	for sc.Scan() {
		text := sc.Text()
		if strings.Contains(text, "#") {
			if match := nullableDirectivePattern.FindStringSubmatch(text); match != nil {
				m.directives = append(m.directives, nullableDirective{line: line, setting: match[1], target: match[2]})
			}
		}
		line++
	}
	return m
}

// At returns the context in effect for a declaration starting on line
// (zero based). A directive on the same line as the declaration does not
// apply to it.
func (m nullableMap) At(line int) NullableContext {
	ctx := m.defaults
	for _, d := range m.directives {
		if d.line >= line {
			break
		}
		ctx = d.apply(ctx, m.defaults)
	}
	return ctx
}

func (d nullableDirective) apply(ctx, defaults NullableContext) NullableContext {
	setAnnotations := d.target == "" || d.target == "annotations"
	setWarnings := d.target == "" || d.target == "warnings"
	switch d.setting {
	case "enable":
		if setAnnotations {
			ctx.Annotations = true
		}
		if setWarnings {
			ctx.Warnings = true
		}
	case "disable":
		if setAnnotations {
			ctx.Annotations = false
		}
		if setWarnings {
			ctx.Warnings = false
		}
	case "restore":
		if setAnnotations {
			ctx.Annotations = defaults.Annotations
		}
		if setWarnings {
			ctx.Warnings = defaults.Warnings
		}
	}
	return ctx
}
