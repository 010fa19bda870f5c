package generator

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/seitarof/gen-equality/internal/emit"
	"github.com/seitarof/gen-equality/internal/matcher"
	"github.com/seitarof/gen-equality/internal/parser"
)

// NotifyAttributeFilename is the unit declaring the AutoNotify attribute.
const NotifyAttributeFilename = "AutoNotifyAttribute.g.cs"

const (
	notifyInterface = "System.ComponentModel.INotifyPropertyChanged"
	notifyHandler   = "System.ComponentModel.PropertyChangedEventHandler"
	notifyEventArgs = "System.ComponentModel.PropertyChangedEventArgs"
)

var notifyInterfaceMatcher = matcher.NewQualifiedMatcher("System.ComponentModel", "INotifyPropertyChanged")

// SourceUnit is one generated file.
type SourceUnit struct {
	Filename string
	Source   string
}

type notifyProperty struct {
	field    parser.MemberInfo
	property string
}

// NotifyUnits renders the AutoNotify attribute unit followed by one unit per
// class that has at least one usable [AutoNotify] field.
func (s *Synthesizer) NotifyUnits(types []*parser.TypeInfo) ([]SourceUnit, error) {
	attr, err := s.attrs.render(autoNotifyTemplate)
	if err != nil {
		return nil, err
	}
	units := []SourceUnit{{Filename: NotifyAttributeFilename, Source: attr}}
	for _, t := range types {
		if t.IsValueType() {
			continue
		}
		props := notifyProperties(t)
		if len(props) == 0 {
			continue
		}
		units = append(units, SourceUnit{
			Filename: notifyFilename(t),
			Source:   renderNotifyClass(t, props),
		})
	}
	return units, nil
}

func notifyProperties(t *parser.TypeInfo) []notifyProperty {
	var out []notifyProperty
	for _, m := range t.Members {
		override, explicit, ok := parser.NotifyField(m)
		if !ok {
			continue
		}
		name := override
		if !explicit {
			name = PropertyNameFor(m.Name)
		}
		if name == "" || name == m.Name {
			continue
		}
		out = append(out, notifyProperty{field: m, property: name})
	}
	return out
}

// PropertyNameFor derives a property name from a backing field: leading
// underscores are dropped and the first letter is upper-cased.
func PropertyNameFor(field string) string {
	trimmed := strings.TrimLeft(field, "_")
	if trimmed == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(trimmed)
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Upper(language.Und).String(trimmed[:size]) + trimmed[size:]
}

func notifyFilename(t *parser.TypeInfo) string {
	name := t.Name
	if t.TypeParameters != "" {
		name += "_" + strconv.Itoa(strings.Count(t.TypeParameters, ",")+1)
	}
	if t.Namespace != "" {
		name = t.Namespace + "." + name
	}
	return name + "_GeneratedNotify.g.cs"
}

func implementsNotify(t *parser.TypeInfo) bool {
	for _, i := range t.Interfaces {
		if notifyInterfaceMatcher.Match(i) {
			return true
		}
	}
	return false
}

func renderNotifyClass(t *parser.TypeInfo, props []notifyProperty) string {
	w := emit.NewWriter()
	root := emit.Root()
	w.Line(root, AutoGeneratedHeader)
	for _, u := range t.Usings {
		w.Line(root, u)
	}
	w.Blank()

	handler := notifyHandler
	if t.NullableEnabled {
		handler += "?"
		w.Directive("#nullable enable")
	}
	writeClass := func(scope emit.Scope) {
		w.Block(scope, "partial class "+t.DisplayName()+" : "+notifyInterface, func(body emit.Scope) {
			if !implementsNotify(t) {
				w.Linef(body, "public event %s PropertyChanged;", handler)
			}
			for _, p := range props {
				w.Blank()
				writeNotifyProperty(w, body, p)
			}
		})
	}
	if t.Namespace == "" {
		writeClass(root)
	} else {
		w.Block(root, "namespace "+t.Namespace, func(inner emit.Scope) {
			for _, u := range t.NamespaceUsings {
				w.Line(inner, u)
			}
			if len(t.NamespaceUsings) > 0 {
				w.Blank()
			}
			writeClass(inner)
		})
	}
	if t.NullableEnabled {
		w.Directive("#nullable disable")
	}
	return w.String()
}

func writeNotifyProperty(w *emit.Writer, scope emit.Scope, p notifyProperty) {
	w.Block(scope, "public "+p.field.TypeName+" "+p.property, func(body emit.Scope) {
		w.Block(body, "get", func(inner emit.Scope) {
			w.Linef(inner, "return this.%s;", p.field.Name)
		})
		w.Blank()
		w.Block(body, "set", func(inner emit.Scope) {
			w.Linef(inner, "this.%s = value;", p.field.Name)
			w.Linef(inner, "this.PropertyChanged?.Invoke(this, new %s(nameof(%s)));", notifyEventArgs, p.property)
		})
	})
}
