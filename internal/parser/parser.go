package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Parser extracts type declarations from C# source files.
type Parser interface {
	ParseFile(ctx context.Context, path string, src []byte) (*FileInfo, error)
}

// Option configures the default parser.
type Option func(*parserImpl)

// WithNullableDefault sets the project-wide nullable context that applies
// until a #nullable directive overrides it.
func WithNullableDefault(c NullableContext) Option {
	return func(p *parserImpl) {
		p.nullableDefault = c
	}
}

type parserImpl struct {
	nullableDefault NullableContext
}

// New returns the default tree-sitter backed parser. It is safe for
// concurrent use; every ParseFile call owns its own tree-sitter parser.
func New(opts ...Option) Parser {
	p := &parserImpl{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parserImpl) ParseFile(ctx context.Context, path string, src []byte) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(csharp.GetLanguage())

	tree, err := sp.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	defer tree.Close()

	w := &walker{
		path:     path,
		src:      src,
		nullable: scanNullableDirectives(src, p.nullableDefault),
		file:     &FileInfo{Path: path},
	}
	w.walkScope(tree.RootNode(), "", nil)
	for _, t := range w.file.Types {
		t.Usings = w.file.Usings
	}
	return w.file, nil
}

var plainUsingPattern = regexp.MustCompile(`^using\s+([A-Za-z_@][\w.]*)\s*;$`)

type walker struct {
	path     string
	src      []byte
	nullable nullableMap
	file     *FileInfo
}

// walkScope visits one compilation unit or namespace body. scoped holds the
// using directives of the enclosing namespace bodies.
func (w *walker) walkScope(node *sitter.Node, ns string, scoped []string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "using_directive":
			u, ok := w.plainUsing(child)
			switch {
			case !ok:
			case node.Type() == "compilation_unit":
				w.file.Usings = append(w.file.Usings, u)
			default:
				scoped = append(scoped[:len(scoped):len(scoped)], u)
			}
		case "namespace_declaration":
			body := child.ChildByFieldName("body")
			if body == nil {
				body = firstChildOfType(child, "declaration_list")
			}
			if body != nil {
				w.walkScope(body, joinNamespace(ns, w.text(child.ChildByFieldName("name"))), scoped)
			}
		case "file_scoped_namespace_declaration":
			// Older grammars make the following declarations siblings,
			// newer ones nest them; both are covered.
			ns = joinNamespace(ns, w.text(child.ChildByFieldName("name")))
			w.walkScope(child, ns, scoped)
		case "declaration_list":
			w.walkScope(child, ns, scoped)
		case "class_declaration":
			w.addType(child, ns, KindReference, scoped)
		case "struct_declaration":
			w.addType(child, ns, KindValue, scoped)
		}
	}
}

func (w *walker) plainUsing(node *sitter.Node) (string, bool) {
	text := strings.Join(strings.Fields(w.text(node)), " ")
	m := plainUsingPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return "using " + m[1] + ";", true
}

func (w *walker) addType(node *sitter.Node, ns string, kind TypeKind, scoped []string) {
	nameNode := node.ChildByFieldName("name")
	if !resolvable(nameNode) {
		w.file.Skipped = append(w.file.Skipped, SkippedDecl{
			Name:     strings.TrimSpace(w.text(nameNode)),
			Reason:   SkipUnresolved,
			Location: w.location(node),
		})
		return
	}

	t := &TypeInfo{
		Name:            w.text(nameNode),
		Namespace:       ns,
		Kind:            kind,
		NullableEnabled: w.nullable.At(int(node.StartPoint().Row)).Enabled(),
		NamespaceUsings: append([]string(nil), scoped...),
		Location:        w.location(nameNode),
	}
	tp := node.ChildByFieldName("type_parameters")
	if tp == nil {
		tp = firstChildOfType(node, "type_parameter_list")
	}
	if tp != nil {
		t.TypeParameters = typeParameterList(w.text(tp))
	}
	t.Attributes = w.attributes(node)
	t.CaseInsensitive = ParseOptions(t.Attributes).CaseInsensitive
	t.Interfaces = w.baseList(node)

	body := node.ChildByFieldName("body")
	if body == nil {
		body = firstChildOfType(node, "declaration_list")
	}
	if body != nil {
		w.collectMembers(body, t)
	}
	w.file.Types = append(w.file.Types, t)
}

func (w *walker) attributes(node *sitter.Node) []AttributeInfo {
	var out []AttributeInfo
	for _, list := range childrenOfType(node, "attribute_list") {
		for _, attr := range childrenOfType(list, "attribute") {
			nameNode := attr.ChildByFieldName("name")
			if nameNode == nil && attr.NamedChildCount() > 0 {
				nameNode = attr.NamedChild(0)
			}
			if !resolvable(nameNode) {
				continue
			}
			info := AttributeInfo{Name: normalizeTypeText(w.text(nameNode))}
			if args := firstChildOfType(attr, "attribute_argument_list"); args != nil {
				for _, arg := range childrenOfType(args, "attribute_argument") {
					info.Args = append(info.Args, strings.TrimSpace(w.text(arg)))
				}
			}
			out = append(out, info)
		}
	}
	return out
}

func (w *walker) baseList(node *sitter.Node) []string {
	bases := node.ChildByFieldName("bases")
	if bases == nil {
		bases = firstChildOfType(node, "base_list")
	}
	if bases == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(bases.NamedChildCount()); i++ {
		b := bases.NamedChild(i)
		if b.Type() == "argument_list" || !resolvable(b) {
			continue
		}
		out = append(out, normalizeTypeText(w.text(b)))
	}
	return out
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) location(n *sitter.Node) Location {
	p := n.StartPoint()
	return Location{File: w.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func resolvable(n *sitter.Node) bool {
	if n == nil || n.IsMissing() || n.HasError() {
		return false
	}
	return n.Type() != "ERROR"
}

func joinNamespace(outer, inner string) string {
	inner = normalizeTypeText(inner)
	switch {
	case inner == "":
		return outer
	case outer == "":
		return inner
	default:
		return outer + "." + inner
	}
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func childrenOfType(n *sitter.Node, typ string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			out = append(out, c)
		}
	}
	return out
}

var attributeSectionPattern = regexp.MustCompile(`\[[^\]]*\]`)

// typeParameterList turns "< T ,[Foo] U>" into "<T, U>".
func typeParameterList(raw string) string {
	inner := strings.TrimSpace(raw)
	inner = strings.TrimPrefix(inner, "<")
	inner = strings.TrimSuffix(inner, ">")
	inner = attributeSectionPattern.ReplaceAllString(inner, "")
	parts := strings.Split(inner, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[len(fields)-1])
	}
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// normalizeTypeText collapses whitespace in a type as written: spaces only
// survive between two identifier characters, and every comma is followed
// by exactly one space.
func normalizeTypeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	pendingSpace := false
	var last rune
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			pendingSpace = true
			continue
		case pendingSpace && isIdentRune(last) && isIdentRune(r):
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
		if r == ',' {
			b.WriteByte(' ')
			last = ' '
			continue
		}
		last = r
	}
	return strings.TrimSpace(b.String())
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '@' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r > 0x7f
}
