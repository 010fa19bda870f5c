package parser

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var modifierKeywords = map[string]struct{}{
	"public": {}, "private": {}, "protected": {}, "internal": {}, "static": {},
	"const": {}, "readonly": {}, "volatile": {}, "new": {}, "unsafe": {},
	"required": {}, "virtual": {}, "override": {}, "abstract": {}, "sealed": {},
	"extern": {}, "partial": {}, "async": {}, "file": {}, "fixed": {},
}

var (
	accessorPattern = regexp.MustCompile(`^(?:\[[^\]]*\]\s*)*(?:(?:public|private|protected|internal|readonly)\s+)*(get|set|init)\b`)
	operatorPattern = regexp.MustCompile(`\boperator\s*(==|!=)`)
)

// Metadata names of the equality operators, as the compiler reports them.
const (
	opEquality   = "op_Equality"
	opInequality = "op_Inequality"
)

func (w *walker) collectMembers(body *sitter.Node, t *TypeInfo) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "field_declaration":
			w.addFields(child, t)
		case "event_field_declaration":
			if decl := firstChildOfType(child, "variable_declaration"); decl != nil {
				t.DeclaredNames = append(t.DeclaredNames, w.declaratorNames(decl)...)
			}
		case "property_declaration":
			w.addProperty(child, t)
		case "method_declaration":
			w.addMethod(child, t)
		case "operator_declaration":
			w.addOperator(child, t)
		case "class_declaration", "struct_declaration":
			nameNode := child.ChildByFieldName("name")
			w.file.Skipped = append(w.file.Skipped, SkippedDecl{
				Name:     strings.TrimSpace(w.text(nameNode)),
				Reason:   SkipNested,
				Location: w.location(child),
			})
		}
	}
}

func (w *walker) addFields(node *sitter.Node, t *TypeInfo) {
	decl := firstChildOfType(node, "variable_declaration")
	if decl == nil {
		return
	}
	names := w.declaratorNames(decl)
	t.DeclaredNames = append(t.DeclaredNames, names...)

	mods := w.modifiers(node)
	if mods.has("static") || mods.has("const") {
		return
	}
	typeNode := decl.ChildByFieldName("type")
	if typeNode == nil && decl.NamedChildCount() > 0 && decl.NamedChild(0).Type() != "variable_declarator" {
		typeNode = decl.NamedChild(0)
	}
	if !resolvable(typeNode) {
		return
	}
	typeName := normalizeTypeText(w.text(typeNode))
	attrs := w.attributes(node)
	for _, name := range names {
		t.Members = append(t.Members, MemberInfo{
			Name:              name,
			TypeName:          typeName,
			NullableAnnotated: strings.HasSuffix(typeName, "?"),
			Kind:              MemberField,
			Attributes:        attrs,
		})
	}
}

func (w *walker) declaratorNames(decl *sitter.Node) []string {
	var names []string
	for _, d := range childrenOfType(decl, "variable_declarator") {
		nameNode := d.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = firstChildOfType(d, "identifier")
		}
		if !resolvable(nameNode) {
			continue
		}
		names = append(names, w.text(nameNode))
	}
	return names
}

func (w *walker) addProperty(node *sitter.Node, t *TypeInfo) {
	nameNode := node.ChildByFieldName("name")
	if !resolvable(nameNode) {
		return
	}
	name := w.text(nameNode)
	t.DeclaredNames = append(t.DeclaredNames, name)

	if w.modifiers(node).has("static") || !w.readable(node) {
		return
	}
	typeNode := node.ChildByFieldName("type")
	if !resolvable(typeNode) {
		return
	}
	typeName := normalizeTypeText(w.text(typeNode))
	t.Members = append(t.Members, MemberInfo{
		Name:              name,
		TypeName:          typeName,
		NullableAnnotated: strings.HasSuffix(typeName, "?"),
		Kind:              MemberProperty,
		Attributes:        w.attributes(node),
	})
}

// readable reports whether a property has a getter or an expression body.
func (w *walker) readable(node *sitter.Node) bool {
	if firstChildOfType(node, "arrow_expression_clause") != nil {
		return true
	}
	accessors := node.ChildByFieldName("accessors")
	if accessors == nil {
		accessors = firstChildOfType(node, "accessor_list")
	}
	if accessors == nil {
		return false
	}
	for _, acc := range childrenOfType(accessors, "accessor_declaration") {
		m := accessorPattern.FindStringSubmatch(strings.TrimSpace(w.text(acc)))
		if m != nil && m[1] == "get" {
			return true
		}
	}
	return false
}

func (w *walker) addMethod(node *sitter.Node, t *TypeInfo) {
	if firstChildOfType(node, "explicit_interface_specifier") != nil {
		return
	}
	nameNode := node.ChildByFieldName("name")
	if !resolvable(nameNode) {
		return
	}
	returns := node.ChildByFieldName("returns")
	if returns == nil {
		returns = node.ChildByFieldName("type")
	}
	m := MethodInfo{
		Name:       w.text(nameNode),
		ReturnType: normalizeTypeText(w.text(returns)),
		IsStatic:   w.modifiers(node).has("static"),
	}
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = firstChildOfType(node, "parameter_list")
	}
	if params != nil {
		for _, p := range childrenOfType(params, "parameter") {
			m.Params = append(m.Params, normalizeTypeText(w.text(p.ChildByFieldName("type"))))
		}
	}
	t.Methods = append(t.Methods, m)
	t.DeclaredNames = append(t.DeclaredNames, m.Name)
}

func (w *walker) addOperator(node *sitter.Node, t *TypeInfo) {
	op := strings.TrimSpace(w.text(node.ChildByFieldName("operator")))
	if op != "==" && op != "!=" {
		header := w.text(node)
		if params := node.ChildByFieldName("parameters"); params != nil {
			header = string(w.src[node.StartByte():params.StartByte()])
		}
		m := operatorPattern.FindStringSubmatch(header)
		if m == nil {
			return
		}
		op = m[1]
	}
	t.Operators = append(t.Operators, op)
	if op == "==" {
		t.DeclaredNames = append(t.DeclaredNames, opEquality)
	} else {
		t.DeclaredNames = append(t.DeclaredNames, opInequality)
	}
}

type modifierSet []string

func (m modifierSet) has(word string) bool {
	for _, w := range m {
		if w == word {
			return true
		}
	}
	return false
}

func (w *walker) modifiers(node *sitter.Node) modifierSet {
	var out modifierSet
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch {
		case c.Type() == "modifier":
			out = append(out, strings.TrimSpace(w.text(c)))
		case !c.IsNamed():
			word := strings.TrimSpace(w.text(c))
			if _, ok := modifierKeywords[word]; ok {
				out = append(out, word)
			}
		}
	}
	return out
}
