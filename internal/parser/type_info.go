package parser

import "fmt"

// FileInfo holds the declarations extracted from one C# source file.
type FileInfo struct {
	Path    string
	Usings  []string
	Types   []*TypeInfo
	Skipped []SkippedDecl
}

// TypeInfo describes one top-level class or struct declaration.
type TypeInfo struct {
	Name            string
	TypeParameters  string
	Namespace       string
	Kind            TypeKind
	NullableEnabled bool
	CaseInsensitive bool
	Members         []MemberInfo
	Attributes      []AttributeInfo
	Interfaces      []string
	Methods         []MethodInfo
	Operators       []string
	DeclaredNames   []string
	// Usings are the file-level using directives; NamespaceUsings are those
	// declared inside the enclosing namespace bodies.
	Usings          []string
	NamespaceUsings []string
	Location        Location
}

// MemberInfo is one comparable field or property.
type MemberInfo struct {
	Name              string
	TypeName          string
	NullableAnnotated bool
	Kind              MemberKind
	Attributes        []AttributeInfo
}

// MethodInfo keeps the signature shape of a declared method.
type MethodInfo struct {
	Name       string
	ReturnType string
	Params     []string
	IsStatic   bool
}

// AttributeInfo is one attribute usage with its raw argument texts.
type AttributeInfo struct {
	Name string
	Args []string
}

// Location points at the identifier of a declaration.
type Location struct {
	File   string
	Line   int
	Column int
}

// SkippedDecl records a declaration that produced no TypeInfo.
type SkippedDecl struct {
	Name     string
	Reason   SkipReason
	Location Location
}

// TypeKind separates reference from value semantics.
type TypeKind int

const (
	KindReference TypeKind = iota
	KindValue
)

// MemberKind is field or property.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberProperty
)

// SkipReason explains why a declaration was left out.
type SkipReason int

const (
	SkipUnresolved SkipReason = iota
	SkipNested
)

// FullName returns the namespace-qualified name including type parameters.
func (t *TypeInfo) FullName() string {
	if t.Namespace == "" {
		return t.DisplayName()
	}
	return t.Namespace + "." + t.DisplayName()
}

// DisplayName returns the name including type parameters, e.g. Pair<T>.
func (t *TypeInfo) DisplayName() string {
	return t.Name + t.TypeParameters
}

// IsValueType reports whether the type is a struct.
func (t *TypeInfo) IsValueType() bool {
	return t.Kind == KindValue
}

// Keyword returns the C# declaration keyword for the kind.
func (k TypeKind) Keyword() string {
	if k == KindValue {
		return "struct"
	}
	return "class"
}

func (k TypeKind) String() string {
	return k.Keyword()
}

func (r SkipReason) String() string {
	switch r {
	case SkipUnresolved:
		return "unresolved"
	case SkipNested:
		return "nested"
	default:
		return "unknown"
	}
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
