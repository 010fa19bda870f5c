package parser

// MergePartials folds partial declarations of the same type into one
// TypeInfo, in file order. The first part fixes location and kind; the
// part carrying the marker attribute fixes the nullable context and the
// marker options.
func MergePartials(files []*FileInfo) []*TypeInfo {
	index := map[string]*TypeInfo{}
	var out []*TypeInfo
	for _, f := range files {
		if f == nil {
			continue
		}
		for _, t := range f.Types {
			key := partialKey(t)
			merged, ok := index[key]
			if !ok {
				cp := *t
				cp.Members = append([]MemberInfo(nil), t.Members...)
				cp.Attributes = append([]AttributeInfo(nil), t.Attributes...)
				cp.Interfaces = append([]string(nil), t.Interfaces...)
				cp.Methods = append([]MethodInfo(nil), t.Methods...)
				cp.Operators = append([]string(nil), t.Operators...)
				cp.DeclaredNames = append([]string(nil), t.DeclaredNames...)
				cp.Usings = append([]string(nil), t.Usings...)
				cp.NamespaceUsings = append([]string(nil), t.NamespaceUsings...)
				index[key] = &cp
				out = append(out, &cp)
				continue
			}
			mergeInto(merged, t)
		}
	}
	return out
}

func mergeInto(dst, part *TypeInfo) {
	if !IsCandidate(dst) && IsCandidate(part) {
		dst.NullableEnabled = part.NullableEnabled
		dst.CaseInsensitive = part.CaseInsensitive
	}
	dst.Members = append(dst.Members, part.Members...)
	dst.Attributes = append(dst.Attributes, part.Attributes...)
	dst.Interfaces = appendUnique(dst.Interfaces, part.Interfaces...)
	dst.Methods = append(dst.Methods, part.Methods...)
	dst.Operators = append(dst.Operators, part.Operators...)
	dst.DeclaredNames = append(dst.DeclaredNames, part.DeclaredNames...)
	dst.Usings = appendUnique(dst.Usings, part.Usings...)
	dst.NamespaceUsings = appendUnique(dst.NamespaceUsings, part.NamespaceUsings...)
}

// partialKey identifies a type across its partial declarations. Partial
// parts must repeat the same type parameter names.
func partialKey(t *TypeInfo) string {
	return t.FullName()
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
