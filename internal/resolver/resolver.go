package resolver

import "github.com/seitarof/gen-equality/internal/parser"

// Resolver assigns a comparison strategy to every member of a type.
type Resolver interface {
	Resolve(t *parser.TypeInfo) []ComparisonPlan
}

// Rule tries to produce a comparison plan for one member.
type Rule interface {
	Name() string
	Try(m parser.MemberInfo, opts Options) (ComparisonPlan, bool)
}

type resolverImpl struct {
	rules []Rule
}

// New builds a resolver with the given rule chain. The resolver keeps no
// state between calls and is safe for concurrent use.
func New(rules ...Rule) Resolver {
	return &resolverImpl{rules: rules}
}

func (r *resolverImpl) Resolve(t *parser.TypeInfo) []ComparisonPlan {
	if t == nil {
		return nil
	}
	other, hash := LocalNames(t)
	opts := Options{CaseInsensitive: t.CaseInsensitive, Other: other, Hash: hash}
	plans := make([]ComparisonPlan, 0, len(t.Members))
	for _, m := range t.Members {
		plans = append(plans, r.resolveOne(m, opts))
	}
	return plans
}

func (r *resolverImpl) resolveOne(m parser.MemberInfo, opts Options) ComparisonPlan {
	for _, rule := range r.rules {
		if plan, ok := rule.Try(m, opts); ok {
			return plan
		}
	}
	return comparerPlan(m, opts)
}
