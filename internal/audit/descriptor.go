package audit

import "fmt"

// Kind identifies one unmet part of the equality contract.
type Kind int

const (
	KindMissingEquatable Kind = iota
	KindMissingOperators
	KindMissingTypedEquals
)

// Severity of a finding. Every descriptor currently reports warnings.
type Severity string

const SeverityWarning Severity = "warning"

// Descriptor is the stable, user-facing identity of a finding kind.
type Descriptor struct {
	ID            string
	Title         string
	MessageFormat string
	Category      string
	Severity      Severity
}

const category = "Equality"

var descriptors = map[Kind]Descriptor{
	KindMissingOperators: {
		ID:            "JP001",
		Title:         "Add equality operators",
		MessageFormat: "Type %s needs both == and != operators",
		Category:      category,
		Severity:      SeverityWarning,
	},
	KindMissingEquatable: {
		ID:            "JP002",
		Title:         "Implement IEquatable<T>",
		MessageFormat: "Type %s needs to implement IEquatable<T>",
		Category:      category,
		Severity:      SeverityWarning,
	},
	KindMissingTypedEquals: {
		ID:            "JP003",
		Title:         "Need strongly typed Equals",
		MessageFormat: "Type %s needs a strongly typed Equals method",
		Category:      category,
		Severity:      SeverityWarning,
	},
}

// Descriptors returns every supported descriptor ordered by ID.
func Descriptors() []Descriptor {
	return []Descriptor{
		descriptors[KindMissingOperators],
		descriptors[KindMissingEquatable],
		descriptors[KindMissingTypedEquals],
	}
}

// Descriptor returns the descriptor for k.
func (k Kind) Descriptor() Descriptor {
	return descriptors[k]
}

func (k Kind) String() string {
	switch k {
	case KindMissingEquatable:
		return "missing-equatable"
	case KindMissingOperators:
		return "missing-operators"
	case KindMissingTypedEquals:
		return "missing-typed-equals"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
