// Package treespec builds the typed intermediate representation described in
// spec.md §3.2 / §4.3: for every non-fragment, non-skip, non-extern rule of
// a normalized Grammar, derive a TokenSpec, NodeSpec, or VariantSpec, with
// fields/members carrying inferred algebraic Types (package types).
//
// Grounded in the teacher's symbolTable (grammar/symbol.go-equivalent
// registration-with-uniqueness-check discipline) generalized from a flat
// terminal/non-terminal namespace to the three-way Token/Node/Variant
// namespace this module's Specs collection needs.
package treespec

import (
	"fmt"

	"github.com/magelang/magelang/diag"
	"github.com/magelang/magelang/types"
)

type Kind int

const (
	KindToken Kind = iota
	KindNode
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindNode:
		return "node"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// TokenSpec describes a lexical rule. IsStatic means the token's spelling
// is fully determined by its kind (e.g. a keyword) and it carries no
// runtime value.
type TokenSpec struct {
	Name     string
	TypeName string
	IsStatic bool
}

// Field is one named, typed member of a NodeSpec. Origin is the ExprID
// (ir.ExprID's underlying int) that produced it, for diagnostics.
type Field struct {
	Name   string
	Type   *types.Type
	Origin int
}

type NodeSpec struct {
	Name   string
	Fields []Field
}

// Member is one named, typed alternative of a VariantSpec.
type Member struct {
	Name string
	Type *types.Type
}

type VariantSpec struct {
	Name    string
	Members []Member
}

// Spec is the tagged union of TokenSpec | NodeSpec | VariantSpec.
type Spec struct {
	Kind    Kind
	Name    string
	Token   *TokenSpec
	Node    *NodeSpec
	Variant *VariantSpec
}

// Specs is an insertion-ordered mapping from name to Spec. Names are unique
// across all Spec kinds (§3.2 invariant).
type Specs struct {
	order  []string
	byName map[string]*Spec
}

func NewSpecs() *Specs {
	return &Specs{byName: map[string]*Spec{}}
}

func (s *Specs) Add(spec *Spec) error {
	if _, exists := s.byName[spec.Name]; exists {
		return fmt.Errorf("duplicate spec name: %q", spec.Name)
	}
	s.byName[spec.Name] = spec
	s.order = append(s.order, spec.Name)
	return nil
}

func (s *Specs) Get(name string) (*Spec, bool) {
	spec, ok := s.byName[name]
	return spec, ok
}

// All returns every Spec in insertion order (the order rules appear in the
// source grammar, since this implementation's treespec inference is
// strictly sequential — see §5 concurrency note).
func (s *Specs) All() []*Spec {
	out := make([]*Spec, len(s.order))
	for i, n := range s.order {
		out[i] = s.byName[n]
	}
	return out
}

// AllSortedByName returns every Spec in ascending name order, the ordering
// guarantee required of an implementation that parallelizes rule
// processing (§5: "must preserve the final Specs insertion order
// (alphabetical by name)").
func (s *Specs) AllSortedByName() []*Spec {
	names := make([]string, len(s.order))
	copy(names, s.order)
	insertionSortStrings(names)
	out := make([]*Spec, len(names))
	for i, n := range names {
		out[i] = s.byName[n]
	}
	return out
}

func insertionSortStrings(xs []string) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// VariantMembers, NodeFields, and Lookup implement types.Resolver.
func (s *Specs) VariantMembers(name string) []*types.Type {
	spec, ok := s.byName[name]
	if !ok || spec.Kind != KindVariant {
		return nil
	}
	out := make([]*types.Type, len(spec.Variant.Members))
	for i, m := range spec.Variant.Members {
		out[i] = m.Type
	}
	return out
}

func (s *Specs) NodeFields(name string) []*types.Type {
	spec, ok := s.byName[name]
	if !ok || spec.Kind != KindNode {
		return nil
	}
	out := make([]*types.Type, len(spec.Node.Fields))
	for i, f := range spec.Node.Fields {
		out[i] = f.Type
	}
	return out
}

func (s *Specs) Lookup(name string) (*types.Type, bool) {
	spec, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	switch spec.Kind {
	case KindNode:
		return types.Node(name), true
	case KindVariant:
		return types.Variant(name), true
	default:
		return nil, false
	}
}

// Validate checks the §3.2 invariant that every Node/Token/Variant name
// referenced by a Type resolves in s.
func Validate(s *Specs) *diag.Bag {
	var bag diag.Bag
	for _, spec := range s.All() {
		switch spec.Kind {
		case KindNode:
			for _, f := range spec.Node.Fields {
				checkTypeResolves(s, spec.Name, f.Type, &bag)
			}
		case KindVariant:
			for _, m := range spec.Variant.Members {
				checkTypeResolves(s, spec.Name, m.Type, &bag)
			}
		}
	}
	return &bag
}

func checkTypeResolves(s *Specs, owner string, t *types.Type, bag *diag.Bag) {
	if t == nil {
		return
	}
	switch t.Kind {
	case types.KindNode, types.KindVariant:
		if _, ok := s.byName[t.Name]; !ok {
			bag.Addf(owner, 0, 0, "type references unknown spec %q", t.Name)
		}
	case types.KindTuple, types.KindUnion:
		for _, e := range t.Elems {
			checkTypeResolves(s, owner, e, bag)
		}
	case types.KindList:
		checkTypeResolves(s, owner, t.Elem, bag)
	case types.KindPunct:
		checkTypeResolves(s, owner, t.Elem, bag)
		checkTypeResolves(s, owner, t.Sep, bag)
	}
}
