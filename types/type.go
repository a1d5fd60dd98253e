// Package types implements the algebraic type system described in
// spec.md §4.4: Extern | Node | Token | Variant | Tuple | List | Punct |
// Union | None | Never | Any, plus the pure, total operations over it.
//
// Grounded in the teacher's own symbol/production algebra (grammar/
// productions.go's interning and canonical-ordering discipline) applied
// here to a richer sum type; there is no teacher analog for an algebraic
// type system, so the shape of Type as a single flattened struct (rather
// than an interface per variant) follows the same "tagged union with
// exhaustive matching" style used in package ir, for consistency within
// this module.
package types

import (
	"fmt"
	"sort"
	"strings"
)

type Kind int

const (
	KindExtern Kind = iota
	KindNode
	KindToken
	KindVariant
	KindTuple
	KindList
	KindPunct
	KindUnion
	KindNone
	KindNever
	KindAny
)

// Type is the algebraic sum. Only the fields relevant to Kind are
// populated.
type Type struct {
	Kind Kind

	// Extern, Node, Token, Variant
	Name string

	// Tuple, Union
	Elems []*Type

	// List, Punct
	Elem     *Type
	Sep      *Type // Punct only
	Required bool  // List/Punct: required = min > 0

	// Before/After hold the ExprIDs of hidden trivia attributed to this
	// type (§3.2). Stored as plain ints (ir.ExprID's underlying type) to
	// avoid an import cycle between types and ir.
	Before []int
	After  []int
}

func Extern(name string) *Type  { return &Type{Kind: KindExtern, Name: name} }
func Node(name string) *Type    { return &Type{Kind: KindNode, Name: name} }
func Token(name string) *Type   { return &Type{Kind: KindToken, Name: name} }
func Variant(name string) *Type { return &Type{Kind: KindVariant, Name: name} }
func None() *Type               { return &Type{Kind: KindNone} }
func Never() *Type              { return &Type{Kind: KindNever} }
func Any() *Type                { return &Type{Kind: KindAny} }

func Tuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Elems: elems}
}

func Union(elems ...*Type) *Type {
	return &Type{Kind: KindUnion, Elems: elems}
}

func List(elem *Type, required bool) *Type {
	return &Type{Kind: KindList, Elem: elem, Required: required}
}

func Punct(elem, sep *Type, required bool) *Type {
	return &Type{Kind: KindPunct, Elem: elem, Sep: sep, Required: required}
}

func (k Kind) String() string {
	switch k {
	case KindExtern:
		return "Extern"
	case KindNode:
		return "Node"
	case KindToken:
		return "Token"
	case KindVariant:
		return "Variant"
	case KindTuple:
		return "Tuple"
	case KindList:
		return "List"
	case KindPunct:
		return "Punct"
	case KindUnion:
		return "Union"
	case KindNone:
		return "None"
	case KindNever:
		return "Never"
	case KindAny:
		return "Any"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Equal reports structural equality, ignoring Before/After trivia.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindExtern, KindNode, KindToken, KindVariant:
		return a.Name == b.Name
	case KindTuple, KindUnion:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case KindList:
		return a.Required == b.Required && Equal(a.Elem, b.Elem)
	case KindPunct:
		return a.Required == b.Required && Equal(a.Elem, b.Elem) && Equal(a.Sep, b.Sep)
	default:
		return true
	}
}

// Mangle produces an injective, stable textual encoding of t, used to
// synthesize helper names (e.g. for_each_<mangled>) and as a canonical sort
// / dedup key.
func Mangle(t *Type) string {
	if t == nil {
		return "_"
	}
	switch t.Kind {
	case KindExtern:
		return "X_" + t.Name
	case KindNode:
		return "N_" + t.Name
	case KindToken:
		return "T_" + t.Name
	case KindVariant:
		return "V_" + t.Name
	case KindNone:
		return "None"
	case KindNever:
		return "Never"
	case KindAny:
		return "Any"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = Mangle(e)
		}
		return "Tuple_" + strconv(len(parts)) + "_(" + strings.Join(parts, ",") + ")"
	case KindUnion:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = Mangle(e)
		}
		sort.Strings(parts)
		return "Union_(" + strings.Join(parts, "|") + ")"
	case KindList:
		req := "0"
		if t.Required {
			req = "1"
		}
		return "List_" + req + "_[" + Mangle(t.Elem) + "]"
	case KindPunct:
		req := "0"
		if t.Required {
			req = "1"
		}
		return "Punct_" + req + "_[" + Mangle(t.Elem) + "%" + Mangle(t.Sep) + "]"
	default:
		return "?"
	}
}

func strconv(n int) string {
	return fmt.Sprintf("%d", n)
}
