package types

import "sort"

// Simplify recursively simplifies t: flattens nested Unions, drops Never
// members, collapses a Union containing Any to Any, sorts members
// canonically, deduplicates by structural equality, and unwraps singleton
// Unions. Idempotent: Simplify(Simplify(t)) == Simplify(t).
func Simplify(t *Type) *Type {
	if t == nil {
		return nil
	}

	switch t.Kind {
	case KindTuple:
		elems := make([]*Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Simplify(e)
		}
		return &Type{Kind: KindTuple, Elems: elems}

	case KindList:
		return &Type{Kind: KindList, Elem: Simplify(t.Elem), Required: t.Required}

	case KindPunct:
		return &Type{Kind: KindPunct, Elem: Simplify(t.Elem), Sep: Simplify(t.Sep), Required: t.Required}

	case KindUnion:
		leaves := flattenLeaves(t)

		kept := leaves[:0]
		for _, l := range leaves {
			if l.Kind == KindNever {
				continue
			}
			if l.Kind == KindAny {
				return Any()
			}
			kept = append(kept, l)
		}
		leaves = kept

		if len(leaves) == 0 {
			return Never()
		}

		dedup := map[string]*Type{}
		var order []string
		for _, l := range leaves {
			key := Mangle(l)
			if _, ok := dedup[key]; ok {
				continue
			}
			dedup[key] = l
			order = append(order, key)
		}
		sort.Strings(order)

		if len(order) == 1 {
			return dedup[order[0]]
		}

		out := make([]*Type, len(order))
		for i, k := range order {
			out[i] = dedup[k]
		}
		return &Type{Kind: KindUnion, Elems: out}

	default:
		// Extern, Node, Token, Variant, None, Never, Any carry no children
		// for the type algebra to simplify (a Variant's members live in
		// treespec.Specs, not on the Type itself).
		cp := *t
		return &cp
	}
}

// flattenLeaves recursively simplifies t's children and collects every
// non-Union leaf reachable from a Union root.
func flattenLeaves(t *Type) []*Type {
	if t.Kind != KindUnion {
		return []*Type{Simplify(t)}
	}
	var out []*Type
	for _, e := range t.Elems {
		s := Simplify(e)
		if s.Kind == KindUnion {
			out = append(out, FlattenUnion(s)...)
		} else {
			out = append(out, s)
		}
	}
	return out
}

// FlattenUnion produces the sequence of non-Union leaves reachable from a
// Union root, without deduplicating or dropping Never/Any.
func FlattenUnion(t *Type) []*Type {
	if t.Kind != KindUnion {
		return []*Type{t}
	}
	var out []*Type
	for _, e := range t.Elems {
		out = append(out, FlattenUnion(e)...)
	}
	return out
}

// IsOptional reports whether t is a Union containing None, or is itself the
// bare None.
func IsOptional(t *Type) bool {
	s := Simplify(t)
	if s.Kind == KindNone {
		return true
	}
	if s.Kind != KindUnion {
		return false
	}
	for _, e := range s.Elems {
		if e.Kind == KindNone {
			return true
		}
	}
	return false
}

// MakeOptional returns Union{t, None}, simplified.
func MakeOptional(t *Type) *Type {
	return Simplify(Union(t, None()))
}
