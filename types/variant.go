package types

// ExpandVariantTypes rewrites every VariantType reachable from t by
// substituting the simplified Union of its members, recursively. It is a
// fixpoint operator: applying it a second time to its own output is a
// no-op (§4.4, §8). A self-referential Variant (IsCyclic, e.g. `expr =
// expr '+' expr | digit`) is left as the Variant leaf rather than
// expanded, which is what keeps a second application from expanding it
// further; an explicit visited-name set threaded through the recursion
// also leaves a Variant already being expanded on the current path
// untouched.
func ExpandVariantTypes(t *Type, resolver Resolver) *Type {
	return expandVariants(t, resolver, map[string]bool{})
}

func expandVariants(t *Type, resolver Resolver, visiting map[string]bool) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindVariant:
		if visiting[t.Name] || IsCyclic(t.Name, resolver) {
			return t
		}
		next := make(map[string]bool, len(visiting)+1)
		for k := range visiting {
			next[k] = true
		}
		next[t.Name] = true

		members := resolver.VariantMembers(t.Name)
		expanded := make([]*Type, len(members))
		for i, m := range members {
			expanded[i] = expandVariants(m, resolver, next)
		}
		return Simplify(Union(expanded...))

	case KindTuple:
		elems := make([]*Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = expandVariants(e, resolver, visiting)
		}
		return &Type{Kind: KindTuple, Elems: elems}

	case KindUnion:
		elems := make([]*Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = expandVariants(e, resolver, visiting)
		}
		return Simplify(Union(elems...))

	case KindList:
		return &Type{Kind: KindList, Elem: expandVariants(t.Elem, resolver, visiting), Required: t.Required}

	case KindPunct:
		return &Type{
			Kind:     KindPunct,
			Elem:     expandVariants(t.Elem, resolver, visiting),
			Sep:      expandVariants(t.Sep, resolver, visiting),
			Required: t.Required,
		}

	default:
		return t
	}
}

// Contains reports whether name (a Node or Variant spec name) is reachable
// from t by descending through Tuple/Union/List/Punct structure and, for
// Node/Variant leaves, through their fields/members. Used both by IsCyclic
// and by the parser synthesizer's visitor-emission decision (§4.5: "every
// field whose type contains the variant's type").
func Contains(t *Type, name string, resolver Resolver) bool {
	return containsRec(t, name, resolver, map[string]bool{})
}

func containsRec(t *Type, name string, resolver Resolver, visited map[string]bool) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindNode, KindVariant:
		if t.Name == name {
			return true
		}
		key := t.Kind.String() + ":" + t.Name
		if visited[key] {
			return false
		}
		visited[key] = true

		var children []*Type
		if t.Kind == KindVariant {
			children = resolver.VariantMembers(t.Name)
		} else {
			children = resolver.NodeFields(t.Name)
		}
		for _, c := range children {
			if containsRec(c, name, resolver, visited) {
				return true
			}
		}
		return false

	case KindTuple, KindUnion:
		for _, c := range t.Elems {
			if containsRec(c, name, resolver, visited) {
				return true
			}
		}
		return false

	case KindList:
		return containsRec(t.Elem, name, resolver, visited)

	case KindPunct:
		return containsRec(t.Elem, name, resolver, visited) || containsRec(t.Sep, name, resolver, visited)

	default:
		return false
	}
}

// IsCyclic reports whether a walk from the Node or Variant named name can
// revisit a type assignable to itself, i.e. whether a for_each_<name>
// visitor must be generated (§4.5).
func IsCyclic(name string, resolver Resolver) bool {
	root, ok := resolver.Lookup(name)
	if !ok {
		return false
	}

	var children []*Type
	if root.Kind == KindVariant {
		children = resolver.VariantMembers(name)
	} else {
		children = resolver.NodeFields(name)
	}
	for _, c := range children {
		if Contains(c, name, resolver) {
			return true
		}
	}
	return false
}
