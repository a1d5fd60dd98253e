package types

// IsAssignable implements the design-level subtype check used only by the
// parser synthesizer and visitor generator (§4.4). It is not a runtime
// check: it decides whether code built against R's shape may be handed an
// L, so the synthesizer can share helper methods across similar fields.
func IsAssignable(l, r *Type, resolver Resolver) bool {
	if l == nil || r == nil {
		return false
	}
	if l.Kind == KindNever || r.Kind == KindNever {
		return false
	}
	if l.Kind == KindAny || r.Kind == KindAny {
		return true
	}

	if l.Kind == KindVariant {
		return IsAssignable(expandOnce(l, resolver), r, resolver)
	}
	if r.Kind == KindVariant {
		return IsAssignable(l, expandOnce(r, resolver), resolver)
	}

	if l.Kind == KindUnion {
		for _, b := range l.Elems {
			if !IsAssignable(b, r, resolver) {
				return false
			}
		}
		return true
	}
	if r.Kind == KindUnion {
		for _, b := range r.Elems {
			if IsAssignable(l, b, resolver) {
				return true
			}
		}
		return false
	}

	// A Punct is assignable to a List by comparing element types only: a
	// punctuated sequence can always be read back as a plain list of its
	// elements.
	if l.Kind == KindPunct && r.Kind == KindList {
		return IsAssignable(l.Elem, r.Elem, resolver)
	}

	if l.Kind != r.Kind {
		return false
	}

	switch l.Kind {
	case KindExtern, KindNode, KindToken:
		return l.Name == r.Name
	case KindNone:
		return true
	case KindTuple:
		if len(l.Elems) != len(r.Elems) {
			return false
		}
		for i := range l.Elems {
			if !IsAssignable(l.Elems[i], r.Elems[i], resolver) {
				return false
			}
		}
		return true
	case KindList:
		return IsAssignable(l.Elem, r.Elem, resolver)
	case KindPunct:
		return IsAssignable(l.Elem, r.Elem, resolver) && IsAssignable(l.Sep, r.Sep, resolver)
	default:
		return false
	}
}

// DoTypesShallowOverlap is equivalent to IsAssignable at the constructor
// level only (ignores element types); used to decide if two variant
// branches could be confused at runtime.
func DoTypesShallowOverlap(l, r *Type, resolver Resolver) bool {
	if l == nil || r == nil {
		return false
	}
	if l.Kind == KindNever || r.Kind == KindNever {
		return false
	}
	if l.Kind == KindAny || r.Kind == KindAny {
		return true
	}
	if l.Kind == KindVariant {
		return DoTypesShallowOverlap(expandOnce(l, resolver), r, resolver)
	}
	if r.Kind == KindVariant {
		return DoTypesShallowOverlap(l, expandOnce(r, resolver), resolver)
	}
	if l.Kind == KindUnion {
		for _, b := range l.Elems {
			if DoTypesShallowOverlap(b, r, resolver) {
				return true
			}
		}
		return false
	}
	if r.Kind == KindUnion {
		for _, b := range r.Elems {
			if DoTypesShallowOverlap(l, b, resolver) {
				return true
			}
		}
		return false
	}
	if l.Kind == KindPunct && r.Kind == KindList {
		return true
	}
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case KindExtern, KindNode, KindToken:
		return l.Name == r.Name
	case KindTuple:
		return len(l.Elems) == len(r.Elems)
	default:
		return true
	}
}

func expandOnce(t *Type, resolver Resolver) *Type {
	members := resolver.VariantMembers(t.Name)
	return Simplify(Union(members...))
}
