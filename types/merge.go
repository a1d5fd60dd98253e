package types

// MergeSimilarTypes collapses a Union whose siblings share a container
// shape: Lists collapse into one List of the Union of their elements,
// Puncts likewise (pairwise over element and separator), and Tuples of
// equal arity collapse pointwise. This semantically widens the type, so it
// is used only where the consumer tolerates widening (§4.4).
func MergeSimilarTypes(t *Type) *Type {
	s := Simplify(t)
	if s.Kind != KindUnion {
		return s
	}

	var lists []*Type
	tuplesByArity := map[int][]*Type{}
	var puncts []*Type
	var rest []*Type

	for _, e := range s.Elems {
		switch e.Kind {
		case KindList:
			lists = append(lists, e)
		case KindPunct:
			puncts = append(puncts, e)
		case KindTuple:
			tuplesByArity[len(e.Elems)] = append(tuplesByArity[len(e.Elems)], e)
		default:
			rest = append(rest, e)
		}
	}

	var merged []*Type
	if len(lists) > 0 {
		elems := make([]*Type, len(lists))
		required := true
		for i, l := range lists {
			elems[i] = l.Elem
			required = required && l.Required
		}
		merged = append(merged, List(Simplify(Union(elems...)), required))
	}
	if len(puncts) > 0 {
		elemTypes := make([]*Type, len(puncts))
		sepTypes := make([]*Type, len(puncts))
		required := true
		for i, p := range puncts {
			elemTypes[i] = p.Elem
			sepTypes[i] = p.Sep
			required = required && p.Required
		}
		merged = append(merged, Punct(Simplify(Union(elemTypes...)), Simplify(Union(sepTypes...)), required))
	}
	// Tuples only merge pairwise within equal arity; arities are processed
	// in ascending order so merge output is deterministic.
	arities := make([]int, 0, len(tuplesByArity))
	for n := range tuplesByArity {
		arities = append(arities, n)
	}
	sortInts(arities)
	for _, n := range arities {
		group := tuplesByArity[n]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		elems := make([]*Type, n)
		for pos := 0; pos < n; pos++ {
			var column []*Type
			for _, tup := range group {
				column = append(column, tup.Elems[pos])
			}
			elems[pos] = Simplify(Union(column...))
		}
		merged = append(merged, Tuple(elems...))
	}

	merged = append(merged, rest...)
	return Simplify(Union(merged...))
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
