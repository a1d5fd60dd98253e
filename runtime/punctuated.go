package runtime

// Pair is one (element, separator) step of a Punctuated list — the
// separator is the zero value of S on the list's final element.
type Pair[T, S any] struct {
	Element   T
	Separator S
	HasSep    bool
}

// Punctuated holds the result of a List(elem, sep, min) expression (spec.md
// §6): an ordered sequence of elements, each paired with the separator that
// followed it, except possibly the last. Generic over both the element and
// separator node types so a single runtime type serves every punctuated
// field a grammar synthesizes, instead of one generated container type per
// field (the teacher has no equivalent since vartan's grammar has no list
// operator; this is grounded in Go's stdlib-idiomatic use of generics for
// exactly this "container over caller-supplied element types" shape).
type Punctuated[T, S any] struct {
	Pairs []Pair[T, S]
}

// Len returns the number of elements, trailing separator or not.
func (p Punctuated[T, S]) Len() int {
	return len(p.Pairs)
}

// Elements returns just the element values, in order.
func (p Punctuated[T, S]) Elements() []T {
	out := make([]T, len(p.Pairs))
	for i, pair := range p.Pairs {
		out[i] = pair.Element
	}
	return out
}

// TrailingSeparator reports whether the final element was itself followed
// by a separator with no element after it (the `[sep]` tail of
// `element (sep element)* [sep]`).
func (p *Punctuated[T, S]) TrailingSeparator() (S, bool) {
	var zero S
	if len(p.Pairs) == 0 {
		return zero, false
	}
	last := p.Pairs[len(p.Pairs)-1]
	if last.HasSep {
		return last.Separator, true
	}
	return zero, false
}

// Append adds an element produced without a following separator (the list's
// last element, or its only element).
func (p *Punctuated[T, S]) Append(elem T) {
	p.Pairs = append(p.Pairs, Pair[T, S]{Element: elem})
}

// AppendPair adds an element immediately followed by sep.
func (p *Punctuated[T, S]) AppendPair(elem T, sep S) {
	p.Pairs = append(p.Pairs, Pair[T, S]{Element: elem, Separator: sep, HasSep: true})
}
