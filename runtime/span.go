// Package runtime is the library generated parsers link against (spec.md
// §6's "Runtime library" external collaborator, made concrete here so the
// toolchain can actually compile and run what it synthesizes). Grounded in
// the teacher's driver/parser.go and driver/lexer/lexer.go, reshaped from a
// table-driven shift/reduce stream into the recursive-descent
// peek/get/fork/join_to contract §4.5 specifies.
package runtime

import "fmt"

// Span is a half-open source range, rows and columns 1-based, mirroring
// ir.Span (kept as a separate type since generated code must not import the
// compiler's own ir package).
type Span struct {
	Row    int
	Col    int
	EndRow int
	EndCol int
}

func (s Span) String() string {
	if s.Row == 0 {
		return "<unknown>"
	}
	if s.Row == s.EndRow {
		return fmt.Sprintf("%v:%v-%v", s.Row, s.Col, s.EndCol)
	}
	return fmt.Sprintf("%v:%v-%v:%v", s.Row, s.Col, s.EndRow, s.EndCol)
}

// JoinSpan merges a start span and an end span into the span covering both,
// used by generated code to compute a node's Span from its first and last
// consumed atom.
func JoinSpan(a, b Span) Span {
	if a.Row == 0 {
		return b
	}
	if b.Row == 0 {
		return a
	}
	return Span{Row: a.Row, Col: a.Col, EndRow: b.EndRow, EndCol: b.EndCol}
}
