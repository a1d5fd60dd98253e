package ir

import "fmt"

// Span is a half-open range in a Mage source file, rows and columns are 1-based.
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
