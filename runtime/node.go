package runtime

// BaseNode is embedded by every generated parse-tree node type (spec.md
// §6: "nodes extend BaseNode"). It carries only the span; the fields a
// given node type adds are the ones treespec inferred for its rule.
type BaseNode struct {
	Span Span
}

// BaseParser is embedded by every generated parser and carries the pieces
// common to all of them: the errors recorded during a parse.
// Grounded in the teacher's driver.Parser, which likewise bundles the
// lexer, diagnostics, and parse state behind one receiver type — reshaped
// here since a synthesized parser drives recursive descent over a stream
// rather than replaying an LALR table.
type BaseParser struct {
	Errors []error
}

// Fail records a parse error without panicking. Code emitted by gotarget
// does not call it; generated methods report failure through their bool
// result.
func (p *BaseParser) Fail(err error) {
	p.Errors = append(p.Errors, err)
}

// Ok reports whether the parse completed without recorded errors.
func (p *BaseParser) Ok() bool {
	return len(p.Errors) == 0
}
