// Package syntax reads Mage grammar source text into an ir.Grammar
// (SPEC_FULL.md §5.10): a hand-written recursive-descent lexer+parser pair
// in the style of the teacher's own spec/grammar/parser, but for Mage's own
// textual notation rather than vartan's. Unlike the teacher's panic/recover
// parser, every parse failure here is collected into a diag.Bag and parsing
// continues past it by resynchronizing at the next ';' (spec.md §7: grammar
// errors are collected and surfaced before any emission, never a panic).
package syntax

import (
	"strconv"

	"github.com/magelang/magelang/diag"
	"github.com/magelang/magelang/ir"
)

// Parse reads src as Mage grammar source text and returns the resulting
// Grammar, or a non-nil error (a *diag.Bag when parsing failed, including a
// duplicate rule name, which AddRule rejects as each rule is added; the
// ir.Builder's own error when Build's post-parse check for unresolved refs
// fails on an otherwise syntactically valid source).
func Parse(src string) (*ir.Grammar, error) {
	p := &parser{lex: newLexer(src), b: ir.NewBuilder()}
	p.advance()
	for p.tok.kind != tokEOF {
		if d := p.parseRule(); d != nil {
			p.diags.Add(d)
			p.resyncToSemicolon()
		}
	}
	if p.diags.HasErrors() {
		return nil, &p.diags
	}
	return p.b.Build()
}

type parser struct {
	lex   *lexer
	tok   token
	saved *token

	b     *ir.Builder
	diags diag.Bag
}

func (p *parser) advance() {
	if p.saved != nil {
		p.tok = *p.saved
		p.saved = nil
		return
	}
	p.tok = p.readToken()
}

func (p *parser) peekNext() token {
	if p.saved == nil {
		t := p.readToken()
		p.saved = &t
	}
	return *p.saved
}

// readToken pulls the next token from the lexer, recording (but not
// stopping on) any lexical error — an unrecognized character or an
// unterminated string is skipped over so the parser can keep looking for
// the next valid token instead of aborting the whole file on one bad rune.
func (p *parser) readToken() token {
	for {
		t, d := p.lex.next()
		if d != nil {
			p.diags.Add(d)
			if t.kind == tokEOF {
				return t
			}
			continue
		}
		return t
	}
}

func (p *parser) resyncToSemicolon() {
	for p.tok.kind != tokSemicolon && p.tok.kind != tokEOF {
		p.advance()
	}
	if p.tok.kind == tokSemicolon {
		p.advance()
	}
}

func (p *parser) errorf(span ir.Span, format string, args ...interface{}) *diag.Diagnostic {
	return diag.New("", span.Row, span.Col, format, args...)
}

// parseRule reads one `flags* name (':' type)? ('=' expr)? ';'` production
// and registers it with the builder.
func (p *parser) parseRule() *diag.Diagnostic {
	var r ir.Rule
	for p.tok.kind == tokIdent && keywords[p.tok.text] {
		switch p.tok.text {
		case "pub":
			r.Public = true
		case "extern":
			r.Extern = true
		case "token":
			r.ForceToken = true
		case "skip":
			r.Skip = true
		case "keyword":
			r.Keyword = true
		}
		p.advance()
	}

	if p.tok.kind != tokIdent {
		return p.errorf(p.tok.span, "expected a rule name, got %s", p.tok.kind)
	}
	r.Name = p.tok.text
	r.Span = p.tok.span
	p.advance()

	if p.tok.kind == tokColon {
		p.advance()
		if p.tok.kind != tokIdent {
			return p.errorf(p.tok.span, "expected a type name after ':', got %s", p.tok.kind)
		}
		r.TypeName = p.tok.text
		p.advance()
	}

	r.Expr = ir.NoExpr
	if p.tok.kind == tokEquals {
		p.advance()
		expr, d := p.parseExpr()
		if d != nil {
			return d
		}
		r.Expr = expr
	}

	if p.tok.kind != tokSemicolon {
		return p.errorf(p.tok.span, "expected ';', got %s", p.tok.kind)
	}
	p.advance()

	if r.Extern && r.Expr != ir.NoExpr {
		return p.errorf(r.Span, "extern rule %q must not have a body", r.Name)
	}
	if !r.Extern && r.Expr == ir.NoExpr {
		return p.errorf(r.Span, "rule %q must have a body (or be declared extern)", r.Name)
	}

	if _, err := p.b.AddRule(r); err != nil {
		if d, ok := err.(*diag.Diagnostic); ok {
			return d
		}
		return p.errorf(r.Span, "%v", err)
	}
	return nil
}

// parseExpr is the entry point into the precedence chain: choice binds
// loosest, then sequencing (juxtaposition), then postfix repetition/list
// operators, then prefix lookahead/hide operators, then primaries.
func (p *parser) parseExpr() (ir.ExprID, *diag.Diagnostic) {
	return p.parseChoice()
}

func (p *parser) parseChoice() (ir.ExprID, *diag.Diagnostic) {
	first, d := p.parseSeq()
	if d != nil {
		return ir.NoExpr, d
	}
	if p.tok.kind != tokPipe {
		return first, nil
	}
	branches := []ir.ExprID{first}
	for p.tok.kind == tokPipe {
		p.advance()
		next, d := p.parseSeq()
		if d != nil {
			return ir.NoExpr, d
		}
		branches = append(branches, next)
	}
	return p.b.NewExpr(ir.Expr{Kind: ir.KindChoice, Children: branches}), nil
}

func (p *parser) parseSeq() (ir.ExprID, *diag.Diagnostic) {
	var items []ir.ExprID
	for p.startsExprItem() {
		item, d := p.parseLabeledPostfix()
		if d != nil {
			return ir.NoExpr, d
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return ir.NoExpr, p.errorf(p.tok.span, "expected an expression, got %s", p.tok.kind)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return p.b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: items}), nil
}

func (p *parser) startsExprItem() bool {
	switch p.tok.kind {
	case tokString, tokLBracket, tokLParen, tokAmp, tokBang, tokUnderscore:
		return true
	case tokIdent:
		return !keywords[p.tok.text]
	default:
		return false
	}
}

// parseLabeledPostfix handles the optional `name:` prefix (`a: digit`);
// the label attaches to the whole postfix expression that follows, not
// just its primary, so `as: digit*` labels the Repeat.
func (p *parser) parseLabeledPostfix() (ir.ExprID, *diag.Diagnostic) {
	if p.tok.kind == tokIdent && !keywords[p.tok.text] && p.peekNext().kind == tokColon {
		label := p.tok.text
		p.advance()
		p.advance()
		child, d := p.parsePostfix()
		if d != nil {
			return ir.NoExpr, d
		}
		return attachLabel(p.b, child, label), nil
	}
	return p.parsePostfix()
}

// attachLabel clones child with label attached, unless it already carries
// one — mirroring transform/simplify.go's withOuterLabel, since a labeled
// node must never silently lose an inner label to an outer one.
func attachLabel(b *ir.Builder, id ir.ExprID, label string) ir.ExprID {
	e := b.Peek(id)
	if e.Label != "" {
		return id
	}
	cp := *e
	cp.Label = label
	return b.NewExpr(cp)
}

func (p *parser) parsePostfix() (ir.ExprID, *diag.Diagnostic) {
	e, d := p.parsePrefix()
	if d != nil {
		return ir.NoExpr, d
	}
	for {
		switch p.tok.kind {
		case tokStar:
			p.advance()
			e = p.b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{e}, Min: 0, Max: ir.Unbounded})
		case tokPlus:
			p.advance()
			e = p.b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{e}, Min: 1, Max: ir.Unbounded})
		case tokQuestion:
			p.advance()
			e = p.b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{e}, Min: 0, Max: 1})
		case tokLBrace:
			p.advance()
			min, max, d := p.parseRepeatBounds()
			if d != nil {
				return ir.NoExpr, d
			}
			e = p.b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{e}, Min: min, Max: max})
		case tokPercent:
			p.advance()
			minCount := 0
			if p.tok.kind == tokPlus {
				p.advance()
				minCount = 1
			}
			sep, d := p.parsePrefix()
			if d != nil {
				return ir.NoExpr, d
			}
			e = p.b.NewExpr(ir.Expr{Kind: ir.KindList, Children: []ir.ExprID{e, sep}, MinCount: minCount})
		default:
			return e, nil
		}
	}
}

func (p *parser) parseRepeatBounds() (int, int, *diag.Diagnostic) {
	if p.tok.kind != tokInt {
		return 0, 0, p.errorf(p.tok.span, "expected an integer, got %s", p.tok.kind)
	}
	min, _ := strconv.Atoi(p.tok.text)
	p.advance()
	max := min
	if p.tok.kind == tokComma {
		p.advance()
		if p.tok.kind == tokInt {
			max, _ = strconv.Atoi(p.tok.text)
			p.advance()
		} else {
			max = ir.Unbounded
		}
	}
	if p.tok.kind != tokRBrace {
		return 0, 0, p.errorf(p.tok.span, "expected '}', got %s", p.tok.kind)
	}
	p.advance()
	return min, max, nil
}

// parsePrefix handles the three prefix operators: '&' positive lookahead,
// '!' negative lookahead, '_' hide. They nest via direct recursion so
// `_!x` hides a negative lookahead on x.
func (p *parser) parsePrefix() (ir.ExprID, *diag.Diagnostic) {
	switch p.tok.kind {
	case tokAmp:
		p.advance()
		child, d := p.parsePrefix()
		if d != nil {
			return ir.NoExpr, d
		}
		return p.b.NewExpr(ir.Expr{Kind: ir.KindLookahead, Children: []ir.ExprID{child}, Negated: false}), nil
	case tokBang:
		p.advance()
		child, d := p.parsePrefix()
		if d != nil {
			return ir.NoExpr, d
		}
		return p.b.NewExpr(ir.Expr{Kind: ir.KindLookahead, Children: []ir.ExprID{child}, Negated: true}), nil
	case tokUnderscore:
		p.advance()
		child, d := p.parsePrefix()
		if d != nil {
			return ir.NoExpr, d
		}
		return p.b.NewExpr(ir.Expr{Kind: ir.KindHide, Children: []ir.ExprID{child}}), nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (ir.ExprID, *diag.Diagnostic) {
	switch p.tok.kind {
	case tokString:
		lit := p.tok.text
		span := p.tok.span
		p.advance()
		if p.tok.kind == tokDotDot {
			p.advance()
			if p.tok.kind != tokString {
				return ir.NoExpr, p.errorf(p.tok.span, "expected a string literal after '..', got %s", p.tok.kind)
			}
			hi := p.tok.text
			hiSpan := p.tok.span
			p.advance()
			lo, hiRunes := []rune(lit), []rune(hi)
			if len(lo) != 1 || len(hiRunes) != 1 {
				return ir.NoExpr, p.errorf(span, "range endpoints must be single characters, got %q and %q", lit, hi)
			}
			return p.b.NewExpr(ir.Expr{
				Kind:   ir.KindCharSet,
				Ranges: []ir.CharRange{{Lo: lo[0], Hi: hiRunes[0]}},
				Span:   ir.Span{Row: span.Row, Col: span.Col, EndRow: hiSpan.EndRow, EndCol: hiSpan.EndCol},
			}), nil
		}
		return p.b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: lit, Span: span}), nil
	case tokLBracket:
		openSpan := p.tok.span
		ranges, invert, d := p.lex.scanCharSetBody(openSpan)
		if d != nil {
			return ir.NoExpr, d
		}
		p.advance()
		return p.b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: ranges, Invert: invert, Span: openSpan}), nil
	case tokIdent:
		name := p.tok.text
		span := p.tok.span
		p.advance()
		return p.b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: name, Span: span}), nil
	case tokLParen:
		p.advance()
		inner, d := p.parseExpr()
		if d != nil {
			return ir.NoExpr, d
		}
		if p.tok.kind != tokRParen {
			return ir.NoExpr, p.errorf(p.tok.span, "expected ')', got %s", p.tok.kind)
		}
		p.advance()
		return inner, nil
	default:
		return ir.NoExpr, p.errorf(p.tok.span, "expected an expression, got %s", p.tok.kind)
	}
}
