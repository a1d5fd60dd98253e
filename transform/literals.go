package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/magelang/magelang/analyze"
	"github.com/magelang/magelang/ir"
)

var identifierLit = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// charNames maps single characters to a human-readable name, used to
// synthesize a token rule name for short punctuation literals (e.g. "+" ->
// "plus"). Grounded in original_source's names.json lookup (referenced but
// not itself part of the retrieval pack's kept files); this table covers
// the ASCII punctuation Mage grammars are expected to use as operators and
// delimiters.
var charNames = map[rune]string{
	'+': "plus", '-': "minus", '*': "star", '/': "slash", '%': "percent",
	'=': "eq", '<': "lt", '>': "gt", '!': "bang", '?': "question",
	'.': "dot", ',': "comma", ':': "colon", ';': "semi",
	'(': "lparen", ')': "rparen", '[': "lbrack", ']': "rbrack",
	'{': "lbrace", '}': "rbrace", '&': "amp", '|': "pipe", '^': "caret",
	'~': "tilde", '@': "at", '#': "hash", '$': "dollar", '_': "underscore",
	'\'': "quote", '"': "dquote", '\\': "backslash",
}

// ExtractLiterals replaces every Lit appearing in a parse rule's body with a
// Ref to a synthesized public, force-token rule (§4.1 pass 3). Grounded in
// original_source/src/magelang/transforms/extract_literals.py: the rewrite
// is gated on analyze.IsParseRule, so literals inside token-rule bodies
// (which are built from literals by definition) and inside variant-rule
// branches (e.g. the "+" separator in `expr '+' expr`) are left in place —
// the latter are dropped as unit/trivia by treespec's field inference
// instead of being promoted to a field (see treespec/infer.go's defensive
// Lit/CharSet case). Identical literal text collapses to one synthesized
// rule, keyed by the exact string.
func ExtractLiterals(g *ir.Grammar) (*ir.Grammar, error) {
	b := ir.NewBuilder()
	litToName := map[string]string{}
	var newNamesInOrder []string
	tokenCounter := 0

	var rewrite func(id ir.ExprID) ir.ExprID
	rewrite = func(id ir.ExprID) ir.ExprID {
		if id == ir.NoExpr {
			return ir.NoExpr
		}
		e := g.Expr(id)
		if e.Kind == ir.KindLit {
			name, ok := litToName[e.Lit]
			if !ok {
				name = synthesizeLiteralName(e.Lit, &tokenCounter)
				litToName[e.Lit] = name
				newNamesInOrder = append(newNamesInOrder, e.Lit)
			}
			return b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: name, Label: e.Label, Span: e.Span})
		}
		cp := *e
		cp.Children = make([]ir.ExprID, len(e.Children))
		for i, c := range e.Children {
			cp.Children[i] = rewrite(c)
		}
		return b.NewExpr(cp)
	}

	for _, r := range g.Rules() {
		nr := *r
		if analyze.IsParseRule(g, r) {
			nr.Expr = rewrite(r.Expr)
		} else {
			nr.Expr = b.CloneExpr(g, r.Expr, "")
		}
		if _, err := b.AddRule(nr); err != nil {
			return nil, err
		}
	}

	for _, lit := range newNamesInOrder {
		name := litToName[lit]
		litExpr := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: lit})
		if _, err := b.AddRule(ir.Rule{
			Name:       name,
			Public:     true,
			ForceToken: true,
			Expr:       litExpr,
		}); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func synthesizeLiteralName(text string, counter *int) string {
	if identifierLit.MatchString(text) {
		return text + "_keyword"
	}
	if len(text) <= 4 {
		names := make([]string, 0, len(text))
		ok := true
		for _, ch := range text {
			name, found := charNames[ch]
			if !found {
				ok = false
				break
			}
			names = append(names, name)
		}
		if ok {
			return strings.Join(names, "_")
		}
	}
	name := fmt.Sprintf("token_%d", *counter)
	*counter++
	return name
}
