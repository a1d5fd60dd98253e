package fuzz

import "github.com/magelang/magelang/ir"

// GrammarOptions bounds RandomGrammar in addition to ExprOptions: N is the
// rule count spec.md §4.7 calls out explicitly ("generate N rule names").
type GrammarOptions struct {
	N    int
	Expr ExprOptions
}

func DefaultGrammarOptions(n int) GrammarOptions {
	return GrammarOptions{N: n, Expr: DefaultExprOptions()}
}

// RandomGrammar generates N public rules, each bound to a distinct name
// from the `[A-Za-z][A-Za-z0-9]{1,8}` alphabet, whose body is random_expr
// over the full rule-name set — so any rule may reference any other,
// itself included (spec.md §4.7). ir.Builder.Build re-establishes parent
// links as its last step, satisfying the "re-establish parent links" half
// of random_grammar directly.
func RandomGrammar(rng *RNG, opts GrammarOptions) (*ir.Grammar, error) {
	names := randomNames(rng, opts.N)
	b := ir.NewBuilder()
	for _, name := range names {
		root := RandomExpr(b, rng, names, opts.Expr)
		if _, err := b.AddRule(ir.Rule{Name: name, Public: true, Expr: root}); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
