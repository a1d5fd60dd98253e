package ir

import "github.com/magelang/magelang/diag"

// Grammar is an ordered, immutable sequence of Rules backed by an
// expression arena. Transforms never mutate a Grammar in place; they
// construct a fresh one via Builder (§4.1, §3.3).
type Grammar struct {
	rules  []*Rule
	exprs  []*Expr
	byName map[string]RuleID
}

func (g *Grammar) Rules() []*Rule {
	return g.rules
}

func (g *Grammar) Rule(id RuleID) *Rule {
	return g.rules[id]
}

func (g *Grammar) RuleByName(name string) (*Rule, bool) {
	id, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.rules[id], true
}

func (g *Grammar) Expr(id ExprID) *Expr {
	if id == NoExpr {
		return nil
	}
	return g.exprs[id]
}

func (g *Grammar) NumExprs() int {
	return len(g.exprs)
}

// Builder incrementally constructs a Grammar. Every transform builds its
// output with a fresh Builder rather than mutating its input.
type Builder struct {
	rules  []*Rule
	exprs  []*Expr
	byName map[string]RuleID
	diags  diag.Bag
}

func NewBuilder() *Builder {
	return &Builder{byName: map[string]RuleID{}}
}

// NewExpr appends e to the arena (e.ID and e.Parent are overwritten) and
// returns its fresh ID.
func (b *Builder) NewExpr(e Expr) ExprID {
	id := ExprID(len(b.exprs))
	e.ID = id
	e.Parent = NoExpr
	cp := e
	b.exprs = append(b.exprs, &cp)
	return id
}

// Peek returns the Expr already built at id within this Builder, so a
// rewrite pass can inspect a just-constructed child (e.g. to see whether it
// collapsed to a Repeat or Hide) before deciding how to build its parent.
func (b *Builder) Peek(id ExprID) *Expr {
	return b.exprs[id]
}

// CloneExpr deep-copies the subtree rooted at src (from another Grammar, or
// the same Builder) into this Builder and returns the root of the copy.
// label, when non-empty, overrides the clone's Label (used by inline: §4.1
// pass 6 propagates the outer Ref's label into the inlined Expr).
func (b *Builder) CloneExpr(src *Grammar, id ExprID, label string) ExprID {
	if id == NoExpr {
		return NoExpr
	}
	e := *src.Expr(id)
	children := make([]ExprID, len(e.Children))
	for i, c := range e.Children {
		children[i] = b.CloneExpr(src, c, "")
	}
	e.Children = children
	if label != "" {
		e.Label = label
	}
	return b.NewExpr(e)
}

// AddRule registers r (r.ID is overwritten) and returns its fresh ID. It is
// an error to register the same name twice.
func (b *Builder) AddRule(r Rule) (RuleID, error) {
	if _, exists := b.byName[r.Name]; exists {
		return NoRule, diag.New(r.Name, r.Span.Row, r.Span.Col, "duplicate rule name %q", r.Name)
	}
	id := RuleID(len(b.rules))
	r.ID = id
	cp := r
	b.rules = append(b.rules, &cp)
	b.byName[r.Name] = id
	return id, nil
}

// Build resolves every Ref against the registered rule names, establishes
// parent back-links with a single post-order arena walk, and returns the
// finished, immutable Grammar. An unresolved Ref is collected as a
// diagnostic, never left silent (§3.1 invariants).
func (b *Builder) Build() (*Grammar, error) {
	g := &Grammar{rules: b.rules, exprs: b.exprs, byName: b.byName}

	for _, e := range g.exprs {
		if e.Kind != KindRef {
			continue
		}
		id, ok := g.byName[e.RefName]
		if !ok {
			b.diags.Add(diag.New("", e.Span.Row, e.Span.Col, "undefined reference: %q", e.RefName))
			continue
		}
		e.RefTarget = id
	}

	for _, r := range g.rules {
		establishParents(g, r.Expr, NoExpr)
	}

	if b.diags.HasErrors() {
		return nil, &b.diags
	}
	return g, nil
}

func establishParents(g *Grammar, id, parent ExprID) {
	if id == NoExpr {
		return
	}
	e := g.Expr(id)
	e.Parent = parent
	for _, c := range e.Children {
		establishParents(g, c, id)
	}
}

// RebuildParents re-establishes every parent back-link in g. Every
// transform must call this (or construct via Builder.Build, which does it
// automatically) before returning, per §4.1.
func RebuildParents(g *Grammar) {
	for _, r := range g.rules {
		establishParents(g, r.Expr, NoExpr)
	}
}
