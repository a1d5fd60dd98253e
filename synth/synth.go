package synth

import (
	"fmt"
	"strings"

	"github.com/magelang/magelang/analyze"
	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/treespec"
)

// Synthesize compiles every spec treespec.Build derived from g into a
// Method, plus a Visitor for every cyclic variant, per §4.5. specs is
// trusted to have been derived from g itself (treespec.Build(g)); passing a
// mismatched pair produces undefined field names.
func Synthesize(g *ir.Grammar, specs *treespec.Specs) (*Program, error) {
	prog := &Program{}
	for _, spec := range specs.All() {
		m, err := synthesizeSpec(g, spec)
		if err != nil {
			return nil, err
		}
		if m != nil {
			prog.Methods = append(prog.Methods, m)
		}
	}
	prog.Visitors = BuildVisitors(specs)
	return prog, nil
}

func synthesizeSpec(g *ir.Grammar, spec *treespec.Spec) (*Method, error) {
	switch spec.Kind {
	case treespec.KindVariant:
		return synthesizeVariant(g, spec)
	default:
		return synthesizeRule(g, spec)
	}
}

// synthesizeRule mirrors treespec.buildNodeSpec's root handling exactly
// (§4.3): when the rule's own body is a Seq, each top-level child
// contributes its own field (never collapsed into one tuple field, unlike
// a Seq nested deeper in the tree); otherwise the whole body is one item.
// This keeps Method.Fields in the same order and under the same names as
// the corresponding NodeSpec.Fields, which codegen/gotarget relies on to
// build the right Go struct literal.
func synthesizeRule(g *ir.Grammar, spec *treespec.Spec) (*Method, error) {
	r, ok := g.RuleByName(spec.Name)
	if !ok {
		return nil, fmt.Errorf("synth: no rule named %q in grammar", spec.Name)
	}
	c := &compiler{g: g}

	var body *Stmt
	switch {
	case r.Expr == ir.NoExpr:
		body = &Stmt{Kind: StmtSeq}
	default:
		root := g.Expr(r.Expr)
		if root.Kind != ir.KindSeq {
			body = &Stmt{Kind: StmtSeq, Children: []*Stmt{c.compile(r.Expr)}}
			break
		}
		var children []*Stmt
		for _, id := range root.Children {
			before := len(c.fields)
			children = append(children, c.compile(id))
			if len(c.fields) == before {
				continue
			}
			item := c.fields[len(c.fields)-1]
			c.topLevel = append(c.topLevel, topLevelField{stmt: children[len(children)-1], name: item})
		}
		c.fields = c.fields[:0]
		seen := map[string]int{}
		for i := range c.topLevel {
			name := c.topLevel[i].name
			seen[name]++
			if seen[name] > 1 {
				name = fmt.Sprintf("%s_%d", name, seen[name])
			}
			c.fields = append(c.fields, name)
			c.topLevel[i].stmt.Field = name
		}
		body = &Stmt{Kind: StmtSeq, Children: children}
	}
	return &Method{RuleName: spec.Name, Body: body, Fields: c.fields}, nil
}

// synthesizeVariant emits the Choice-over-members body §4.5 describes: "do
// not allocate a node — return the chosen member directly." Each member
// contributes one StmtCallRule-or-compiled-branch child; whichever succeeds
// first is the method's return value. A leading Hide on a branch is
// unwrapped first, matching treespec.inferer.variantMember.
func synthesizeVariant(g *ir.Grammar, spec *treespec.Spec) (*Method, error) {
	r, ok := g.RuleByName(spec.Name)
	if !ok {
		return nil, fmt.Errorf("synth: no rule named %q in grammar", spec.Name)
	}
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindChoice {
		return nil, fmt.Errorf("synth: variant rule %q is not a Choice after normalization", spec.Name)
	}
	c := &compiler{g: g}
	children := make([]*Stmt, len(e.Children))
	for i, branch := range e.Children {
		id := branch
		for g.Expr(id).Kind == ir.KindHide {
			id = g.Expr(id).Child()
		}
		children[i] = c.compile(id)
	}
	members := make([]string, len(spec.Variant.Members))
	for i, m := range spec.Variant.Members {
		members[i] = m.Name
	}
	return &Method{
		RuleName:       spec.Name,
		IsVariant:      true,
		VariantMembers: members,
		Body:           &Stmt{Kind: StmtChoice, Children: children},
	}, nil
}

// topLevelField tracks one root-Seq item's contributed field, so duplicate
// names across top-level items can be disambiguated the same way
// treespec.dedupeFieldNames does (append _2, _3, ... to later duplicates).
type topLevelField struct {
	stmt *Stmt
	name string
}

// compiler walks one rule's Expr tree and emits Stmt, tracking which
// children bind a named field — the same survivor/label/generated-name
// discipline treespec.inferer uses for Types (§4.3 rules a-e), applied here
// to statement bindings instead, so a Method's Fields line up 1:1 with the
// corresponding NodeSpec's Fields.
type compiler struct {
	g            *ir.Grammar
	fieldCounter int
	fields       []string
	topLevel     []topLevelField
}

func (c *compiler) nextGenName() string {
	c.fieldCounter++
	return fmt.Sprintf("field_%d", c.fieldCounter)
}

func (c *compiler) bind(label, generated string) string {
	name := generated
	if label != "" {
		name = label
	}
	return name
}

// compile returns the Stmt for id and, as a side effect, records in
// c.fields the name id's value binds to (if any — Hide/Lookahead/bare
// punctuation contribute no field, mirroring inferer.infer's unit cases).
func (c *compiler) compile(id ir.ExprID) *Stmt {
	if id == ir.NoExpr {
		return nil
	}
	e := c.g.Expr(id)
	switch e.Kind {
	case ir.KindLit:
		return &Stmt{Kind: StmtMatchLit, Lit: e.Lit}
	case ir.KindCharSet:
		// Mirrors inferer.infer's unconditional unit() for Lit/CharSet:
		// by the §3.1 invariant, a bare charset is never a field in its
		// own right by the time synth runs (extract-literals wraps every
		// literal/charset match in its own token rule).
		return &Stmt{Kind: StmtMatchCharSet, Ranges: e.Ranges, CaseInsensitive: e.CaseInsensitive, Invert: e.Invert}
	case ir.KindRef:
		return c.compileRef(e)
	case ir.KindSeq:
		return c.compileSeq(e)
	case ir.KindChoice:
		s := &Stmt{Kind: StmtChoice}
		for _, child := range e.Children {
			s.Children = append(s.Children, c.compile(child))
		}
		s.Field = c.bind(e.Label, c.nextGenName())
		c.fields = append(c.fields, s.Field)
		return s
	case ir.KindRepeat:
		return c.compileRepeat(e)
	case ir.KindList:
		return c.compileList(e)
	case ir.KindLookahead:
		child := c.compileDiscardingField(e.Child())
		return &Stmt{Kind: StmtLookahead, Negated: e.Negated, Children: []*Stmt{child}}
	case ir.KindHide:
		child := c.compileDiscardingField(e.Child())
		return &Stmt{Kind: StmtHide, Children: []*Stmt{child}}
	default:
		return nil
	}
}

// compileDiscardingField compiles id the same as compile, but drops
// whatever field name the result would have contributed to c.fields, and
// clears Field on the whole returned subtree — mirrors inferer.infer's
// unconditional unit() for Hide/Lookahead (§4.3): neither ever contributes
// a field, no matter what their child does. Clearing the subtree (not just
// c.fields) matters for codegen/gotarget: a cleared Field tells the Go
// emitter to bind the match to "_" instead of naming a variable that would
// never be read, which the emitter would otherwise report as unused.
func (c *compiler) compileDiscardingField(id ir.ExprID) *Stmt {
	saved := c.fields
	c.fields = nil
	s := c.compile(id)
	c.fields = saved
	clearFields(s)
	return s
}

func clearFields(s *Stmt) {
	if s == nil {
		return
	}
	s.Field = ""
	for _, child := range s.Children {
		clearFields(child)
	}
}

func (c *compiler) compileRef(e *ir.Expr) *Stmt {
	name := e.RefName
	if e.RefTarget != ir.NoRule {
		target := c.g.Rule(e.RefTarget)
		if analyze.IsFragment(target) {
			// Already guaranteed inlined away by the transform pipeline's
			// Inline pass; re-expand defensively so synth degrades
			// gracefully against a non-normalized grammar instead of
			// emitting a call to a rule that was never kept.
			return c.compile(target.Expr)
		}
		name = target.Name
	}
	s := &Stmt{Kind: StmtCallRule, RuleName: name}
	s.Field = c.bind(e.Label, name)
	c.fields = append(c.fields, s.Field)
	return s
}

func (c *compiler) compileSeq(e *ir.Expr) *Stmt {
	var children []*Stmt
	var names []string
	savedFields := c.fields
	c.fields = nil
	for _, child := range e.Children {
		before := len(c.fields)
		stmt := c.compile(child)
		if len(c.fields) > before {
			names = append(names, c.fields[len(c.fields)-1])
		}
		children = append(children, stmt)
	}
	survivors := c.fields
	c.fields = savedFields

	var field string
	switch len(survivors) {
	case 0:
		field = ""
	case 1:
		field = c.bind(e.Label, survivors[0])
	default:
		field = c.bind(e.Label, strings.Join(names, "_"))
	}
	if field != "" {
		c.fields = append(c.fields, field)
	}
	return &Stmt{Kind: StmtSeq, Children: children, Field: field}
}

func (c *compiler) compileRepeat(e *ir.Expr) *Stmt {
	if e.Max == 0 {
		return &Stmt{Kind: StmtRepeat, Min: 0, Max: 0}
	}
	savedFields := c.fields
	c.fields = nil
	child := c.compile(e.Child())
	childName := ""
	if len(c.fields) > 0 {
		childName = c.fields[len(c.fields)-1]
	}
	c.fields = savedFields

	// Mirrors inferer.inferRepeat exactly: only the "neither optional
	// (0,1) nor exactly-one (1,1)" case is a real List, and only that case
	// pluralizes its derived name.
	name := childName
	optionalOrSingle := (e.Min == 0 && e.Max == 1) || (e.Min == 1 && e.Max == 1)
	if !optionalOrSingle && name != "" {
		name = pluralizeName(name)
	}
	field := c.bind(e.Label, name)
	if field != "" {
		c.fields = append(c.fields, field)
	}
	return &Stmt{Kind: StmtRepeat, Min: e.Min, Max: e.Max, Children: []*Stmt{child}, Field: field}
}

func (c *compiler) compileList(e *ir.Expr) *Stmt {
	elem := c.compile(e.ListElem())
	sep := c.compile(e.ListSep())
	field := c.bind(e.Label, c.nextGenName())
	c.fields = append(c.fields, field)
	return &Stmt{Kind: StmtList, Children: []*Stmt{elem, sep}, MinCount: e.MinCount, Field: field}
}

func pluralizeName(name string) string {
	if name == "" || strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}
