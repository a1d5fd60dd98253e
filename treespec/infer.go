package treespec

import (
	"fmt"
	"strings"

	"github.com/magelang/magelang/analyze"
	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/types"
)

// inferer implements the Type inference rules on Expr (§4.3) plus the
// field-name derivation rules (a)-(e), scoped to a single rule: the
// generated-name counter resets per rule.
type inferer struct {
	g            *ir.Grammar
	fieldCounter int
}

func newInferer(g *ir.Grammar) *inferer {
	return &inferer{g: g}
}

func unit() *types.Type {
	return types.Tuple()
}

func isUnit(t *types.Type) bool {
	return t.Kind == types.KindTuple && len(t.Elems) == 0
}

func pluralize(name string) string {
	if name == "" {
		return name
	}
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

func (inf *inferer) nextGenName() string {
	inf.fieldCounter++
	return fmt.Sprintf("field_%d", inf.fieldCounter)
}

func (inf *inferer) withLabel(e *ir.Expr, t *types.Type, generated string) (*types.Type, string) {
	if e.Label != "" {
		return t, e.Label
	}
	return t, generated
}

// infer returns the inferred type and derived field name for id. A unit
// result (isUnit(t)) means id contributes no field at all; the name
// returned alongside it is meaningless.
func (inf *inferer) infer(id ir.ExprID) (*types.Type, string) {
	if id == ir.NoExpr {
		return unit(), ""
	}
	e := inf.g.Expr(id)
	switch e.Kind {
	case ir.KindHide, ir.KindLookahead:
		return unit(), ""
	case ir.KindList:
		return inf.inferList(e)
	case ir.KindRef:
		return inf.inferRef(e)
	case ir.KindRepeat:
		return inf.inferRepeat(e)
	case ir.KindSeq:
		return inf.inferSeq(e)
	case ir.KindChoice:
		return inf.inferChoice(e)
	case ir.KindLit, ir.KindCharSet:
		// Forbidden at field position after extract-literals (§3.1
		// invariant); treated as unit defensively rather than panicking,
		// since treespec must never crash on a malformed but
		// already-diagnosed grammar.
		return unit(), ""
	default:
		return unit(), ""
	}
}

func (inf *inferer) inferList(e *ir.Expr) (*types.Type, string) {
	elemT, _ := inf.infer(e.ListElem())
	sepT, _ := inf.infer(e.ListSep())
	t := types.Punct(elemT, sepT, e.MinCount > 0)
	return inf.withLabel(e, t, inf.nextGenName())
}

func (inf *inferer) inferRef(e *ir.Expr) (*types.Type, string) {
	if e.RefTarget == ir.NoRule {
		return inf.withLabel(e, types.Any(), e.RefName)
	}
	target := inf.g.Rule(e.RefTarget)
	if target.Extern {
		return inf.withLabel(e, types.Extern(target.TypeName), target.Name)
	}
	if analyze.IsFragment(target) {
		// Fragments should have been inlined away by the transform
		// pipeline (§4.1 pass 6); recurse into the fragment's own body
		// defensively so inference degrades gracefully if it runs against
		// a non-normalized grammar.
		t, _ := inf.infer(target.Expr)
		return inf.withLabel(e, t, target.Name)
	}
	switch analyze.ClassifyPublic(inf.g, target) {
	case analyze.ClassToken:
		return inf.withLabel(e, types.Token(target.Name), target.Name)
	case analyze.ClassVariant:
		return inf.withLabel(e, types.Variant(target.Name), target.Name)
	default:
		return inf.withLabel(e, types.Node(target.Name), target.Name)
	}
}

func (inf *inferer) inferRepeat(e *ir.Expr) (*types.Type, string) {
	if e.Max == 0 {
		return unit(), ""
	}
	childT, childName := inf.infer(e.Child())
	switch {
	case e.Min == 0 && e.Max == 1:
		return inf.withLabel(e, types.MakeOptional(childT), childName)
	case e.Min == 1 && e.Max == 1:
		return inf.withLabel(e, childT, childName)
	default:
		t := types.List(childT, e.Min > 0)
		name := childName
		if name != "" {
			name = pluralize(name)
		}
		return inf.withLabel(e, t, name)
	}
}

type seqItem struct {
	t    *types.Type
	name string
}

func (inf *inferer) inferSeqChildren(children []ir.ExprID) []seqItem {
	var survivors []seqItem
	for _, c := range children {
		t, name := inf.infer(c)
		if isUnit(t) {
			continue
		}
		survivors = append(survivors, seqItem{t, name})
	}
	return survivors
}

func (inf *inferer) inferSeq(e *ir.Expr) (*types.Type, string) {
	survivors := inf.inferSeqChildren(e.Children)
	switch len(survivors) {
	case 0:
		return unit(), ""
	case 1:
		return inf.withLabel(e, survivors[0].t, survivors[0].name)
	default:
		ts := make([]*types.Type, len(survivors))
		names := make([]string, len(survivors))
		for i, s := range survivors {
			ts[i] = s.t
			names[i] = s.name
		}
		return inf.withLabel(e, types.Tuple(ts...), strings.Join(names, "_"))
	}
}

func (inf *inferer) inferChoice(e *ir.Expr) (*types.Type, string) {
	ts := make([]*types.Type, len(e.Children))
	for i, c := range e.Children {
		t, _ := inf.infer(c)
		ts[i] = t
	}
	return inf.withLabel(e, types.Simplify(types.Union(ts...)), inf.nextGenName())
}

// variantMember infers a VariantSpec member from one Choice branch (§4.3):
// a Ref branch contributes (target name, target's type); a Seq branch with
// k field-bearing parts contributes a TupleType over those k types, named
// by the underscored concatenation of their field names.
func (inf *inferer) variantMember(branch ir.ExprID) Member {
	id := branch
	for {
		e := inf.g.Expr(id)
		if e.Kind != ir.KindHide {
			break
		}
		id = e.Child()
	}
	e := inf.g.Expr(id)
	if e.Kind == ir.KindSeq {
		survivors := inf.inferSeqChildren(e.Children)
		ts := make([]*types.Type, len(survivors))
		names := make([]string, len(survivors))
		for i, s := range survivors {
			ts[i] = s.t
			names[i] = s.name
		}
		return Member{Name: strings.Join(names, "_"), Type: types.Tuple(ts...)}
	}
	t, name := inf.infer(id)
	return Member{Name: name, Type: t}
}
