package treespec

import (
	"fmt"

	"github.com/magelang/magelang/analyze"
	"github.com/magelang/magelang/diag"
	"github.com/magelang/magelang/ir"
)

// Build derives a Specs collection from a normalized Grammar (§4.3): every
// non-fragment, non-skip, non-extern rule contributes exactly one Spec.
func Build(g *ir.Grammar) (*Specs, error) {
	specs := NewSpecs()
	var bag diag.Bag

	for _, r := range g.Rules() {
		if r.Extern || r.Skip || analyze.IsFragment(r) {
			continue
		}

		var spec *Spec
		switch analyze.ClassifyPublic(g, r) {
		case analyze.ClassToken:
			spec = &Spec{
				Kind: KindToken,
				Name: r.Name,
				Token: &TokenSpec{
					Name:     r.Name,
					TypeName: r.TypeName,
					IsStatic: analyze.IsStaticTokenRule(g, r),
				},
			}
		case analyze.ClassVariant:
			spec = buildVariantSpec(g, r)
		default:
			spec = buildNodeSpec(g, r)
		}

		if err := specs.Add(spec); err != nil {
			bag.Addf(r.Name, r.Span.Row, r.Span.Col, "%v", err)
		}
	}

	if bag.HasErrors() {
		return nil, &bag
	}
	if v := Validate(specs); v.HasErrors() {
		return nil, v
	}
	return specs, nil
}

func buildVariantSpec(g *ir.Grammar, r *ir.Rule) *Spec {
	inf := newInferer(g)
	root := g.Expr(r.Expr)

	members := make([]Member, len(root.Children))
	for i, branch := range root.Children {
		members[i] = inf.variantMember(branch)
	}
	dedupeMemberNames(members)

	return &Spec{
		Kind:    KindVariant,
		Name:    r.Name,
		Variant: &VariantSpec{Name: r.Name, Members: members},
	}
}

func buildNodeSpec(g *ir.Grammar, r *ir.Rule) *Spec {
	inf := newInferer(g)

	var items []ir.ExprID
	if r.Expr != ir.NoExpr {
		if root := g.Expr(r.Expr); root.Kind == ir.KindSeq {
			items = root.Children
		} else {
			items = []ir.ExprID{r.Expr}
		}
	}

	var fields []Field
	for _, id := range items {
		t, name := inf.infer(id)
		if isUnit(t) {
			continue
		}
		fields = append(fields, Field{Name: name, Type: t, Origin: int(id)})
	}
	dedupeFieldNames(fields)

	return &Spec{
		Kind: KindNode,
		Name: r.Name,
		Node: &NodeSpec{Name: r.Name, Fields: fields},
	}
}

// dedupeFieldNames implements field-name derivation rule (e): duplicates
// within a NodeSpec are disambiguated by appending _2, _3, ....
func dedupeFieldNames(fields []Field) {
	seen := map[string]int{}
	for i := range fields {
		name := fields[i].Name
		seen[name]++
		if seen[name] > 1 {
			fields[i].Name = fmt.Sprintf("%s_%d", name, seen[name])
		}
	}
}

func dedupeMemberNames(members []Member) {
	seen := map[string]int{}
	for i := range members {
		name := members[i].Name
		seen[name]++
		if seen[name] > 1 {
			members[i].Name = fmt.Sprintf("%s_%d", name, seen[name])
		}
	}
}
