package synth

import (
	"github.com/magelang/magelang/treespec"
	"github.com/magelang/magelang/types"
)

// BuildVisitors emits one Visitor per variant whose type graph is cyclic
// (§4.5: "For every variant whose underlying type graph is cyclic, emit a
// for_each_<variant> traversal that recursively descends into every field
// whose type contains the variant's type"). Grounded directly in
// types.IsCyclic/types.Contains, which already implement exactly this
// reachability check for the type algebra (§4.4); BuildVisitors is the
// thin layer translating "which owners/fields contain name" into the
// Visitor/VisitorEdge shape codegen/gotarget turns into a Go function.
func BuildVisitors(specs *treespec.Specs) []*Visitor {
	var visitors []*Visitor
	for _, spec := range specs.All() {
		if spec.Kind != treespec.KindVariant {
			continue
		}
		if !types.IsCyclic(spec.Name, specs) {
			continue
		}
		visitors = append(visitors, &Visitor{
			VariantName: spec.Name,
			Edges:       collectEdges(spec.Name, specs),
		})
	}
	return visitors
}

// collectEdges scans every Node and Variant spec for fields/members whose
// type contains name, producing one VisitorEdge per match. Owners and
// fields are visited in Specs' insertion order, so Visitor.Edges is
// deterministic across runs for the same grammar.
func collectEdges(name string, specs *treespec.Specs) []VisitorEdge {
	var edges []VisitorEdge
	for _, spec := range specs.All() {
		switch spec.Kind {
		case treespec.KindNode:
			for _, f := range spec.Node.Fields {
				if types.Contains(f.Type, name, specs) {
					edges = append(edges, VisitorEdge{Owner: spec.Name, Field: f.Name})
				}
			}
		case treespec.KindVariant:
			for _, m := range spec.Variant.Members {
				if types.Contains(m.Type, name, specs) {
					edges = append(edges, VisitorEdge{Owner: spec.Name, Field: m.Name})
				}
			}
		}
	}
	return edges
}
