package gotarget

import (
	"fmt"
	"strings"

	"github.com/magelang/magelang/treespec"
)

// emitDecls writes the Go type declaration for every Spec: a struct for
// Token and Node, an interface plus one named wrapper struct per member
// for Variant. Every variant member is wrapped in its own generated type
// (rather than attaching a marker method to whatever concrete type the
// member already has) so the same Node or Token type can serve as a member
// of more than one variant without its marker methods colliding, and so
// Tuple/List/Punct/Extern members — which have no type of their own to
// attach a method to — are handled by exactly the same code path as
// Node/Token members.
func emitDecls(w *strings.Builder, specs *treespec.Specs) {
	for _, spec := range specs.All() {
		switch spec.Kind {
		case treespec.KindToken:
			emitTokenDecl(w, spec.Token.Name)
		case treespec.KindNode:
			emitNodeDecl(w, spec.Node)
		case treespec.KindVariant:
			emitVariantDecl(w, spec.Variant)
		}
	}
}

func emitTokenDecl(w *strings.Builder, name string) {
	fmt.Fprintf(w, "type %s struct {\n\truntime.BaseToken\n}\n\n", TokenTypeName(name))
}

func emitNodeDecl(w *strings.Builder, spec *treespec.NodeSpec) {
	fmt.Fprintf(w, "type %s struct {\n\truntime.BaseNode\n", NodeTypeName(spec.Name))
	for _, f := range spec.Fields {
		fmt.Fprintf(w, "\t%s %s\n", exportName(f.Name), GoType(f.Type))
	}
	w.WriteString("}\n\n")
}

// MemberWrapperName is the generated concrete type for one variant member,
// exported so codegen/gotarget's Stmt emitter can construct it from the
// member's underlying matched value.
func MemberWrapperName(variant, member string) string {
	if member == "" {
		member = "Member"
	}
	return VariantTypeName(variant) + exportName(member)
}

func variantMarkerName(variant string) string {
	return "is" + VariantTypeName(variant)
}

func emitVariantDecl(w *strings.Builder, spec *treespec.VariantSpec) {
	iface := VariantTypeName(spec.Name)
	marker := variantMarkerName(spec.Name)
	fmt.Fprintf(w, "type %s interface {\n\t%s()\n}\n\n", iface, marker)
	for _, m := range spec.Members {
		wrapper := MemberWrapperName(spec.Name, m.Name)
		fmt.Fprintf(w, "type %s struct {\n\tValue %s\n}\n\n", wrapper, GoType(m.Type))
		fmt.Fprintf(w, "func (*%s) %s() {}\n\n", wrapper, marker)
	}
}
