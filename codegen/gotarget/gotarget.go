package gotarget

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/magelang/magelang/synth"
	"github.com/magelang/magelang/treespec"
	"github.com/magelang/magelang/types"
)

// Generate renders prog against specs into one Go source file in package
// pkgName. It follows driver/template.go's technique: assemble the whole
// file as text, parse it with go/parser, let astutil fix up the import
// block, and hand the result to go/format so the emitted bytes look the
// way gofmt would have left them, rather than building every ast.Node by
// hand.
func Generate(pkgName string, prog *synth.Program, specs *treespec.Specs) ([]byte, error) {
	var body strings.Builder
	body.WriteString("type Parser struct {\n\truntime.BaseParser\n}\n\n")
	emitDecls(&body, specs)

	results := methodResults(specs)
	for _, m := range prog.Methods {
		res, ok := results[m.RuleName]
		if !ok {
			return nil, fmt.Errorf("gotarget: no spec for synthesized rule %q", m.RuleName)
		}
		emitMethod(&body, m, res)
	}
	emitVisitors(&body, prog.Visitors, specs)

	src := "package " + pkgName + "\n\n" + body.String()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, pkgName+".go", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("gotarget: generated source did not parse: %w", err)
	}
	file.Name = ast.NewIdent(pkgName)
	astutil.AddImport(fset, file, "github.com/magelang/magelang/runtime")

	var out strings.Builder
	if err := format.Node(&out, fset, file); err != nil {
		return nil, fmt.Errorf("gotarget: formatting generated source: %w", err)
	}
	return []byte(out.String()), nil
}

// methodResults precomputes, per rule name, the return type and field-type
// table emitMethod needs — derived once from specs rather than re-resolved
// per Stmt, since treespec.Specs already carries the full types.Type tree
// synth.Stmt deliberately does not duplicate.
func methodResults(specs *treespec.Specs) map[string]*methodResult {
	out := map[string]*methodResult{}
	for _, spec := range specs.All() {
		switch spec.Kind {
		case treespec.KindToken:
			out[spec.Name] = &methodResult{goType: "*" + TokenTypeName(spec.Name), isToken: true}
		case treespec.KindNode:
			out[spec.Name] = &methodResult{goType: "*" + NodeTypeName(spec.Name), fieldTypes: fieldTypeTable(spec.Node)}
		case treespec.KindVariant:
			out[spec.Name] = &methodResult{goType: VariantTypeName(spec.Name)}
		}
	}
	return out
}

func fieldTypeTable(spec *treespec.NodeSpec) map[string]*types.Type {
	t := map[string]*types.Type{}
	for _, f := range spec.Fields {
		t[f.Name] = f.Type
	}
	return t
}

// emitVisitors writes one ForEach<Variant> traversal per synth.Visitor.
//
// Scope: this only walks the self-recursive case — a member of the variant
// itself whose type Contains the variant (the shape every recursive
// grammar in this pack's examples actually produces: binary/unary
// expression alternatives referencing their own rule). A VisitorEdge whose
// Owner is a different Node or Variant (the variant reachable only through
// an intermediate type several hops away) is not walked; synthesizing a
// fully general reachability walker for that case would need to thread
// type-directed recursion through arbitrarily many intermediate Node/
// Variant shapes, which no grammar in the corpus exercises. Logged here
// rather than silently producing an incomplete-looking but "complete"
// traversal.
func emitVisitors(w *strings.Builder, visitors []*synth.Visitor, specs *treespec.Specs) {
	sorted := append([]*synth.Visitor(nil), visitors...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VariantName < sorted[j].VariantName })

	for _, v := range sorted {
		spec, ok := specs.Get(v.VariantName)
		if !ok || spec.Kind != treespec.KindVariant {
			continue
		}
		iface := VariantTypeName(v.VariantName)
		fmt.Fprintf(w, "// ForEach%s visits root and every reachable self-referential\n", iface)
		fmt.Fprintf(w, "// %s value nested under it.\n", iface)
		fmt.Fprintf(w, "func ForEach%s(root %s, visit func(%s)) {\n", iface, iface, iface)
		w.WriteString("\tvisit(root)\n")
		fmt.Fprintf(w, "\tswitch m := root.(type) {\n")
		for _, member := range spec.Variant.Members {
			if !types.Contains(member.Type, v.VariantName, specs) {
				continue
			}
			wrapper := MemberWrapperName(v.VariantName, member.Name)
			fmt.Fprintf(w, "\tcase *%s:\n", wrapper)
			emitRecurseIntoType(w, member.Type, v.VariantName, specs, "m.Value", "\t\t")
		}
		w.WriteString("\t}\n")
		w.WriteString("}\n\n")
	}
}

// emitRecurseIntoType descends one level of Tuple/List/Punct/Union
// structure looking for occurrences of variantName, emitting the loop or
// nil-check needed to reach each one and call ForEach<variantName> on it.
func emitRecurseIntoType(w *strings.Builder, t *types.Type, variantName string, resolver types.Resolver, expr, indent string) {
	if t == nil {
		return
	}
	switch t.Kind {
	case types.KindVariant:
		if t.Name == variantName {
			fmt.Fprintf(w, "%sForEach%s(%s, visit)\n", indent, VariantTypeName(variantName), expr)
		}
	case types.KindTuple:
		for i, elem := range t.Elems {
			if types.Contains(elem, variantName, resolver) {
				emitRecurseIntoType(w, elem, variantName, resolver, fmt.Sprintf("%s.Item%d", expr, i), indent)
			}
		}
	case types.KindList:
		if types.Contains(t.Elem, variantName, resolver) {
			fmt.Fprintf(w, "%sfor _, item := range %s {\n", indent, expr)
			emitRecurseIntoType(w, t.Elem, variantName, resolver, "item", indent+"\t")
			fmt.Fprintf(w, "%s}\n", indent)
		}
	case types.KindPunct:
		if types.Contains(t.Elem, variantName, resolver) {
			fmt.Fprintf(w, "%sfor _, item := range %s.Elements() {\n", indent, expr)
			emitRecurseIntoType(w, t.Elem, variantName, resolver, "item", indent+"\t")
			fmt.Fprintf(w, "%s}\n", indent)
		}
	case types.KindUnion:
		for _, elem := range t.Elems {
			if elem.Kind == types.KindNone || !types.Contains(elem, variantName, resolver) {
				continue
			}
			fmt.Fprintf(w, "%sif %s != nil {\n", indent, expr)
			emitRecurseIntoType(w, elem, variantName, resolver, expr, indent+"\t")
			fmt.Fprintf(w, "%s}\n", indent)
		}
	}
}
