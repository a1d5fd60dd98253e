// Package gotarget is the Go pretty-printer plugin spec.md §1 marks
// out-of-scope in the abstract but SPEC_FULL.md §5.5 commits to as a
// concrete instance: it turns a synth.Program into compilable Go source.
// Grounded in the teacher's driver/template.go, which assembles generated
// parser source the same two-step way — build source as text (there: via
// text/template against an embedded skeleton; here: via this package's own
// per-Stmt text emitter), then go/parser.ParseFile it back into an *ast.File
// so the result can be normalized with go/format.Node and have its package
// name/imports adjusted with golang.org/x/tools/go/ast/astutil — rather than
// constructing every statement node-by-node through go/ast's constructors.
package gotarget

import (
	"fmt"
	"strings"

	"github.com/magelang/magelang/types"
)

// exportName title-cases name's first rune so a grammar rule like
// "ident" names the exported Go type IdentNode.
func exportName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

func NodeTypeName(rule string) string    { return exportName(rule) + "Node" }
func TokenTypeName(rule string) string   { return exportName(rule) + "Token" }
func VariantTypeName(rule string) string { return exportName(rule) }

// GoType maps a types.Type to the Go type its value is represented as in
// generated code. Node/Token become pointers to their generated struct,
// Variant an interface, Extern the caller-supplied Go type name verbatim,
// List a slice, Punct a runtime.Punctuated, Tuple an anonymous struct, and
// a general Union (one not reducible to "T or absent") falls back to
// interface{} — the one deliberate simplification this plugin makes,
// recorded in DESIGN.md rather than silently producing something that
// looks precise but isn't.
func GoType(t *types.Type) string {
	if t == nil {
		return "interface{}"
	}
	switch t.Kind {
	case types.KindExtern:
		return t.Name
	case types.KindNode:
		return "*" + NodeTypeName(t.Name)
	case types.KindToken:
		return "*" + TokenTypeName(t.Name)
	case types.KindVariant:
		return VariantTypeName(t.Name)
	case types.KindTuple:
		return tupleGoType(t)
	case types.KindList:
		return "[]" + GoType(t.Elem)
	case types.KindPunct:
		return fmt.Sprintf("runtime.Punctuated[%s, %s]", GoType(t.Elem), GoType(t.Sep))
	case types.KindUnion:
		return unionGoType(t)
	case types.KindNone:
		return "struct{}"
	case types.KindNever:
		// Unreachable at runtime by construction; still needs a Go type
		// to keep generated signatures uniform.
		return "struct{}"
	case types.KindAny:
		return "interface{}"
	default:
		return "interface{}"
	}
}

func tupleGoType(t *types.Type) string {
	if len(t.Elems) == 0 {
		return "struct{}"
	}
	var b strings.Builder
	b.WriteString("struct{ ")
	for i, e := range t.Elems {
		fmt.Fprintf(&b, "Item%d %s; ", i, GoType(e))
	}
	b.WriteString("}")
	return b.String()
}

// unionGoType special-cases the single shape the synthesizer actually
// needs: T made optional is Union(T, None) (types.MakeOptional). A T whose
// own Go representation is already nilable (pointer, interface, slice,
// map) is used as-is — nil doubles as "absent" — otherwise it is wrapped
// in a pointer. Any richer Union (more than one non-None member) is left
// as interface{}.
func unionGoType(t *types.Type) string {
	var rest []*types.Type
	hasNone := false
	for _, e := range t.Elems {
		if e.Kind == types.KindNone {
			hasNone = true
			continue
		}
		rest = append(rest, e)
	}
	if hasNone && len(rest) == 1 {
		inner := rest[0]
		goType := GoType(inner)
		if isNilable(inner) {
			return goType
		}
		return "*" + goType
	}
	return "interface{}"
}

func isNilable(t *types.Type) bool {
	switch t.Kind {
	case types.KindNode, types.KindToken, types.KindVariant, types.KindList, types.KindAny:
		return true
	default:
		return false
	}
}
