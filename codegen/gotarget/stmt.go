package gotarget

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/synth"
	"github.com/magelang/magelang/types"
)

// emitter holds the mutable state needed while turning one Method's Stmt
// tree into Go statement text: a counter for the throwaway variable names
// given to Stmts that consume input but bind no Field.
type emitter struct {
	tmp int
}

func (e *emitter) newVar(prefix string) string {
	e.tmp++
	return fmt.Sprintf("%s%d", prefix, e.tmp)
}

// zeroValueExpr is the zero value literal for a Go type string as produced
// by GoType: pointers, slices and interface{} zero to nil; a struct type
// literal or runtime.Punctuated zeroes to its empty composite literal; any
// other name (a Variant interface, an Extern type such as string) zeroes
// through *new(T), which is valid for every type.
func zeroValueExpr(goType string) string {
	if strings.HasPrefix(goType, "*") || strings.HasPrefix(goType, "[]") || goType == "interface{}" {
		return "nil"
	}
	if strings.HasPrefix(goType, "struct{") || strings.HasPrefix(goType, "runtime.Punctuated[") {
		return goType + "{}"
	}
	return "*new(" + goType + ")"
}

func runeLiteral(r rune) string {
	return strconv.QuoteRune(r)
}

// emitMethod writes the Go function for one synth.Method. spec is the
// treespec.Spec the method was synthesized from — it supplies the Field/
// Member types that Stmt itself does not carry (synth.Stmt only models
// control flow, not the type algebra; see DESIGN.md on why the two trees
// are walked in lockstep instead of merged).
func emitMethod(w *strings.Builder, m *synth.Method, result *methodResult) {
	fmt.Fprintf(w, "func (p *Parser) parse%s(s *runtime.CharStream) (%s, bool) {\n", exportName(m.RuleName), result.goType)
	e := &emitter{}

	if m.IsVariant {
		emitVariantBody(w, e, m, result)
		return
	}

	w.WriteString("\tstart := s.Pos()\n")
	if result.isToken {
		w.WriteString("\tmark := s.Mark()\n")
	}
	failTop := fmt.Sprintf("return %s, false", zeroValueExpr(result.goType))
	emitSeq(w, e, m.Body, "s", "\t", failTop, nil, result.fieldTypes)

	w.WriteString("\tend := s.Pos()\n")
	switch {
	case result.isToken:
		fmt.Fprintf(w, "\treturn &%s{BaseToken: runtime.BaseToken{Kind: %q, Text: s.TextFrom(mark), Span: runtime.JoinSpan(start, end)}}, true\n", TokenTypeName(m.RuleName), m.RuleName)
	default:
		fmt.Fprintf(w, "\treturn &%s{BaseNode: runtime.BaseNode{Span: runtime.JoinSpan(start, end)}", NodeTypeName(m.RuleName))
		for _, f := range m.Fields {
			fmt.Fprintf(w, ", %s: %s", exportName(f), f)
		}
		w.WriteString("}, true\n")
	}
	w.WriteString("}\n\n")
}

// methodResult carries what emitMethod needs beyond the Method/Stmt tree
// itself: the function's declared return type and, for a Node rule, each
// top-level field's resolved types.Type (by field name) so nested Tuple
// construction deeper in the tree knows what Go types to declare.
type methodResult struct {
	goType     string
	isToken    bool
	fieldTypes map[string]*types.Type
}

// emitSeq emits m.Body (always a top-level StmtSeq for a non-variant
// method): each child runs in order against stream, a failure anywhere
// executes fail. fieldTypes supplies the known types.Type for the
// top-level field a child contributes, if any, so a deeper Tuple-producing
// Seq nested under a Repeat/Choice branch knows its member types instead
// of falling back to interface{}.
func emitSeq(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string, ty *types.Type, fieldTypes map[string]*types.Type) string {
	var survivors []string
	var survivorTypes []*types.Type
	for i, child := range s.Children {
		childTy := childType(ty, i)
		if fieldTypes != nil && child.Field != "" {
			if t, ok := fieldTypes[child.Field]; ok {
				childTy = t
			}
		}
		v := emitStmt(w, e, child, stream, indent, fail, childTy, fieldTypes)
		if v != "" {
			survivors = append(survivors, v)
			survivorTypes = append(survivorTypes, childTy)
		}
	}
	switch len(survivors) {
	case 0:
		return ""
	case 1:
		if s.Field != "" && s.Field != survivors[0] {
			fmt.Fprintf(w, "%s%s := %s\n", indent, s.Field, survivors[0])
			return s.Field
		}
		return survivors[0]
	default:
		if s.Field == "" {
			return ""
		}
		var parts []string
		var vals []string
		for i, v := range survivors {
			t := "interface{}"
			if i < len(survivorTypes) && survivorTypes[i] != nil {
				t = GoType(survivorTypes[i])
			}
			parts = append(parts, fmt.Sprintf("Item%d %s", i, t))
			vals = append(vals, fmt.Sprintf("Item%d: %s", i, v))
		}
		fmt.Fprintf(w, "%s%s := struct{ %s }{%s}\n", indent, s.Field, strings.Join(parts, "; "), strings.Join(vals, ", "))
		return s.Field
	}
}

// childType picks the Elem type out of ty for position i of a Seq's
// children, used when ty is a Tuple (nested survivor join) built by an
// enclosing Repeat/List/Choice whose element type is already known.
func childType(ty *types.Type, i int) *types.Type {
	if ty == nil {
		return nil
	}
	if ty.Kind == types.KindTuple && i < len(ty.Elems) {
		return ty.Elems[i]
	}
	if i == 0 {
		return ty
	}
	return nil
}

func emitStmt(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string, ty *types.Type, fieldTypes map[string]*types.Type) string {
	switch s.Kind {
	case synth.StmtMatchLit:
		for _, r := range []rune(s.Lit) {
			fmt.Fprintf(w, "%sif %s.Get() != %s {\n%s\t%s\n%s}\n", indent, stream, runeLiteral(r), indent, fail, indent)
		}
		return ""
	case synth.StmtMatchCharSet:
		c := e.newVar("c")
		fmt.Fprintf(w, "%s%s := %s.Peek()\n", indent, c, stream)
		fmt.Fprintf(w, "%sif !runtime.MatchRanges(%s, %s, %t, %t) {\n%s\t%s\n%s}\n",
			indent, c, rangesLiteral(s.Ranges), s.Invert, s.CaseInsensitive, indent, fail, indent)
		fmt.Fprintf(w, "%s%s.Get()\n", indent, stream)
		return ""
	case synth.StmtCallRule:
		declared := s.Field
		if declared == "" {
			declared = "_"
		}
		okVar := e.newVar("ok")
		fmt.Fprintf(w, "%s%s, %s := p.parse%s(%s)\n", indent, declared, okVar, exportName(s.RuleName), stream)
		fmt.Fprintf(w, "%sif !%s {\n%s\t%s\n%s}\n", indent, okVar, indent, fail, indent)
		return s.Field
	case synth.StmtSeq:
		return emitSeq(w, e, s, stream, indent, fail, ty, fieldTypes)
	case synth.StmtChoice:
		return emitChoice(w, e, s, stream, indent, fail, ty, fieldTypes, nil)
	case synth.StmtRepeat:
		return emitRepeat(w, e, s, stream, indent, fail, ty)
	case synth.StmtList:
		return emitList(w, e, s, stream, indent, fail, ty)
	case synth.StmtLookahead:
		return emitLookahead(w, e, s, stream, indent, fail)
	case synth.StmtHide:
		emitStmt(w, e, s.Children[0], stream, indent, fail, nil, fieldTypes)
		return ""
	default:
		return ""
	}
}

func rangesLiteral(ranges []ir.CharRange) string {
	if len(ranges) == 0 {
		return "nil"
	}
	var b strings.Builder
	b.WriteString("[]runtime.Range{")
	for i, r := range ranges {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{Lo: %s, Hi: %s}", runeLiteral(r.Lo), runeLiteral(r.Hi))
	}
	b.WriteString("}")
	return b.String()
}

// emitChoice tries s.Children in order, each on its own fork, committing to
// the first that succeeds — never backtracking into one already tried, the
// same discipline package eval's reference evaluator uses (§4.5/§4.6). wrap,
// when non-nil, transforms branch i's raw value before it becomes the
// closure's return (used by emitVariantBody to wrap each member in its
// generated wrapper type).
func emitChoice(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string, ty *types.Type, fieldTypes map[string]*types.Type, wrap func(i int, val string) string) string {
	return emitChoiceOpt(w, e, s, stream, indent, fail, ty, fieldTypes, wrap, false)
}

// emitChoiceOpt is emitChoice with forceValue: when true, the chosen value
// is always bound to a usable variable and returned even if s.Field is
// empty — emitVariantBody needs the value itself (the method's whole
// return), regardless of whether the Choice happens to have no Field of
// its own (the variant root Choice never does).
func emitChoiceOpt(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string, ty *types.Type, fieldTypes map[string]*types.Type, wrap func(i int, val string) string, forceValue bool) string {
	resultType := "interface{}"
	if ty != nil {
		resultType = GoType(ty)
	}
	declared := s.Field
	if declared == "" {
		if forceValue {
			declared = e.newVar("choice")
		} else {
			declared = "_"
		}
	}
	okVar := e.newVar("ok")
	fmt.Fprintf(w, "%s%s, %s := func() (%s, bool) {\n", indent, declared, okVar, resultType)
	inner := indent + "\t"
	fmt.Fprintf(w, "%sattempts := []func() (%s, bool){\n", inner, resultType)
	for i, branch := range s.Children {
		fmt.Fprintf(w, "%s\tfunc() (%s, bool) {\n", inner, resultType)
		branchIndent := inner + "\t\t"
		fork := e.newVar("fork")
		fmt.Fprintf(w, "%s%s := %s.Fork()\n", branchIndent, fork, stream)
		branchFail := fmt.Sprintf("return %s, false", zeroValueExpr(resultType))
		v := emitStmt(w, e, branch, fork, branchIndent, branchFail, ty, fieldTypes)
		fmt.Fprintf(w, "%s%s.JoinTo(%s)\n", branchIndent, stream, fork)
		if wrap != nil {
			v = wrap(i, v)
		}
		if v == "" {
			v = zeroValueExpr(resultType)
		}
		fmt.Fprintf(w, "%sreturn %s, true\n", branchIndent, v)
		fmt.Fprintf(w, "%s\t},\n", inner)
	}
	fmt.Fprintf(w, "%s}\n", inner)
	fmt.Fprintf(w, "%sfor _, attempt := range attempts {\n", inner)
	fmt.Fprintf(w, "%s\tif v, ok := attempt(); ok {\n%s\t\treturn v, true\n%s\t}\n", inner, inner, inner)
	fmt.Fprintf(w, "%s}\n", inner)
	fmt.Fprintf(w, "%sreturn %s, false\n", inner, zeroValueExpr(resultType))
	fmt.Fprintf(w, "%s}()\n", indent)
	fmt.Fprintf(w, "%sif !%s {\n%s\t%s\n%s}\n", indent, okVar, indent, fail, indent)
	if s.Field == "" && !forceValue {
		return ""
	}
	return declared
}

// emitVariantBody is the variant-rule special case of emitChoice: each
// member wraps its matched value in MemberWrapperName(rule, member) before
// returning, and the method returns the chosen wrapper as the variant
// interface directly — "do not allocate a node" (§4.5).
func emitVariantBody(w *strings.Builder, e *emitter, m *synth.Method, result *methodResult) {
	iface := VariantTypeName(m.RuleName)
	wrap := func(i int, val string) string {
		member := ""
		if i < len(m.VariantMembers) {
			member = m.VariantMembers[i]
		}
		wrapper := MemberWrapperName(m.RuleName, member)
		if val == "" {
			return fmt.Sprintf("&%s{}", wrapper)
		}
		return fmt.Sprintf("&%s{Value: %s}", wrapper, val)
	}
	v := emitChoiceOpt(w, e, m.Body, "s", "\t", "return nil, false", nil, result.fieldTypes, wrap, true)
	fmt.Fprintf(w, "\treturn %s.(%s), true\n}\n\n", v, iface)
}

func emitRepeat(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string, ty *types.Type) string {
	if len(s.Children) == 0 {
		return ""
	}
	child := s.Children[0]
	elemTy := childType(ty, 0)
	if s.Field == "" {
		// Consumed for its side effect only (e.g. whitespace inside a
		// token rule); no slice is built, so a counter enforces Min/Max.
		n := e.newVar("n")
		fmt.Fprintf(w, "%s%s := 0\n", indent, n)
		fmt.Fprintf(w, "%sfor {\n", indent)
		if s.Max > 0 {
			fmt.Fprintf(w, "%s\tif %s >= %d {\n%s\t\tbreak\n%s\t}\n", indent, n, s.Max, indent, indent)
		}
		fmt.Fprintf(w, "%s\tbefore := %s.Pos()\n", indent, stream)
		okVar := emitConsumeOnFork(w, e, child, stream, indent+"\t", elemTy)
		fmt.Fprintf(w, "%s\tif !%s {\n%s\t\tbreak\n%s\t}\n", indent, okVar, indent, indent)
		fmt.Fprintf(w, "%s\t%s++\n", indent, n)
		fmt.Fprintf(w, "%s\tafter := %s.Pos()\n", indent, stream)
		fmt.Fprintf(w, "%s\tif after == before {\n%s\t\tbreak\n%s\t}\n", indent, indent, indent)
		fmt.Fprintf(w, "%s}\n", indent)
		fmt.Fprintf(w, "%sif %s < %d {\n%s\t%s\n%s}\n", indent, n, s.Min, indent, fail, indent)
		return ""
	}

	elemGoType := "interface{}"
	if elemTy != nil {
		elemGoType = GoType(elemTy)
	}
	fmt.Fprintf(w, "%svar %s []%s\n", indent, s.Field, elemGoType)
	fmt.Fprintf(w, "%sfor {\n", indent)
	inner := indent + "\t"
	if s.Max > 0 {
		fmt.Fprintf(w, "%sif len(%s) >= %d {\n%s\tbreak\n%s}\n", inner, s.Field, s.Max, inner, inner)
	}
	fmt.Fprintf(w, "%sbefore := %s.Pos()\n", inner, stream)
	okVar := e.newVar("ok")
	fork := e.newVar("fork")
	fmt.Fprintf(w, "%sv, %s := func() (%s, bool) {\n", inner, okVar, elemGoType)
	branchIndent := inner + "\t"
	fmt.Fprintf(w, "%s%s := %s.Fork()\n", branchIndent, fork, stream)
	branchFail := fmt.Sprintf("return %s, false", zeroValueExpr(elemGoType))
	v := emitStmt(w, e, child, fork, branchIndent, branchFail, elemTy, nil)
	fmt.Fprintf(w, "%s%s.JoinTo(%s)\n", branchIndent, stream, fork)
	if v == "" {
		v = zeroValueExpr(elemGoType)
	}
	fmt.Fprintf(w, "%sreturn %s, true\n", branchIndent, v)
	fmt.Fprintf(w, "%s}()\n", inner)
	fmt.Fprintf(w, "%sif !%s {\n%s\tbreak\n%s}\n", inner, okVar, inner, inner)
	fmt.Fprintf(w, "%s%s = append(%s, v)\n", inner, s.Field, s.Field)
	fmt.Fprintf(w, "%safter := %s.Pos()\n", inner, stream)
	fmt.Fprintf(w, "%sif after == before {\n%s\tbreak\n%s}\n", inner, inner, inner)
	fmt.Fprintf(w, "%s}\n", indent)
	if s.Min > 0 {
		fmt.Fprintf(w, "%sif len(%s) < %d {\n%s\t%s\n%s}\n", indent, s.Field, s.Min, indent, fail, indent)
	}
	return s.Field
}

// emitConsumeOnFork runs child once against a fork of stream, joining back
// on success; returns a non-empty sentinel on success so the caller's
// zero-width/continue check reads naturally, empty string on failure.
func emitConsumeOnFork(w *strings.Builder, e *emitter, child *synth.Stmt, stream, indent string, ty *types.Type) string {
	fork := e.newVar("fork")
	okVar := e.newVar("ok")
	fmt.Fprintf(w, "%s%s := %s.Fork()\n", indent, fork, stream)
	fmt.Fprintf(w, "%s%s := func() bool {\n", indent, okVar)
	branchFail := "return false"
	emitStmt(w, e, child, fork, indent+"\t", branchFail, ty, nil)
	fmt.Fprintf(w, "%s\treturn true\n", indent)
	fmt.Fprintf(w, "%s}()\n", indent)
	fmt.Fprintf(w, "%sif %s {\n%s\t%s.JoinTo(%s)\n%s}\n", indent, okVar, indent, stream, fork, indent)
	return okVar
}

func emitList(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string, ty *types.Type) string {
	elemStmt, sepStmt := s.Children[0], s.Children[1]
	elemTy, sepTy := ty, ty
	if ty != nil && ty.Kind == types.KindPunct {
		elemTy, sepTy = ty.Elem, ty.Sep
	}
	elemGoType := "interface{}"
	if elemTy != nil {
		elemGoType = GoType(elemTy)
	}
	sepGoType := "interface{}"
	if sepTy != nil {
		sepGoType = GoType(sepTy)
	}

	fmt.Fprintf(w, "%svar %s runtime.Punctuated[%s, %s]\n", indent, s.Field, elemGoType, sepGoType)
	okVar := e.newVar("ok")
	cur := e.newVar("cur")
	fmt.Fprintf(w, "%s%s, %s := %s\n", indent, cur, okVar, emitTryValue(e, elemStmt, stream, indent, elemGoType, elemTy))
	fmt.Fprintf(w, "%sif %s {\n", indent, okVar)
	inner := indent + "\t"
	fmt.Fprintf(w, "%sfor {\n", inner)
	loopIndent := inner + "\t"
	sepVar := e.newVar("sep")
	sepOkVar := e.newVar("ok")
	fmt.Fprintf(w, "%s%s, %s := %s\n", loopIndent, sepVar, sepOkVar, emitTryValue(e, sepStmt, stream, loopIndent, sepGoType, sepTy))
	fmt.Fprintf(w, "%sif !%s {\n%s\t%s.Append(%s)\n%s\tbreak\n%s}\n", loopIndent, sepOkVar, loopIndent, s.Field, cur, loopIndent, loopIndent)
	next := e.newVar("next")
	nextOkVar := e.newVar("ok")
	fmt.Fprintf(w, "%s%s, %s := %s\n", loopIndent, next, nextOkVar, emitTryValue(e, elemStmt, stream, loopIndent, elemGoType, elemTy))
	fmt.Fprintf(w, "%sif !%s {\n%s\t%s.AppendPair(%s, %s)\n%s\tbreak\n%s}\n", loopIndent, nextOkVar, loopIndent, s.Field, cur, sepVar, loopIndent, loopIndent)
	fmt.Fprintf(w, "%s%s.AppendPair(%s, %s)\n", loopIndent, s.Field, cur, sepVar)
	fmt.Fprintf(w, "%s%s = %s\n", loopIndent, cur, next)
	fmt.Fprintf(w, "%s}\n", inner)
	fmt.Fprintf(w, "%s}\n", indent)
	if s.MinCount > 0 {
		fmt.Fprintf(w, "%sif %s.Len() < %d {\n%s\t%s\n%s}\n", indent, s.Field, s.MinCount, indent, fail, indent)
	}
	return s.Field
}

// emitTryValue returns the Go text "func() (T, bool) { ... }()" trying stmt
// once on a fork of stream, joining back only on success — an expression,
// not a statement, so emitList's callers can assign its result directly
// with ":=" rather than declaring a separate closure first.
func emitTryValue(e *emitter, stmt *synth.Stmt, stream, indent, goType string, ty *types.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func() (%s, bool) {\n", goType)
	fork := e.newVar("fork")
	fmt.Fprintf(&b, "%s\t%s := %s.Fork()\n", indent, fork, stream)
	branchFail := fmt.Sprintf("return %s, false", zeroValueExpr(goType))
	v := emitStmt(&b, e, stmt, fork, indent+"\t", branchFail, ty, nil)
	fmt.Fprintf(&b, "%s\t%s.JoinTo(%s)\n", indent, stream, fork)
	if v == "" {
		v = zeroValueExpr(goType)
	}
	fmt.Fprintf(&b, "%s\treturn %s, true\n", indent, v)
	fmt.Fprintf(&b, "%s}()", indent)
	return b.String()
}

func emitLookahead(w *strings.Builder, e *emitter, s *synth.Stmt, stream, indent, fail string) string {
	fork := e.newVar("fork")
	fmt.Fprintf(w, "%s%s := %s.Fork()\n", indent, fork, stream)
	okVar := e.newVar("ok")
	fmt.Fprintf(w, "%s%s := func() bool {\n", indent, okVar)
	emitStmt(w, e, s.Children[0], fork, indent+"\t", "return false", nil, nil)
	fmt.Fprintf(w, "%s\treturn true\n%s}()\n", indent, indent)
	cond := okVar
	if s.Negated {
		cond = "!" + okVar
	}
	fmt.Fprintf(w, "%sif !(%s) {\n%s\t%s\n%s}\n", indent, cond, indent, fail, indent)
	return ""
}
