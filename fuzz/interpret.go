package fuzz

import (
	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/runtime"
	"github.com/magelang/magelang/synth"
)

// Interpret runs prog's Method for ruleName directly against text,
// mirroring exactly the fork/join_to/accept-reject discipline
// codegen/gotarget compiles into Go source, without this process having to
// compile and load that generated text (there is no `go build` available
// to a running fuzz loop here — see DESIGN.md). It stands in for
// fuzz_grammar's "invoke the synthesized parser" half: same Stmt tree,
// same control-flow discipline as the emitted code, executed directly
// instead of through compiled Go. ok is false only when ruleName names no
// method in prog.
func Interpret(prog *synth.Program, ruleName, text string) (accept bool, ok bool) {
	if methodNamed(prog, ruleName) == nil {
		return false, false
	}
	s := runtime.NewCharStream(text)
	in := &interpreter{prog: prog}
	matched := in.call(ruleName, s)
	return matched && s.AtEOF(), true
}

func methodNamed(prog *synth.Program, name string) *synth.Method {
	for _, m := range prog.Methods {
		if m.RuleName == name {
			return m
		}
	}
	return nil
}

type interpreter struct {
	prog *synth.Program
}

func (in *interpreter) call(name string, s *runtime.CharStream) bool {
	m := methodNamed(in.prog, name)
	if m == nil {
		return false
	}
	return in.run(m.Body, s)
}

// tryOnFork runs st on a fork of s, joining back only on success — the same
// discipline every emit* helper in codegen/gotarget/stmt.go uses.
func (in *interpreter) tryOnFork(st *synth.Stmt, s *runtime.CharStream) bool {
	fork := s.Fork()
	if !in.run(st, fork) {
		return false
	}
	s.JoinTo(fork)
	return true
}

func (in *interpreter) run(st *synth.Stmt, s *runtime.CharStream) bool {
	switch st.Kind {
	case synth.StmtMatchLit:
		for _, r := range []rune(st.Lit) {
			if s.Get() != r {
				return false
			}
		}
		return true
	case synth.StmtMatchCharSet:
		c := s.Peek()
		if !runtime.MatchRanges(c, toRuntimeRanges(st.Ranges), st.Invert, st.CaseInsensitive) {
			return false
		}
		s.Get()
		return true
	case synth.StmtCallRule:
		return in.call(st.RuleName, s)
	case synth.StmtSeq:
		for _, c := range st.Children {
			if !in.run(c, s) {
				return false
			}
		}
		return true
	case synth.StmtChoice:
		for _, branch := range st.Children {
			if in.tryOnFork(branch, s) {
				return true
			}
		}
		return false
	case synth.StmtRepeat:
		return in.runRepeat(st, s)
	case synth.StmtList:
		return in.runList(st, s)
	case synth.StmtLookahead:
		fork := s.Fork()
		matched := in.run(st.Children[0], fork)
		if st.Negated {
			return !matched
		}
		return matched
	case synth.StmtHide:
		return in.run(st.Children[0], s)
	default:
		return false
	}
}

func (in *interpreter) runRepeat(st *synth.Stmt, s *runtime.CharStream) bool {
	if len(st.Children) == 0 {
		// compileRepeat's e.Max == 0 special case: matches zero repetitions
		// unconditionally, consuming nothing.
		return true
	}
	child := st.Children[0]
	count := 0
	for st.Max < 0 || count < st.Max {
		before := s.Pos()
		if !in.tryOnFork(child, s) {
			break
		}
		count++
		if s.Pos() == before {
			break
		}
	}
	return count >= st.Min
}

func (in *interpreter) runList(st *synth.Stmt, s *runtime.CharStream) bool {
	elem, sep := st.Children[0], st.Children[1]
	if !in.tryOnFork(elem, s) {
		return st.MinCount <= 0
	}
	count := 1
	for {
		if !in.tryOnFork(sep, s) {
			break
		}
		if !in.tryOnFork(elem, s) {
			break
		}
		count++
	}
	return count >= st.MinCount
}

func toRuntimeRanges(ranges []ir.CharRange) []runtime.Range {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]runtime.Range, len(ranges))
	for i, r := range ranges {
		out[i] = runtime.Range{Lo: r.Lo, Hi: r.Hi}
	}
	return out
}
