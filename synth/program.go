// Package synth implements the parser synthesizer of spec.md §4.5: for
// every parse rule it emits a Method whose body is a tree of Stmt against
// the abstract stream contract (peek/get/fork/join_to). It never emits Go
// (or any other target language) text directly — that is codegen/gotarget's
// job — so Program is target-independent, mirroring package ir's own
// separation between grammar structure and any one textual notation.
package synth

import "github.com/magelang/magelang/ir"

// Program is the synthesizer's whole output: one Method per non-fragment
// rule (§4.3's Token/Node/Variant specs), plus a Visitor per cyclic
// variant (§4.5's "visitor emission").
type Program struct {
	Methods  []*Method
	Visitors []*Visitor
}

// StmtKind tags the Stmt sum type, one constructor per §4.5 codegen-table
// row plus the leaf/glue constructs needed to thread accept/reject and
// field bindings between them.
type StmtKind int

const (
	// StmtMatchLit consumes Lit's runes one at a time; a mismatch is the
	// reject path, full consumption is the accept path.
	StmtMatchLit StmtKind = iota
	// StmtMatchCharSet peeks one atom and tests it against Ranges.
	StmtMatchCharSet
	// StmtCallRule calls the named rule's own Method; accept iff the
	// result is non-null. Used for Ref to any non-inlined rule (token or
	// parse rule alike — §4.5 treats both the same way once tokens are
	// disabled, which is the mode this synthesizer targets; see
	// DESIGN.md's Open Question decision on token-stream mode).
	StmtCallRule
	// StmtSeq runs Children in order, threading accept/reject
	// right-to-left: the first failing child rejects the whole Seq.
	StmtSeq
	// StmtChoice tries Children in order, each on its own fork; the first
	// to succeed commits via join_to, the rest are abandoned.
	StmtChoice
	// StmtRepeat loops Children[0] (Min forced iterations, then a greedy
	// loop up to Max, Max == -1 for unbounded), each iteration forked.
	StmtRepeat
	// StmtList loops elem, then (sep, elem) pairs (Children[0] = elem,
	// Children[1] = sep), accepting a dangling trailing separator,
	// enforcing MinCount elements.
	StmtList
	// StmtLookahead runs Children[0] on a fork that is never joined;
	// Negated swaps accept/reject.
	StmtLookahead
	// StmtHide runs Children[0] but binds no Field.
	StmtHide
)

// Stmt is one node of a Method's body, a flattened tagged union in the same
// style as ir.Expr and types.Type (only the fields relevant to Kind are
// populated).
type Stmt struct {
	Kind StmtKind

	Lit string

	Ranges          []ir.CharRange
	CaseInsensitive bool
	Invert          bool

	RuleName string

	Children []*Stmt

	Min int
	Max int

	MinCount int

	Negated bool

	// Field is the name the matched value binds to in the owning Method's
	// result construction; empty means the value is consumed but
	// discarded (StmtHide, and any Lit/CharSet matched purely for its
	// side effect of advancing the stream).
	Field string
}

// Method is the synthesized body for one rule.
type Method struct {
	RuleName string

	// IsVariant marks a variant rule: Body is a StmtChoice over the
	// member rules and the method returns the chosen member directly,
	// allocating no node of its own (§4.5: "do not allocate a node").
	IsVariant bool

	// Fields lists, in emission order, the field names Body's Seq/Choice
	// binds — the keyword arguments the final accept constructs the
	// result Node from (§4.5's "Result construction").
	Fields []string

	// VariantMembers names each of Body's top-level Choice branches, in
	// the same order, when IsVariant — carried over directly from the
	// corresponding treespec.VariantSpec.Members so codegen can label
	// each branch's result without re-deriving treespec's naming rules.
	VariantMembers []string

	Body *Stmt
}

// Visitor is a for_each_<Variant> traversal emitted for every variant whose
// type graph is cyclic (§4.5's "Visitor emission"): it recurses into every
// Edge, i.e. every field of every reachable Node/Variant whose type
// contains VariantName.
type Visitor struct {
	VariantName string
	Edges       []VisitorEdge
}

// VisitorEdge names one field to recurse into: Owner is a Node or Variant
// name, Field is the name of one of its fields/members.
type VisitorEdge struct {
	Owner string
	Field string
}
