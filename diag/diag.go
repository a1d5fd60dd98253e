// Package diag collects positioned diagnostics produced while compiling a
// grammar: grammar errors, inference errors, and codegen invariant
// violations (spec.md §7). It never panics on a user-facing error; panics
// are reserved for implementation bugs (codegen invariant violations that
// cannot be expressed as a diagnostic because no rule/Expr context exists).
package diag

import (
	"fmt"
	"strings"
)

// Severity distinguishes fatal grammar/inference errors from non-fatal
// findings such as fuzzer disagreements.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one positioned error or warning. Row 0 means "no position".
type Diagnostic struct {
	Severity Severity
	Rule     string
	Message  string
	Row      int
	Col      int
	// Seed, when non-zero, reproduces the failure that produced this
	// diagnostic (fuzzer disagreements carry the seed that generated them).
	Seed uint64
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Row != 0 {
		fmt.Fprintf(&b, "%d:%d: ", d.Row, d.Col)
	}
	fmt.Fprintf(&b, "%s: ", d.Severity)
	if d.Rule != "" {
		fmt.Fprintf(&b, "%s: ", d.Rule)
	}
	b.WriteString(d.Message)
	if d.Seed != 0 {
		fmt.Fprintf(&b, " (seed %d)", d.Seed)
	}
	return b.String()
}

// New builds an Error-severity diagnostic naming a rule.
func New(rule string, row, col int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Row:      row,
		Col:      col,
	}
}

// Warningf builds a Warning-severity diagnostic.
func Warningf(rule string, row, col int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: Warning,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Row:      row,
		Col:      col,
	}
}

// Bag aggregates diagnostics and implements error so a pipeline stage can
// return a single value. A Bag with no Error-severity entries is still
// considered non-fatal by HasErrors.
type Bag struct {
	Diagnostics []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) {
	b.Diagnostics = append(b.Diagnostics, d)
}

func (b *Bag) Addf(rule string, row, col int, format string, args ...interface{}) {
	b.Add(New(rule, row, col, format, args...))
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.Diagnostics)
}

func (b *Bag) Error() string {
	lines := make([]string, len(b.Diagnostics))
	for i, d := range b.Diagnostics {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// AsBag returns nil if b has no diagnostics, otherwise b itself, so callers
// can write `return diags.AsBag()` and get a nil error interface on the
// empty-diagnostics path.
func (b *Bag) AsBag() error {
	if b == nil || len(b.Diagnostics) == 0 {
		return nil
	}
	return b
}
