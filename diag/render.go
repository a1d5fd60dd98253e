package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
)

// Render writes a human-readable, optionally colorized rendering of every
// diagnostic in b to w. Coloring follows color.NoColor, which fatih/color
// sets from its own check of whether stdout is a terminal and which the
// CLI's --no-color flag forces on.
func (b *Bag) Render(w io.Writer) {
	for _, d := range b.Diagnostics {
		c := errorColor
		if d.Severity == Warning {
			c = warningColor
		}
		if d.Row != 0 {
			fmt.Fprintf(w, "%d:%d: ", d.Row, d.Col)
		}
		c.Fprintf(w, "%s", d.Severity.String())
		io.WriteString(w, ": ")
		io.WriteString(w, stripSeverityPrefix(d))
		io.WriteString(w, "\n")
	}
}

func stripSeverityPrefix(d *Diagnostic) string {
	// Diagnostic.Error renders "row:col: severity: rule: message (seed N)";
	// Render prints row:col and the colored severity token itself, so this
	// rebuilds the remainder after them.
	msg := d.Message
	if d.Seed != 0 {
		msg = msg + fmt.Sprintf(" (seed %d)", d.Seed)
	}
	if d.Rule != "" {
		return d.Rule + ": " + msg
	}
	return msg
}

// Log writes every diagnostic in b as a structured zerolog event carrying
// rule, row, col and, when set, seed. No CLI flag routes diagnostics here.
func (b *Bag) Log(logger zerolog.Logger) {
	for _, d := range b.Diagnostics {
		ev := logger.Error()
		if d.Severity == Warning {
			ev = logger.Warn()
		}
		ev.Str("rule", d.Rule).Int("row", d.Row).Int("col", d.Col)
		if d.Seed != 0 {
			ev.Uint64("seed", d.Seed)
		}
		ev.Msg(d.Message)
	}
}
