package diag

import (
	"fmt"
	"strings"
)

// Snippet renders a caret-annotated excerpt of src for the diagnostic,
// showing up to one line of context on each side:
//
//	2 | entity Client:
//	3 |     vat_rate: decimal(5)
//	  |               ^
//	4 |     name: str(120)
//
// Out-of-range positions are clamped so rendering never fails.
func (d *Diagnostic) Snippet(src string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}

	line := d.Subject.Start.Line
	col := d.Subject.Start.Column
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
