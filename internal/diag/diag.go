package diag

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// Severity classifies how a diagnostic affects the compilation outcome.
type Severity int

const (
	// SeverityError marks a problem that makes the AppSpec unusable.
	SeverityError Severity = iota
	// SeverityWarning marks a problem the user should fix but that does not
	// block downstream consumers.
	SeverityWarning
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Stage identifies which compiler stage produced a diagnostic.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageLink
	StageValidate
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageLink:
		return "link"
	case StageValidate:
		return "validate"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Diagnostic is one structured problem report. Diagnostics are plain data:
// stages accumulate them and keep going, they are never panicked or thrown.
type Diagnostic struct {
	Severity Severity
	Stage    Stage

	// Summary is a short, one-line description of the problem.
	Summary string
	// Detail optionally elaborates, including the suggested fix when one is
	// known (e.g. the exact `use` statement to add).
	Detail string

	// Subject is the source region the diagnostic points at. Positions are
	// 1-based, following hcl conventions.
	Subject hcl.Range
}

// Error implements the error interface so a single diagnostic can travel
// through error-shaped plumbing when needed.
func (d *Diagnostic) Error() string {
	if d.Detail != "" {
		return fmt.Sprintf("%s: %s:%d,%d: %s; %s",
			d.Severity, d.Subject.Filename, d.Subject.Start.Line, d.Subject.Start.Column, d.Summary, d.Detail)
	}
	return fmt.Sprintf("%s: %s:%d,%d: %s",
		d.Severity, d.Subject.Filename, d.Subject.Start.Line, d.Subject.Start.Column, d.Summary)
}

// Diagnostics is an accumulating list of diagnostics.
type Diagnostics []*Diagnostic

// Append adds one diagnostic and returns the extended list.
func (ds Diagnostics) Append(d *Diagnostic) Diagnostics {
	return append(ds, d)
}

// Extend concatenates another list and returns the extended list.
func (ds Diagnostics) Extend(other Diagnostics) Diagnostics {
	return append(ds, other...)
}

// HasErrors reports whether at least one diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders diagnostics by file, then line, then column, then summary.
// Stable output makes golden tests and user diffs reliable.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Subject.Filename != b.Subject.Filename {
			return a.Subject.Filename < b.Subject.Filename
		}
		if a.Subject.Start.Line != b.Subject.Start.Line {
			return a.Subject.Start.Line < b.Subject.Start.Line
		}
		if a.Subject.Start.Column != b.Subject.Start.Column {
			return a.Subject.Start.Column < b.Subject.Start.Column
		}
		return a.Summary < b.Summary
	})
}

// ToHCL converts the list into hcl.Diagnostics so it can be rendered by
// hcl's terminal-aware diagnostic writer.
func (ds Diagnostics) ToHCL() hcl.Diagnostics {
	var out hcl.Diagnostics
	for _, d := range ds {
		sev := hcl.DiagError
		if d.Severity == SeverityWarning {
			sev = hcl.DiagWarning
		}
		subject := d.Subject
		out = append(out, &hcl.Diagnostic{
			Severity: sev,
			Summary:  d.Summary,
			Detail:   d.Detail,
			Subject:  &subject,
		})
	}
	return out
}

// RangeAt builds a single-column range at the given 1-based position.
func RangeAt(filename string, line, column int) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: line, Column: column},
		End:      hcl.Pos{Line: line, Column: column + 1},
	}
}
