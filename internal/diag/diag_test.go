package diag

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errAt(file string, line, col int, summary string) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Stage:    StageParse,
		Summary:  summary,
		Subject:  RangeAt(file, line, col),
	}
}

func TestDiagnostics_Accumulation(t *testing.T) {
	var ds Diagnostics
	assert.False(t, ds.HasErrors())

	ds = ds.Append(&Diagnostic{Severity: SeverityWarning, Summary: "w"})
	assert.False(t, ds.HasErrors())

	ds = ds.Extend(Diagnostics{errAt("a.dzl", 1, 1, "e")})
	assert.True(t, ds.HasErrors())
	assert.Len(t, ds.Errors(), 1)
	assert.Len(t, ds.Warnings(), 1)
}

func TestDiagnostics_Sort(t *testing.T) {
	ds := Diagnostics{
		errAt("b.dzl", 1, 1, "second file"),
		errAt("a.dzl", 3, 1, "later line"),
		errAt("a.dzl", 1, 5, "later column"),
		errAt("a.dzl", 1, 1, "b summary"),
		errAt("a.dzl", 1, 1, "a summary"),
	}
	ds.Sort()

	got := make([]string, len(ds))
	for i, d := range ds {
		got[i] = d.Summary
	}
	assert.Equal(t, []string{"a summary", "b summary", "later column", "later line", "second file"}, got)
}

func TestDiagnostic_Error(t *testing.T) {
	d := errAt("main.dzl", 3, 7, "something broke")
	assert.Equal(t, "error: main.dzl:3,7: something broke", d.Error())

	d.Detail = "try this instead"
	assert.Equal(t, "error: main.dzl:3,7: something broke; try this instead", d.Error())
}

func TestDiagnostics_ToHCL(t *testing.T) {
	ds := Diagnostics{
		errAt("a.dzl", 1, 1, "boom"),
		{Severity: SeverityWarning, Summary: "meh", Subject: RangeAt("a.dzl", 2, 1)},
	}

	converted := ds.ToHCL()
	require.Len(t, converted, 2)
	assert.Equal(t, hcl.DiagError, converted[0].Severity)
	assert.Equal(t, "boom", converted[0].Summary)
	assert.Equal(t, hcl.DiagWarning, converted[1].Severity)
	require.NotNil(t, converted[1].Subject)
	assert.Equal(t, 2, converted[1].Subject.Start.Line)
}

func TestRangeAt(t *testing.T) {
	r := RangeAt("main.dzl", 4, 9)
	assert.Equal(t, "main.dzl", r.Filename)
	assert.Equal(t, hcl.Pos{Line: 4, Column: 9}, r.Start)
	assert.Equal(t, hcl.Pos{Line: 4, Column: 10}, r.End)
}

func TestDiagnostic_Snippet(t *testing.T) {
	src := "entity Client:\n    vat_rate: decimal(5)\n    name: str(120)\n"

	t.Run("caret under the subject with context lines", func(t *testing.T) {
		d := errAt("main.dzl", 2, 15, "bad decimal")
		got := d.Snippet(src)
		assert.Equal(t,
			"   1 | entity Client:\n"+
				"   2 |     vat_rate: decimal(5)\n"+
				"     |               ^\n"+
				"   3 |     name: str(120)\n", got)
	})

	t.Run("out of range positions are clamped", func(t *testing.T) {
		d := errAt("main.dzl", 99, 0, "past the end")
		assert.NotEmpty(t, d.Snippet(src))
		d = errAt("main.dzl", 0, 0, "before the start")
		assert.NotEmpty(t, d.Snippet(src))
	})
}
