package linker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazzle-lang/dazzle/internal/ast"
	"github.com/dazzle-lang/dazzle/internal/diag"
	"github.com/dazzle-lang/dazzle/internal/lexer"
	"github.com/dazzle-lang/dazzle/internal/linker"
	"github.com/dazzle-lang/dazzle/internal/parser"
)

// parseModule is a test helper producing one parsed module from source.
func parseModule(t *testing.T, name, src string) *ast.Module {
	t.Helper()
	tokens, lexDiags := lexer.Scan(src, name+".dzl")
	require.False(t, lexDiags.HasErrors(), "lexing failed: %v", lexDiags)
	mod, parseDiags := parser.ParseModule(tokens, name, name+".dzl")
	require.False(t, parseDiags.HasErrors(), "parsing failed: %v", parseDiags)
	return mod
}

// summaries extracts diagnostic summaries for compact contains-asserts.
func summaries(diags diag.Diagnostics) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Summary
	}
	return out
}

func TestLink_SingleModuleProject(t *testing.T) {
	main := parseModule(t, "main", `app vat_tools "VAT Tools"
entity Client:
    id: uuid pk
    name: str(120) required
surface client_list:
    entity Client
    mode list
`)

	app, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)
	require.NotNil(t, app)

	assert.Equal(t, "vat_tools", app.Name)
	assert.Equal(t, "VAT Tools", app.Title)
	assert.Equal(t, linker.SpecVersion, app.Version)
	require.Len(t, app.Domain.Entities, 1)
	require.Len(t, app.Surfaces, 1)
	assert.Equal(t, "Client", app.Surfaces[0].Entity)
	assert.Equal(t, "main", app.Domain.Entities[0].Module)
}

func TestLink_ExplicitImportEnforcement(t *testing.T) {
	libSrc := `entity Client:
    id: uuid pk
`
	rootSrc := `app shop "Shop"
entity Order:
    id: uuid pk
    client: ref Client
`

	// Without `use clients` the reference must fail even though the name is
	// unique project-wide, and the error names the statement to add.
	lib := parseModule(t, "clients", libSrc)
	root := parseModule(t, "main", rootSrc)
	app, diags := linker.Link([]*ast.Module{lib, root}, "main", linker.Options{})
	require.Nil(t, app)
	require.True(t, diags.HasErrors())

	errs := diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "entity 'Client' is declared in module 'clients' but not imported here", errs[0].Summary)
	assert.Equal(t, "add: use clients", errs[0].Detail)

	// Adding the suggested import makes the same project link cleanly.
	lib = parseModule(t, "clients", libSrc)
	root = parseModule(t, "main", "use clients\n"+rootSrc)
	app, diags = linker.Link([]*ast.Module{lib, root}, "main", linker.Options{})
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)
	require.NotNil(t, app)
	require.Len(t, app.Domain.Entities, 2)
	assert.Empty(t, diags)
}

func TestLink_CycleDetection(t *testing.T) {
	x := parseModule(t, "x", `app cyclic "Cyclic"
use y
`)
	y := parseModule(t, "y", "use z\n")
	z := parseModule(t, "z", "use x\n")

	app, diags := linker.Link([]*ast.Module{x, y, z}, "x", linker.Options{})
	require.Nil(t, app)
	require.True(t, diags.HasErrors())
	assert.Contains(t, summaries(diags.Errors()), "circular module dependency: x -> y -> z -> x")
}

func TestLink_DuplicateDefinitionNamesBothSites(t *testing.T) {
	main := parseModule(t, "main", `app dup "Dup"
entity Client:
    id: uuid pk
surface Client:
    entity Client
    mode list
`)

	app, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
	require.Nil(t, app)

	errs := diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "duplicate definition of 'Client' in module 'main'", errs[0].Summary)
	assert.Contains(t, errs[0].Detail, "declared as entity at main.dzl:2")
	assert.Contains(t, errs[0].Detail, "redeclared as surface at main.dzl:4")
}

func TestLink_RootModuleRules(t *testing.T) {
	t.Run("missing root module", func(t *testing.T) {
		other := parseModule(t, "other", "entity E:\n    id: uuid pk\n")
		app, diags := linker.Link([]*ast.Module{other}, "main", linker.Options{})
		require.Nil(t, app)
		assert.Contains(t, summaries(diags.Errors()), "root module 'main' was not supplied")
	})

	t.Run("root without app header", func(t *testing.T) {
		main := parseModule(t, "main", "entity E:\n    id: uuid pk\n")
		app, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
		require.Nil(t, app)
		assert.Contains(t, summaries(diags.Errors()), "root module 'main' is missing its 'app' header")
	})

	t.Run("app header outside the root", func(t *testing.T) {
		main := parseModule(t, "main", `app a "A"
`)
		extra := parseModule(t, "extra", `app b "B"
`)
		app, diags := linker.Link([]*ast.Module{main, extra}, "main", linker.Options{})
		require.Nil(t, app)
		assert.Contains(t, summaries(diags.Errors()),
			"module 'extra' declares an 'app' header but is not the root module")
	})
}

func TestLink_UseRules(t *testing.T) {
	t.Run("self use", func(t *testing.T) {
		main := parseModule(t, "main", `app a "A"
use main
`)
		_, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
		assert.Contains(t, summaries(diags.Errors()), "module 'main' must not use itself")
	})

	t.Run("use of undeclared module", func(t *testing.T) {
		main := parseModule(t, "main", `app a "A"
use ghosts
`)
		_, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
		assert.Contains(t, summaries(diags.Errors()), "use of undeclared module 'ghosts'")
	})

	t.Run("duplicate module name", func(t *testing.T) {
		first := parseModule(t, "main", `app a "A"
`)
		second := parseModule(t, "main", "entity E:\n    id: uuid pk\n")
		_, diags := linker.Link([]*ast.Module{first, second}, "main", linker.Options{})
		assert.Contains(t, summaries(diags.Errors()), "module 'main' is declared twice")
	})
}

func TestLink_KindMismatch(t *testing.T) {
	main := parseModule(t, "main", `app a "A"
entity Client:
    id: uuid pk
surface broken:
    entity client_list
    mode list
surface client_list:
    entity Client
    mode list
`)

	_, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
	require.True(t, diags.HasErrors())
	errs := diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "'client_list' is not a entity", errs[0].Summary)
	assert.Contains(t, errs[0].Detail, "declared as surface in module 'main'")
}

func TestLink_UnresolvedReference(t *testing.T) {
	main := parseModule(t, "main", `app a "A"
entity Order:
    id: uuid pk
    client: ref Client
`)
	_, diags := linker.Link([]*ast.Module{main}, "main", linker.Options{})
	assert.Contains(t, summaries(diags.Errors()), "unresolved reference to entity 'Client'")
}

func TestLink_CrossModuleCollisionsAreQualified(t *testing.T) {
	a := parseModule(t, "a", "entity Client:\n    id: uuid pk\n")
	b := parseModule(t, "b", "entity Client:\n    id: uuid pk\n")
	main := parseModule(t, "main", `app multi "Multi"
`)

	app, diags := linker.Link([]*ast.Module{a, b, main}, "main", linker.Options{})
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)
	require.NotNil(t, app)

	names := make([]string, 0, len(app.Domain.Entities))
	for _, e := range app.Domain.Entities {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.Client", "b.Client"}, names)
}

func TestLink_AmbiguousReference(t *testing.T) {
	a := parseModule(t, "a", "entity Client:\n    id: uuid pk\n")
	b := parseModule(t, "b", "entity Client:\n    id: uuid pk\n")
	main := parseModule(t, "main", `app multi "Multi"
use a
use b
surface client_list:
    entity Client
    mode list
`)

	app, diags := linker.Link([]*ast.Module{a, b, main}, "main", linker.Options{})
	require.Nil(t, app)
	assert.Contains(t, summaries(diags.Errors()), "reference to entity 'Client' is ambiguous here")
}

func TestLink_UnusedImport(t *testing.T) {
	build := func() []*ast.Module {
		lib := parseModule(t, "lib", "entity E:\n    id: uuid pk\n")
		main := parseModule(t, "main", `app a "A"
use lib
`)
		return []*ast.Module{lib, main}
	}

	t.Run("strict mode warns", func(t *testing.T) {
		app, diags := linker.Link(build(), "main", linker.Options{Strict: true})
		require.NotNil(t, app)
		require.Len(t, diags.Warnings(), 1)
		assert.Equal(t, "module 'lib' is imported but never referenced", diags.Warnings()[0].Summary)
	})

	t.Run("lenient mode stays quiet", func(t *testing.T) {
		app, diags := linker.Link(build(), "main", linker.Options{})
		require.NotNil(t, app)
		assert.Empty(t, diags)
	})
}

func TestLink_Idempotent(t *testing.T) {
	build := func() []*ast.Module {
		lib := parseModule(t, "clients", `entity Client:
    id: uuid pk
    name: str(120) required
`)
		main := parseModule(t, "main", `app shop "Shop"
use clients
entity Order:
    id: uuid pk
    client: ref Client
surface order_list:
    entity Order
    mode list
`)
		return []*ast.Module{lib, main}
	}

	first, firstDiags := linker.Link(build(), "main", linker.Options{})
	second, secondDiags := linker.Link(build(), "main", linker.Options{})
	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, firstDiags, secondDiags)
}
