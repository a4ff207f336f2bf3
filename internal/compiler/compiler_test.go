package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazzle-lang/dazzle/internal/compiler"
	"github.com/dazzle-lang/dazzle/internal/diag"
	"github.com/dazzle-lang/dazzle/internal/source"
)

func input(root string, mods ...source.Module) source.Input {
	return source.Input{Modules: mods, Root: root}
}

func mod(name, src string) source.Module {
	return source.Module{Name: name, Filename: name + ".dzl", Src: src}
}

func TestCompile_CleanProject(t *testing.T) {
	in := input("main",
		mod("clients", `entity Client:
    id: uuid pk
    name: str(120) required
`),
		mod("main", `app shop "Shop"
use clients
entity Order:
    id: uuid pk
    client: ref Client
surface order_list:
    entity Order
    mode list
surface order_view:
    entity Order
    mode view
experience checkout:
    start pick
    step pick surface order_list:
        on success -> confirm
    step confirm surface order_view
`),
	)

	result := compiler.Compile(context.Background(), in, compiler.Options{})
	require.NotNil(t, result.App, "diagnostics: %v", result.Diags)
	assert.Empty(t, result.Diags)

	assert.Equal(t, "shop", result.App.Name)
	assert.Len(t, result.App.Domain.Entities, 2)
	assert.Len(t, result.App.Surfaces, 2)
	assert.Len(t, result.App.Experiences, 1)
}

func TestCompile_Idempotent(t *testing.T) {
	in := input("main",
		mod("clients", `entity Client:
    id: uuid pk
    status: enum(active, archived) = active
`),
		mod("main", `app shop "Shop"
use clients
surface client_list:
    entity Client
    mode list
`),
	)

	first := compiler.Compile(context.Background(), in, compiler.Options{})
	second := compiler.Compile(context.Background(), in, compiler.Options{})
	require.NotNil(t, first.App)
	assert.Equal(t, first.App, second.App)
	assert.Equal(t, first.Diags, second.Diags)
}

func TestCompile_ParseErrorsSkipLinking(t *testing.T) {
	// The broken module would also trigger link errors (unresolved entity,
	// missing use); none of them may appear while the fragments are broken.
	in := input("main",
		mod("broken", `entity:
    name: str
`),
		mod("main", `app shop "Shop"
surface client_list:
    entity Client
    mode list
`),
	)

	result := compiler.Compile(context.Background(), in, compiler.Options{})
	require.Nil(t, result.App)
	require.True(t, result.Diags.HasErrors())
	for _, d := range result.Diags {
		assert.Equal(t, diag.StageParse, d.Stage)
	}
}

func TestCompile_LexErrorsAreReported(t *testing.T) {
	in := input("main", mod("main", "app shop \"Shop\"\nentity Client:\n\tid: uuid pk\n"))

	result := compiler.Compile(context.Background(), in, compiler.Options{})
	require.Nil(t, result.App)
	require.True(t, result.Diags.HasErrors())
	assert.Equal(t, diag.StageLex, result.Diags.Errors()[0].Stage)
}

func TestCompile_WarningsKeepTheApp(t *testing.T) {
	in := input("main", mod("main", `app shop "Shop"
entity Client:
    id: uuid pk
surface client_view:
    entity Client
    mode view
experience tour:
    start here
    step here surface client_view
    step orphan surface client_view
`))

	result := compiler.Compile(context.Background(), in, compiler.Options{})
	require.NotNil(t, result.App)
	require.Len(t, result.Diags.Warnings(), 1)
	assert.Contains(t, result.Diags.Warnings()[0].Summary, "unreachable")
}

func TestCompile_StrictUpgradesFindings(t *testing.T) {
	in := input("main", mod("main", `app shop "Shop"
entity Client:
    id: uuid pk
surface client_view:
    entity Client
    mode view
experience tour:
    start here
    step here surface client_view
    step orphan surface client_view
`))

	result := compiler.Compile(context.Background(), in, compiler.Options{Strict: true})
	require.Nil(t, result.App)
	require.True(t, result.Diags.HasErrors())
	assert.Contains(t, result.Diags.Errors()[0].Summary, "unreachable")
}

func TestCompile_DiagnosticsAreSorted(t *testing.T) {
	in := input("main",
		mod("b", `entity 1:
`),
		mod("a", `entity 2:
`),
		mod("main", `app shop "Shop"
`),
	)

	result := compiler.Compile(context.Background(), in, compiler.Options{})
	require.True(t, result.Diags.HasErrors())
	files := make([]string, 0, len(result.Diags))
	for _, d := range result.Diags {
		files = append(files, d.Subject.Filename)
	}
	assert.IsNonDecreasing(t, files)
}
