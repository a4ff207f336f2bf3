package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazzle-lang/dazzle/internal/app"
)

// writeProject lays a set of module files out under a fresh temp dir.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return dir
}

func run(t *testing.T, projectPath string) (error, string, string) {
	t.Helper()
	config, err := app.NewConfig(app.Config{ProjectPath: projectPath, LogLevel: "error"})
	require.NoError(t, err)

	var outW, errW bytes.Buffer
	runErr := app.NewApp(&outW, &errW, config).Run(context.Background())
	return runErr, outW.String(), errW.String()
}

func TestRun_CleanProject(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.dzl": `app shop "Shop"
use clients
surface client_list:
    entity Client
    mode list
`,
		"clients.dzl": `entity Client:
    id: uuid pk
    name: str(120) required
`,
	})

	err, out, _ := run(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: shop")
	assert.Contains(t, out, "1 entities")
}

func TestRun_NestedModuleNames(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.dzl": `app shop "Shop"
use billing.core
surface invoice_list:
    entity Invoice
    mode list
`,
		"billing/core.dzl": `entity Invoice:
    id: uuid pk
`,
	})

	err, out, _ := run(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: shop")
}

func TestRun_DiagnosticsExitPath(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.dzl": `app shop "Shop"
entity Client:
    name: str
`,
	})

	err, out, rendered := run(t, dir)
	require.ErrorIs(t, err, app.ErrDiagnostics)
	assert.Empty(t, out)
	assert.Contains(t, rendered, "primary key")
	// The writer excerpts the offending source line.
	assert.Contains(t, rendered, "entity Client:")
}

func TestRun_SingleFileProject(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"solo.dzl": `app solo "Solo"
entity Thing:
    id: uuid pk
`,
	})

	config, err := app.NewConfig(app.Config{
		ProjectPath: filepath.Join(dir, "solo.dzl"),
		Root:        "solo",
		LogLevel:    "error",
	})
	require.NoError(t, err)

	var outW, errW bytes.Buffer
	runErr := app.NewApp(&outW, &errW, config).Run(context.Background())
	require.NoError(t, runErr)
	assert.Contains(t, outW.String(), "ok: solo")
}

func TestRun_MissingProjectPath(t *testing.T) {
	err, _, _ := run(t, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, app.ErrDiagnostics)
}

func TestRun_EmptyProject(t *testing.T) {
	err, _, _ := run(t, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .dzl modules found")
}
