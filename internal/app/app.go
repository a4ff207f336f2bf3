package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/hcl/v2"

	"github.com/dazzle-lang/dazzle/internal/compiler"
	"github.com/dazzle-lang/dazzle/internal/ctxlog"
	"github.com/dazzle-lang/dazzle/internal/source"
)

// ErrDiagnostics signals that compilation completed but reported errors.
// The CLI maps it to exit code 1, keeping 2 for internal failures.
var ErrDiagnostics = errors.New("compilation reported errors")

// App encapsulates one compiler invocation: configuration, logging and
// output writers.
type App struct {
	outW   io.Writer
	errW   io.Writer
	config *Config
}

// NewApp is the constructor for the main application.
func NewApp(outW, errW io.Writer, config *Config) *App {
	return &App{outW: outW, errW: errW, config: config}
}

// Run loads the project, compiles it, and reports diagnostics. It returns
// nil on a clean run, ErrDiagnostics when the compiler reported errors,
// and any other error for internal failures such as unreadable files.
func (a *App) Run(ctx context.Context) error {
	logger := newLogger(a.config.LogLevel, a.config.LogFormat, a.errW).
		With("run_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("configuration ready", "project", a.config.ProjectPath, "root", a.config.Root, "strict", a.config.Strict)

	input, err := loadInput(a.config.ProjectPath, a.config.Root)
	if err != nil {
		return err
	}
	logger.Debug("modules discovered", "count", len(input.Modules))

	result := compiler.Compile(ctx, input, compiler.Options{Strict: a.config.Strict})
	a.reportDiagnostics(input, result)

	if result.App == nil {
		return ErrDiagnostics
	}
	fmt.Fprintf(a.outW, "ok: %s (%d entities, %d surfaces, %d experiences, %d warnings)\n",
		result.App.Name,
		len(result.App.Domain.Entities),
		len(result.App.Surfaces),
		len(result.App.Experiences),
		len(result.Diags.Warnings()))
	return nil
}

// reportDiagnostics renders the accumulated diagnostics with source
// excerpts through hcl's terminal-aware writer.
func (a *App) reportDiagnostics(input source.Input, result compiler.Result) {
	if len(result.Diags) == 0 {
		return
	}
	files := make(map[string]*hcl.File, len(input.Modules))
	for _, m := range input.Modules {
		files[m.Filename] = &hcl.File{Bytes: []byte(m.Src)}
	}
	writer := hcl.NewDiagnosticTextWriter(a.errW, files, 100, false)
	// Rendering failures would only hide the diagnostics we are trying to
	// show; there is nothing useful to do with the error.
	_ = writer.WriteDiagnostics(result.Diags.ToHCL())
}
