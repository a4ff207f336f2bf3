package compiler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dazzle-lang/dazzle/internal/appspec"
	"github.com/dazzle-lang/dazzle/internal/ast"
	"github.com/dazzle-lang/dazzle/internal/ctxlog"
	"github.com/dazzle-lang/dazzle/internal/diag"
	"github.com/dazzle-lang/dazzle/internal/lexer"
	"github.com/dazzle-lang/dazzle/internal/linker"
	"github.com/dazzle-lang/dazzle/internal/parser"
	"github.com/dazzle-lang/dazzle/internal/source"
	"github.com/dazzle-lang/dazzle/internal/validator"
)

// Options tunes one compilation run.
type Options struct {
	// Strict upgrades lenient findings to errors and enables the extended
	// lint rules.
	Strict bool
}

// Result is the outcome of one compilation run. App is non-nil exactly
// when Diags contains no errors; warnings may accompany a usable App.
type Result struct {
	App   *appspec.App
	Diags diag.Diagnostics
}

// Compile runs the full pipeline over the supplied sources: per-module
// lexing and parsing fan out across a worker pool and join before the
// strictly sequential link; validation rule groups then run concurrently
// over the finished AppSpec.
//
// Every stage accumulates diagnostics instead of failing fast, so one
// invocation reports the complete set of problems found in every stage
// that could make progress.
func Compile(ctx context.Context, input source.Input, opts Options) Result {
	logger := ctxlog.FromContext(ctx)
	mods := input.Sorted()

	parsed := make([]*ast.Module, len(mods))
	perModule := make([]diag.Diagnostics, len(mods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, m := range mods {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens, lexDiags := lexer.Scan(m.Src, m.Filename)
			mod, parseDiags := parser.ParseModule(tokens, m.Name, m.Filename)
			parsed[i] = mod
			perModule[i] = lexDiags.Extend(parseDiags)
			return nil
		})
	}
	// The workers only fail on cancellation; their diagnostics are data.
	if err := g.Wait(); err != nil {
		return Result{}
	}

	var diags diag.Diagnostics
	for _, d := range perModule {
		diags = diags.Extend(d)
	}
	if diags.HasErrors() {
		// Broken fragments would cascade into misleading link errors.
		logger.Debug("skipping link", "parse_errors", len(diags.Errors()))
		diags.Sort()
		return Result{Diags: diags}
	}
	logger.Debug("all modules parsed", "modules", len(parsed))

	app, linkDiags := linker.Link(parsed, input.Root, linker.Options{Strict: opts.Strict})
	diags = diags.Extend(linkDiags)
	if app == nil {
		diags.Sort()
		return Result{Diags: diags}
	}
	logger.Debug("link complete",
		"entities", len(app.Domain.Entities),
		"surfaces", len(app.Surfaces),
		"experiences", len(app.Experiences))

	errs, warns := validator.Validate(ctx, app, opts.Strict)
	diags = diags.Extend(errs).Extend(warns)
	diags.Sort()
	if diags.HasErrors() {
		return Result{Diags: diags}
	}
	return Result{App: app, Diags: diags}
}
