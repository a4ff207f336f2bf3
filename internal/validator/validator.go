package validator

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/hcl/v2"

	"github.com/dazzle-lang/dazzle/internal/appspec"
	"github.com/dazzle-lang/dazzle/internal/ctxlog"
	"github.com/dazzle-lang/dazzle/internal/diag"
)

// Validate runs every semantic rule group over a fully linked AppSpec and
// returns the errors and warnings found. Referential integrity is already
// guaranteed by the linker; the groups re-check it defensively and then
// enforce the higher-level invariants.
//
// The groups are independent and read-only, so they run concurrently; the
// merged result is sorted, keeping output deterministic regardless of
// scheduling.
func Validate(ctx context.Context, app *appspec.App, strict bool) (diag.Diagnostics, diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)

	groups := []struct {
		name string
		run  func(*checker)
	}{
		{"entity", (*checker).checkEntities},
		{"surface", (*checker).checkSurfaces},
		{"experience", (*checker).checkExperiences},
		{"service", (*checker).checkServices},
		{"foreign_model", (*checker).checkForeignModels},
		{"integration", (*checker).checkIntegrations},
		{"lint", (*checker).checkLints},
	}

	results := make([]diag.Diagnostics, len(groups))
	var wg sync.WaitGroup
	for i, g := range groups {
		i, g := i, g
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &checker{app: app, strict: strict}
			g.run(c)
			results[i] = c.diags
		}()
	}
	wg.Wait()

	var all diag.Diagnostics
	for i, r := range results {
		logger.Debug("validation group finished", "group", groups[i].name, "diagnostics", len(r))
		all = all.Extend(r)
	}
	all.Sort()
	return all.Errors(), all.Warnings()
}

// checker accumulates one rule group's findings. Each group gets its own
// checker, so groups never share mutable state.
type checker struct {
	app    *appspec.App
	strict bool
	diags  diag.Diagnostics
}

func (c *checker) errorf(rng hcl.Range, format string, args ...any) {
	c.diags = c.diags.Append(&diag.Diagnostic{
		Severity: diag.SeverityError,
		Stage:    diag.StageValidate,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  rng,
	})
}

func (c *checker) warnf(rng hcl.Range, format string, args ...any) {
	c.diags = c.diags.Append(&diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Stage:    diag.StageValidate,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  rng,
	})
}

// report emits at error severity in strict mode and warning severity
// otherwise, for rules whose weight depends on the mode.
func (c *checker) report(rng hcl.Range, format string, args ...any) {
	if c.strict {
		c.errorf(rng, format, args...)
	} else {
		c.warnf(rng, format, args...)
	}
}
