package linker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/dazzle-lang/dazzle/internal/appspec"
	"github.com/dazzle-lang/dazzle/internal/ast"
	"github.com/dazzle-lang/dazzle/internal/dag"
	"github.com/dazzle-lang/dazzle/internal/diag"
)

// SpecVersion is stamped onto every AppSpec this linker produces.
const SpecVersion = "1"

// Options tunes linking behavior.
type Options struct {
	// Strict enables the unused-import check, which only the linker can
	// perform because `use` lists do not survive into the AppSpec.
	Strict bool
}

// Link resolves every cross-module reference across the parsed modules and
// merges them into one immutable AppSpec. All detected problems are
// accumulated; the AppSpec is only returned when there are no errors, so a
// non-nil App is always fully resolved.
func Link(modules []*ast.Module, rootName string, opts Options) (*appspec.App, diag.Diagnostics) {
	c := newLinkContext(modules, rootName)

	c.indexModules()
	c.checkRoot()
	c.buildGraph()
	c.checkCycles()
	c.orderModules()
	for _, name := range c.order {
		c.declareAll(c.modules[name])
	}
	app := c.merge()
	if opts.Strict {
		c.reportUnusedImports()
	}

	c.diags.Sort()
	if c.diags.HasErrors() {
		return nil, c.diags
	}
	return app, c.diags
}

// linkContext carries all state of one link call. It is created and
// dropped inside Link; nothing here is global.
type linkContext struct {
	input    []*ast.Module
	rootName string

	modules map[string]*ast.Module
	graph   *dag.Graph
	// order is the module processing order: topological when possible,
	// name-sorted as a fallback, so diagnostics stay deterministic.
	order []string

	byModule    map[string]map[string]symbol
	byName      map[string][]symbol
	usedImports map[string]map[string]bool

	diags diag.Diagnostics
}

func newLinkContext(modules []*ast.Module, rootName string) *linkContext {
	return &linkContext{
		input:       modules,
		rootName:    rootName,
		modules:     make(map[string]*ast.Module),
		graph:       dag.New(),
		byModule:    make(map[string]map[string]symbol),
		byName:      make(map[string][]symbol),
		usedImports: make(map[string]map[string]bool),
	}
}

func (c *linkContext) errorf(rng hcl.Range, summary, detail string) {
	c.diags = c.diags.Append(&diag.Diagnostic{
		Severity: diag.SeverityError,
		Stage:    diag.StageLink,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng,
	})
}

func (c *linkContext) warnf(rng hcl.Range, summary, detail string) {
	c.diags = c.diags.Append(&diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Stage:    diag.StageLink,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng,
	})
}

// indexModules maps module names to their parse results. Two files
// declaring the same module name is fatal.
func (c *linkContext) indexModules() {
	for _, mod := range c.input {
		if prev, exists := c.modules[mod.Name]; exists {
			c.errorf(diag.RangeAt(mod.Filename, 1, 1),
				fmt.Sprintf("module '%s' is declared twice", mod.Name),
				fmt.Sprintf("first declared by %s, redeclared by %s", prev.Filename, mod.Filename))
			continue
		}
		c.modules[mod.Name] = mod
	}
}

// checkRoot enforces the app-header rules: the declared root module must
// exist and carry the `app` header, and no other module may carry one.
func (c *linkContext) checkRoot() {
	root, ok := c.modules[c.rootName]
	if !ok {
		c.errorf(hcl.Range{Filename: "<project>"},
			fmt.Sprintf("root module '%s' was not supplied", c.rootName), "")
	} else if root.AppName == "" {
		c.errorf(diag.RangeAt(root.Filename, 1, 1),
			fmt.Sprintf("root module '%s' is missing its 'app' header", c.rootName), "")
	}
	for _, mod := range c.sortedModules() {
		if mod.Name != c.rootName && mod.AppName != "" {
			c.errorf(mod.AppRange,
				fmt.Sprintf("module '%s' declares an 'app' header but is not the root module", mod.Name),
				fmt.Sprintf("only the root module '%s' may name the application", c.rootName))
		}
	}
}

// buildGraph creates one node per module and an edge A -> B for every
// `use B` in module A.
func (c *linkContext) buildGraph() {
	for _, mod := range c.sortedModules() {
		c.graph.AddNode(mod.Name)
	}
	for _, mod := range c.sortedModules() {
		for _, u := range mod.Fragment.Uses {
			if u.Module == mod.Name {
				c.errorf(u.Range, fmt.Sprintf("module '%s' must not use itself", mod.Name), "")
				continue
			}
			if !c.graph.HasNode(u.Module) {
				c.errorf(u.Range,
					fmt.Sprintf("use of undeclared module '%s'", u.Module), "")
				continue
			}
			// AddEdge cannot fail here: both nodes exist and self-edges
			// were rejected above.
			_ = c.graph.AddEdge(mod.Name, u.Module)
		}
	}
}

// checkCycles reports every module dependency cycle with its full path.
func (c *linkContext) checkCycles() {
	cycle := c.graph.FindCycle()
	if cycle == nil {
		return
	}
	first := c.modules[cycle[0]]
	rng := hcl.Range{Filename: "<project>"}
	if first != nil {
		rng = diag.RangeAt(first.Filename, 1, 1)
	}
	c.errorf(rng,
		fmt.Sprintf("circular module dependency: %s", strings.Join(cycle, " -> ")),
		"break the cycle by removing one of its 'use' declarations")
}

// orderModules fixes the processing order used for duplicate detection and
// merging. Resolution itself is order-independent once the symbol table
// exists; the order only makes diagnostics and output deterministic.
func (c *linkContext) orderModules() {
	if order, err := c.graph.TopoSort(); err == nil {
		c.order = order
		return
	}
	for _, mod := range c.sortedModules() {
		c.order = append(c.order, mod.Name)
	}
}

func (c *linkContext) sortedModules() []*ast.Module {
	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	mods := make([]*ast.Module, 0, len(names))
	for _, name := range names {
		mods = append(mods, c.modules[name])
	}
	return mods
}

// reportUnusedImports warns about `use` declarations no reference needed.
func (c *linkContext) reportUnusedImports() {
	for _, mod := range c.sortedModules() {
		for _, u := range mod.Fragment.Uses {
			if !c.graph.HasNode(u.Module) {
				continue // already an error
			}
			if !c.usedImports[mod.Name][u.Module] {
				c.warnf(u.Range,
					fmt.Sprintf("module '%s' is imported but never referenced", u.Module),
					"remove the unused 'use' declaration")
			}
		}
	}
}
