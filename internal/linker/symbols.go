package linker

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/dazzle-lang/dazzle/internal/ast"
)

// symbolKind classifies the constructs that can be referenced by name.
type symbolKind string

const (
	symEntity       symbolKind = "entity"
	symSurface      symbolKind = "surface"
	symExperience   symbolKind = "experience"
	symService      symbolKind = "service"
	symForeignModel symbolKind = "foreign model"
	symIntegration  symbolKind = "integration"
	// symAction covers integration actions, which surface outcomes and
	// experience steps target directly.
	symAction symbolKind = "integration action"
)

// symbol is one named declaration in the global symbol table.
type symbol struct {
	Kind   symbolKind
	Name   string
	Module string
	Decl   hcl.Range
}

// declareAll walks one module's fragment and registers every named
// declaration. Duplicate names within one module are fatal link errors
// naming both declaration sites.
func (c *linkContext) declareAll(mod *ast.Module) {
	frag := mod.Fragment
	for _, e := range frag.Entities {
		c.declare(mod, symEntity, e.Name, e.Range)
	}
	for _, s := range frag.Surfaces {
		c.declare(mod, symSurface, s.Name, s.Range)
	}
	for _, e := range frag.Experiences {
		c.declare(mod, symExperience, e.Name, e.Range)
	}
	for _, s := range frag.Services {
		c.declare(mod, symService, s.Name, s.Range)
	}
	for _, m := range frag.ForeignModels {
		c.declare(mod, symForeignModel, m.Name, m.Range)
	}
	for _, ig := range frag.Integrations {
		c.declare(mod, symIntegration, ig.Name, ig.Range)
		for _, act := range ig.Actions {
			c.declare(mod, symAction, act.Name, act.Range)
		}
	}
}

func (c *linkContext) declare(mod *ast.Module, kind symbolKind, name string, rng hcl.Range) {
	local := c.byModule[mod.Name]
	if local == nil {
		local = make(map[string]symbol)
		c.byModule[mod.Name] = local
	}
	if prev, exists := local[name]; exists {
		c.errorf(rng, fmt.Sprintf("duplicate definition of '%s' in module '%s'", name, mod.Name),
			fmt.Sprintf("previously declared as %s at %s:%d, redeclared as %s at %s:%d",
				prev.Kind, prev.Decl.Filename, prev.Decl.Start.Line,
				kind, rng.Filename, rng.Start.Line))
		return
	}
	sym := symbol{Kind: kind, Name: name, Module: mod.Name, Decl: rng}
	local[name] = sym
	c.byName[name] = append(c.byName[name], sym)
}

// mergedName returns the name a symbol carries in the merged AppSpec. Bare
// names stay bare while they are unique project-wide; when several modules
// declare the same unqualified name, every copy is qualified with its
// declaring module so the flat AppSpec collections stay uniquely keyed.
func (c *linkContext) mergedName(sym symbol) string {
	count := 0
	for _, other := range c.byName[sym.Name] {
		if other.Kind == sym.Kind {
			count++
		}
	}
	if count > 1 {
		return sym.Module + "." + sym.Name
	}
	return sym.Name
}

// resolve maps a raw reference written in mod to the merged name of its
// target. Explicit-import enforcement happens here: a symbol that exists
// globally but whose module is neither mod itself nor in mod's use list is
// an error naming the exact statement to add.
func (c *linkContext) resolve(mod *ast.Module, ref ast.Ref, kind symbolKind) (string, bool) {
	if ref.IsZero() {
		// The parser already reported the missing reference.
		return "", false
	}

	var candidates []symbol
	for _, sym := range c.byName[ref.Name] {
		if sym.Kind == kind {
			candidates = append(candidates, sym)
		}
	}
	if len(candidates) == 0 {
		if others := c.byName[ref.Name]; len(others) > 0 {
			other := others[0]
			c.errorf(ref.Range,
				fmt.Sprintf("'%s' is not a %s", ref.Name, kind),
				fmt.Sprintf("'%s' is declared as %s in module '%s' (%s:%d)",
					ref.Name, other.Kind, other.Module, other.Decl.Filename, other.Decl.Start.Line))
		} else {
			c.errorf(ref.Range, fmt.Sprintf("unresolved reference to %s '%s'", kind, ref.Name), "")
		}
		return "", false
	}

	visible := candidates[:0:0]
	for _, sym := range candidates {
		if sym.Module == mod.Name || c.imports(mod, sym.Module) {
			visible = append(visible, sym)
		}
	}

	switch len(visible) {
	case 0:
		if len(candidates) == 1 {
			c.errorf(ref.Range,
				fmt.Sprintf("%s '%s' is declared in module '%s' but not imported here", kind, ref.Name, candidates[0].Module),
				fmt.Sprintf("add: use %s", candidates[0].Module))
		} else {
			detail := "add one of:"
			for _, sym := range candidates {
				detail += fmt.Sprintf(" use %s;", sym.Module)
			}
			c.errorf(ref.Range,
				fmt.Sprintf("%s '%s' is declared in other modules but none of them is imported here", kind, ref.Name),
				detail[:len(detail)-1])
		}
		return "", false
	case 1:
		target := visible[0]
		if target.Module != mod.Name {
			c.markImportUsed(mod.Name, target.Module)
		}
		return c.mergedName(target), true
	default:
		detail := "candidates:"
		for _, sym := range visible {
			detail += fmt.Sprintf(" %s (in %s);", sym.Name, sym.Module)
		}
		c.errorf(ref.Range,
			fmt.Sprintf("reference to %s '%s' is ambiguous here", kind, ref.Name),
			detail[:len(detail)-1])
		return "", false
	}
}

// imports reports whether mod's use list names the given module.
func (c *linkContext) imports(mod *ast.Module, target string) bool {
	for _, u := range mod.Fragment.Uses {
		if u.Module == target {
			return true
		}
	}
	return false
}

func (c *linkContext) markImportUsed(from, to string) {
	set := c.usedImports[from]
	if set == nil {
		set = make(map[string]bool)
		c.usedImports[from] = set
	}
	set[to] = true
}
