package validator

import (
	"regexp"
	"strings"

	"github.com/dazzle-lang/dazzle/internal/appspec"
)

var (
	pascalCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	snakeCase  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// checkLints runs the extended strict-mode rules: naming conventions and
// constructs nothing ever references. All findings are warnings; they
// flag style and dead weight, not broken output.
func (c *checker) checkLints() {
	if !c.strict {
		return
	}

	for _, e := range c.app.Domain.Entities {
		if !pascalCase.MatchString(localName(e.Name)) {
			c.warnf(e.Decl, "entity '%s' should be named in PascalCase", e.Name)
		}
		for _, f := range e.Fields {
			if !snakeCase.MatchString(f.Name) {
				c.warnf(e.Decl, "field '%s' of entity '%s' should be named in snake_case", f.Name, e.Name)
			}
		}
	}

	c.checkUnreferenced()
}

// checkUnreferenced flags surfaces and entities that no experience, action
// or integration ever reaches.
func (c *checker) checkUnreferenced() {
	usedSurfaces := make(map[string]bool)
	usedEntities := make(map[string]bool)

	for _, exp := range c.app.Experiences {
		for _, st := range exp.Steps {
			if st.Kind == appspec.StepSurface {
				usedSurfaces[st.Target] = true
			}
		}
	}
	for _, s := range c.app.Surfaces {
		for _, act := range s.Actions {
			if act.Outcome.Kind == appspec.OutcomeSurface {
				usedSurfaces[act.Outcome.Target] = true
			}
		}
	}
	for _, ig := range c.app.Integrations {
		for _, act := range ig.Actions {
			if act.WhenSurface != "" {
				usedSurfaces[act.WhenSurface] = true
			}
		}
		for _, sy := range ig.Syncs {
			usedEntities[sy.Into] = true
		}
	}

	// A surface in use keeps its entity in use; so do entity references.
	for _, s := range c.app.Surfaces {
		if usedSurfaces[s.Name] {
			usedEntities[s.Entity] = true
		}
	}
	for _, e := range c.app.Domain.Entities {
		for _, f := range e.Fields {
			if ref, ok := f.Type.(appspec.RefType); ok {
				usedEntities[ref.Entity] = true
			}
		}
	}

	for _, s := range c.app.Surfaces {
		if !usedSurfaces[s.Name] {
			c.warnf(s.Decl, "surface '%s' is never referenced by any experience or action", s.Name)
		}
	}
	for _, e := range c.app.Domain.Entities {
		if usedEntities[e.Name] {
			continue
		}
		bound := false
		for _, s := range c.app.Surfaces {
			if s.Entity == e.Name {
				bound = true
				break
			}
		}
		if !bound {
			c.warnf(e.Decl, "entity '%s' is never referenced by any surface, sync or entity field", e.Name)
		}
	}
}

func localName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
