package validator

import "github.com/dazzle-lang/dazzle/internal/appspec"

// checkSurfaces enforces surface rules: the bound entity exists, section
// fields belong to it (unless the surface is custom), and action outcomes
// point at things that exist.
func (c *checker) checkSurfaces() {
	for _, s := range c.app.Surfaces {
		entity, ok := c.app.Entity(s.Entity)
		if !ok {
			// Guaranteed by the linker; re-checked defensively.
			c.errorf(s.Decl, "surface '%s' is bound to unknown entity '%s'", s.Name, s.Entity)
			continue
		}

		if s.Mode != appspec.ModeCustom {
			for _, sec := range s.Sections {
				for _, fname := range sec.Fields {
					if _, ok := entity.Field(fname); !ok {
						c.errorf(s.Decl, "surface '%s': section '%s' shows field '%s', which entity '%s' does not declare",
							s.Name, sec.Name, fname, entity.Name)
					}
				}
			}
		}

		seenSections := make(map[string]bool, len(s.Sections))
		for _, sec := range s.Sections {
			if seenSections[sec.Name] {
				c.errorf(s.Decl, "surface '%s' declares section '%s' more than once", s.Name, sec.Name)
			}
			seenSections[sec.Name] = true
		}

		seenActions := make(map[string]bool, len(s.Actions))
		for _, act := range s.Actions {
			if seenActions[act.Name] {
				c.errorf(s.Decl, "surface '%s' declares action '%s' more than once", s.Name, act.Name)
			}
			seenActions[act.Name] = true
			c.checkOutcome(s, act)
		}
	}
}

func (c *checker) checkOutcome(s appspec.Surface, act appspec.Action) {
	o := act.Outcome
	switch o.Kind {
	case appspec.OutcomeSurface:
		if _, ok := c.app.Surface(o.Target); !ok {
			c.errorf(s.Decl, "surface '%s': action '%s' targets unknown surface '%s'", s.Name, act.Name, o.Target)
		}
	case appspec.OutcomeExperience:
		if _, ok := c.app.Experience(o.Target); !ok {
			c.errorf(s.Decl, "surface '%s': action '%s' targets unknown experience '%s'", s.Name, act.Name, o.Target)
		}
	case appspec.OutcomeIntegration:
		if _, ok := c.app.IntegrationAction(o.Target); !ok {
			c.errorf(s.Decl, "surface '%s': action '%s' targets unknown integration action '%s'", s.Name, act.Name, o.Target)
		}
	}
}
