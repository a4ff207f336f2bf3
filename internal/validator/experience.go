package validator

import "github.com/dazzle-lang/dazzle/internal/appspec"

// checkExperiences enforces the step-graph rules: the start step and every
// transition target exist, step names are unique, and every step is
// reachable from the start. Unreachable steps are errors in strict mode
// and warnings otherwise.
func (c *checker) checkExperiences() {
	for _, exp := range c.app.Experiences {
		seen := make(map[string]bool, len(exp.Steps))
		for _, st := range exp.Steps {
			if seen[st.Name] {
				c.errorf(exp.Decl, "experience '%s' declares step '%s' more than once", exp.Name, st.Name)
			}
			seen[st.Name] = true
		}

		if _, ok := exp.Step(exp.Start); !ok {
			c.errorf(exp.Decl, "experience '%s': start step '%s' is not declared", exp.Name, exp.Start)
			continue
		}

		for _, st := range exp.Steps {
			for _, tr := range st.Transitions {
				if _, ok := exp.Step(tr.To); !ok {
					c.errorf(exp.Decl, "experience '%s': step '%s' transitions to unknown step '%s'",
						exp.Name, st.Name, tr.To)
				}
			}
			if st.Kind == appspec.StepSurface {
				if _, ok := c.app.Surface(st.Target); !ok {
					// Guaranteed by the linker; re-checked defensively.
					c.errorf(exp.Decl, "experience '%s': step '%s' targets unknown surface '%s'",
						exp.Name, st.Name, st.Target)
				}
			}
		}

		c.checkReachability(exp)
	}
}

// checkReachability walks the step graph forward from the start step and
// reports every step the walk never reaches.
func (c *checker) checkReachability(exp appspec.Experience) {
	reached := make(map[string]bool, len(exp.Steps))
	frontier := []string{exp.Start}
	for len(frontier) > 0 {
		name := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if reached[name] {
			continue
		}
		reached[name] = true
		step, ok := exp.Step(name)
		if !ok {
			continue
		}
		for _, tr := range step.Transitions {
			frontier = append(frontier, tr.To)
		}
	}

	for _, st := range exp.Steps {
		if !reached[st.Name] {
			c.report(exp.Decl, "experience '%s': step '%s' is unreachable from start step '%s'",
				exp.Name, st.Name, exp.Start)
		}
	}
}
