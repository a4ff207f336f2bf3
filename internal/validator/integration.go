package validator

import (
	"strings"

	"github.com/dazzle-lang/dazzle/internal/appspec"
)

// checkIntegrations enforces integration rules: declared services and
// models exist, actions call services the integration declares, mapping
// expressions resolve against the schema in scope, and syncs are
// internally consistent.
func (c *checker) checkIntegrations() {
	for _, ig := range c.app.Integrations {
		for _, svc := range ig.Services {
			if _, ok := c.app.Service(svc); !ok {
				// Guaranteed by the linker; re-checked defensively.
				c.errorf(ig.Decl, "integration '%s' declares unknown service '%s'", ig.Name, svc)
			}
		}
		for _, m := range ig.Models {
			if _, ok := c.app.ForeignModel(m); !ok {
				c.errorf(ig.Decl, "integration '%s' declares unknown foreign model '%s'", ig.Name, m)
			}
		}
		for _, act := range ig.Actions {
			c.checkIntegrationAction(ig, act)
		}
		for _, sy := range ig.Syncs {
			c.checkSync(ig, sy)
		}
	}
}

func (c *checker) checkIntegrationAction(ig appspec.Integration, act appspec.IntegrationAction) {
	if !contains(ig.Services, act.Service) {
		c.errorf(ig.Decl, "integration '%s': action '%s' calls service '%s', which the integration does not declare",
			ig.Name, act.Name, act.Service)
	}
	if act.WhenSurface != "" {
		if _, ok := c.app.Surface(act.WhenSurface); !ok {
			c.errorf(ig.Decl, "integration '%s': action '%s' is triggered by unknown surface '%s'",
				ig.Name, act.Name, act.WhenSurface)
		}
	}
	for _, m := range act.Mappings {
		c.checkExpression(ig, act, m)
	}
}

// checkExpression resolves a mapping expression: a literal is always
// valid, a dotted path must name an entity or foreign model followed by
// one of its fields.
func (c *checker) checkExpression(ig appspec.Integration, act appspec.IntegrationAction, m appspec.Mapping) {
	if m.Expr.IsLiteral() {
		return
	}
	path := m.Expr.Path
	if len(path) != 2 {
		c.errorf(ig.Decl, "integration '%s': action '%s' maps '%s' from path '%s'; mapping paths have the form <schema>.<field>",
			ig.Name, act.Name, m.Target, strings.Join(path, "."))
		return
	}
	head, field := path[0], path[1]
	if entity, ok := c.app.Entity(head); ok {
		if _, ok := entity.Field(field); !ok {
			c.errorf(ig.Decl, "integration '%s': action '%s' maps '%s' from '%s.%s', but entity '%s' has no field '%s'",
				ig.Name, act.Name, m.Target, head, field, head, field)
		}
		return
	}
	if fm, ok := c.app.ForeignModel(head); ok {
		if _, ok := fm.Field(field); !ok {
			c.errorf(ig.Decl, "integration '%s': action '%s' maps '%s' from '%s.%s', but foreign model '%s' has no field '%s'",
				ig.Name, act.Name, m.Target, head, field, head, field)
		}
		return
	}
	c.errorf(ig.Decl, "integration '%s': action '%s' maps '%s' from unknown schema '%s'",
		ig.Name, act.Name, m.Target, head)
}

func (c *checker) checkSync(ig appspec.Integration, sy appspec.Sync) {
	source, sourceOK := c.app.ForeignModel(sy.From)
	if !sourceOK {
		c.errorf(ig.Decl, "integration '%s': sync '%s' reads from unknown foreign model '%s'", ig.Name, sy.Name, sy.From)
	}
	target, targetOK := c.app.Entity(sy.Into)
	if !targetOK {
		c.errorf(ig.Decl, "integration '%s': sync '%s' writes into unknown entity '%s'", ig.Name, sy.Name, sy.Into)
	}

	switch sy.Mode {
	case appspec.SyncScheduled:
		if sy.Schedule == "" {
			c.errorf(ig.Decl, "integration '%s': scheduled sync '%s' declares no schedule", ig.Name, sy.Name)
		}
	case appspec.SyncEventDriven:
		if sy.Schedule != "" {
			c.warnf(ig.Decl, "integration '%s': event-driven sync '%s' declares a schedule, which is ignored", ig.Name, sy.Name)
		}
	}

	if len(sy.Matches) == 0 {
		c.errorf(ig.Decl, "integration '%s': sync '%s' declares no match rules", ig.Name, sy.Name)
	}
	for _, m := range sy.Matches {
		if sourceOK {
			if _, ok := source.Field(m.From); !ok {
				c.errorf(ig.Decl, "integration '%s': sync '%s' matches on '%s', which foreign model '%s' does not declare",
					ig.Name, sy.Name, m.From, sy.From)
			}
		}
		if targetOK {
			if _, ok := target.Field(m.Into); !ok {
				c.errorf(ig.Decl, "integration '%s': sync '%s' matches into '%s', which entity '%s' does not declare",
					ig.Name, sy.Name, m.Into, sy.Into)
			}
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
