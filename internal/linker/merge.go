package linker

import (
	"github.com/dazzle-lang/dazzle/internal/appspec"
	"github.com/dazzle-lang/dazzle/internal/ast"
)

// merge converts every fragment into the flat AppSpec collections,
// resolving each raw reference on the way. Resolution failures surface as
// diagnostics and leave the affected name empty; Link discards the App
// whenever any error was recorded, so partially resolved values never
// escape.
func (c *linkContext) merge() *appspec.App {
	app := &appspec.App{Version: SpecVersion}
	if root, ok := c.modules[c.rootName]; ok {
		app.Name = root.AppName
		app.Title = root.AppTitle
	}

	for _, name := range c.order {
		mod := c.modules[name]
		frag := mod.Fragment
		for _, e := range frag.Entities {
			app.Domain.Entities = append(app.Domain.Entities, c.mergeEntity(mod, e))
		}
		for _, s := range frag.Surfaces {
			app.Surfaces = append(app.Surfaces, c.mergeSurface(mod, s))
		}
		for _, e := range frag.Experiences {
			app.Experiences = append(app.Experiences, c.mergeExperience(mod, e))
		}
		for _, s := range frag.Services {
			app.Services = append(app.Services, c.mergeService(mod, s))
		}
		for _, m := range frag.ForeignModels {
			app.ForeignModels = append(app.ForeignModels, c.mergeForeignModel(mod, m))
		}
		for _, ig := range frag.Integrations {
			app.Integrations = append(app.Integrations, c.mergeIntegration(mod, ig))
		}
	}
	return app
}

// ownName returns the merged name of a declaration made by mod itself.
func (c *linkContext) ownName(mod *ast.Module, name string) string {
	if sym, ok := c.byModule[mod.Name][name]; ok {
		return c.mergedName(sym)
	}
	return name
}

func (c *linkContext) mergeEntity(mod *ast.Module, e *ast.Entity) appspec.Entity {
	out := appspec.Entity{
		Name:   c.ownName(mod, e.Name),
		Title:  e.Title,
		Module: mod.Name,
		Decl:   e.Range,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, c.mergeField(mod, f))
	}
	for _, con := range e.Constraints {
		fields := make([]string, 0, len(con.Fields))
		for _, f := range con.Fields {
			fields = append(fields, f.Name)
		}
		out.Constraints = append(out.Constraints, appspec.Constraint{
			Kind:   appspec.ConstraintKind(con.Kind),
			Fields: fields,
		})
	}
	return out
}

func (c *linkContext) mergeField(mod *ast.Module, f *ast.Field) appspec.Field {
	out := appspec.Field{
		Name:    f.Name,
		Type:    c.mergeFieldType(mod, f.Type),
		Default: f.Default,
	}
	for _, m := range f.Modifiers {
		out.Modifiers = append(out.Modifiers, appspec.Modifier(m.Name))
	}
	return out
}

func (c *linkContext) mergeFieldType(mod *ast.Module, t ast.FieldType) appspec.FieldType {
	switch t.Kind {
	case "str":
		return appspec.StrType{MaxLength: t.MaxLength}
	case "text":
		return appspec.TextType{}
	case "int":
		return appspec.IntType{}
	case "decimal":
		return appspec.DecimalType{Precision: t.Precision, Scale: t.Scale}
	case "bool":
		return appspec.BoolType{}
	case "date":
		return appspec.DateType{}
	case "datetime":
		return appspec.DateTimeType{}
	case "uuid":
		return appspec.UUIDType{}
	case "enum":
		values := make([]string, len(t.EnumValues))
		copy(values, t.EnumValues)
		return appspec.EnumType{Values: values}
	case "ref":
		target, _ := c.resolve(mod, t.RefEntity, symEntity)
		return appspec.RefType{Entity: target}
	case "email":
		return appspec.EmailType{}
	default:
		// The parser rejects unknown kinds before linking.
		return appspec.TextType{}
	}
}

func (c *linkContext) mergeSurface(mod *ast.Module, s *ast.Surface) appspec.Surface {
	entity, _ := c.resolve(mod, s.Entity, symEntity)
	out := appspec.Surface{
		Name:   c.ownName(mod, s.Name),
		Title:  s.Title,
		Entity: entity,
		Mode:   appspec.SurfaceMode(s.Mode),
		Module: mod.Name,
		Decl:   s.Range,
	}
	for _, sec := range s.Sections {
		fields := make([]string, 0, len(sec.Fields))
		for _, f := range sec.Fields {
			fields = append(fields, f.Name)
		}
		out.Sections = append(out.Sections, appspec.Section{
			Name:   sec.Name,
			Title:  sec.Title,
			Fields: fields,
		})
	}
	for _, act := range s.Actions {
		out.Actions = append(out.Actions, appspec.Action{
			Name:    act.Name,
			Title:   act.Title,
			Outcome: c.mergeOutcome(mod, act.Outcome),
		})
	}
	return out
}

func (c *linkContext) mergeOutcome(mod *ast.Module, o ast.Outcome) appspec.Outcome {
	var target string
	switch o.Kind {
	case "surface":
		target, _ = c.resolve(mod, o.Target, symSurface)
	case "experience":
		target, _ = c.resolve(mod, o.Target, symExperience)
	case "integration":
		target, _ = c.resolve(mod, o.Target, symAction)
	}
	return appspec.Outcome{Kind: appspec.OutcomeKind(o.Kind), Target: target}
}

func (c *linkContext) mergeExperience(mod *ast.Module, e *ast.Experience) appspec.Experience {
	out := appspec.Experience{
		Name:   c.ownName(mod, e.Name),
		Title:  e.Title,
		Start:  e.Start.Name,
		Module: mod.Name,
		Decl:   e.Range,
	}
	for _, st := range e.Steps {
		var target string
		switch st.Kind {
		case "surface":
			target, _ = c.resolve(mod, st.Target, symSurface)
		case "integration":
			target, _ = c.resolve(mod, st.Target, symAction)
		default:
			// Process steps name backend processes, which have no
			// declaration to resolve against.
			target = st.Target.Name
		}
		step := appspec.Step{
			Name:   st.Name,
			Kind:   appspec.StepKind(st.Kind),
			Target: target,
		}
		for _, tr := range st.Transitions {
			step.Transitions = append(step.Transitions, appspec.Transition{
				On: appspec.TransitionTrigger(tr.On),
				To: tr.To.Name,
			})
		}
		out.Steps = append(out.Steps, step)
	}
	return out
}

func (c *linkContext) mergeService(mod *ast.Module, s *ast.Service) appspec.Service {
	auth := appspec.AuthProfile{Kind: appspec.AuthKind(s.Auth.Kind)}
	if auth.Kind == "" {
		auth.Kind = appspec.AuthNone
	}
	if len(s.Auth.Options) > 0 {
		auth.Options = make(map[string]string, len(s.Auth.Options))
		for k, v := range s.Auth.Options {
			auth.Options[k] = v
		}
	}
	return appspec.Service{
		Name:    c.ownName(mod, s.Name),
		Title:   s.Title,
		URL:     s.URL,
		Auth:    auth,
		Team:    s.Team,
		Contact: s.Contact,
		Module:  mod.Name,
		Decl:    s.Range,
	}
}

func (c *linkContext) mergeForeignModel(mod *ast.Module, m *ast.ForeignModel) appspec.ForeignModel {
	service, _ := c.resolve(mod, m.Service, symService)
	out := appspec.ForeignModel{
		Name:    c.ownName(mod, m.Name),
		Title:   m.Title,
		Service: service,
		Module:  mod.Name,
		Decl:    m.Range,
	}
	for _, k := range m.KeyFields {
		out.KeyFields = append(out.KeyFields, k.Name)
	}
	for _, con := range m.Constraints {
		out.Constraints = append(out.Constraints, appspec.ForeignConstraint(con.Name))
	}
	for _, f := range m.Fields {
		out.Fields = append(out.Fields, c.mergeField(mod, f))
	}
	return out
}

func (c *linkContext) mergeIntegration(mod *ast.Module, ig *ast.Integration) appspec.Integration {
	out := appspec.Integration{
		Name:   c.ownName(mod, ig.Name),
		Title:  ig.Title,
		Module: mod.Name,
		Decl:   ig.Range,
	}
	for _, s := range ig.Services {
		if name, ok := c.resolve(mod, s, symService); ok {
			out.Services = append(out.Services, name)
		}
	}
	for _, m := range ig.Models {
		if name, ok := c.resolve(mod, m, symForeignModel); ok {
			out.Models = append(out.Models, name)
		}
	}
	for _, act := range ig.Actions {
		merged := appspec.IntegrationAction{
			Name:      act.Name,
			Operation: act.CallOperation,
		}
		if !act.WhenSurface.IsZero() {
			merged.WhenSurface, _ = c.resolve(mod, act.WhenSurface, symSurface)
		}
		if !act.CallService.IsZero() {
			merged.Service, _ = c.resolve(mod, act.CallService, symService)
		}
		for _, m := range act.Mappings {
			expr := appspec.Expression{Literal: m.Expr.Literal}
			if len(m.Expr.Path) > 0 {
				expr.Path = make([]string, len(m.Expr.Path))
				copy(expr.Path, m.Expr.Path)
			}
			merged.Mappings = append(merged.Mappings, appspec.Mapping{Target: m.Target, Expr: expr})
		}
		out.Actions = append(out.Actions, merged)
	}
	for _, sy := range ig.Syncs {
		merged := appspec.Sync{
			Name:     sy.Name,
			Mode:     appspec.SyncMode(sy.Mode),
			Schedule: sy.Schedule,
		}
		if !sy.From.IsZero() {
			merged.From, _ = c.resolve(mod, sy.From, symForeignModel)
		}
		if !sy.Into.IsZero() {
			merged.Into, _ = c.resolve(mod, sy.Into, symEntity)
		}
		for _, m := range sy.Matches {
			merged.Matches = append(merged.Matches, appspec.MatchRule{From: m.From.Name, Into: m.Into.Name})
		}
		out.Syncs = append(out.Syncs, merged)
	}
	return out
}
