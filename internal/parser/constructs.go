package parser

import (
	"github.com/dazzle-lang/dazzle/internal/ast"
	"github.com/dazzle-lang/dazzle/internal/token"
)

// parseSurface handles a `surface` block.
//
//	surface client_list "Clients":
//	    entity Client
//	    mode list
//	    section main "Details":
//	        field name
//	    action open_edit "Edit" -> surface client_edit
func (p *parser) parseSurface() bool {
	p.next()
	name, title, ok := p.header("surface name after 'surface'")
	if !ok {
		return false
	}
	s := &ast.Surface{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		return false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		switch {
		case line.Kind == token.Keyword && line.Lexeme == "entity":
			p.next()
			if target, ok := p.expectIdent("entity name"); ok {
				s.Entity = p.ref(target)
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("mode"):
			p.next()
			if mode, ok := p.expectIdent("surface mode"); ok &&
				p.oneOf(mode, "surface mode", "list", "view", "create", "edit", "custom") {
				s.Mode = mode.Lexeme
				s.ModeRange = mode.Range
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("section"):
			if sec, ok := p.parseSurfaceSection(); ok {
				s.Sections = append(s.Sections, sec)
			}
		case line.IsLexeme("action"):
			if act, ok := p.parseSurfaceAction(); ok {
				s.Actions = append(s.Actions, act)
			}
		default:
			p.errorf(line.Range, "expected 'entity', 'mode', 'section' or 'action' in surface body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()

	if s.Entity.IsZero() {
		p.errorf(s.Range, "surface '%s' does not declare its entity", s.Name)
	}
	if s.Mode == "" {
		p.errorf(s.Range, "surface '%s' does not declare its mode", s.Name)
	}
	p.mod.Fragment.Surfaces = append(p.mod.Fragment.Surfaces, s)
	return true
}

func (p *parser) parseSurfaceSection() (*ast.SurfaceSection, bool) {
	p.next()
	name, title, ok := p.header("section name after 'section'")
	if !ok {
		p.skipLine()
		return nil, false
	}
	sec := &ast.SurfaceSection{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		p.skipLine()
		return nil, false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if !p.expectWord("field") {
			p.skipLine()
			continue
		}
		f, ok := p.expectIdent("field name after 'field'")
		if !ok {
			p.skipLine()
			continue
		}
		sec.Fields = append(sec.Fields, p.ref(f))
		p.endOfLine()
	}
	p.blockEnd()
	return sec, true
}

// parseSurfaceAction handles
// `action <name> ["<title>"] -> <surface|experience|integration> <target>`.
func (p *parser) parseSurfaceAction() (*ast.SurfaceAction, bool) {
	p.next()
	name, title, ok := p.header("action name after 'action'")
	if !ok {
		p.skipLine()
		return nil, false
	}
	act := &ast.SurfaceAction{Name: name.Lexeme, Title: title, Range: name.Range}
	if _, ok := p.expect(token.Arrow, "before the action outcome"); !ok {
		p.skipLine()
		return nil, false
	}
	kind, ok := p.expectOneOf("action outcome", "surface", "experience", "integration")
	if !ok {
		p.skipLine()
		return nil, false
	}
	target, ok := p.expectIdent("outcome target name")
	if !ok {
		p.skipLine()
		return nil, false
	}
	act.Outcome = ast.Outcome{Kind: kind.Lexeme, Target: p.ref(target)}
	if !p.endOfLine() {
		return nil, false
	}
	return act, true
}

// parseExperience handles an `experience` block.
//
//	experience onboarding "Client onboarding":
//	    start collect
//	    step collect surface client_create:
//	        on success -> review
func (p *parser) parseExperience() bool {
	p.next()
	name, title, ok := p.header("experience name after 'experience'")
	if !ok {
		return false
	}
	exp := &ast.Experience{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		return false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		switch {
		case line.IsLexeme("start"):
			p.next()
			if step, ok := p.expectIdent("step name after 'start'"); ok {
				exp.Start = p.ref(step)
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("step"):
			if st, ok := p.parseStep(); ok {
				exp.Steps = append(exp.Steps, st)
			}
		default:
			p.errorf(line.Range, "expected 'start' or 'step' in experience body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()

	if exp.Start.IsZero() {
		p.errorf(exp.Range, "experience '%s' does not declare its start step", exp.Name)
	}
	p.mod.Fragment.Experiences = append(p.mod.Fragment.Experiences, exp)
	return true
}

// parseStep handles `step <name> <kind> <target>[:]` with an optional body
// of `on <success|failure> -> <step>` transitions.
func (p *parser) parseStep() (*ast.Step, bool) {
	p.next()
	name, ok := p.expectIdent("step name after 'step'")
	if !ok {
		p.skipLine()
		return nil, false
	}
	kind, ok := p.expectOneOf("step kind", "surface", "process", "integration")
	if !ok {
		p.skipLine()
		return nil, false
	}
	target, ok := p.expectIdent("step target")
	if !ok {
		p.skipLine()
		return nil, false
	}
	st := &ast.Step{Name: name.Lexeme, Kind: kind.Lexeme, Target: p.ref(target), Range: name.Range}

	if _, hasBody := p.accept(token.Colon); !hasBody {
		if !p.endOfLine() {
			return nil, false
		}
		return st, true
	}
	if _, ok := p.expect(token.Newline, "after ':'"); !ok {
		p.skipLine()
		return nil, false
	}
	if _, ok := p.expect(token.Indent, "(the step transitions)"); !ok {
		return st, true
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if !p.expectWord("on") {
			p.skipLine()
			continue
		}
		when, ok := p.expectOneOf("transition trigger", "success", "failure")
		if !ok {
			p.skipLine()
			continue
		}
		if _, ok := p.expect(token.Arrow, "before the target step"); !ok {
			p.skipLine()
			continue
		}
		to, ok := p.expectIdent("target step name")
		if !ok {
			p.skipLine()
			continue
		}
		st.Transitions = append(st.Transitions, ast.Transition{On: when.Lexeme, To: p.ref(to), Range: when.Range})
		p.endOfLine()
	}
	p.blockEnd()
	return st, true
}

var authKinds = []string{"oauth2_legacy", "oauth2_pkce", "jwt_static", "api_key_header", "api_key_query", "none"}

// parseService handles a `service` block.
//
//	service vies "VIES":
//	    url "https://ec.europa.eu/vies/openapi.yaml"
//	    auth api_key_header:
//	        header "X-Api-Key"
//	    team "finance"
//	    contact "fin@example.com"
func (p *parser) parseService() bool {
	p.next()
	name, title, ok := p.header("service name after 'service'")
	if !ok {
		return false
	}
	svc := &ast.Service{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		return false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		switch {
		case line.IsLexeme("url"):
			p.next()
			if u, ok := p.expect(token.String, "(the service spec URL)"); ok {
				svc.URL = u.Value
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("auth"):
			p.parseAuth(svc)
		case line.IsLexeme("team"):
			p.next()
			if t, ok := p.expect(token.String, "(the owning team)"); ok {
				svc.Team = t.Value
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("contact"):
			p.next()
			if c, ok := p.expect(token.String, "(the contact address)"); ok {
				svc.Contact = c.Value
				p.endOfLine()
			} else {
				p.skipLine()
			}
		default:
			p.errorf(line.Range, "expected 'url', 'auth', 'team' or 'contact' in service body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()

	if svc.URL == "" {
		p.errorf(svc.Range, "service '%s' does not declare its spec url", svc.Name)
	}
	p.mod.Fragment.Services = append(p.mod.Fragment.Services, svc)
	return true
}

// parseAuth handles `auth <kind>` with an optional indented
// `<option> "<value>"` block.
func (p *parser) parseAuth(svc *ast.Service) {
	p.next()
	kind, ok := p.expectOneOf("auth kind", authKinds...)
	if !ok {
		p.skipLine()
		return
	}
	auth := ast.Auth{Kind: kind.Lexeme, Options: map[string]string{}, Range: kind.Range}
	if _, hasBody := p.accept(token.Colon); hasBody {
		if _, ok := p.expect(token.Newline, "after ':'"); !ok {
			p.skipLine()
			return
		}
		if _, ok := p.expect(token.Indent, "(the auth options)"); ok {
			for !p.at(token.Dedent) && !p.at(token.EOF) {
				opt, ok := p.expectIdent("auth option name")
				if !ok {
					p.skipLine()
					continue
				}
				val, ok := p.expect(token.String, "(the option value)")
				if !ok {
					p.skipLine()
					continue
				}
				if _, dup := auth.Options[opt.Lexeme]; dup {
					p.errorf(opt.Range, "duplicate auth option '%s'", opt.Lexeme)
				}
				auth.Options[opt.Lexeme] = val.Value
				p.endOfLine()
			}
			p.blockEnd()
		}
	} else {
		p.endOfLine()
	}
	svc.Auth = auth
}

var foreignConstraints = []string{"read_only", "event_driven", "batch_import"}

// parseForeignModel handles a `foreign_model` block.
//
//	foreign_model VatRecord "VAT registry record":
//	    service vies
//	    key country_code, vat_number
//	    constraint read_only
//	    country_code: str(2) required
func (p *parser) parseForeignModel() bool {
	p.next()
	name, title, ok := p.header("foreign model name after 'foreign_model'")
	if !ok {
		return false
	}
	fm := &ast.ForeignModel{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		return false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		// A line whose second token is ':' is a field declaration even if
		// its name collides with a body keyword.
		isField := p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == token.Colon
		switch {
		case !isField && line.Kind == token.Keyword && line.Lexeme == "service":
			p.next()
			if svc, ok := p.expectIdent("service name"); ok {
				fm.Service = p.ref(svc)
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case !isField && line.IsLexeme("key"):
			p.next()
			for {
				f, ok := p.expectIdent("key field name")
				if !ok {
					p.skipLine()
					break
				}
				fm.KeyFields = append(fm.KeyFields, p.ref(f))
				if _, more := p.accept(token.Comma); !more {
					p.endOfLine()
					break
				}
			}
		case !isField && line.IsLexeme("constraint"):
			p.next()
			c, ok := p.expectOneOf("foreign constraint", foreignConstraints...)
			if ok {
				fm.Constraints = append(fm.Constraints, ast.Modifier{Name: c.Lexeme, Range: c.Range})
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.Kind == token.Ident:
			if f, ok := p.parseField(); ok {
				fm.Fields = append(fm.Fields, f)
			}
		default:
			p.errorf(line.Range, "expected 'service', 'key', 'constraint' or a field declaration in foreign_model body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()

	if fm.Service.IsZero() {
		p.errorf(fm.Range, "foreign_model '%s' does not declare its service", fm.Name)
	}
	p.mod.Fragment.ForeignModels = append(p.mod.Fragment.ForeignModels, fm)
	return true
}

// parseIntegration handles an `integration` block.
//
//	integration vat_check:
//	    service vies
//	    model VatRecord
//	    action verify:
//	        when surface client_edit
//	        call vies.check_vat
//	        map vat_number = client.vat_number
//	    sync nightly:
//	        mode scheduled
//	        schedule "0 2 * * *"
//	        from VatRecord
//	        into Client
//	        match vat_number -> vat_number
func (p *parser) parseIntegration() bool {
	p.next()
	name, title, ok := p.header("integration name after 'integration'")
	if !ok {
		return false
	}
	ig := &ast.Integration{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		return false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		switch {
		case line.Kind == token.Keyword && line.Lexeme == "service":
			p.next()
			if svc, ok := p.expectIdent("service name"); ok {
				ig.Services = append(ig.Services, p.ref(svc))
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("model"):
			p.next()
			if m, ok := p.expectIdent("foreign model name"); ok {
				ig.Models = append(ig.Models, p.ref(m))
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("action"):
			if act, ok := p.parseIntegrationAction(); ok {
				ig.Actions = append(ig.Actions, act)
			}
		case line.IsLexeme("sync"):
			if sy, ok := p.parseIntegrationSync(); ok {
				ig.Syncs = append(ig.Syncs, sy)
			}
		default:
			p.errorf(line.Range, "expected 'service', 'model', 'action' or 'sync' in integration body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()
	p.mod.Fragment.Integrations = append(p.mod.Fragment.Integrations, ig)
	return true
}

func (p *parser) parseIntegrationAction() (*ast.IntegrationAction, bool) {
	p.next()
	name, ok := p.expectIdent("action name after 'action'")
	if !ok {
		p.skipLine()
		return nil, false
	}
	act := &ast.IntegrationAction{Name: name.Lexeme, Range: name.Range}
	if !p.blockStart() {
		p.skipLine()
		return nil, false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		switch {
		case line.IsLexeme("when"):
			p.next()
			if !p.expectWord("surface") {
				p.skipLine()
				continue
			}
			if s, ok := p.expectIdent("surface name"); ok {
				act.WhenSurface = p.ref(s)
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("call"):
			p.next()
			svc, ok := p.expectIdent("service name after 'call'")
			if !ok {
				p.skipLine()
				continue
			}
			if _, ok := p.expect(token.Dot, "between service and operation"); !ok {
				p.skipLine()
				continue
			}
			op, ok := p.expectIdent("operation name")
			if !ok {
				p.skipLine()
				continue
			}
			act.CallService = p.ref(svc)
			act.CallOperation = op.Lexeme
			p.endOfLine()
		case line.IsLexeme("map"):
			if m, ok := p.parseMapping(); ok {
				act.Mappings = append(act.Mappings, m)
			}
		default:
			p.errorf(line.Range, "expected 'when', 'call' or 'map' in action body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()

	if act.CallService.IsZero() {
		p.errorf(act.Range, "integration action '%s' does not declare its call", act.Name)
	}
	return act, true
}

// parseMapping handles `map <target> = <literal or dotted path>`.
func (p *parser) parseMapping() (*ast.Mapping, bool) {
	p.next()
	target, ok := p.expectIdent("mapping target field")
	if !ok {
		p.skipLine()
		return nil, false
	}
	if _, ok := p.expect(token.Assign, "after the target field"); !ok {
		p.skipLine()
		return nil, false
	}
	m := &ast.Mapping{Target: target.Lexeme, Range: target.Range}

	if p.at(token.Ident) && p.peek().Lexeme != "true" && p.peek().Lexeme != "false" {
		path, rng, ok := p.dottedName("mapping source path")
		if !ok {
			p.skipLine()
			return nil, false
		}
		m.Expr = ast.Expression{Path: splitPath(path), Range: rng}
	} else {
		val, rng, ok := p.parseLiteral("mapping value")
		if !ok {
			p.skipLine()
			return nil, false
		}
		m.Expr = ast.Expression{Literal: &val, Range: rng}
	}
	if !p.endOfLine() {
		return nil, false
	}
	return m, true
}

func (p *parser) parseIntegrationSync() (*ast.IntegrationSync, bool) {
	p.next()
	name, ok := p.expectIdent("sync name after 'sync'")
	if !ok {
		p.skipLine()
		return nil, false
	}
	sy := &ast.IntegrationSync{Name: name.Lexeme, Range: name.Range}
	if !p.blockStart() {
		p.skipLine()
		return nil, false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		line := p.peek()
		switch {
		case line.IsLexeme("mode"):
			p.next()
			mode, ok := p.expectOneOf("sync mode", "scheduled", "event_driven")
			if ok {
				sy.Mode = mode.Lexeme
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("schedule"):
			p.next()
			if s, ok := p.expect(token.String, "(the schedule spec)"); ok {
				sy.Schedule = s.Value
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("from"):
			p.next()
			if f, ok := p.expectIdent("source foreign model"); ok {
				sy.From = p.ref(f)
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("into"):
			p.next()
			if t, ok := p.expectIdent("target entity"); ok {
				sy.Into = p.ref(t)
				p.endOfLine()
			} else {
				p.skipLine()
			}
		case line.IsLexeme("match"):
			p.next()
			from, ok := p.expectIdent("source field")
			if !ok {
				p.skipLine()
				continue
			}
			if _, ok := p.expect(token.Arrow, "between the matched fields"); !ok {
				p.skipLine()
				continue
			}
			into, ok := p.expectIdent("target field")
			if !ok {
				p.skipLine()
				continue
			}
			sy.Matches = append(sy.Matches, ast.Match{From: p.ref(from), Into: p.ref(into), Range: from.Range})
			p.endOfLine()
		default:
			p.errorf(line.Range, "expected 'mode', 'schedule', 'from', 'into' or 'match' in sync body, got %s", line.Describe())
			p.skipLine()
		}
	}
	p.blockEnd()

	if sy.Mode == "" {
		p.errorf(sy.Range, "sync '%s' does not declare its mode", sy.Name)
	}
	if sy.From.IsZero() || sy.Into.IsZero() {
		p.errorf(sy.Range, "sync '%s' must declare both 'from' and 'into'", sy.Name)
	}
	return sy, true
}

func splitPath(dotted string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(dotted); i++ {
		if i == len(dotted) || dotted[i] == '.' {
			parts = append(parts, dotted[start:i])
			start = i + 1
		}
	}
	return parts
}
