package parser

import (
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/dazzle-lang/dazzle/internal/ast"
	"github.com/dazzle-lang/dazzle/internal/token"
)

var fieldModifiers = map[string]bool{
	"required":    true,
	"optional":    true,
	"pk":          true,
	"unique":      true,
	"auto_add":    true,
	"auto_update": true,
}

// parseEntity handles an `entity` block: field declarations plus
// `unique(...)` / `index(...)` constraints.
func (p *parser) parseEntity() bool {
	p.next()
	name, title, ok := p.header("entity name after 'entity'")
	if !ok {
		return false
	}
	ent := &ast.Entity{Name: name.Lexeme, Title: title, Range: name.Range}
	if !p.blockStart() {
		return false
	}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if p.peek().IsLexeme("unique") || p.peek().IsLexeme("index") {
			// `unique` opens a constraint only when followed by '(';
			// otherwise it is a field named "unique".
			if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == token.LParen {
				if c, ok := p.parseConstraint(); ok {
					ent.Constraints = append(ent.Constraints, c)
				}
				continue
			}
		}
		if f, ok := p.parseField(); ok {
			ent.Fields = append(ent.Fields, f)
		}
	}
	p.blockEnd()
	p.mod.Fragment.Entities = append(p.mod.Fragment.Entities, ent)
	return true
}

// parseConstraint handles `unique(f1, f2)` and `index(f1, f2)` lines.
func (p *parser) parseConstraint() (*ast.Constraint, bool) {
	kw := p.next()
	c := &ast.Constraint{Kind: kw.Lexeme, Range: kw.Range}
	if _, ok := p.expect(token.LParen, "after '"+kw.Lexeme+"'"); !ok {
		p.skipLine()
		return nil, false
	}
	for {
		f, ok := p.expectIdent("field name")
		if !ok {
			p.skipLine()
			return nil, false
		}
		c.Fields = append(c.Fields, p.ref(f))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RParen, "to close the field list"); !ok {
		p.skipLine()
		return nil, false
	}
	if !p.endOfLine() {
		return nil, false
	}
	return c, true
}

// parseField handles `<name>: <type>[(args)] [modifier...] [= default]`.
func (p *parser) parseField() (*ast.Field, bool) {
	name, ok := p.expectIdent("field name")
	if !ok {
		p.skipLine()
		return nil, false
	}
	if _, ok := p.expect(token.Colon, "after the field name"); !ok {
		p.skipLine()
		return nil, false
	}
	typ, ok := p.parseFieldType()
	if !ok {
		p.skipLine()
		return nil, false
	}
	f := &ast.Field{Name: name.Lexeme, Type: typ, Range: name.Range}

	for p.at(token.Ident) {
		mod := p.next()
		if !fieldModifiers[mod.Lexeme] {
			p.errorf(mod.Range, "unknown field modifier '%s'", mod.Lexeme)
			p.skipLine()
			return nil, false
		}
		f.Modifiers = append(f.Modifiers, ast.Modifier{Name: mod.Lexeme, Range: mod.Range})
	}

	if _, ok := p.accept(token.Assign); ok {
		val, rng, ok := p.parseLiteral("default value")
		if !ok {
			p.skipLine()
			return nil, false
		}
		f.Default = &val
		f.DefaultRange = rng
	}

	if !p.endOfLine() {
		return nil, false
	}
	return f, true
}

// parseFieldType handles the type expression of a field declaration.
func (p *parser) parseFieldType() (ast.FieldType, bool) {
	name, ok := p.expectIdent("a field type")
	if !ok {
		return ast.FieldType{}, false
	}
	t := ast.FieldType{Kind: name.Lexeme, Range: name.Range}
	switch name.Lexeme {
	case "text", "int", "bool", "date", "datetime", "uuid", "email":
		return t, true
	case "str":
		// Length is optional; zero means unbounded.
		if _, ok := p.accept(token.LParen); ok {
			n, ok := p.parseIntArg("maximum length")
			if !ok {
				return t, false
			}
			t.MaxLength = n
			if _, ok := p.expect(token.RParen, "after the length"); !ok {
				return t, false
			}
		}
		return t, true
	case "decimal":
		if _, ok := p.expect(token.LParen, "(decimal takes precision and scale)"); !ok {
			return t, false
		}
		prec, ok := p.parseIntArg("precision")
		if !ok {
			return t, false
		}
		if _, ok := p.expect(token.Comma, "between precision and scale"); !ok {
			return t, false
		}
		scale, ok := p.parseIntArg("scale")
		if !ok {
			return t, false
		}
		if _, ok := p.expect(token.RParen, "after the scale"); !ok {
			return t, false
		}
		t.Precision, t.Scale = prec, scale
		return t, true
	case "enum":
		if _, ok := p.expect(token.LParen, "(enum takes its values)"); !ok {
			return t, false
		}
		for {
			v, ok := p.expectIdent("enum value")
			if !ok {
				return t, false
			}
			t.EnumValues = append(t.EnumValues, v.Lexeme)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.RParen, "to close the enum values"); !ok {
			return t, false
		}
		return t, true
	case "ref":
		target, ok := p.expectIdent("entity name after 'ref'")
		if !ok {
			return t, false
		}
		t.RefEntity = p.ref(target)
		return t, true
	default:
		p.errorf(name.Range, "unknown field type '%s'", name.Lexeme)
		return t, false
	}
}

func (p *parser) parseIntArg(what string) (int, bool) {
	num, ok := p.expect(token.Number, "("+what+")")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num.Lexeme)
	if err != nil {
		p.errorf(num.Range, "%s must be an integer, got '%s'", what, num.Lexeme)
		return 0, false
	}
	return n, true
}

// parseLiteral handles a string, number, boolean or bare identifier (an
// enum value) and returns it as a cty value.
func (p *parser) parseLiteral(what string) (cty.Value, hcl.Range, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.String:
		p.next()
		return cty.StringVal(tok.Value), tok.Range, true
	case token.Number:
		p.next()
		val, err := cty.ParseNumberVal(tok.Lexeme)
		if err != nil {
			p.errorf(tok.Range, "invalid number '%s'", tok.Lexeme)
			return cty.NilVal, tok.Range, false
		}
		return val, tok.Range, true
	case token.Ident:
		p.next()
		switch tok.Lexeme {
		case "true":
			return cty.True, tok.Range, true
		case "false":
			return cty.False, tok.Range, true
		default:
			// Bare identifier: an enum value name.
			return cty.StringVal(tok.Lexeme), tok.Range, true
		}
	default:
		p.errorf(tok.Range, "expected a %s, got %s", what, tok.Describe())
		return cty.NilVal, tok.Range, false
	}
}
