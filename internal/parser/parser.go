package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/dazzle-lang/dazzle/internal/ast"
	"github.com/dazzle-lang/dazzle/internal/diag"
	"github.com/dazzle-lang/dazzle/internal/token"
)

// ParseModule consumes one module's token stream and produces its pre-link
// representation. Parsing is a pure function of its inputs, so every module
// of a project can be parsed concurrently.
//
// On a malformed construct the parser records a diagnostic and
// resynchronizes at the next top-level keyword, so one typo does not
// suppress diagnostics for the rest of the file. A module with parse errors
// still returns its successfully parsed declarations; the compiler discards
// them before linking.
func ParseModule(tokens []token.Token, moduleName, filename string) (*ast.Module, diag.Diagnostics) {
	p := &parser{
		tokens:   tokens,
		filename: filename,
		mod: &ast.Module{
			Name:     moduleName,
			Filename: filename,
			Fragment: &ast.ModuleFragment{},
		},
	}
	p.parseTopLevel()
	return p.mod, p.diags
}

type parser struct {
	tokens   []token.Token
	pos      int
	filename string
	diags    diag.Diagnostics
	mod      *ast.Module
}

func (p *parser) parseTopLevel() {
	for !p.at(token.EOF) {
		tok := p.peek()
		if tok.Kind != token.Keyword {
			p.errorf(tok.Range, "expected a top-level declaration (app, use, entity, surface, experience, service, foreign_model or integration), got %s", tok.Describe())
			p.resync()
			continue
		}
		ok := false
		switch tok.Lexeme {
		case "app":
			ok = p.parseApp()
		case "use":
			ok = p.parseUse()
		case "entity":
			ok = p.parseEntity()
		case "surface":
			ok = p.parseSurface()
		case "experience":
			ok = p.parseExperience()
		case "service":
			ok = p.parseService()
		case "foreign_model":
			ok = p.parseForeignModel()
		case "integration":
			ok = p.parseIntegration()
		}
		if !ok {
			p.resync()
		}
	}
}

// --- token cursor ---

func (p *parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF, Range: diag.RangeAt(p.filename, 1, 1)}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) at(k token.Kind) bool { return p.peek().Kind == k }

// accept consumes and returns true if the next token has the given kind.
func (p *parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

// expect consumes a token of the given kind or records a diagnostic.
func (p *parser) expect(k token.Kind, context string) (token.Token, bool) {
	if t, ok := p.accept(k); ok {
		return t, true
	}
	got := p.peek()
	p.errorf(got.Range, "expected %s %s, got %s", k, context, got.Describe())
	return got, false
}

// expectIdent consumes an identifier, describing its role on failure.
func (p *parser) expectIdent(role string) (token.Token, bool) {
	if t, ok := p.accept(token.Ident); ok {
		return t, true
	}
	got := p.peek()
	p.errorf(got.Range, "expected %s, got %s", role, got.Describe())
	return got, false
}

// expectWord consumes an identifier with an exact spelling.
func (p *parser) expectWord(word string) bool {
	if p.peek().IsLexeme(word) {
		p.next()
		return true
	}
	got := p.peek()
	p.errorf(got.Range, "expected '%s', got %s", word, got.Describe())
	return false
}

func (p *parser) errorf(rng hcl.Range, format string, args ...any) {
	p.diags = p.diags.Append(&diag.Diagnostic{
		Severity: diag.SeverityError,
		Stage:    diag.StageParse,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  rng,
	})
}

// --- recovery ---

// resync skips forward to the next top-level keyword, balancing any
// indentation blocks crossed on the way.
func (p *parser) resync() {
	depth := 0
	for {
		switch p.peek().Kind {
		case token.EOF:
			return
		case token.Indent:
			depth++
		case token.Dedent:
			if depth > 0 {
				depth--
			}
		case token.Keyword:
			if depth == 0 {
				return
			}
		}
		p.next()
	}
}

// skipLine consumes the rest of the current line, plus any indented block
// that follows it. Used to recover inside a construct body without losing
// the sibling lines.
func (p *parser) skipLine() {
	for !p.at(token.Newline) && !p.at(token.EOF) && !p.at(token.Dedent) {
		p.next()
	}
	p.accept(token.Newline)
	p.skipBlock()
}

// skipBlock consumes a balanced Indent..Dedent region if one starts here.
func (p *parser) skipBlock() {
	if !p.at(token.Indent) {
		return
	}
	depth := 0
	for {
		switch p.peek().Kind {
		case token.EOF:
			return
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
			if depth == 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}

// --- shared productions ---

// endOfLine consumes the newline terminating a simple statement.
func (p *parser) endOfLine() bool {
	if _, ok := p.accept(token.Newline); ok {
		return true
	}
	if p.at(token.EOF) || p.at(token.Dedent) {
		return true
	}
	got := p.peek()
	p.errorf(got.Range, "unexpected %s before end of line", got.Describe())
	p.skipLine()
	return false
}

// header parses `<keyword> <name> ["<title>"]` and reports the construct
// name token. The caller consumes the keyword beforehand.
func (p *parser) header(role string) (name token.Token, title string, ok bool) {
	name, ok = p.expectIdent(role)
	if !ok {
		return name, "", false
	}
	if t, found := p.accept(token.String); found {
		title = t.Value
	}
	return name, title, true
}

// blockStart parses the `:` newline indent sequence that opens a body.
func (p *parser) blockStart() bool {
	if _, ok := p.expect(token.Colon, "to open the block"); !ok {
		return false
	}
	if _, ok := p.expect(token.Newline, "after ':'"); !ok {
		return false
	}
	if _, ok := p.expect(token.Indent, "(an indented block)"); !ok {
		return false
	}
	return true
}

// blockEnd consumes the closing Dedent of a body.
func (p *parser) blockEnd() {
	if _, ok := p.accept(token.Dedent); ok {
		return
	}
	// Body loop already stops at Dedent/EOF, so reaching here means EOF.
}

// dottedName parses `ident ('.' ident)*` and returns the joined text.
func (p *parser) dottedName(role string) (string, hcl.Range, bool) {
	first, ok := p.expectIdent(role)
	if !ok {
		return "", first.Range, false
	}
	name := first.Lexeme
	rng := first.Range
	for {
		if _, ok := p.accept(token.Dot); !ok {
			break
		}
		part, ok := p.expectIdent("name after '.'")
		if !ok {
			return "", rng, false
		}
		name += "." + part.Lexeme
		rng.End = part.Range.End
	}
	return name, rng, true
}

func (p *parser) ref(t token.Token) ast.Ref {
	return ast.Ref{Name: t.Lexeme, Range: t.Range}
}

// expectOneOf consumes a word (identifier or keyword) and checks it against
// a closed set. The token is not consumed when something other than a word
// is found, keeping line recovery intact.
func (p *parser) expectOneOf(what string, allowed ...string) (token.Token, bool) {
	t := p.peek()
	if t.Kind != token.Ident && t.Kind != token.Keyword {
		p.errorf(t.Range, "expected %s, got %s", what, t.Describe())
		return t, false
	}
	p.next()
	return t, p.oneOf(t, what, allowed...)
}

// oneOf checks a parsed word against a closed set, reporting the set on
// failure.
func (p *parser) oneOf(t token.Token, what string, allowed ...string) bool {
	for _, a := range allowed {
		if t.Lexeme == a {
			return true
		}
	}
	p.errorf(t.Range, "invalid %s '%s' (expected one of: %s)", what, t.Lexeme, join(allowed))
	return false
}

func join(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += ", "
		}
		out += w
	}
	return out
}

// --- app / use ---

// parseApp handles `app <name> "<title>"`. Whether this module is allowed
// to carry an app header is the linker's decision.
func (p *parser) parseApp() bool {
	kw := p.next()
	name, ok := p.expectIdent("application name after 'app'")
	if !ok {
		return false
	}
	title, ok := p.expect(token.String, "(the application title)")
	if !ok {
		return false
	}
	if p.mod.AppName != "" {
		p.errorf(kw.Range, "duplicate 'app' header (previous at line %d)", p.mod.AppRange.Start.Line)
		return p.endOfLine()
	}
	p.mod.AppName = name.Lexeme
	p.mod.AppTitle = title.Value
	p.mod.AppRange = kw.Range
	return p.endOfLine()
}

// parseUse handles `use <module.path>`.
func (p *parser) parseUse() bool {
	p.next()
	name, rng, ok := p.dottedName("module path after 'use'")
	if !ok {
		return false
	}
	p.mod.Fragment.Uses = append(p.mod.Fragment.Uses, ast.Use{Module: name, Range: rng})
	return p.endOfLine()
}
