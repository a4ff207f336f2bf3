// Package token defines the lexical tokens of the dazzle DSL.
package token

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Kind represents the kind of token.
type Kind int

const (
	EOF Kind = iota

	// Layout tokens synthesized by the lexer.
	Newline
	Indent
	Dedent

	// Literals and identifiers.
	Ident
	Keyword
	String
	Number

	// Punctuation.
	Colon  // ":"
	Comma  // ","
	LParen // "("
	RParen // ")"
	Assign // "="
	Arrow  // "->"
	Dot    // "."
)

// String implements fmt.Stringer for diagnostics and tests.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Newline:
		return "newline"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case Ident:
		return "identifier"
	case Keyword:
		return "keyword"
	case String:
		return "string"
	case Number:
		return "number"
	case Colon:
		return "':'"
	case Comma:
		return "','"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Assign:
		return "'='"
	case Arrow:
		return "'->'"
	case Dot:
		return "'.'"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// keywords holds the top-level construct words. Body-level words such as
// "mode" or "section" stay ordinary identifiers so they remain usable as
// field and construct names.
var keywords = map[string]bool{
	"app":           true,
	"use":           true,
	"entity":        true,
	"surface":       true,
	"experience":    true,
	"service":       true,
	"foreign_model": true,
	"integration":   true,
}

// IsKeyword reports whether the identifier text is a reserved top-level
// construct keyword.
func IsKeyword(text string) bool {
	return keywords[text]
}

// Token is one lexical token with its source location.
type Token struct {
	Kind   Kind
	Lexeme string
	// Value carries the decoded text for String tokens (quotes and escapes
	// removed). Empty for every other kind.
	Value string
	Range hcl.Range
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsLexeme reports whether the token is an identifier or keyword with the
// given spelling.
func (t Token) IsLexeme(text string) bool {
	return (t.Kind == Ident || t.Kind == Keyword) && t.Lexeme == text
}

// Describe renders the token for "got X" parts of error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident, Keyword, Number:
		return fmt.Sprintf("'%s'", t.Lexeme)
	case String:
		return fmt.Sprintf("%q", t.Value)
	case EOF, Newline, Indent, Dedent:
		return t.Kind.String()
	default:
		return t.Kind.String()
	}
}
