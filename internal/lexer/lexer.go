package lexer

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/dazzle-lang/dazzle/internal/diag"
	"github.com/dazzle-lang/dazzle/internal/token"
)

// Scan converts one module's source text into a token stream. Block
// structure is synthesized: a deeper indentation on a non-blank line emits
// Indent, returning to a shallower recorded width emits one Dedent per
// closed level. Comments and blank lines are dropped before indentation is
// compared, so a comment-only line can never open or close a block.
//
// Diagnostics are accumulated: an illegal character or a bad indentation
// does not stop the scan, so one call reports every lexical problem in the
// file.
func Scan(src, filename string) ([]token.Token, diag.Diagnostics) {
	s := &scanner{
		filename: filename,
		indents:  []int{0},
	}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		s.scanLine(line, i+1)
	}
	// Close any blocks still open at end of file.
	endLine := len(lines)
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(token.Token{Kind: token.Dedent, Range: diag.RangeAt(filename, endLine, 1)})
	}
	s.emit(token.Token{Kind: token.EOF, Range: diag.RangeAt(filename, endLine, 1)})
	return s.tokens, s.diags
}

type scanner struct {
	filename string
	indents  []int
	tokens   []token.Token
	diags    diag.Diagnostics
}

func (s *scanner) emit(t token.Token) {
	s.tokens = append(s.tokens, t)
}

func (s *scanner) errorf(line, col int, format string, args ...any) {
	s.diags = s.diags.Append(&diag.Diagnostic{
		Severity: diag.SeverityError,
		Stage:    diag.StageLex,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  diag.RangeAt(s.filename, line, col),
	})
}

// scanLine tokenizes a single physical line. lineNo is 1-based.
func (s *scanner) scanLine(line string, lineNo int) {
	content, indent, ok := s.measureIndent(line, lineNo)
	if !ok {
		return
	}
	if content == "" {
		return // blank or comment-only line
	}

	s.applyIndent(indent, lineNo)
	before := len(s.tokens)
	s.scanTokens(content, indent, lineNo)
	if len(s.tokens) == before {
		return // every character on the line was illegal
	}
	last := s.tokens[len(s.tokens)-1]
	s.emit(token.Token{Kind: token.Newline, Range: diag.RangeAt(s.filename, lineNo, last.Range.End.Column)})
}

// measureIndent strips the comment tail and returns the meaningful content
// (indentation removed) plus the indentation width. Tabs in the indentation
// are a hard error: their visual width is ambiguous.
func (s *scanner) measureIndent(line string, lineNo int) (content string, indent int, ok bool) {
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	if indent < len(line) && line[indent] == '\t' {
		s.errorf(lineNo, indent+1, "tab character in indentation; use spaces only")
		return "", 0, false
	}

	rest := strings.TrimRight(line[indent:], " \r")
	if rest == "" || strings.HasPrefix(rest, "#") {
		return "", 0, true
	}
	return rest, indent, true
}

// applyIndent compares the line's indentation width against the stack of
// open block widths and emits Indent/Dedent tokens.
func (s *scanner) applyIndent(width, lineNo int) {
	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.emit(token.Token{Kind: token.Indent, Range: diag.RangeAt(s.filename, lineNo, 1)})
	case width < top:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(token.Token{Kind: token.Dedent, Range: diag.RangeAt(s.filename, lineNo, 1)})
		}
		if s.indents[len(s.indents)-1] != width {
			s.errorf(lineNo, width+1, "unindent does not match any outer indentation level")
			// Recover by treating this width as the current level.
			s.indents = append(s.indents, width)
		}
	}
}

// scanTokens tokenizes the content of a line. offset is the number of
// leading spaces stripped, used to report 1-based columns.
func (s *scanner) scanTokens(content string, offset, lineNo int) {
	i := 0
	col := func(pos int) int { return offset + pos + 1 }
	for i < len(content) {
		c := content[i]
		switch {
		case c == ' ':
			i++
		case c == '\t':
			s.errorf(lineNo, col(i), "tab character; use spaces only")
			i++
		case isIdentStart(c):
			start := i
			for i < len(content) && isIdentPart(content[i]) {
				i++
			}
			lexeme := content[start:i]
			kind := token.Ident
			if token.IsKeyword(lexeme) {
				kind = token.Keyword
			}
			s.emit(token.Token{Kind: kind, Lexeme: lexeme, Range: s.span(lineNo, col(start), col(i))})
		case c >= '0' && c <= '9':
			start := i
			for i < len(content) && content[i] >= '0' && content[i] <= '9' {
				i++
			}
			if i < len(content) && content[i] == '.' && i+1 < len(content) && content[i+1] >= '0' && content[i+1] <= '9' {
				i++
				for i < len(content) && content[i] >= '0' && content[i] <= '9' {
					i++
				}
			}
			s.emit(token.Token{Kind: token.Number, Lexeme: content[start:i], Range: s.span(lineNo, col(start), col(i))})
		case c == '"':
			start := i
			value, next, terr := scanString(content, i)
			if terr != "" {
				s.errorf(lineNo, col(start), "%s", terr)
				i = len(content)
				continue
			}
			i = next
			s.emit(token.Token{
				Kind:   token.String,
				Lexeme: content[start:i],
				Value:  value,
				Range:  s.span(lineNo, col(start), col(i)),
			})
		case c == ':':
			s.emit(token.Token{Kind: token.Colon, Lexeme: ":", Range: s.span(lineNo, col(i), col(i+1))})
			i++
		case c == ',':
			s.emit(token.Token{Kind: token.Comma, Lexeme: ",", Range: s.span(lineNo, col(i), col(i+1))})
			i++
		case c == '(':
			s.emit(token.Token{Kind: token.LParen, Lexeme: "(", Range: s.span(lineNo, col(i), col(i+1))})
			i++
		case c == ')':
			s.emit(token.Token{Kind: token.RParen, Lexeme: ")", Range: s.span(lineNo, col(i), col(i+1))})
			i++
		case c == '=':
			s.emit(token.Token{Kind: token.Assign, Lexeme: "=", Range: s.span(lineNo, col(i), col(i+1))})
			i++
		case c == '.':
			s.emit(token.Token{Kind: token.Dot, Lexeme: ".", Range: s.span(lineNo, col(i), col(i+1))})
			i++
		case c == '-' && i+1 < len(content) && content[i+1] == '>':
			s.emit(token.Token{Kind: token.Arrow, Lexeme: "->", Range: s.span(lineNo, col(i), col(i+2))})
			i += 2
		case c == '#':
			// Trailing comment: the rest of the line is ignored.
			i = len(content)
		default:
			s.errorf(lineNo, col(i), "illegal character %q", string(c))
			i++
		}
	}
}

func (s *scanner) span(line, startCol, endCol int) hcl.Range {
	return hcl.Range{
		Filename: s.filename,
		Start:    hcl.Pos{Line: line, Column: startCol},
		End:      hcl.Pos{Line: line, Column: endCol},
	}
}

// scanString consumes a double-quoted literal starting at content[start].
// It returns the decoded value and the index just past the closing quote,
// or a non-empty error message.
func scanString(content string, start int) (value string, next int, errMsg string) {
	var b strings.Builder
	i := start + 1
	for i < len(content) {
		c := content[i]
		switch c {
		case '"':
			return b.String(), i + 1, ""
		case '\\':
			if i+1 >= len(content) {
				return "", 0, "unterminated string literal"
			}
			switch content[i+1] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return "", 0, fmt.Sprintf("unknown escape sequence '\\%s'", string(content[i+1]))
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, "unterminated string literal"
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
