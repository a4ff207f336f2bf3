// Package lexer turns raw module source text into a token stream. Block
// structure is synthesized from indentation in the Python style: deeper
// indentation emits Indent tokens, returning to an outer recorded width
// emits Dedent tokens, and a width that matches no open block is a
// lexical error. Tabs in indentation are rejected outright because their
// visual width is ambiguous.
package lexer
