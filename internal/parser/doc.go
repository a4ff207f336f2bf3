// Package parser builds a module's pre-link representation from its token
// stream by recursive descent, one rule per construct. Every rule consumes
// an indentation-delimited block. On a malformed construct the parser
// records a diagnostic and resynchronizes at the next top-level keyword,
// so a single typo does not suppress the diagnostics for the rest of the
// file. Cross-module references are kept raw; only the linker can resolve
// them.
package parser
