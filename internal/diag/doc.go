// Package diag defines the structured diagnostics shared by every
// compiler stage. Diagnostics are plain data, accumulated and returned,
// never thrown; source positions use hcl ranges so the CLI can render
// them with hcl's diagnostic writer.
package diag
