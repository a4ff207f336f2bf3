// Package compiler is the pipeline facade: lex and parse every module on
// a worker pool, join, link sequentially, then validate concurrently.
// Diagnostics from all stages are accumulated and returned together.
package compiler
