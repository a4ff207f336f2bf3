// Package app wires the compiler pipeline into a runnable application:
// it discovers and reads the project's modules, configures logging,
// invokes the compiler, and renders the resulting diagnostics.
package app
