// Package linker resolves a parsed project into one immutable AppSpec.
//
// Linking proceeds in phases over a single linkContext value (no globals):
// the module dependency graph is built from `use` declarations and checked
// for cycles (reported with their full path), a global symbol table is
// built in deterministic topological order, every cross-reference is
// resolved under explicit-import enforcement, and the fragments are merged
// into the flat AppSpec collections. All detected problems are accumulated
// in one pass; an AppSpec is only returned when no errors were found.
//
// Explicit-import enforcement means a reference may only name a symbol
// declared by the referencing module itself or by a module in its `use`
// list, even when the name is unique project-wide. The resulting error
// names the exact `use` statement to add.
package linker
