// Package validator runs the semantic rule groups over a linked AppSpec.
// Groups are independent and strictly read-only, so they execute
// concurrently; their findings are merged and sorted so output stays
// deterministic. Referential integrity is guaranteed by the linker and
// only re-checked defensively here; the real work is the higher-level
// invariants: primary keys, step reachability, expression resolution,
// auth-profile completeness, and (in strict mode) lint rules.
package validator
