// Package trace records where a compilation spends its time and what it is
// doing, as structured events.
//
// Events are spans (begin/end pairs) or points, each tagged with a Scope
// describing its granularity: the driver, an emission pass, one type, or one
// member. The Level decides which scopes are emitted:
//
//	off    nothing
//	error  only failures (reserved for crash paths)
//	phase  driver and passes
//	detail + types
//	debug  + members
//
// Emitters never hold a Tracer directly; they obtain it with FromContext so
// tracing stays optional and costs nothing when disabled (Nop).
//
//	span := trace.Begin(tr, trace.ScopeType, "decl:"+name, parent.ID())
//	defer span.End("")
package trace
