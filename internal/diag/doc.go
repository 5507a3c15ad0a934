// Package diag defines the diagnostic model shared by every emission pass.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (MOD/RES/DCL/EMT prefixes), a short Message, the Location of
// the offending declaration and the Subject (owning type and member) it is
// about.
//
// Passes report through a Reporter so they do not depend on storage.
// BagReporter collects into a Bag, which supports sorting and deduplication;
// DedupReporter filters repeats produced by multiple passes over one program.
// Rendering lives in internal/diagfmt.
//
// Diagnostics describe problems in the input program. Bugs in the emitter
// itself (scope or writer stack misuse) are not diagnostics; they panic.
package diag
