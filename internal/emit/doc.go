// Package emit provides the emission cursor: indentation with a restorable
// floor, punctuation primitives, and a stack of output writers that lets
// nested emitters render into a buffer and merge it into the caller's
// stream later.
package emit
