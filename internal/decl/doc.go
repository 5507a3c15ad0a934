// Package decl renders the declaration file: it projects source types onto
// the structural declaration type system and writes member signatures
// (fields, event and property accessor pairs, methods) for each type.
package decl
