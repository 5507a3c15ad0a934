// Package jsgen renders the runtime output: namespaces, enum objects and a
// constructor function per class or struct with its fields, accessors,
// events and methods. Member bodies arrive already lowered and are written
// through a BodyEmitter.
package jsgen
