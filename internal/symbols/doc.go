// Package symbols tracks local names during emission: a stack of lexical
// frames with declared locals, temporaries allocated per purpose, and
// collision-free synthesized identifiers.
package symbols
