// Package translate holds the per-compilation state shared by every
// emission pass: the resolution cache, the scope stack, the emission cursor
// and the bookkeeping of the async method being emitted, plus the emitted
// names of members so that every pass agrees on them.
package translate
