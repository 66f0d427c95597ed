// Package correction fuses spectral and envelope evidence into corrected
// segment boundaries.
//
// Fuse applies a fixed rule cascade per segment (interlude override, confident
// large correction, weighted ambiguous case, default) and records which rule
// fired. Engine wraps the analyzers and the cascade behind one call that
// degrades to pass-through when no usable audio is supplied.
package correction
