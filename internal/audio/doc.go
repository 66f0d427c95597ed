// Package audio holds the immutable mono waveform the analyzers read and the
// raw PCM reader the CLI uses to load one from disk.
//
// Decoding and resampling happen upstream; this package only accepts samples
// that are already mono at a known rate.
package audio
