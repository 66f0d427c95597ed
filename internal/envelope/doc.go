// Package envelope locates speech onsets and offsets inside transcript
// segments from the RMS energy envelope of the waveform.
//
// The envelope is computed once per buffer with the same centered frame
// layout the spectral analyzer uses, so frame indices line up between the
// two analyses. Each segment is sliced out of the envelope, thresholded at a
// fraction of its own peak, and reported as a Feature keyed by segment index.
package envelope
