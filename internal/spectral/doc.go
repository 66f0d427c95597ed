// Package spectral scores how much of each transcript segment's spectral
// energy sits in the human speech band.
//
// A single short-time Fourier transform of the whole waveform is computed per
// call and reduced to per-frame band means; each segment then reads its slice
// of those means. Segments that fall outside the waveform or span less than
// one frame get no feature, which downstream means "not eligible for
// correction". Silent slices produce a NoSignal feature instead of NaN ratios.
package spectral
