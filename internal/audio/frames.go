package audio

import "math"

// FrameCount returns the number of centered analysis frames for n samples at
// the given hop. Frame k is centered on sample k*hop, with the signal padded by
// half a frame on both sides.
func FrameCount(n, hop int) int {
	if n <= 0 || hop <= 0 {
		return 0
	}
	return 1 + n/hop
}

// FrameIndex maps a time in seconds to the frame whose center precedes it.
func FrameIndex(seconds float64, sampleRate, hop int) int {
	return int(math.Floor(seconds * float64(sampleRate) / float64(hop)))
}

// FrameTime returns the center time of frame k in seconds.
func FrameTime(k, sampleRate, hop int) float64 {
	return float64(k*hop) / float64(sampleRate)
}

// CenteredFrame copies the frame centered on sample k*hop into dst, zero
// filling whatever falls outside the signal.
func CenteredFrame(dst []float64, samples []float32, k, hop int) {
	start := k*hop - len(dst)/2
	for i := range dst {
		idx := start + i
		if idx < 0 || idx >= len(samples) {
			dst[i] = 0
			continue
		}
		dst[i] = float64(samples[idx])
	}
}
