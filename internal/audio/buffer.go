package audio

import (
	"fmt"
	"math"

	"subfix/internal/faults"
)

// Buffer is a read-only mono waveform. The samples slice is owned by the
// caller and must not be modified while analyzers hold the buffer.
type Buffer struct {
	samples    []float32
	sampleRate int
}

// NewBuffer wraps samples recorded at sampleRate Hz. A negative sample rate is
// a precondition violation; an empty buffer or a zero rate is accepted and
// reported later as unavailable audio.
func NewBuffer(samples []float32, sampleRate int) (Buffer, error) {
	if sampleRate < 0 {
		return Buffer{}, faults.Wrap(faults.ErrPrecondition, "audio", "new buffer",
			fmt.Sprintf("sample rate must not be negative (got %d)", sampleRate), nil)
	}
	return Buffer{samples: samples, sampleRate: sampleRate}, nil
}

// Samples returns the underlying samples. Callers must treat them as read-only.
func (b Buffer) Samples() []float32 { return b.samples }

// SampleRate returns the rate in Hz.
func (b Buffer) SampleRate() int { return b.sampleRate }

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.samples) }

// Duration returns the buffer length in seconds, or 0 when the rate is unknown.
func (b Buffer) Duration() float64 {
	if b.sampleRate <= 0 {
		return 0
	}
	return float64(len(b.samples)) / float64(b.sampleRate)
}

// Check reports why the buffer cannot be analyzed. It returns nil for a
// usable buffer and an error marked faults.ErrAudioUnavailable otherwise.
func (b Buffer) Check() error {
	switch {
	case b.sampleRate <= 0:
		return faults.Wrap(faults.ErrAudioUnavailable, "audio", "check", "sample rate is not set", nil)
	case len(b.samples) == 0:
		return faults.Wrap(faults.ErrAudioUnavailable, "audio", "check", "buffer is empty", nil)
	}
	for i, s := range b.samples {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return faults.Wrap(faults.ErrAudioUnavailable, "audio", "check",
				fmt.Sprintf("sample %d is not finite", i), nil)
		}
	}
	return nil
}
