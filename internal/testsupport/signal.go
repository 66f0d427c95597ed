package testsupport

import (
	"math"
	"testing"

	"subfix/internal/audio"
)

// Tone is a sine component in a Span.
type Tone struct {
	Freq float64 // Hz
	Amp  float64 // linear peak amplitude
}

// Span places sound in [Start, End) seconds. Tones are summed, optionally
// amplitude modulated at ModHz (a raised-cosine syllable-like envelope), and
// Noise adds deterministic white noise at the given linear amplitude.
type Span struct {
	Start float64
	End   float64
	Tones []Tone
	ModHz float64
	Noise float64
}

// Synth renders spans into a mono waveform of the given length. Samples not
// covered by any span are silent.
func Synth(sampleRate int, seconds float64, spans ...Span) []float32 {
	total := int(seconds * float64(sampleRate))
	out := make([]float32, total)

	// LCG from Numerical Recipes keeps noise reproducible across runs.
	rng := uint32(12345)
	next := func() float64 {
		rng = rng*1664525 + 1013904223
		return (float64(rng)/float64(math.MaxUint32))*2 - 1
	}

	for _, span := range spans {
		from := int(span.Start * float64(sampleRate))
		to := int(span.End * float64(sampleRate))
		if from < 0 {
			from = 0
		}
		if to > total {
			to = total
		}
		for i := from; i < to; i++ {
			t := float64(i) / float64(sampleRate)
			var v float64
			for _, tone := range span.Tones {
				v += tone.Amp * math.Sin(2*math.Pi*tone.Freq*t)
			}
			if span.ModHz > 0 {
				v *= 0.5 * (1 - math.Cos(2*math.Pi*span.ModHz*(t-span.Start)))
			}
			if span.Noise > 0 {
				v += span.Noise * next()
			}
			out[i] += float32(v)
		}
	}
	return out
}

// Buffer wraps Synth output in an audio.Buffer, failing the test on error.
func Buffer(t testing.TB, sampleRate int, seconds float64, spans ...Span) audio.Buffer {
	t.Helper()
	buf, err := audio.NewBuffer(Synth(sampleRate, seconds, spans...), sampleRate)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	return buf
}

// Speech returns a span that mimics voiced speech: a few harmonics inside the
// speech band and well clear of the low band, modulated at a syllable rate.
func Speech(start, end float64) Span {
	return Span{
		Start: start,
		End:   end,
		Tones: []Tone{{Freq: 440, Amp: 0.3}, {Freq: 880, Amp: 0.2}, {Freq: 1760, Amp: 0.1}},
		ModHz: 4,
	}
}

// Hum returns a steady low-frequency bed, the typical shape of a music
// interlude under an ASR segment.
func Hum(start, end float64) Span {
	return Span{
		Start: start,
		End:   end,
		Tones: []Tone{{Freq: 50, Amp: 0.4}},
	}
}
