package spectral

// Options controls the STFT layout, the frequency bands, and the interlude
// test. Defaults were tuned by ear on film and podcast audio and should be
// recalibrated for other corpora.
type Options struct {
	FrameLength int
	HopLength   int

	SpeechLowHz   float64
	SpeechHighHz  float64
	LowBandLowHz  float64
	LowBandHighHz float64

	// InterludeVariationRatio bounds the low-band variation relative to the
	// speech-band variation for a slice to count as a flat musical bed.
	InterludeVariationRatio float64
	// InterludeVariationMax is the absolute ceiling on speech-band variation.
	InterludeVariationMax float64
}

const (
	DefaultFrameLength             = 2048
	DefaultHopLength               = 512
	DefaultSpeechLowHz             = 85.0
	DefaultSpeechHighHz            = 4000.0
	DefaultLowBandLowHz            = 20.0
	DefaultLowBandHighHz           = 200.0
	DefaultInterludeVariationRatio = 0.5
	DefaultInterludeVariationMax   = 0.1
)

// DefaultOptions returns the standard analysis layout.
func DefaultOptions() Options {
	return Options{
		FrameLength:             DefaultFrameLength,
		HopLength:               DefaultHopLength,
		SpeechLowHz:             DefaultSpeechLowHz,
		SpeechHighHz:            DefaultSpeechHighHz,
		LowBandLowHz:            DefaultLowBandLowHz,
		LowBandHighHz:           DefaultLowBandHighHz,
		InterludeVariationRatio: DefaultInterludeVariationRatio,
		InterludeVariationMax:   DefaultInterludeVariationMax,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FrameLength <= 0 {
		o.FrameLength = d.FrameLength
	}
	if o.HopLength <= 0 {
		o.HopLength = d.HopLength
	}
	if o.SpeechHighHz <= o.SpeechLowHz {
		o.SpeechLowHz, o.SpeechHighHz = d.SpeechLowHz, d.SpeechHighHz
	}
	if o.LowBandHighHz <= o.LowBandLowHz {
		o.LowBandLowHz, o.LowBandHighHz = d.LowBandLowHz, d.LowBandHighHz
	}
	if o.InterludeVariationRatio <= 0 {
		o.InterludeVariationRatio = d.InterludeVariationRatio
	}
	if o.InterludeVariationMax <= 0 {
		o.InterludeVariationMax = d.InterludeVariationMax
	}
	return o
}
