package config

const (
	defaultConfigPath = "~/.config/subfix/config.toml"

	defaultFrameLength             = 2048
	defaultHopLength               = 512
	defaultSpeechBandLowHz         = 85.0
	defaultSpeechBandHighHz        = 4000.0
	defaultLowBandLowHz            = 20.0
	defaultLowBandHighHz           = 200.0
	defaultEnvelopeThresholdRatio  = 0.3
	defaultInterludeVariationRatio = 0.5
	defaultInterludeVariationMax   = 0.1

	defaultInterludePurityMax        = 0.3
	defaultLargeCorrectionSeconds    = 1.0
	defaultLargeCorrectionConfidence = 0.7
	defaultAmbiguousPurityMax        = 0.5
	defaultAmbiguousRatioMax         = 0.5
	defaultAmbiguousConfidenceMin    = 0.6

	defaultMinGapSeconds         = 0.1
	defaultMinDurationSeconds    = 0.3
	defaultShortCueSeconds       = 0.5
	defaultSecondsPerChar        = 0.08
	defaultLongTextChars         = 20
	defaultLongTextMaxSeconds    = 1.0
	defaultRepairDurationSeconds = 1.0

	defaultOutputFormat = "srt"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			FrameLength:             defaultFrameLength,
			HopLength:               defaultHopLength,
			SpeechBandLowHz:         defaultSpeechBandLowHz,
			SpeechBandHighHz:        defaultSpeechBandHighHz,
			LowBandLowHz:            defaultLowBandLowHz,
			LowBandHighHz:           defaultLowBandHighHz,
			EnvelopeThresholdRatio:  defaultEnvelopeThresholdRatio,
			InterludeVariationRatio: defaultInterludeVariationRatio,
			InterludeVariationMax:   defaultInterludeVariationMax,
		},
		Correction: Correction{
			InterludePurityMax:        defaultInterludePurityMax,
			LargeCorrectionSeconds:    defaultLargeCorrectionSeconds,
			LargeCorrectionConfidence: defaultLargeCorrectionConfidence,
			AmbiguousPurityMax:        defaultAmbiguousPurityMax,
			AmbiguousRatioMax:         defaultAmbiguousRatioMax,
			AmbiguousConfidenceMin:    defaultAmbiguousConfidenceMin,
			Parallel:                  true,
		},
		Normalize: Normalize{
			MinGapSeconds:         defaultMinGapSeconds,
			MinDurationSeconds:    defaultMinDurationSeconds,
			ShortCueSeconds:       defaultShortCueSeconds,
			SecondsPerChar:        defaultSecondsPerChar,
			LongTextChars:         defaultLongTextChars,
			LongTextMaxSeconds:    defaultLongTextMaxSeconds,
			RepairDurationSeconds: defaultRepairDurationSeconds,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
