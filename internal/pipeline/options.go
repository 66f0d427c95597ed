package pipeline

import (
	"subfix/internal/config"
	"subfix/internal/correction"
	"subfix/internal/envelope"
	"subfix/internal/faults"
	"subfix/internal/spectral"
	"subfix/internal/subtitle"
)

// Options configures a Runner.
type Options struct {
	Correction           correction.Options
	Normalize            subtitle.Options
	Format               subtitle.Format
	FilterHallucinations bool
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return Options{
		Correction: correction.DefaultOptions(),
		Normalize:  subtitle.DefaultOptions(),
		Format:     subtitle.FormatSRT,
	}
}

// OptionsFromConfig maps a validated configuration onto stage options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return DefaultOptions(), nil
	}
	format, err := subtitle.ParseFormat(cfg.Output.Format)
	if err != nil {
		return Options{}, faults.Wrap(faults.ErrConfiguration, "pipeline", "options", "output.format", err)
	}

	a, c, n := cfg.Analysis, cfg.Correction, cfg.Normalize
	return Options{
		Correction: correction.Options{
			Spectral: spectral.Options{
				FrameLength:             a.FrameLength,
				HopLength:               a.HopLength,
				SpeechLowHz:             a.SpeechBandLowHz,
				SpeechHighHz:            a.SpeechBandHighHz,
				LowBandLowHz:            a.LowBandLowHz,
				LowBandHighHz:           a.LowBandHighHz,
				InterludeVariationRatio: a.InterludeVariationRatio,
				InterludeVariationMax:   a.InterludeVariationMax,
			},
			Envelope: envelope.Options{
				FrameLength:    a.FrameLength,
				HopLength:      a.HopLength,
				ThresholdRatio: a.EnvelopeThresholdRatio,
			},
			Thresholds: correction.Thresholds{
				InterludePurityMax:        c.InterludePurityMax,
				LargeCorrectionSeconds:    c.LargeCorrectionSeconds,
				LargeCorrectionConfidence: c.LargeCorrectionConfidence,
				AmbiguousPurityMax:        c.AmbiguousPurityMax,
				AmbiguousRatioMax:         c.AmbiguousRatioMax,
				AmbiguousConfidenceMin:    c.AmbiguousConfidenceMin,
			},
			Sequential: !c.Parallel,
		},
		Normalize: subtitle.Options{
			MinGap:         n.MinGapSeconds,
			MinDuration:    n.MinDurationSeconds,
			ShortCue:       n.ShortCueSeconds,
			SecondsPerChar: n.SecondsPerChar,
			LongTextChars:  n.LongTextChars,
			LongTextMax:    n.LongTextMaxSeconds,
			RepairDuration: n.RepairDurationSeconds,
		},
		Format:               format,
		FilterHallucinations: n.FilterHallucinations,
	}, nil
}
